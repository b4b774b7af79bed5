package product

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Garment category: suit, kaftan, agbada, shirt, trousers, ...
	Category string `json:"category"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price     string    `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// category filter applied
	Category string `json:"category,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        binding:"required" example:"Classic Two-Piece Suit"`
	Description string `json:"description" example:"Wool blend, fully canvassed"`
	Category    string `json:"category"    binding:"required" example:"suit"`
	Price       string `json:"price"       binding:"required" example:"85000.00"`
	ImageURL    string `json:"image_url"   example:"https://cdn.fashionsmith.app/suits/classic.jpg"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	Active      *bool  `json:"active"`
}
