package order

import "time"

// CreateOrderRequest payload for placing an order. Cost is computed
// server-side from the catalog price; clients never send totals.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	ProductID       string    `json:"product_id" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity        int       `json:"quantity" binding:"required,gt=0" example:"1"`
	DeliveryDate    time.Time `json:"delivery_date" binding:"required"`
	DeliveryAddress string    `json:"delivery_address" binding:"required" example:"12 Bourdillon Rd, Ikoyi, Lagos"`
}

// UpdateOrderStatusRequest admin status transition.
// swagger:model UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	ID     string `json:"id" binding:"required"`
	Status Status `json:"status" binding:"required"`
}
