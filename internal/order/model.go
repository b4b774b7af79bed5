package order

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusReady      Status = "Ready"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
	StatusFailed     Status = "Failed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

type Order struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	// Garment description snapshot taken at order time, so catalog edits
	// don't rewrite order history.
	Garment         string        `json:"garment"`
	Quantity        int           `json:"quantity"`
	Cost            string        `json:"cost"` // NUMERIC -> string
	DeliveryDate    time.Time     `json:"delivery_date"`
	DeliveryAddress string        `json:"delivery_address"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentRef      string        `json:"payment_ref,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
