package notification

import "time"

const (
	TypeOrder       = "order"
	TypePayment     = "payment"
	TypeDelivery    = "delivery"
	TypeMeasurement = "measurement"
	TypePromotion   = "promotion"
	TypeSystem      = "system"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	ActionURL string    `json:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
