// Package stream carries domain events between the API and the notifier
// over Kafka. One topic, JSON payloads, keyed by user so a user's
// notifications stay ordered.
package stream

import "time"

const (
	EventOrderCreated     = "order.created"
	EventOrderStatus      = "order.status_changed"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	OrderID   string    `json:"order_id,omitempty"`
	Reference string    `json:"reference,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}
