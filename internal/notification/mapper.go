package notification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

// FromEvent turns a domain event into the notification the user should see.
// Events that don't concern users report ok=false.
func FromEvent(ev stream.Event) (*Notification, bool) {
	n := &Notification{
		ID:     uuid.NewString(),
		UserID: ev.UserID,
	}
	switch ev.Type {
	case stream.EventOrderCreated:
		n.Type = TypeOrder
		n.Priority = PriorityMedium
		n.Title = "Order placed"
		n.Message = fmt.Sprintf("Your order %s has been received and is pending.", ev.OrderID)
		n.ActionURL = "/orders/" + ev.OrderID
	case stream.EventOrderStatus:
		n.Type = TypeOrder
		n.Priority = PriorityMedium
		n.Title = "Order update"
		n.Message = fmt.Sprintf("Your order %s is now %s.", ev.OrderID, ev.Status)
		n.ActionURL = "/orders/" + ev.OrderID
		if ev.Status == "Delivered" {
			n.Type = TypeDelivery
		}
	case stream.EventPaymentSucceeded:
		n.Type = TypePayment
		n.Priority = PriorityHigh
		n.Title = "Payment received"
		n.Message = fmt.Sprintf("Payment of %s for order %s was successful.", ev.Amount, ev.OrderID)
		n.ActionURL = "/orders/" + ev.OrderID
	case stream.EventPaymentFailed:
		n.Type = TypePayment
		n.Priority = PriorityHigh
		n.Title = "Payment failed"
		n.Message = fmt.Sprintf("Payment for order %s did not complete. You can try again from your orders page.", ev.OrderID)
		n.ActionURL = "/orders/" + ev.OrderID
	default:
		return nil, false
	}
	if n.UserID == "" {
		return nil, false
	}
	return n, true
}
