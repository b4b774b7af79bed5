package notification

import (
	"strings"
	"testing"

	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

func TestFromEvent(t *testing.T) {
	cases := []struct {
		name         string
		ev           stream.Event
		wantOK       bool
		wantType     string
		wantPriority string
	}{
		{
			name:         "order created",
			ev:           stream.Event{Type: stream.EventOrderCreated, UserID: "u1", OrderID: "o1"},
			wantOK:       true,
			wantType:     TypeOrder,
			wantPriority: PriorityMedium,
		},
		{
			name:         "status change",
			ev:           stream.Event{Type: stream.EventOrderStatus, UserID: "u1", OrderID: "o1", Status: "Ready"},
			wantOK:       true,
			wantType:     TypeOrder,
			wantPriority: PriorityMedium,
		},
		{
			name:         "delivered becomes a delivery notification",
			ev:           stream.Event{Type: stream.EventOrderStatus, UserID: "u1", OrderID: "o1", Status: "Delivered"},
			wantOK:       true,
			wantType:     TypeDelivery,
			wantPriority: PriorityMedium,
		},
		{
			name:         "payment succeeded",
			ev:           stream.Event{Type: stream.EventPaymentSucceeded, UserID: "u1", OrderID: "o1", Amount: "1500.00"},
			wantOK:       true,
			wantType:     TypePayment,
			wantPriority: PriorityHigh,
		},
		{
			name:         "payment failed",
			ev:           stream.Event{Type: stream.EventPaymentFailed, UserID: "u1", OrderID: "o1"},
			wantOK:       true,
			wantType:     TypePayment,
			wantPriority: PriorityHigh,
		},
		{
			name:   "unknown event type",
			ev:     stream.Event{Type: "inventory.restocked", UserID: "u1"},
			wantOK: false,
		},
		{
			name:   "no user to notify",
			ev:     stream.Event{Type: stream.EventOrderCreated, OrderID: "o1"},
			wantOK: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := FromEvent(tc.ev)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if n.Type != tc.wantType || n.Priority != tc.wantPriority {
				t.Fatalf("type/priority = %s/%s, want %s/%s", n.Type, n.Priority, tc.wantType, tc.wantPriority)
			}
			if n.UserID != tc.ev.UserID {
				t.Fatalf("user = %q, want %q", n.UserID, tc.ev.UserID)
			}
			if n.Title == "" || n.Message == "" {
				t.Fatal("notification missing title or message")
			}
			if tc.ev.OrderID != "" && !strings.Contains(n.ActionURL, tc.ev.OrderID) {
				t.Fatalf("action url %q does not point at the order", n.ActionURL)
			}
		})
	}
}
