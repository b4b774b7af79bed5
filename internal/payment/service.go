// Package payment drives a checkout attempt end to end: initialize against
// the gateway, park the attempt in a checkout session, then settle it from
// either the verify endpoint or the gateway webhook — whichever lands first.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

var (
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
	ErrNotYourOrder    = errors.New("order belongs to another user")
	ErrAmountMismatch  = errors.New("amount does not match order cost")
	ErrBadSignature    = errors.New("bad webhook signature")
)

type Gateway interface {
	Initialize(ctx context.Context, in InitializeRequest) (*InitializeData, error)
	Verify(ctx context.Context, reference string) (*VerifyData, error)
}

type Service struct {
	orders   order.Repository
	gateway  Gateway
	sessions Sessions
	events   stream.Producer
	log      EventLog
	secret   string
}

func NewService(orders order.Repository, gateway Gateway, sessions Sessions, events stream.Producer, eventLog EventLog, webhookSecret string) *Service {
	return &Service{
		orders:   orders,
		gateway:  gateway,
		sessions: sessions,
		events:   events,
		log:      eventLog,
		secret:   webhookSecret,
	}
}

type InitializeInput struct {
	OrderID     string            `json:"order_id" binding:"required"`
	Amount      string            `json:"amount" binding:"required"`
	Email       string            `json:"email" binding:"required,email"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata"`
}

// Initialize starts a checkout attempt. It is idempotent per order: while a
// pending session exists the same session is returned, so two rapid calls
// cannot mint two gateway references for one order.
func (s *Service) Initialize(ctx context.Context, userID string, in InitializeInput) (*CheckoutSession, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotYourOrder
	}
	if o.PaymentStatus == order.PaymentPaid {
		return nil, ErrOrderNotPayable
	}
	// Cancelled, delivered and failed orders left the payable set for good.
	if order.BucketFor(o.Status) != order.BucketActive {
		return nil, ErrOrderNotPayable
	}
	cost, err := decimal.NewFromString(o.Cost)
	if err != nil {
		return nil, fmt.Errorf("order cost corrupt: %w", err)
	}
	if !amount.Equal(cost) {
		return nil, ErrAmountMismatch
	}

	if existing, err := s.sessions.GetByOrder(ctx, in.OrderID); err == nil && existing.Status == SessionPending {
		return existing, nil
	}

	reference := uuid.NewString()
	meta := map[string]string{"order_id": in.OrderID, "user_id": userID}
	for k, v := range in.Metadata {
		meta[k] = v
	}
	data, err := s.gateway.Initialize(ctx, InitializeRequest{
		Email:       in.Email,
		Amount:      Subunits(amount),
		Reference:   reference,
		CallbackURL: in.CallbackURL,
		Currency:    "NGN",
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	cs := &CheckoutSession{
		Reference:        data.Reference,
		AuthorizationURL: data.AuthorizationURL,
		OrderID:          in.OrderID,
		UserID:           userID,
		Amount:           amount.StringFixed(2),
		Currency:         "NGN",
		Status:           SessionPending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, cs); err != nil {
		// Lost the order slot to a concurrent initialize; hand back the
		// session that won it.
		if errors.Is(err, ErrSessionExists) {
			if existing, gerr := s.sessions.GetByOrder(ctx, in.OrderID); gerr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return cs, nil
}

type Result struct {
	Reference string              `json:"reference"`
	OrderID   string              `json:"order_id"`
	Status    order.PaymentStatus `json:"status"`
	Amount    string              `json:"amount,omitempty"`
}

// Verify settles a checkout attempt by asking the gateway for the truth.
// A gateway-declared failure is a terminal outcome, not an error. Verifying
// an already-settled reference returns the stored outcome without touching
// the order again.
func (s *Service) Verify(ctx context.Context, reference string) (*Result, error) {
	cs, err := s.sessions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if cs.Status != SessionPending {
		status := order.PaymentFailed
		if cs.Status == SessionSettled {
			status = order.PaymentPaid
		}
		return &Result{Reference: reference, OrderID: cs.OrderID, Status: status, Amount: cs.Amount}, nil
	}

	data, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	expected, err := decimal.NewFromString(cs.Amount)
	if err != nil {
		return nil, fmt.Errorf("session amount corrupt: %w", err)
	}
	paid := decimal.NewFromInt(data.Amount).Div(decimal.NewFromInt(100))

	if data.Status != "success" || !paid.Equal(expected) {
		return s.settle(ctx, cs, order.PaymentFailed)
	}
	return s.settle(ctx, cs, order.PaymentPaid)
}

func (s *Service) settle(ctx context.Context, cs *CheckoutSession, status order.PaymentStatus) (*Result, error) {
	if err := s.orders.UpdatePayment(ctx, cs.OrderID, status, cs.Reference); err != nil {
		return nil, err
	}
	sessionStatus := SessionFailed
	eventType := stream.EventPaymentFailed
	if status == order.PaymentPaid {
		sessionStatus = SessionSettled
		eventType = stream.EventPaymentSucceeded
	}
	if err := s.sessions.Settle(ctx, cs.Reference, sessionStatus); err != nil {
		log.Error().Err(err).Str("reference", cs.Reference).Msg("settle session")
	}
	if err := s.events.Emit(ctx, stream.Event{
		Type:      eventType,
		UserID:    cs.UserID,
		OrderID:   cs.OrderID,
		Reference: cs.Reference,
		Amount:    cs.Amount,
		At:        time.Now().UTC(),
	}); err != nil {
		log.Error().Err(err).Str("reference", cs.Reference).Msg("emit payment event")
	}
	return &Result{Reference: cs.Reference, OrderID: cs.OrderID, Status: status, Amount: cs.Amount}, nil
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID        json.Number `json:"id"`
		Reference string      `json:"reference"`
	} `json:"data"`
}

// HandleWebhook processes a signed gateway delivery. Unknown event types are
// acknowledged and ignored; duplicate deliveries are dropped via the event
// log; charge.success runs the same settlement path as Verify.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !ValidSignature(s.secret, body, signature) {
		return ErrBadSignature
	}
	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("bad webhook payload: %w", err)
	}
	if ev.Event != "charge.success" {
		log.Info().Str("event", ev.Event).Msg("webhook event ignored")
		return nil
	}
	eventID := ev.Event + ":" + ev.Data.ID.String() + ":" + ev.Data.Reference
	first, err := s.log.FirstSeen(ctx, eventID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	_, err = s.Verify(ctx, ev.Data.Reference)
	if errors.Is(err, ErrSessionNotFound) {
		// Session expired before the webhook arrived; nothing to settle.
		log.Warn().Str("reference", ev.Data.Reference).Msg("webhook for unknown session")
		return nil
	}
	return err
}
