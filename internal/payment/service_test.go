package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

//
// ---------- STUBS & FAKES ----------
//

type stubOrders struct {
	orders      map[string]*order.Order
	paymentSets []string // "id:status" per UpdatePayment call
}

func newStubOrders(os ...*order.Order) *stubOrders {
	s := &stubOrders{orders: map[string]*order.Order{}}
	for _, o := range os {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrders) Create(ctx context.Context, o *order.Order) error {
	s.orders[o.ID] = o
	return nil
}

func (s *stubOrders) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) ListByUser(ctx context.Context, userID string, limit, offset int) ([]order.Order, error) {
	return nil, nil
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrders) UpdatePayment(ctx context.Context, id string, ps order.PaymentStatus, reference string) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.PaymentStatus = ps
	o.PaymentRef = reference
	s.paymentSets = append(s.paymentSets, fmt.Sprintf("%s:%s", id, ps))
	return nil
}

type memSessions struct {
	byRef   map[string]*CheckoutSession
	byOrder map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{byRef: map[string]*CheckoutSession{}, byOrder: map[string]string{}}
}

func (m *memSessions) Put(ctx context.Context, cs *CheckoutSession) error {
	if _, taken := m.byOrder[cs.OrderID]; taken {
		return ErrSessionExists
	}
	cp := *cs
	m.byRef[cs.Reference] = &cp
	m.byOrder[cs.OrderID] = cs.Reference
	return nil
}

// raceSessions makes the pre-check miss a configured number of times, the
// way two interleaved initializes both read before either has written.
type raceSessions struct {
	*memSessions
	misses int
}

func (r *raceSessions) GetByOrder(ctx context.Context, orderID string) (*CheckoutSession, error) {
	if r.misses > 0 {
		r.misses--
		return nil, ErrSessionNotFound
	}
	return r.memSessions.GetByOrder(ctx, orderID)
}

func (m *memSessions) GetByReference(ctx context.Context, reference string) (*CheckoutSession, error) {
	cs, ok := m.byRef[reference]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *cs
	return &cp, nil
}

func (m *memSessions) GetByOrder(ctx context.Context, orderID string) (*CheckoutSession, error) {
	ref, ok := m.byOrder[orderID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.GetByReference(ctx, ref)
}

func (m *memSessions) Settle(ctx context.Context, reference string, status SessionStatus) error {
	cs, ok := m.byRef[reference]
	if !ok {
		return ErrSessionNotFound
	}
	cs.Status = status
	delete(m.byOrder, cs.OrderID)
	return nil
}

type stubGateway struct {
	initCalls   int
	verifyCalls int
	initErr     error
	verify      *VerifyData
	verifyErr   error
}

func (g *stubGateway) Initialize(ctx context.Context, in InitializeRequest) (*InitializeData, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &InitializeData{
		AuthorizationURL: "https://checkout.paystack.com/" + in.Reference,
		AccessCode:       "ac_" + in.Reference,
		Reference:        in.Reference,
	}, nil
}

func (g *stubGateway) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	out := *g.verify
	out.Reference = reference
	return &out, nil
}

type stubProducer struct{ events []stream.Event }

func (p *stubProducer) Emit(ctx context.Context, ev stream.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type stubEventLog struct{ seen map[string]bool }

func (l *stubEventLog) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if l.seen == nil {
		l.seen = map[string]bool{}
	}
	if l.seen[eventID] {
		return false, nil
	}
	l.seen[eventID] = true
	return true, nil
}

func pendingOrder(id, userID, cost string) *order.Order {
	return &order.Order{
		ID: id, UserID: userID, Garment: "Classic Two-Piece Suit", Quantity: 1,
		Cost: cost, Status: order.StatusPending, PaymentStatus: order.PaymentPending,
		DeliveryDate: time.Now().Add(14 * 24 * time.Hour),
	}
}

func newTestService(orders *stubOrders, gw *stubGateway) (*Service, *memSessions, *stubProducer) {
	sessions := newMemSessions()
	producer := &stubProducer{}
	svc := NewService(orders, gw, sessions, producer, &stubEventLog{}, "whsec")
	return svc, sessions, producer
}

//
// ---------- TESTS ----------
//

func TestInitialize_InvalidAmount_NeverCallsGateway(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "50.00"))
	gw := &stubGateway{}
	svc, sessions, _ := newTestService(orders, gw)

	_, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "50", Email: "a@b.c",
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if gw.initCalls != 0 {
		t.Fatalf("gateway called %d times for invalid amount", gw.initCalls)
	}
	if len(sessions.byRef) != 0 {
		t.Fatalf("session stored for failed initialize")
	}
}

func TestInitialize_AmountMustMatchOrderCost(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	svc, _, _ := newTestService(orders, &stubGateway{})

	_, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "1500", Email: "a@b.c",
	})
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("err = %v, want ErrAmountMismatch", err)
	}
}

func TestInitialize_GatewayFailure_StoresNoSession(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{initErr: errors.New("gateway: declined")}
	svc, sessions, _ := newTestService(orders, gw)

	_, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if err == nil {
		t.Fatal("want error from gateway failure")
	}
	if len(sessions.byRef) != 0 {
		t.Fatalf("session stored despite gateway failure")
	}
	if gw.verifyCalls != 0 {
		t.Fatalf("verify reached after failed initialize")
	}
}

func TestInitialize_IdempotentPerOrder(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{}
	svc, _, _ := newTestService(orders, gw)

	in := InitializeInput{OrderID: "o1", Amount: "2000", Email: "a@b.c"}
	first, err := svc.Initialize(context.Background(), "u1", in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Initialize(context.Background(), "u1", in)
	if err != nil {
		t.Fatal(err)
	}
	if first.Reference != second.Reference {
		t.Fatalf("second initialize minted a new reference: %s vs %s", first.Reference, second.Reference)
	}
	if gw.initCalls != 1 {
		t.Fatalf("gateway initialized %d times, want 1", gw.initCalls)
	}
}

func TestInitialize_ConcurrentLoserGetsWinnersSession(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	sessions := &raceSessions{memSessions: newMemSessions(), misses: 2}
	gw := &stubGateway{}
	svc := NewService(orders, gw, sessions, &stubProducer{}, &stubEventLog{}, "whsec")

	in := InitializeInput{OrderID: "o1", Amount: "2000", Email: "a@b.c"}
	first, err := svc.Initialize(context.Background(), "u1", in)
	if err != nil {
		t.Fatal(err)
	}
	// Second call misses the pre-check too, loses the order slot at Put,
	// and must come back with the first call's session.
	second, err := svc.Initialize(context.Background(), "u1", in)
	if err != nil {
		t.Fatal(err)
	}
	if first.Reference != second.Reference {
		t.Fatalf("two sessions minted for one order: %s vs %s", first.Reference, second.Reference)
	}
	if len(sessions.byRef) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(sessions.byRef))
	}
}

func TestInitialize_WrongUser(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	svc, _, _ := newTestService(orders, &stubGateway{})

	_, err := svc.Initialize(context.Background(), "u2", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if !errors.Is(err, ErrNotYourOrder) {
		t.Fatalf("err = %v, want ErrNotYourOrder", err)
	}
}

func TestInitialize_LeftoverOrderNotPayable(t *testing.T) {
	for _, status := range []order.Status{order.StatusCancelled, order.StatusFailed, order.StatusDelivered} {
		t.Run(string(status), func(t *testing.T) {
			o := pendingOrder("o1", "u1", "2000.00")
			o.Status = status
			gw := &stubGateway{}
			svc, sessions, _ := newTestService(newStubOrders(o), gw)

			_, err := svc.Initialize(context.Background(), "u1", InitializeInput{
				OrderID: "o1", Amount: "2000", Email: "a@b.c",
			})
			if !errors.Is(err, ErrOrderNotPayable) {
				t.Fatalf("err = %v, want ErrOrderNotPayable", err)
			}
			if gw.initCalls != 0 {
				t.Fatalf("gateway reached for a %s order", status)
			}
			if len(sessions.byRef) != 0 {
				t.Fatalf("session stored for a %s order", status)
			}
		})
	}
}

func TestVerify_Success_MarksPaidAndEmitsOnce(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{verify: &VerifyData{Status: "success", Amount: 200000, Currency: "NGN"}}
	svc, _, producer := newTestService(orders, gw)

	cs, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Verify(context.Background(), cs.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != order.PaymentPaid {
		t.Fatalf("status = %s, want Paid", res.Status)
	}
	if got := orders.orders["o1"].PaymentStatus; got != order.PaymentPaid {
		t.Fatalf("order payment status = %s, want Paid", got)
	}
	if len(producer.events) != 1 || producer.events[0].Type != stream.EventPaymentSucceeded {
		t.Fatalf("events = %+v, want one payment.succeeded", producer.events)
	}

	// A second verify must return the stored outcome without another
	// gateway call or another settlement.
	res2, err := svc.Verify(context.Background(), cs.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Status != order.PaymentPaid {
		t.Fatalf("second verify status = %s, want Paid", res2.Status)
	}
	if gw.verifyCalls != 1 {
		t.Fatalf("gateway verified %d times, want 1", gw.verifyCalls)
	}
	if len(producer.events) != 1 {
		t.Fatalf("settlement ran twice: %d events", len(producer.events))
	}
}

func TestVerify_GatewayDeclared_FailureIsTerminalNotError(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{verify: &VerifyData{Status: "failed", Amount: 200000}}
	svc, _, producer := newTestService(orders, gw)

	cs, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.Verify(context.Background(), cs.Reference)
	if err != nil {
		t.Fatalf("gateway failure must settle, not error: %v", err)
	}
	if res.Status != order.PaymentFailed {
		t.Fatalf("status = %s, want Failed", res.Status)
	}
	if len(producer.events) != 1 || producer.events[0].Type != stream.EventPaymentFailed {
		t.Fatalf("events = %+v, want one payment.failed", producer.events)
	}
}

func TestVerify_AmountMismatchFails(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	// Gateway reports a success but for the wrong amount.
	gw := &stubGateway{verify: &VerifyData{Status: "success", Amount: 100}}
	svc, _, _ := newTestService(orders, gw)

	cs, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.Verify(context.Background(), cs.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != order.PaymentFailed {
		t.Fatalf("status = %s, want Failed on amount mismatch", res.Status)
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	svc, _, _ := newTestService(orders, &stubGateway{})

	body := []byte(`{"event":"charge.success","data":{"id":1,"reference":"ref"}}`)
	err := svc.HandleWebhook(context.Background(), body, "deadbeef")
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestHandleWebhook_DuplicateDeliveryProcessedOnce(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{verify: &VerifyData{Status: "success", Amount: 200000}}
	svc, _, producer := newTestService(orders, gw)

	cs, err := svc.Initialize(context.Background(), "u1", InitializeInput{
		OrderID: "o1", Amount: "2000", Email: "a@b.c",
	})
	if err != nil {
		t.Fatal(err)
	}

	body := []byte(`{"event":"charge.success","data":{"id":42,"reference":"` + cs.Reference + `"}}`)
	sig := sign("whsec", body)

	if err := svc.HandleWebhook(context.Background(), body, sig); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleWebhook(context.Background(), body, sig); err != nil {
		t.Fatal(err)
	}
	if gw.verifyCalls != 1 {
		t.Fatalf("gateway verified %d times for duplicate delivery, want 1", gw.verifyCalls)
	}
	if len(producer.events) != 1 {
		t.Fatalf("duplicate webhook produced %d events, want 1", len(producer.events))
	}
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	orders := newStubOrders(pendingOrder("o1", "u1", "2000.00"))
	gw := &stubGateway{}
	svc, _, _ := newTestService(orders, gw)

	body := []byte(`{"event":"transfer.success","data":{"id":7,"reference":"x"}}`)
	if err := svc.HandleWebhook(context.Background(), body, sign("whsec", body)); err != nil {
		t.Fatal(err)
	}
	if gw.verifyCalls != 0 {
		t.Fatalf("unrelated event reached verify")
	}
}
