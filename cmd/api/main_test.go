package main

import (
	"context"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fashionsmith/fashionsmith-api/internal/auth"
	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/payment"
	"github.com/fashionsmith/fashionsmith-api/internal/product"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// asUser stands in for the auth middleware so handler tests can pick the
// caller without minting tokens.
func asUser(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		httpx.SetClaims(c, &auth.Claims{
			Role:             role,
			RegisteredClaims: jwt.RegisteredClaims{Subject: id},
		})
		c.Next()
	}
}

type fakeOrders struct {
	orders map[string]*order.Order
}

func newFakeOrders(os ...*order.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*order.Order{}}
	for _, o := range os {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error {
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string, limit, offset int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	o, ok := f.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) UpdatePayment(ctx context.Context, id string, ps order.PaymentStatus, reference string) error {
	o, ok := f.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.PaymentStatus = ps
	o.PaymentRef = reference
	return nil
}

type fakeProducts struct {
	products map[string]*product.Product
}

func newFakeProducts(ps ...*product.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*product.Product{}}
	for _, p := range ps {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(ctx context.Context, p *product.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(ctx context.Context, q product.Query) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Update(ctx context.Context, p *product.Product, updatePrice bool, active *bool) error {
	if _, ok := f.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

type fakeEvents struct{ events []stream.Event }

func (f *fakeEvents) Emit(ctx context.Context, ev stream.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeSessions struct {
	byRef   map[string]*payment.CheckoutSession
	byOrder map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byRef: map[string]*payment.CheckoutSession{}, byOrder: map[string]string{}}
}

func (f *fakeSessions) Put(ctx context.Context, cs *payment.CheckoutSession) error {
	if _, taken := f.byOrder[cs.OrderID]; taken {
		return payment.ErrSessionExists
	}
	cp := *cs
	f.byRef[cs.Reference] = &cp
	f.byOrder[cs.OrderID] = cs.Reference
	return nil
}

func (f *fakeSessions) GetByReference(ctx context.Context, reference string) (*payment.CheckoutSession, error) {
	cs, ok := f.byRef[reference]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	cp := *cs
	return &cp, nil
}

func (f *fakeSessions) GetByOrder(ctx context.Context, orderID string) (*payment.CheckoutSession, error) {
	ref, ok := f.byOrder[orderID]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	return f.GetByReference(ctx, ref)
}

func (f *fakeSessions) Settle(ctx context.Context, reference string, status payment.SessionStatus) error {
	cs, ok := f.byRef[reference]
	if !ok {
		return payment.ErrSessionNotFound
	}
	cs.Status = status
	delete(f.byOrder, cs.OrderID)
	return nil
}

type fakeEventLog struct{ seen map[string]bool }

func (l *fakeEventLog) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if l.seen == nil {
		l.seen = map[string]bool{}
	}
	if l.seen[eventID] {
		return false, nil
	}
	l.seen[eventID] = true
	return true, nil
}
