package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type SessionStatus string

const (
	SessionPending SessionStatus = "pending"
	SessionSettled SessionStatus = "settled"
	SessionFailed  SessionStatus = "failed"
)

// CheckoutSession is the transient record of one checkout attempt. It lives
// in Redis for the attempt's lifetime and expires on its own if abandoned.
type CheckoutSession struct {
	Reference        string        `json:"reference"`
	AuthorizationURL string        `json:"authorization_url"`
	OrderID          string        `json:"order_id"`
	UserID           string        `json:"user_id"`
	Amount           string        `json:"amount"`
	Currency         string        `json:"currency"`
	Status           SessionStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
}

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrSessionExists   = errors.New("order already has a pending checkout session")
)

type Sessions interface {
	Put(ctx context.Context, s *CheckoutSession) error
	GetByReference(ctx context.Context, reference string) (*CheckoutSession, error)
	GetByOrder(ctx context.Context, orderID string) (*CheckoutSession, error)
	Settle(ctx context.Context, reference string, status SessionStatus) error
}

// RedisSessions keys sessions by reference, with a secondary order-id index
// so a second initialize for the same order finds the pending attempt. The
// order index is claimed with SETNX, so of two concurrent initializes only
// one stores its session; the other gets ErrSessionExists.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func refKey(reference string) string { return "checkout:ref:" + reference }
func ordKey(orderID string) string   { return "checkout:order:" + orderID }

func (s *RedisSessions) Put(ctx context.Context, cs *CheckoutSession) error {
	raw, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, ordKey(cs.OrderID), cs.Reference, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionExists
	}
	return s.rdb.Set(ctx, refKey(cs.Reference), raw, s.ttl).Err()
}

func (s *RedisSessions) GetByReference(ctx context.Context, reference string) (*CheckoutSession, error) {
	raw, err := s.rdb.Get(ctx, refKey(reference)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var cs CheckoutSession
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (s *RedisSessions) GetByOrder(ctx context.Context, orderID string) (*CheckoutSession, error) {
	ref, err := s.rdb.Get(ctx, ordKey(orderID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByReference(ctx, ref)
}

// Settle marks the attempt terminal and frees the per-order slot. The
// settled record stays until TTL so repeated verifies see the outcome.
func (s *RedisSessions) Settle(ctx context.Context, reference string, status SessionStatus) error {
	cs, err := s.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	cs.Status = status
	raw, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, refKey(reference), raw, s.ttl)
	pipe.Del(ctx, ordKey(cs.OrderID))
	_, err = pipe.Exec(ctx)
	return err
}
