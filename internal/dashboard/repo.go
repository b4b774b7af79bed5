// Package dashboard answers the aggregate and filtered-listing queries the
// overview pages need. Authoritative numbers come from SQL, never from
// client-side arithmetic.
package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fashionsmith/fashionsmith-api/internal/order"
)

// Stats is the per-user overview.
// swagger:model DashboardStats
type Stats struct {
	TotalOrders     int    `json:"total_orders"`
	ActiveOrders    int    `json:"active_orders"`
	CompletedOrders int    `json:"completed_orders"`
	PendingPayments int    `json:"pending_payments"`
	TotalSpent      string `json:"total_spent"`
}

type Query struct {
	Status order.Status
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	StatsFor(ctx context.Context, userID string) (*Stats, error)
	// Orders lists with filters; empty userID means all users (admin).
	Orders(ctx context.Context, userID string, q Query) ([]order.Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) StatsFor(ctx context.Context, userID string) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('Pending','In Progress','Ready')),
		       COUNT(*) FILTER (WHERE status = 'Delivered'),
		       COUNT(*) FILTER (WHERE payment_status = 'Pending'),
		       COALESCE(SUM(cost) FILTER (WHERE payment_status = 'Paid'), 0)::text
		FROM orders WHERE user_id=$1
	`, userID).Scan(&s.TotalOrders, &s.ActiveOrders, &s.CompletedOrders, &s.PendingPayments, &s.TotalSpent)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepo) Orders(ctx context.Context, userID string, q Query) ([]order.Order, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Q = strings.TrimSpace(q.Q)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product_id, garment, quantity, cost::text,
		       delivery_date, delivery_address, status, payment_status, COALESCE(payment_ref, ''),
		       created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR garment ILIKE '%'||$3||'%')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, userID, string(q.Status), q.Q, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Garment, &o.Quantity, &o.Cost,
			&o.DeliveryDate, &o.DeliveryAddress, &o.Status, &o.PaymentStatus, &o.PaymentRef,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
