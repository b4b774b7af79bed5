package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// notFoundOr maps the no-rows case to ErrNotFound and leaves real database
// failures intact.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, id string, ps PaymentStatus, reference string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, user_id, product_id, garment, quantity, cost::text,
	delivery_date, delivery_address, status, payment_status, COALESCE(payment_ref, ''),
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Garment, &o.Quantity, &o.Cost,
		&o.DeliveryDate, &o.DeliveryAddress, &o.Status, &o.PaymentStatus, &o.PaymentRef,
		&o.CreatedAt, &o.UpdatedAt)
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, product_id, garment, quantity, cost,
			delivery_date, delivery_address, status, payment_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
	`, o.ID, o.UserID, o.ProductID, o.Garment, o.Quantity, o.Cost,
		o.DeliveryDate, o.DeliveryAddress, o.Status, o.PaymentStatus)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders WHERE id=$1
	`, id), &o); err != nil {
		return nil, notFoundOr(err)
	}
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdatePayment(ctx context.Context, id string, ps PaymentStatus, reference string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET payment_status=$2, payment_ref=$3, updated_at=NOW() WHERE id=$1
	`, id, ps, reference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
