package measurement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("measurement set not found")
	ErrAlreadyExist = errors.New("measurement set already exists")
)

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type Repository interface {
	Get(ctx context.Context, userID string) (*Set, error)
	Create(ctx context.Context, s *Set) error
	Update(ctx context.Context, s *Set) error
	Delete(ctx context.Context, userID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Get(ctx context.Context, userID string) (*Set, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var raw []byte
	var s Set
	err := r.db.QueryRow(ctx, `
		SELECT user_id, unit, fields, created_at, updated_at
		FROM measurements WHERE user_id=$1
	`, userID).Scan(&s.UserID, &s.Unit, &raw, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func fieldsJSON(s *Set) ([]byte, error) {
	return json.Marshal(struct {
		Essential   Essential   `json:"essential"`
		Formal      Formal      `json:"formal"`
		Traditional Traditional `json:"traditional"`
		Sleeves     Sleeves     `json:"sleeves"`
		Trousers    Trousers    `json:"trousers"`
	}{s.Essential, s.Formal, s.Traditional, s.Sleeves, s.Trousers})
}

func (r *PGRepo) Create(ctx context.Context, s *Set) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields, err := fieldsJSON(s)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO measurements (user_id, unit, fields, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, s.UserID, s.Unit, fields)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) Update(ctx context.Context, s *Set) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields, err := fieldsJSON(s)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE measurements SET unit=$2, fields=$3, updated_at=NOW() WHERE user_id=$1
	`, s.UserID, s.Unit, fields)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM measurements WHERE user_id=$1`, userID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
