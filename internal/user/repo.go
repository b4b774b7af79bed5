package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, u *User, setAddress bool) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func addressJSON(a *Address) (any, error) {
	if a.Empty() {
		return nil, nil
	}
	return json.Marshal(a)
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	addr, err := addressJSON(u.Address)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, phone, address, verified, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.Phone, addr, u.Verified, u.Role)
	if err != nil {
		// UNIQUE on username/email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) scanRow(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var addr []byte
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone,
		&addr, &u.Verified, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFoundOr(err)
	}
	if len(addr) > 0 {
		var a Address
		if err := json.Unmarshal(addr, &a); err == nil {
			u.Address = &a
		}
	}
	return &u, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanRow(r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, phone, address, verified, role, created_at, updated_at
		FROM users WHERE id=$1
	`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanRow(r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, phone, address, verified, role, created_at, updated_at
		FROM users WHERE email=$1
	`, email))
}

// UpdateProfile is a partial update: blank username/email/phone keep their
// stored values. The address column is only touched when setAddress is true;
// an all-blank address then writes NULL.
func (r *PGRepo) UpdateProfile(ctx context.Context, u *User, setAddress bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if setAddress {
		addr, err := addressJSON(u.Address)
		if err != nil {
			return err
		}
		tag, err := r.db.Exec(ctx, `
			UPDATE users
			SET username = COALESCE(NULLIF($2, ''), username),
			    email    = COALESCE(NULLIF($3, ''), email),
			    phone    = COALESCE(NULLIF($4, ''), phone),
			    address  = $5,
			    updated_at = NOW()
			WHERE id = $1
		`, u.ID, u.Username, u.Email, u.Phone, addr)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = COALESCE(NULLIF($2, ''), username),
		    email    = COALESCE(NULLIF($3, ''), email),
		    phone    = COALESCE(NULLIF($4, ''), phone),
		    updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Username, u.Email, u.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, username, email, password_hash, phone, address, verified, role, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
