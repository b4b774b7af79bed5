package order

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestNotFoundOr(t *testing.T) {
	if got := notFoundOr(pgx.ErrNoRows); !errors.Is(got, ErrNotFound) {
		t.Fatalf("no rows translated to %v, want ErrNotFound", got)
	}
	dbDown := errors.New("connection reset by peer")
	if got := notFoundOr(dbDown); !errors.Is(got, dbDown) {
		t.Fatalf("database failure rewritten to %v", got)
	}
	if errors.Is(notFoundOr(dbDown), ErrNotFound) {
		t.Fatal("database failure must not read as not-found")
	}
}
