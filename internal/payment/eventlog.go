package payment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventLog deduplicates gateway webhook deliveries.
type EventLog interface {
	// FirstSeen records the event id and reports whether this delivery is
	// the first one.
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

type PGEventLog struct{ db *pgxpool.Pool }

func NewPGEventLog(db *pgxpool.Pool) *PGEventLog { return &PGEventLog{db: db} }

func (l *PGEventLog) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := l.db.Exec(ctx, `
		INSERT INTO webhook_events (event_id, processed_at)
		VALUES ($1, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
