// AngelaMos | 2026
// ledger.go

package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// Ledger reads current usage straight from the resource tables, so
// enforcement always sees post-delete reality instead of drifting
// counters.
type Ledger struct {
	db core.DBTX
}

func NewLedger(db core.DBTX) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) CountClasses(ctx context.Context, userID int64) (int, error) {
	var count int
	err := l.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM classes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return count, nil
}

func (l *Ledger) CountNotes(ctx context.Context, userID int64) (int, error) {
	var count int
	err := l.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// CountSharesSince counts notes the user shared at or after the given
// instant. Un-sharing removes the row from the count.
func (l *Ledger) CountSharesSince(
	ctx context.Context,
	userID int64,
	since time.Time,
) (int, error) {
	var count int
	err := l.db.GetContext(ctx, &count,
		`SELECT COUNT(*)
		 FROM notes
		 WHERE user_id = $1 AND is_shared = TRUE AND shared_at >= $2`,
		userID, since)
	if err != nil {
		return 0, fmt.Errorf("count shares: %w", err)
	}
	return count, nil
}

func (l *Ledger) StorageUsed(ctx context.Context, userID int64) (int64, error) {
	var used int64
	err := l.db.GetContext(ctx, &used,
		`SELECT storage_used_bytes FROM users WHERE id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("storage used: %w", err)
	}
	return used, nil
}

// AddStorage adjusts the cumulative counter. Negative deltas floor at
// zero in SQL so concurrent deletes cannot drive it negative.
func (l *Ledger) AddStorage(
	ctx context.Context,
	userID int64,
	delta int64,
) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE users
		 SET storage_used_bytes = GREATEST(0, storage_used_bytes + $2),
		     updated_at = NOW()
		 WHERE id = $1`,
		userID, delta)
	if err != nil {
		return fmt.Errorf("add storage: %w", err)
	}
	return nil
}
