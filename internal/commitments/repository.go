// AngelaMos | 2026
// repository.go

package commitments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, c *WeeklyCommitment) error
	GetByWeek(
		ctx context.Context,
		userID int64,
		weekStart time.Time,
	) (*WeeklyCommitment, error)
	ListByUser(ctx context.Context, userID int64) ([]WeeklyCommitment, error)
	IncrementCompleted(
		ctx context.Context,
		userID int64,
		weekStart time.Time,
	) (*WeeklyCommitment, error)
	Delete(ctx context.Context, id, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Upsert keys on (user_id, week_start): re-submitting a week's target
// updates it in place instead of conflicting.
func (r *repository) Upsert(ctx context.Context, c *WeeklyCommitment) error {
	query := `
		INSERT INTO weekly_commitments (
			user_id, week_start, target_classes, completed_classes
		)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, week_start) DO UPDATE
		SET target_classes = EXCLUDED.target_classes,
		    updated_at = NOW()
		RETURNING id, completed_classes, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.UserID,
		c.WeekStart,
		c.TargetClasses,
		c.CompletedClasses,
	).Scan(&c.ID, &c.CompletedClasses, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert commitment: %w", err)
	}

	return nil
}

func (r *repository) GetByWeek(
	ctx context.Context,
	userID int64,
	weekStart time.Time,
) (*WeeklyCommitment, error) {
	query := `
		SELECT id, user_id, week_start, target_classes, completed_classes,
		       created_at, updated_at
		FROM weekly_commitments
		WHERE user_id = $1 AND week_start = $2`

	var c WeeklyCommitment
	err := r.db.GetContext(ctx, &c, query, userID, weekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get commitment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get commitment: %w", err)
	}

	return &c, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]WeeklyCommitment, error) {
	query := `
		SELECT id, user_id, week_start, target_classes, completed_classes,
		       created_at, updated_at
		FROM weekly_commitments
		WHERE user_id = $1
		ORDER BY week_start DESC`

	var list []WeeklyCommitment
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list commitments: %w", err)
	}

	return list, nil
}

func (r *repository) IncrementCompleted(
	ctx context.Context,
	userID int64,
	weekStart time.Time,
) (*WeeklyCommitment, error) {
	query := `
		UPDATE weekly_commitments
		SET completed_classes = completed_classes + 1, updated_at = NOW()
		WHERE user_id = $1 AND week_start = $2
		RETURNING id, user_id, week_start, target_classes,
		          completed_classes, created_at, updated_at`

	var c WeeklyCommitment
	err := r.db.GetContext(ctx, &c, query, userID, weekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("increment commitment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("increment commitment: %w", err)
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM weekly_commitments WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete commitment: %w", core.ErrNotFound)
	}

	return nil
}
