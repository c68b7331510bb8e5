// AngelaMos | 2026
// repository.go

package belts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, belt *Belt) error
	GetByID(ctx context.Context, id, userID int64) (*Belt, error)
	ListByUser(ctx context.Context, userID int64) ([]Belt, error)
	Update(ctx context.Context, belt *Belt) error
	Delete(ctx context.Context, id, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, belt *Belt) error {
	query := `
		INSERT INTO belts (user_id, belt, stripes, promotion_date, instructor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		belt.UserID,
		belt.Belt,
		belt.Stripes,
		belt.PromotionDate,
		belt.Instructor,
	).Scan(&belt.ID, &belt.CreatedAt)
	if err != nil {
		return fmt.Errorf("create belt: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, userID int64,
) (*Belt, error) {
	query := `
		SELECT id, user_id, belt, stripes, promotion_date, instructor,
		       created_at
		FROM belts
		WHERE id = $1 AND user_id = $2`

	var belt Belt
	err := r.db.GetContext(ctx, &belt, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get belt: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get belt: %w", err)
	}

	return &belt, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Belt, error) {
	query := `
		SELECT id, user_id, belt, stripes, promotion_date, instructor,
		       created_at
		FROM belts
		WHERE user_id = $1
		ORDER BY promotion_date DESC, id DESC`

	var list []Belt
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list belts: %w", err)
	}

	return list, nil
}

func (r *repository) Update(ctx context.Context, belt *Belt) error {
	query := `
		UPDATE belts
		SET belt = $3, stripes = $4, promotion_date = $5, instructor = $6
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		belt.ID,
		belt.UserID,
		belt.Belt,
		belt.Stripes,
		belt.PromotionDate,
		belt.Instructor,
	)
	if err != nil {
		return fmt.Errorf("update belt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update belt: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update belt: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM belts WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete belt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete belt: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete belt: %w", core.ErrNotFound)
	}

	return nil
}
