// AngelaMos | 2026
// repository.go

package drawings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, drawing *Drawing) error
	GetByID(ctx context.Context, id, userID int64) (*Drawing, error)
	ListByUser(ctx context.Context, userID int64) ([]Drawing, error)
	Update(ctx context.Context, drawing *Drawing) error
	Delete(ctx context.Context, id, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, drawing *Drawing) error {
	query := `
		INSERT INTO drawings (user_id, title, canvas_data, linked_note_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		drawing.UserID,
		drawing.Title,
		drawing.CanvasData,
		drawing.LinkedNoteID,
	).Scan(&drawing.ID, &drawing.CreatedAt, &drawing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create drawing: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, userID int64,
) (*Drawing, error) {
	query := `
		SELECT id, user_id, title, canvas_data, linked_note_id,
		       created_at, updated_at
		FROM drawings
		WHERE id = $1 AND user_id = $2`

	var drawing Drawing
	err := r.db.GetContext(ctx, &drawing, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get drawing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get drawing: %w", err)
	}

	return &drawing, nil
}

// ListByUser omits canvas_data; payloads are large and list views only
// need metadata.
func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Drawing, error) {
	query := `
		SELECT id, user_id, title, '' AS canvas_data, linked_note_id,
		       created_at, updated_at
		FROM drawings
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC`

	var list []Drawing
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	return list, nil
}

func (r *repository) Update(ctx context.Context, drawing *Drawing) error {
	query := `
		UPDATE drawings
		SET title = $3, canvas_data = $4, linked_note_id = $5,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		drawing.ID,
		drawing.UserID,
		drawing.Title,
		drawing.CanvasData,
		drawing.LinkedNoteID,
	).Scan(&drawing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update drawing: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update drawing: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM drawings WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete drawing: %w", core.ErrNotFound)
	}

	return nil
}
