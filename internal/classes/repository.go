// AngelaMos | 2026
// repository.go

package classes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, class *Class) error
	GetByID(ctx context.Context, id, userID int64) (*Class, error)
	ListByUser(ctx context.Context, userID int64) ([]Class, error)
	Update(ctx context.Context, class *Class) error
	Delete(ctx context.Context, id, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, class *Class) error {
	query := `
		INSERT INTO classes (
			user_id, date, class_time, location, instructor, class_type,
			duration_minutes, techniques_learned, rolling_notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		class.UserID,
		class.Date,
		class.ClassTime,
		class.Location,
		class.Instructor,
		class.ClassType,
		class.DurationMinutes,
		class.TechniquesLearned,
		class.RollingNotes,
	).Scan(&class.ID, &class.CreatedAt)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}

	return nil
}

// GetByID scopes by owner; a class owned by someone else is
// indistinguishable from a missing one.
func (r *repository) GetByID(
	ctx context.Context,
	id, userID int64,
) (*Class, error) {
	query := `
		SELECT id, user_id, date, class_time, location, instructor,
		       class_type, duration_minutes, techniques_learned,
		       rolling_notes, created_at
		FROM classes
		WHERE id = $1 AND user_id = $2`

	var class Class
	err := r.db.GetContext(ctx, &class, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get class: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}

	return &class, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Class, error) {
	query := `
		SELECT id, user_id, date, class_time, location, instructor,
		       class_type, duration_minutes, techniques_learned,
		       rolling_notes, created_at
		FROM classes
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`

	var list []Class
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	return list, nil
}

func (r *repository) Update(ctx context.Context, class *Class) error {
	query := `
		UPDATE classes
		SET date = $3, class_time = $4, location = $5, instructor = $6,
		    class_type = $7, duration_minutes = $8,
		    techniques_learned = $9, rolling_notes = $10
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		class.ID,
		class.UserID,
		class.Date,
		class.ClassTime,
		class.Location,
		class.Instructor,
		class.ClassType,
		class.DurationMinutes,
		class.TechniquesLearned,
		class.RollingNotes,
	)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update class: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM classes WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete class: %w", core.ErrNotFound)
	}

	return nil
}
