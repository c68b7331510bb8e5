// AngelaMos | 2026
// repository.go

package gameplans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, move *Move) error
	GetByID(ctx context.Context, id, userID int64) (*Move, error)
	ListByPlan(ctx context.Context, userID int64, plan string) ([]Move, error)
	ListPlanNames(ctx context.Context, userID int64) ([]string, error)
	DeleteSubtree(ctx context.Context, id, userID int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, move *Move) error {
	query := `
		INSERT INTO game_plan_moves (
			user_id, plan_name, move_name, description, parent_id
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		move.UserID,
		move.PlanName,
		move.MoveName,
		move.Description,
		move.ParentID,
	).Scan(&move.ID, &move.CreatedAt)
	if err != nil {
		return fmt.Errorf("create move: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, userID int64,
) (*Move, error) {
	query := `
		SELECT id, user_id, plan_name, move_name, description, parent_id,
		       created_at
		FROM game_plan_moves
		WHERE id = $1 AND user_id = $2`

	var move Move
	err := r.db.GetContext(ctx, &move, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get move: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get move: %w", err)
	}

	return &move, nil
}

func (r *repository) ListByPlan(
	ctx context.Context,
	userID int64,
	plan string,
) ([]Move, error) {
	query := `
		SELECT id, user_id, plan_name, move_name, description, parent_id,
		       created_at
		FROM game_plan_moves
		WHERE user_id = $1 AND plan_name = $2
		ORDER BY id`

	var list []Move
	if err := r.db.SelectContext(ctx, &list, query, userID, plan); err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return list, nil
}

func (r *repository) ListPlanNames(
	ctx context.Context,
	userID int64,
) ([]string, error) {
	query := `
		SELECT DISTINCT plan_name
		FROM game_plan_moves
		WHERE user_id = $1
		ORDER BY plan_name`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("list plan names: %w", err)
	}

	return names, nil
}

// DeleteSubtree removes a move and all its descendants in one statement:
// a recursive CTE collects the subtree ids and a single DELETE consumes
// them. The owner scope on the anchor row covers the whole subtree since
// children always share the root's user.
func (r *repository) DeleteSubtree(
	ctx context.Context,
	id, userID int64,
) (int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM game_plan_moves
			WHERE id = $1 AND user_id = $2
			UNION ALL
			SELECT m.id
			FROM game_plan_moves m
			JOIN subtree s ON m.parent_id = s.id
		)
		DELETE FROM game_plan_moves
		WHERE id IN (SELECT id FROM subtree)`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete subtree: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete subtree: %w", err)
	}

	if rows == 0 {
		return 0, fmt.Errorf("delete subtree: %w", core.ErrNotFound)
	}

	return rows, nil
}
