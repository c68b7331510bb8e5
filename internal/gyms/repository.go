// AngelaMos | 2026
// repository.go

package gyms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, gym *Gym) error
	GetByID(ctx context.Context, id int64) (*Gym, error)
	GetByJoinCode(ctx context.Context, code string) (*Gym, error)
	ListByUser(ctx context.Context, userID int64) ([]Gym, error)
	AddMember(ctx context.Context, gymID, userID int64, role string) error
	RemoveMember(ctx context.Context, gymID, userID int64) error
	GetMemberRole(ctx context.Context, gymID, userID int64) (string, error)
	ListMembers(ctx context.Context, gymID int64) ([]Membership, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, gym *Gym) error {
	query := `
		INSERT INTO gyms (name, join_code, owner_user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		gym.Name,
		gym.JoinCode,
		gym.OwnerUserID,
	).Scan(&gym.ID, &gym.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create gym: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create gym: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Gym, error) {
	query := `
		SELECT id, name, join_code, owner_user_id, created_at
		FROM gyms
		WHERE id = $1`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get gym: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get gym: %w", err)
	}

	return &gym, nil
}

func (r *repository) GetByJoinCode(
	ctx context.Context,
	code string,
) (*Gym, error) {
	query := `
		SELECT id, name, join_code, owner_user_id, created_at
		FROM gyms
		WHERE join_code = $1`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get gym by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get gym by code: %w", err)
	}

	return &gym, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Gym, error) {
	query := `
		SELECT g.id, g.name, g.join_code, g.owner_user_id, g.created_at
		FROM gyms g
		JOIN gym_memberships m ON m.gym_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.name`

	var list []Gym
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}

	return list, nil
}

func (r *repository) AddMember(
	ctx context.Context,
	gymID, userID int64,
	role string,
) error {
	query := `
		INSERT INTO gym_memberships (gym_id, user_id, role)
		VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, gymID, userID, role); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("add member: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("add member: %w", err)
	}

	return nil
}

func (r *repository) RemoveMember(
	ctx context.Context,
	gymID, userID int64,
) error {
	query := `DELETE FROM gym_memberships WHERE gym_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, gymID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove member: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetMemberRole(
	ctx context.Context,
	gymID, userID int64,
) (string, error) {
	query := `
		SELECT role FROM gym_memberships
		WHERE gym_id = $1 AND user_id = $2`

	var role string
	err := r.db.GetContext(ctx, &role, query, gymID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get member role: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get member role: %w", err)
	}

	return role, nil
}

func (r *repository) ListMembers(
	ctx context.Context,
	gymID int64,
) ([]Membership, error) {
	query := `
		SELECT m.gym_id, m.user_id, m.role, m.created_at,
		       u.email, u.first_name, u.last_name
		FROM gym_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.gym_id = $1
		ORDER BY m.created_at`

	var list []Membership
	if err := r.db.SelectContext(ctx, &list, query, gymID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return list, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
