// AngelaMos | 2026
// repository.go

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetBySupabaseID(ctx context.Context, supabaseID string) (*User, error)
	LinkSupabase(ctx context.Context, id int64, supabaseID string) error
	UpdateSubscription(
		ctx context.Context,
		id int64,
		tier, status string,
		expiry *time.Time,
	) error
	UpdateSubscriptionByEmail(
		ctx context.Context,
		email, tier, status string,
		expiry *time.Time,
	) error
	ListVideoKeys(ctx context.Context, userID int64) ([]string, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, role,
	subscription_tier, subscription_status, subscription_expiry,
	supabase_id, storage_used_bytes, weekly_shares_used,
	weekly_shares_reset, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			email, password_hash, first_name, last_name, role,
			subscription_tier, subscription_status, supabase_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.SubscriptionTier,
		user.SubscriptionStatus,
		user.SupabaseID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) GetBySupabaseID(
	ctx context.Context,
	supabaseID string,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE supabase_id = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, supabaseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by supabase id: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by supabase id: %w", err)
	}

	return &user, nil
}

func (r *repository) LinkSupabase(
	ctx context.Context,
	id int64,
	supabaseID string,
) error {
	query := `
		UPDATE users
		SET supabase_id = $2, updated_at = NOW()
		WHERE id = $1 AND supabase_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, supabaseID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("link supabase id: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("link supabase id: %w", err)
	}

	// zero rows means another request already linked it; not an error
	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("link supabase id: %w", err)
	}

	return nil
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	id int64,
	tier, status string,
	expiry *time.Time,
) error {
	query := `
		UPDATE users
		SET subscription_tier = $2, subscription_status = $3,
		    subscription_expiry = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, tier, status, expiry)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateSubscriptionByEmail(
	ctx context.Context,
	email, tier, status string,
	expiry *time.Time,
) error {
	query := `
		UPDATE users
		SET subscription_tier = $2, subscription_status = $3,
		    subscription_expiry = $4, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1)`

	result, err := r.db.ExecContext(ctx, query, email, tier, status, expiry)
	if err != nil {
		return fmt.Errorf("update subscription by email: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription by email: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update subscription by email: %w", core.ErrNotFound)
	}

	return nil
}

// ListVideoKeys returns the object keys of every video the user owns, so
// account deletion can clear remote storage before the rows cascade.
func (r *repository) ListVideoKeys(
	ctx context.Context,
	userID int64,
) ([]string, error) {
	query := `
		SELECT video_key
		FROM notes
		WHERE user_id = $1 AND video_key IS NOT NULL`

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, userID); err != nil {
		return nil, fmt.Errorf("list video keys: %w", err)
	}

	return keys, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
