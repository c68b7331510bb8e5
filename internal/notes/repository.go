// AngelaMos | 2026
// repository.go

package notes

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
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id, userID int64) (*Note, error)
	GetByIDAny(ctx context.Context, id int64) (*Note, error)
	ListByUser(ctx context.Context, userID int64) ([]Note, error)
	ListShared(ctx context.Context, limit, offset int) ([]Note, int, error)
	ListByGym(ctx context.Context, gymID int64) ([]Note, error)
	Update(ctx context.Context, note *Note) error
	SetSharing(
		ctx context.Context,
		id, userID int64,
		shared bool,
		sharedAt *time.Time,
	) error
	SetGym(ctx context.Context, id, userID int64, gymID *int64) error
	SetVideo(
		ctx context.Context,
		id, userID int64,
		key, filename *string,
		size *int64,
	) error
	Delete(ctx context.Context, id, userID int64) error
	DeleteAny(ctx context.Context, id int64) error
	AddLike(ctx context.Context, noteID, userID int64) error
	RemoveLike(ctx context.Context, noteID, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const noteColumns = `
	n.id, n.user_id, n.title, n.content, n.category, n.link_to_class,
	n.is_shared, n.shared_at, n.gym_id, n.video_key, n.video_size_bytes,
	n.video_filename, n.created_at, n.updated_at,
	(SELECT COUNT(*) FROM note_likes l WHERE l.note_id = n.id) AS like_count`

func (r *repository) Create(ctx context.Context, note *Note) error {
	query := `
		INSERT INTO notes (user_id, title, content, category, link_to_class)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		note.UserID,
		note.Title,
		note.Content,
		note.Category,
		note.LinkToClass,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, userID int64,
) (*Note, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM notes n WHERE n.id = $1 AND n.user_id = $2`,
		noteColumns,
	)

	var note Note
	err := r.db.GetContext(ctx, &note, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get note: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

// GetByIDAny skips the owner scope; used by likes on shared notes and
// admin moderation.
func (r *repository) GetByIDAny(ctx context.Context, id int64) (*Note, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM notes n WHERE n.id = $1`, noteColumns)

	var note Note
	err := r.db.GetContext(ctx, &note, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get note: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes n
		WHERE n.user_id = $1
		ORDER BY n.updated_at DESC, n.id DESC`, noteColumns)

	var list []Note
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return list, nil
}

func (r *repository) ListShared(
	ctx context.Context,
	limit, offset int,
) ([]Note, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM notes WHERE is_shared = TRUE`)
	if err != nil {
		return nil, 0, fmt.Errorf("count shared notes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM notes n
		WHERE n.is_shared = TRUE
		ORDER BY n.shared_at DESC, n.id DESC
		LIMIT $1 OFFSET $2`, noteColumns)

	var list []Note
	if err := r.db.SelectContext(ctx, &list, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list shared notes: %w", err)
	}

	return list, total, nil
}

func (r *repository) ListByGym(
	ctx context.Context,
	gymID int64,
) ([]Note, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notes n
		WHERE n.gym_id = $1
		ORDER BY n.updated_at DESC, n.id DESC`, noteColumns)

	var list []Note
	if err := r.db.SelectContext(ctx, &list, query, gymID); err != nil {
		return nil, fmt.Errorf("list gym notes: %w", err)
	}

	return list, nil
}

func (r *repository) Update(ctx context.Context, note *Note) error {
	query := `
		UPDATE notes
		SET title = $3, content = $4, category = $5, link_to_class = $6,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Category,
		note.LinkToClass,
	).Scan(&note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update note: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	return nil
}

func (r *repository) SetSharing(
	ctx context.Context,
	id, userID int64,
	shared bool,
	sharedAt *time.Time,
) error {
	query := `
		UPDATE notes
		SET is_shared = $3, shared_at = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "set sharing", query, id, userID, shared, sharedAt)
}

func (r *repository) SetGym(
	ctx context.Context,
	id, userID int64,
	gymID *int64,
) error {
	query := `
		UPDATE notes
		SET gym_id = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "set gym", query, id, userID, gymID)
}

func (r *repository) SetVideo(
	ctx context.Context,
	id, userID int64,
	key, filename *string,
	size *int64,
) error {
	query := `
		UPDATE notes
		SET video_key = $3, video_filename = $4, video_size_bytes = $5,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "set video", query, id, userID, key, filename, size)
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	return r.execOwned(ctx, "delete note", query, id, userID)
}

func (r *repository) DeleteAny(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete note: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) AddLike(ctx context.Context, noteID, userID int64) error {
	query := `
		INSERT INTO note_likes (note_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (note_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, noteID, userID); err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("like note: %w", core.ErrNotFound)
		}
		return fmt.Errorf("like note: %w", err)
	}

	return nil
}

func (r *repository) RemoveLike(
	ctx context.Context,
	noteID, userID int64,
) error {
	query := `DELETE FROM note_likes WHERE note_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, noteID, userID); err != nil {
		return fmt.Errorf("unlike note: %w", err)
	}

	return nil
}

func (r *repository) execOwned(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
