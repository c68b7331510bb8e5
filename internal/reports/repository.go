// AngelaMos | 2026
// repository.go

// Package reports handles community moderation: users flag shared
// notes, admins review and resolve.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

type Report struct {
	ID             int64     `db:"id"`
	NoteID         int64     `db:"note_id"`
	ReporterUserID int64     `db:"reporter_user_id"`
	Reason         string    `db:"reason"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, report *Report) error
	ListOpen(ctx context.Context) ([]Report, error)
	Resolve(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO note_reports (note_id, reporter_user_id, reason, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		report.NoteID,
		report.ReporterUserID,
		report.Reason,
		StatusOpen,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("create report: %w", core.ErrDuplicateKey)
			case "23503":
				// reported note does not exist
				return fmt.Errorf("create report: %w", core.ErrNotFound)
			}
		}
		return fmt.Errorf("create report: %w", err)
	}

	report.Status = StatusOpen
	return nil
}

func (r *repository) ListOpen(ctx context.Context) ([]Report, error) {
	query := `
		SELECT id, note_id, reporter_user_id, reason, status, created_at
		FROM note_reports
		WHERE status = $1
		ORDER BY created_at`

	var list []Report
	if err := r.db.SelectContext(ctx, &list, query, StatusOpen); err != nil {
		return nil, fmt.Errorf("list open reports: %w", err)
	}

	return list, nil
}

func (r *repository) Resolve(ctx context.Context, id int64) error {
	query := `UPDATE note_reports SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, StatusResolved)
	if err != nil {
		return fmt.Errorf("resolve report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve report: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("resolve report: %w", core.ErrNotFound)
	}

	return nil
}
