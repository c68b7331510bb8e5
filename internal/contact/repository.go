// AngelaMos | 2026
// repository.go

// Package contact stores messages from the public contact form and
// notifies the site admin by email.
package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Message struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, msg *Message) error
	List(ctx context.Context, limit int) ([]Message, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		msg.Name,
		msg.Email,
		msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context, limit int) ([]Message, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1`

	var list []Message
	if err := r.db.SelectContext(ctx, &list, query, limit); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	return list, nil
}
