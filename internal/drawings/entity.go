// AngelaMos | 2026
// entity.go

package drawings

import (
	"time"
)

type Drawing struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Title        string    `db:"title"`
	CanvasData   string    `db:"canvas_data"`
	LinkedNoteID *int64    `db:"linked_note_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
