// AngelaMos | 2026
// entity.go

package notes

import (
	"time"
)

type Note struct {
	ID             int64      `db:"id"`
	UserID         int64      `db:"user_id"`
	Title          string     `db:"title"`
	Content        string     `db:"content"`
	Category       string     `db:"category"`
	LinkToClass    *int64     `db:"link_to_class"`
	IsShared       bool       `db:"is_shared"`
	SharedAt       *time.Time `db:"shared_at"`
	GymID          *int64     `db:"gym_id"`
	VideoKey       *string    `db:"video_key"`
	VideoSizeBytes *int64     `db:"video_size_bytes"`
	VideoFilename  *string    `db:"video_filename"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`

	// populated by list queries, not a column
	LikeCount int `db:"like_count"`
}

func (n *Note) HasVideo() bool {
	return n.VideoKey != nil && *n.VideoKey != ""
}

func (n *Note) videoSize() int64 {
	if n.VideoSizeBytes == nil {
		return 0
	}
	return *n.VideoSizeBytes
}
