// AngelaMos | 2026
// entity.go

package classes

import (
	"time"
)

type Class struct {
	ID                int64     `db:"id"`
	UserID            int64     `db:"user_id"`
	Date              time.Time `db:"date"`
	ClassTime         string    `db:"class_time"`
	Location          string    `db:"location"`
	Instructor        string    `db:"instructor"`
	ClassType         string    `db:"class_type"`
	DurationMinutes   int       `db:"duration_minutes"`
	TechniquesLearned string    `db:"techniques_learned"`
	RollingNotes      string    `db:"rolling_notes"`
	CreatedAt         time.Time `db:"created_at"`
}
