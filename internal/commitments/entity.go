// AngelaMos | 2026
// entity.go

package commitments

import (
	"time"
)

type WeeklyCommitment struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	WeekStart        time.Time `db:"week_start"`
	TargetClasses    int       `db:"target_classes"`
	CompletedClasses int       `db:"completed_classes"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
