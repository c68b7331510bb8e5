// AngelaMos | 2026
// entity.go

package gameplans

import (
	"time"
)

// Move is a node in a user's game-plan tree. Roots have a nil ParentID;
// trees are scoped by (user, plan name).
type Move struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	PlanName    string    `db:"plan_name"`
	MoveName    string    `db:"move_name"`
	Description string    `db:"description"`
	ParentID    *int64    `db:"parent_id"`
	CreatedAt   time.Time `db:"created_at"`
}
