// AngelaMos | 2026
// entity.go

package gyms

import (
	"time"
)

type Gym struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	JoinCode    string    `db:"join_code"`
	OwnerUserID int64     `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

type Membership struct {
	GymID     int64     `db:"gym_id"`
	UserID    int64     `db:"user_id"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`

	// joined from users for member listings
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
