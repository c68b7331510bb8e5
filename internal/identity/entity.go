// AngelaMos | 2026
// entity.go

package identity

import (
	"time"
)

type User struct {
	ID                 int64      `db:"id"`
	Email              string     `db:"email"`
	PasswordHash       *string    `db:"password_hash"`
	FirstName          string     `db:"first_name"`
	LastName           string     `db:"last_name"`
	Role               string     `db:"role"`
	SubscriptionTier   string     `db:"subscription_tier"`
	SubscriptionStatus string     `db:"subscription_status"`
	SubscriptionExpiry *time.Time `db:"subscription_expiry"`
	SupabaseID         *string    `db:"supabase_id"`
	StorageUsedBytes   int64      `db:"storage_used_bytes"`
	WeeklySharesUsed   int        `db:"weekly_shares_used"`
	WeeklySharesReset  *time.Time `db:"weekly_shares_reset"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	TierFree       = "free"
	TierEnthusiast = "enthusiast"
	TierGymPro     = "gym_pro"
)

const (
	StatusFree    = "free"
	StatusActive  = "active"
	StatusPremium = "premium"
	StatusPaused  = "paused"
)
