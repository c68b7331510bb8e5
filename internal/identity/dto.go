// AngelaMos | 2026
// dto.go

package identity

import (
	"time"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Role               string     `json:"role"`
	SubscriptionTier   string     `json:"subscriptionTier"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
	SupabaseID         *string    `json:"supabaseId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		SubscriptionTier:   u.SubscriptionTier,
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionExpiry: u.SubscriptionExpiry,
		SupabaseID:         u.SupabaseID,
		CreatedAt:          u.CreatedAt,
	}
}
