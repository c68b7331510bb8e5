// AngelaMos | 2026
// resolver.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

// Resolver turns bearer tokens and fallback subject ids into internal
// users, provisioning rows on first contact for Supabase-issued
// identities.
type Resolver struct {
	chain TokenVerifier
	repo  Repository
	plans config.PlansConfig
	now   func() time.Time
}

func NewResolver(
	chain TokenVerifier,
	repo Repository,
	plans config.PlansConfig,
) *Resolver {
	return &Resolver{
		chain: chain,
		repo:  repo,
		plans: plans,
		now:   time.Now,
	}
}

func (r *Resolver) ResolveToken(
	ctx context.Context,
	token string,
) (*middleware.AuthUser, error) {
	principal, err := r.chain.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	var user *User
	if principal.UserID != 0 {
		user, err = r.repo.GetByID(ctx, principal.UserID)
	} else {
		user, err = r.findOrProvision(ctx, principal)
	}
	if err != nil {
		return nil, err
	}

	return r.toAuthUser(user), nil
}

func (r *Resolver) ResolveSubject(
	ctx context.Context,
	supabaseID string,
) (*middleware.AuthUser, error) {
	user, err := r.repo.GetBySupabaseID(ctx, supabaseID)
	if err != nil {
		return nil, err
	}

	return r.toAuthUser(user), nil
}

// findOrProvision resolves a Supabase principal to a user row. Matching
// order: subject id, then email (linking the subject id to the existing
// account), then a fresh row. A concurrent provision loses the insert
// race on the unique constraint and refetches the winner's row.
func (r *Resolver) findOrProvision(
	ctx context.Context,
	principal *Principal,
) (*User, error) {
	user, err := r.repo.GetBySupabaseID(ctx, principal.SupabaseID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	user, err = r.repo.GetByEmail(ctx, principal.Email)
	if err == nil {
		if linkErr := r.repo.LinkSupabase(
			ctx,
			user.ID,
			principal.SupabaseID,
		); linkErr != nil && !errors.Is(linkErr, core.ErrDuplicateKey) {
			return nil, linkErr
		}
		supabaseID := principal.SupabaseID
		user.SupabaseID = &supabaseID
		return user, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	return r.provision(ctx, principal)
}

func (r *Resolver) provision(
	ctx context.Context,
	principal *Principal,
) (*User, error) {
	supabaseID := principal.SupabaseID

	user := &User{
		Email:              principal.Email,
		Role:               RoleUser,
		SubscriptionTier:   TierFree,
		SubscriptionStatus: StatusFree,
		SupabaseID:         &supabaseID,
	}

	if containsEmail(r.plans.AdminEmails, principal.Email) {
		user.Role = RoleAdmin
	}

	if containsEmail(r.plans.PremiumEmails, principal.Email) {
		user.SubscriptionTier = TierGymPro
		user.SubscriptionStatus = StatusPremium
	}

	err := r.repo.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrDuplicateKey) {
		return nil, err
	}

	// lost the provisioning race; the winner's row exists under either key
	if existing, getErr := r.repo.GetBySupabaseID(
		ctx,
		principal.SupabaseID,
	); getErr == nil {
		return existing, nil
	}

	existing, getErr := r.repo.GetByEmail(ctx, principal.Email)
	if getErr != nil {
		return nil, fmt.Errorf("provision user: %w", getErr)
	}

	return existing, nil
}

// toAuthUser computes the caller's effective tier and role, folding in
// the allow-lists and subscription state so nothing downstream has to.
func (r *Resolver) toAuthUser(user *User) *middleware.AuthUser {
	tier := r.effectiveTier(user)
	role := user.Role
	if containsEmail(r.plans.AdminEmails, user.Email) {
		role = RoleAdmin
	}

	return &middleware.AuthUser{
		ID:      user.ID,
		Email:   user.Email,
		Role:    role,
		Tier:    tier,
		Premium: tier != TierFree,
	}
}

func (r *Resolver) effectiveTier(user *User) string {
	if containsEmail(r.plans.PremiumEmails, user.Email) {
		return TierGymPro
	}

	tier := user.SubscriptionTier
	if tier != TierFree && tier != "" {
		return tier
	}

	if user.SubscriptionStatus == StatusActive ||
		user.SubscriptionStatus == StatusPremium {
		return TierEnthusiast
	}

	if user.SubscriptionExpiry != nil &&
		user.SubscriptionExpiry.After(r.now()) {
		return TierEnthusiast
	}

	return TierFree
}

func containsEmail(list []string, email string) bool {
	email = strings.ToLower(email)
	for _, e := range list {
		if e == email {
			return true
		}
	}
	return false
}

var _ middleware.IdentityResolver = (*Resolver)(nil)
