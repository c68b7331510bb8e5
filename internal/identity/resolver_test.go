// AngelaMos | 2026
// resolver_test.go

package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type fakeRepo struct {
	byID         map[int64]*User
	byEmail      map[string]*User
	bySupabaseID map[string]*User
	nextID       int64
	createErr    error
	linked       []string
	deleted      []int64
	videoKeys    []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:         make(map[int64]*User),
		byEmail:      make(map[string]*User),
		bySupabaseID: make(map[string]*User),
		nextID:       1,
	}
}

func (f *fakeRepo) add(u *User) *User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	if u.SupabaseID != nil {
		f.bySupabaseID[*u.SupabaseID] = u
	}
	return u
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.add(user)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetBySupabaseID(
	_ context.Context,
	supabaseID string,
) (*User, error) {
	if u, ok := f.bySupabaseID[supabaseID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user by supabase id: %w", core.ErrNotFound)
}

func (f *fakeRepo) LinkSupabase(
	_ context.Context,
	id int64,
	supabaseID string,
) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("link supabase id: %w", core.ErrNotFound)
	}
	u.SupabaseID = &supabaseID
	f.bySupabaseID[supabaseID] = u
	f.linked = append(f.linked, supabaseID)
	return nil
}

func (f *fakeRepo) UpdateSubscription(
	_ context.Context,
	id int64,
	tier, status string,
	expiry *time.Time,
) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}
	u.SubscriptionTier = tier
	u.SubscriptionStatus = status
	u.SubscriptionExpiry = expiry
	return nil
}

func (f *fakeRepo) UpdateSubscriptionByEmail(
	_ context.Context,
	email, tier, status string,
	expiry *time.Time,
) error {
	u, ok := f.byEmail[email]
	if !ok {
		return fmt.Errorf("update subscription by email: %w", core.ErrNotFound)
	}
	u.SubscriptionTier = tier
	u.SubscriptionStatus = status
	u.SubscriptionExpiry = expiry
	return nil
}

func (f *fakeRepo) ListVideoKeys(
	_ context.Context,
	_ int64,
) ([]string, error) {
	return f.videoKeys, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
	if u.SupabaseID != nil {
		delete(f.bySupabaseID, *u.SupabaseID)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type staticVerifier struct {
	principal *Principal
	err       error
}

func (v *staticVerifier) Verify(
	_ context.Context,
	_ string,
) (*Principal, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.principal, nil
}

func strPtr(s string) *string { return &s }

func TestResolverEffectiveTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		user  User
		plans config.PlansConfig
		want  string
	}{
		{
			name: "plain free user",
			user: User{
				Email:              "a@b.com",
				SubscriptionTier:   TierFree,
				SubscriptionStatus: StatusFree,
			},
			want: TierFree,
		},
		{
			name: "stored paid tier wins",
			user: User{
				Email:            "a@b.com",
				SubscriptionTier: TierGymPro,
			},
			want: TierGymPro,
		},
		{
			name: "allowlisted email overrides stored free tier",
			user: User{
				Email:            "vip@b.com",
				SubscriptionTier: TierFree,
			},
			plans: config.PlansConfig{PremiumEmails: []string{"vip@b.com"}},
			want:  TierGymPro,
		},
		{
			name: "active status lifts free user",
			user: User{
				Email:              "a@b.com",
				SubscriptionTier:   TierFree,
				SubscriptionStatus: StatusActive,
			},
			want: TierEnthusiast,
		},
		{
			name: "future expiry lifts free user",
			user: User{
				Email:              "a@b.com",
				SubscriptionTier:   TierFree,
				SubscriptionStatus: StatusFree,
				SubscriptionExpiry: &future,
			},
			want: TierEnthusiast,
		},
		{
			name: "past expiry does not lift",
			user: User{
				Email:              "a@b.com",
				SubscriptionTier:   TierFree,
				SubscriptionStatus: StatusFree,
				SubscriptionExpiry: &past,
			},
			want: TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(nil, newFakeRepo(), tt.plans)
			r.now = func() time.Time { return now }

			assert.Equal(t, tt.want, r.effectiveTier(&tt.user))
		})
	}
}

func TestResolveTokenProvisionsNewSupabaseUser(t *testing.T) {
	repo := newFakeRepo()
	chain := &staticVerifier{principal: &Principal{
		Email:      "new@example.com",
		SupabaseID: "sb-123",
	}}

	r := NewResolver(chain, repo, config.PlansConfig{})

	user, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, TierFree, user.Tier)
	assert.False(t, user.Premium)

	stored, err := repo.GetBySupabaseID(context.Background(), "sb-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestResolveTokenLinksExistingEmailAccount(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&User{
		Email:              "old@example.com",
		SubscriptionTier:   TierEnthusiast,
		SubscriptionStatus: StatusActive,
		Role:               RoleUser,
	})

	chain := &staticVerifier{principal: &Principal{
		Email:      "old@example.com",
		SupabaseID: "sb-999",
	}}

	r := NewResolver(chain, repo, config.PlansConfig{})

	user, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)

	assert.Equal(t, TierEnthusiast, user.Tier)
	assert.True(t, user.Premium)
	assert.Contains(t, repo.linked, "sb-999")

	// resolving again must not create a second row
	again, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, repo.byID, 1)
}

func TestResolveTokenAllowlistsApplyAtProvisioning(t *testing.T) {
	repo := newFakeRepo()
	chain := &staticVerifier{principal: &Principal{
		Email:      "boss@example.com",
		SupabaseID: "sb-1",
	}}

	r := NewResolver(chain, repo, config.PlansConfig{
		PremiumEmails: []string{"boss@example.com"},
		AdminEmails:   []string{"boss@example.com"},
	})

	user, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, TierGymPro, user.Tier)
	assert.True(t, user.Premium)

	stored := repo.byID[user.ID]
	assert.Equal(t, RoleAdmin, stored.Role)
	assert.Equal(t, TierGymPro, stored.SubscriptionTier)
}

func TestResolveTokenLegacyPrincipalLoadsByID(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(&User{
		Email:            "legacy@example.com",
		SubscriptionTier: TierFree,
	})

	chain := &staticVerifier{principal: &Principal{
		Email:  "legacy@example.com",
		UserID: u.ID,
	}}

	r := NewResolver(chain, repo, config.PlansConfig{})

	user, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
}

func TestResolveSubjectUnknownIDFails(t *testing.T) {
	r := NewResolver(nil, newFakeRepo(), config.PlansConfig{})

	_, err := r.ResolveSubject(context.Background(), "sb-missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResolveTokenProvisionRaceRefetches(t *testing.T) {
	repo := newFakeRepo()
	// simulate losing the insert race: Create fails duplicate, but the
	// winner's row is findable by supabase id
	repo.add(&User{
		Email:            "race@example.com",
		SubscriptionTier: TierFree,
		SupabaseID:       strPtr("sb-race"),
	})
	winner := repo.bySupabaseID["sb-race"]
	repo.createErr = fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	// force the provision path by hiding the row from initial lookups
	delete(repo.bySupabaseID, "sb-race")
	delete(repo.byEmail, "race@example.com")

	chain := &staticVerifier{principal: &Principal{
		Email:      "race@example.com",
		SupabaseID: "sb-race",
	}}

	r := NewResolver(chain, repo, config.PlansConfig{})

	// restore visibility as the "winner" would have committed by now
	repo.byEmail["race@example.com"] = winner

	user, err := r.ResolveToken(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, user.ID)
}
