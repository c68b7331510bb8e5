// AngelaMos | 2026
// service_test.go

package gyms

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type fakeRepo struct {
	gyms    map[int64]*Gym
	byCode  map[string]*Gym
	members map[[2]int64]string
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		gyms:    make(map[int64]*Gym),
		byCode:  make(map[string]*Gym),
		members: make(map[[2]int64]string),
		nextID:  1,
	}
}

func (f *fakeRepo) Create(_ context.Context, gym *Gym) error {
	if _, exists := f.byCode[gym.JoinCode]; exists {
		return fmt.Errorf("create gym: %w", core.ErrDuplicateKey)
	}
	gym.ID = f.nextID
	f.nextID++
	gym.CreatedAt = time.Now()
	f.gyms[gym.ID] = gym
	f.byCode[gym.JoinCode] = gym
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Gym, error) {
	g, ok := f.gyms[id]
	if !ok {
		return nil, fmt.Errorf("get gym: %w", core.ErrNotFound)
	}
	return g, nil
}

func (f *fakeRepo) GetByJoinCode(_ context.Context, code string) (*Gym, error) {
	g, ok := f.byCode[code]
	if !ok {
		return nil, fmt.Errorf("get gym by code: %w", core.ErrNotFound)
	}
	return g, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Gym, error) {
	var out []Gym
	for key := range f.members {
		if key[1] == userID {
			out = append(out, *f.gyms[key[0]])
		}
	}
	return out, nil
}

func (f *fakeRepo) AddMember(
	_ context.Context,
	gymID, userID int64,
	role string,
) error {
	key := [2]int64{gymID, userID}
	if _, exists := f.members[key]; exists {
		return fmt.Errorf("add member: %w", core.ErrDuplicateKey)
	}
	f.members[key] = role
	return nil
}

func (f *fakeRepo) RemoveMember(_ context.Context, gymID, userID int64) error {
	key := [2]int64{gymID, userID}
	if _, exists := f.members[key]; !exists {
		return fmt.Errorf("remove member: %w", core.ErrNotFound)
	}
	delete(f.members, key)
	return nil
}

func (f *fakeRepo) GetMemberRole(
	_ context.Context,
	gymID, userID int64,
) (string, error) {
	role, ok := f.members[[2]int64{gymID, userID}]
	if !ok {
		return "", fmt.Errorf("get member role: %w", core.ErrNotFound)
	}
	return role, nil
}

func (f *fakeRepo) ListMembers(
	_ context.Context,
	gymID int64,
) ([]Membership, error) {
	var out []Membership
	for key, role := range f.members {
		if key[0] == gymID {
			out = append(out, Membership{
				GymID:  gymID,
				UserID: key[1],
				Role:   role,
			})
		}
	}
	return out, nil
}

func TestCreateMakesOwnerAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	gym, err := svc.Create(context.Background(), 1, "Alliance HQ")
	require.NoError(t, err)

	assert.NotEmpty(t, gym.JoinCode)
	assert.Len(t, gym.JoinCode, 8)

	isAdmin, err := svc.IsGymAdmin(context.Background(), gym.ID, 1)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestJoinByCodeIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	gym, err := svc.Create(ctx, 1, "Alliance HQ")
	require.NoError(t, err)

	joined, err := svc.Join(ctx, 2, gym.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, gym.ID, joined.ID)

	_, err = svc.Join(ctx, 2, gym.JoinCode)
	assert.NoError(t, err)

	isAdmin, err := svc.IsGymAdmin(ctx, gym.ID, 2)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestJoinUnknownCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Join(context.Background(), 1, "NOPE1234")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLeaveOwnerForbidden(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	gym, err := svc.Create(ctx, 1, "Alliance HQ")
	require.NoError(t, err)

	err = svc.Leave(ctx, gym.ID, 1)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestLeaveMember(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	gym, err := svc.Create(ctx, 1, "Alliance HQ")
	require.NoError(t, err)

	_, err = svc.Join(ctx, 2, gym.JoinCode)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, gym.ID, 2))

	err = svc.Leave(ctx, gym.ID, 2)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListMembersAdminOnly(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	gym, err := svc.Create(ctx, 1, "Alliance HQ")
	require.NoError(t, err)
	_, err = svc.Join(ctx, 2, gym.JoinCode)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, gym.ID, 1)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = svc.ListMembers(ctx, gym.ID, 2)
	assert.ErrorIs(t, err, core.ErrForbidden)
}
