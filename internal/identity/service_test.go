// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) Remove(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, key)
	return nil
}

func newTestService(
	t *testing.T,
	repo *fakeRepo,
	remover *fakeRemover,
) *Service {
	t.Helper()

	signer := legacyTestVerifier(t, time.Hour)
	return NewService(
		repo,
		signer,
		config.PlansConfig{AdminEmails: []string{"admin@example.com"}},
		remover,
		nil,
		slog.Default(),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeRemover{})

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "New@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Ana",
		LastName:  "Silva",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, TierFree, resp.User.SubscriptionTier)
	assert.Equal(t, RoleUser, resp.User.Role)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "new@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeRemover{})

	req := RegisterRequest{
		Email:     "dup@example.com",
		Password:  "hunter2hunter2",
		FirstName: "A",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRegisterAdminAllowlist(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeRemover{})

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "Admin@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeRemover{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "a@example.com",
		Password:  "hunter2hunter2",
		FirstName: "A",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "a@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeRemover{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLoginSupabaseOnlyAccount(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&User{
		Email:      "sb@example.com",
		SupabaseID: strPtr("sb-1"),
	})
	svc := newTestService(t, repo, &fakeRemover{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "sb@example.com",
		Password: "anything-at-all",
	})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestDeleteAccountRemovesVideos(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(&User{Email: "gone@example.com"})
	repo.videoKeys = []string{"videos/1-a.mp4", "videos/2-b.mp4"}

	remover := &fakeRemover{}
	svc := newTestService(t, repo, remover)

	err := svc.DeleteAccount(context.Background(), u.ID)
	require.NoError(t, err)

	assert.ElementsMatch(
		t,
		[]string{"videos/1-a.mp4", "videos/2-b.mp4"},
		remover.removed,
	)
	assert.Contains(t, repo.deleted, u.ID)
}

func TestDeleteAccountSurvivesObjectErrors(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(&User{Email: "gone@example.com"})
	repo.videoKeys = []string{"videos/1-a.mp4"}

	remover := &fakeRemover{err: assert.AnError}
	svc := newTestService(t, repo, remover)

	err := svc.DeleteAccount(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Contains(t, repo.deleted, u.ID)
}
