// AngelaMos | 2026
// service_test.go

package notes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
)

const mib = int64(1) << 20

type fakeRepo struct {
	notes  map[int64]*Note
	likes  map[[2]int64]bool
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notes:  make(map[int64]*Note),
		likes:  make(map[[2]int64]bool),
		nextID: 1,
	}
}

func (f *fakeRepo) Create(_ context.Context, note *Note) error {
	note.ID = f.nextID
	f.nextID++
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	copied := *note
	f.notes[note.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, userID int64) (*Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return nil, fmt.Errorf("get note: %w", core.ErrNotFound)
	}
	copied := *n
	return &copied, nil
}

func (f *fakeRepo) GetByIDAny(_ context.Context, id int64) (*Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, fmt.Errorf("get note: %w", core.ErrNotFound)
	}
	copied := *n
	return &copied, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Note, error) {
	var out []Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListShared(
	_ context.Context,
	_, _ int,
) ([]Note, int, error) {
	var out []Note
	for _, n := range f.notes {
		if n.IsShared {
			out = append(out, *n)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByGym(_ context.Context, gymID int64) ([]Note, error) {
	var out []Note
	for _, n := range f.notes {
		if n.GymID != nil && *n.GymID == gymID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, note *Note) error {
	existing, ok := f.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return fmt.Errorf("update note: %w", core.ErrNotFound)
	}
	copied := *note
	f.notes[note.ID] = &copied
	return nil
}

func (f *fakeRepo) SetSharing(
	_ context.Context,
	id, userID int64,
	shared bool,
	sharedAt *time.Time,
) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("set sharing: %w", core.ErrNotFound)
	}
	n.IsShared = shared
	n.SharedAt = sharedAt
	return nil
}

func (f *fakeRepo) SetGym(
	_ context.Context,
	id, userID int64,
	gymID *int64,
) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("set gym: %w", core.ErrNotFound)
	}
	n.GymID = gymID
	return nil
}

func (f *fakeRepo) SetVideo(
	_ context.Context,
	id, userID int64,
	key, filename *string,
	size *int64,
) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("set video: %w", core.ErrNotFound)
	}
	n.VideoKey = key
	n.VideoFilename = filename
	n.VideoSizeBytes = size
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID int64) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("delete note: %w", core.ErrNotFound)
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeRepo) DeleteAny(_ context.Context, id int64) error {
	if _, ok := f.notes[id]; !ok {
		return fmt.Errorf("delete note: %w", core.ErrNotFound)
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeRepo) AddLike(_ context.Context, noteID, userID int64) error {
	f.likes[[2]int64{noteID, userID}] = true
	return nil
}

func (f *fakeRepo) RemoveLike(_ context.Context, noteID, userID int64) error {
	delete(f.likes, [2]int64{noteID, userID})
	return nil
}

// usage derives counts from the fake repo so checks see live state
type fakeUsage struct {
	repo    *fakeRepo
	storage map[int64]int64
}

func (f *fakeUsage) CountClasses(_ context.Context, _ int64) (int, error) {
	return 0, nil
}

func (f *fakeUsage) CountNotes(
	ctx context.Context,
	userID int64,
) (int, error) {
	list, _ := f.repo.ListByUser(ctx, userID)
	return len(list), nil
}

func (f *fakeUsage) CountSharesSince(
	_ context.Context,
	userID int64,
	since time.Time,
) (int, error) {
	count := 0
	for _, n := range f.repo.notes {
		if n.UserID == userID && n.IsShared &&
			n.SharedAt != nil && !n.SharedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeUsage) StorageUsed(_ context.Context, userID int64) (int64, error) {
	return f.storage[userID], nil
}

func (f *fakeUsage) AddStorage(
	_ context.Context,
	userID int64,
	delta int64,
) error {
	next := f.storage[userID] + delta
	if next < 0 {
		next = 0
	}
	f.storage[userID] = next
	return nil
}

type fakeStore struct {
	objects map[string][]byte
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(
	_ context.Context,
	key, _ string,
	body io.Reader,
	_ int64,
) error {
	if f.fail {
		return assert.AnError
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeGymRoles struct {
	admins map[[2]int64]bool
}

func (f *fakeGymRoles) IsGymAdmin(
	_ context.Context,
	gymID, userID int64,
) (bool, error) {
	return f.admins[[2]int64{gymID, userID}], nil
}

type testEnv struct {
	svc   *Service
	repo  *fakeRepo
	usage *fakeUsage
	store *fakeStore
	roles *fakeGymRoles
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	usage := &fakeUsage{repo: repo, storage: make(map[int64]int64)}
	store := newFakeStore()
	roles := &fakeGymRoles{admins: make(map[[2]int64]bool)}

	checker := entitlement.NewChecker(usage, config.PlansConfig{
		FreeMaxClasses: 3,
		FreeMaxNotes:   3,
	})

	svc := NewService(repo, checker, store, roles, usage, slog.Default())

	return &testEnv{svc: svc, repo: repo, usage: usage, store: store, roles: roles}
}

func createNote(t *testing.T, env *testEnv, userID int64, tier string) *Note {
	t.Helper()

	note, err := env.svc.Create(context.Background(), userID, tier, CreateNoteRequest{
		Title:   "Armbar from guard",
		Content: "break the posture first",
	})
	require.NoError(t, err)
	return note
}

func TestCreateEnforcesFreeCeiling(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createNote(t, env, 1, entitlement.TierFree)
	}

	_, err := env.svc.Create(ctx, 1, entitlement.TierFree, CreateNoteRequest{
		Title:   "one too many",
		Content: "x",
	})
	require.ErrorIs(t, err, core.ErrQuotaExceeded)
	assert.Len(t, env.repo.notes, 3)
}

func TestToggleSharingFreeDenied(t *testing.T) {
	env := newTestEnv()
	note := createNote(t, env, 1, entitlement.TierFree)

	_, err := env.svc.ToggleSharing(
		context.Background(),
		note.ID,
		1,
		entitlement.TierFree,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestToggleSharingWeeklyQuota(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := createNote(t, env, 1, entitlement.TierEnthusiast)
	second := createNote(t, env, 1, entitlement.TierEnthusiast)

	shared, err := env.svc.ToggleSharing(ctx, first.ID, 1, entitlement.TierEnthusiast)
	require.NoError(t, err)
	assert.True(t, shared.IsShared)
	require.NotNil(t, shared.SharedAt)

	// enthusiast gets one share per week
	_, err = env.svc.ToggleSharing(ctx, second.ID, 1, entitlement.TierEnthusiast)
	require.ErrorIs(t, err, core.ErrQuotaExceeded)

	// un-sharing releases the slot since counts come from live rows
	unshared, err := env.svc.ToggleSharing(ctx, first.ID, 1, entitlement.TierEnthusiast)
	require.NoError(t, err)
	assert.False(t, unshared.IsShared)
	assert.Nil(t, unshared.SharedAt)

	_, err = env.svc.ToggleSharing(ctx, second.ID, 1, entitlement.TierEnthusiast)
	assert.NoError(t, err)
}

func TestGymShareRequiresGymAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierGymPro)

	_, err := env.svc.GymShare(ctx, note.ID, 1, 7)
	require.ErrorIs(t, err, core.ErrForbidden)

	env.roles.admins[[2]int64{7, 1}] = true

	shared, err := env.svc.GymShare(ctx, note.ID, 1, 7)
	require.NoError(t, err)
	require.NotNil(t, shared.GymID)
	assert.Equal(t, int64(7), *shared.GymID)

	unshared, err := env.svc.GymUnshare(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, unshared.GymID)
}

func TestGymUnshareByPlainMemberForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// user 1 is the gym admin and shares their note; user 2 is an
	// ordinary member of the same gym
	env.roles.admins[[2]int64{7, 1}] = true
	note := createNote(t, env, 1, entitlement.TierGymPro)

	_, err := env.svc.GymShare(ctx, note.ID, 1, 7)
	require.NoError(t, err)

	_, err = env.svc.GymUnshare(ctx, note.ID, 2)
	require.ErrorIs(t, err, core.ErrForbidden)

	stored := env.repo.notes[note.ID]
	require.NotNil(t, stored.GymID)
	assert.Equal(t, int64(7), *stored.GymID)
}

func TestGymAdminCanUnshareMemberNote(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	note := createNote(t, env, 2, entitlement.TierGymPro)
	gymID := int64(7)
	env.repo.notes[note.ID].GymID = &gymID
	env.roles.admins[[2]int64{7, 1}] = true

	unshared, err := env.svc.GymUnshare(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, unshared.GymID)
	assert.Nil(t, env.repo.notes[note.ID].GymID)
}

func TestGymUnshareOwnerWithoutAdminRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	note := createNote(t, env, 1, entitlement.TierGymPro)
	gymID := int64(7)
	env.repo.notes[note.ID].GymID = &gymID

	unshared, err := env.svc.GymUnshare(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, unshared.GymID)
}

func TestGymUnshareUnsharedNoteNotOwned(t *testing.T) {
	env := newTestEnv()
	note := createNote(t, env, 1, entitlement.TierGymPro)

	_, err := env.svc.GymUnshare(context.Background(), note.ID, 2)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUploadVideoChargesStorage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierEnthusiast)

	body := bytes.NewReader([]byte("fake video bytes"))
	updated, err := env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierEnthusiast,
		"roll friday.mp4", "video/mp4", body, 50*mib,
	)
	require.NoError(t, err)

	require.NotNil(t, updated.VideoKey)
	assert.Contains(t, *updated.VideoKey, "videos/")
	assert.Contains(t, *updated.VideoKey, "roll_friday.mp4")
	assert.Equal(t, 50*mib, env.usage.storage[1])
	assert.Len(t, env.store.objects, 1)
}

func TestUploadVideoReplaceReleasesOldBytes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierEnthusiast)

	_, err := env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierEnthusiast,
		"old.mp4", "video/mp4", bytes.NewReader([]byte("old")), 80*mib,
	)
	require.NoError(t, err)
	require.Equal(t, 80*mib, env.usage.storage[1])

	_, err = env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierEnthusiast,
		"new.mp4", "video/mp4", bytes.NewReader([]byte("new")), 30*mib,
	)
	require.NoError(t, err)

	assert.Equal(t, 30*mib, env.usage.storage[1])
	assert.Len(t, env.store.objects, 1)
}

func TestUploadVideoPerFileCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierFree)

	_, err := env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierFree,
		"big.mp4", "video/mp4", bytes.NewReader(nil), 101*mib,
	)
	require.ErrorIs(t, err, core.ErrPayloadTooLarge)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "STORAGE_LIMIT", appErr.Code)
	assert.Zero(t, env.usage.storage[1])
}

func TestUploadVideoUnknownNoteIs404(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.UploadVideo(
		context.Background(), 999, 1, entitlement.TierFree,
		"v.mp4", "video/mp4", bytes.NewReader(nil), mib,
	)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteVideoRefundsBytes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierEnthusiast)

	_, err := env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierEnthusiast,
		"v.mp4", "video/mp4", bytes.NewReader([]byte("v")), 40*mib,
	)
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteVideo(ctx, note.ID, 1))

	assert.Zero(t, env.usage.storage[1])
	assert.Empty(t, env.store.objects)

	// second delete finds no video
	err = env.svc.DeleteVideo(ctx, note.ID, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteNoteReleasesVideo(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := createNote(t, env, 1, entitlement.TierEnthusiast)

	_, err := env.svc.UploadVideo(
		ctx, note.ID, 1, entitlement.TierEnthusiast,
		"v.mp4", "video/mp4", bytes.NewReader([]byte("v")), 40*mib,
	)
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, note.ID, 1))
	assert.Zero(t, env.usage.storage[1])
	assert.Empty(t, env.store.objects)
}

func TestAdminDeleteIgnoresOwnership(t *testing.T) {
	env := newTestEnv()
	note := createNote(t, env, 1, entitlement.TierFree)

	require.NoError(t, env.svc.AdminDelete(context.Background(), note.ID))
	assert.Empty(t, env.repo.notes)
}

func TestLikeUnknownNote(t *testing.T) {
	env := newTestEnv()
	err := env.svc.Like(context.Background(), 42, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "roll_friday.mp4", sanitizeFilename("roll friday.mp4"))
	assert.Equal(t, "v.mp4", sanitizeFilename("../../etc/v.mp4"))
	assert.Equal(t, "video", sanitizeFilename(""))
}
