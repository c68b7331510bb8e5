// AngelaMos | 2026
// service.go

package notes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
)

// VideoStore is the object storage surface notes need for attached
// videos.
type VideoStore interface {
	Upload(
		ctx context.Context,
		key, contentType string,
		body io.Reader,
		size int64,
	) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// GymRoles answers membership-role questions without importing the gyms
// package.
type GymRoles interface {
	IsGymAdmin(ctx context.Context, gymID, userID int64) (bool, error)
}

// StorageAccountant adjusts the owner's cumulative storage counter.
type StorageAccountant interface {
	AddStorage(ctx context.Context, userID int64, delta int64) error
}

type Service struct {
	repo     Repository
	checker  *entitlement.Checker
	videos   VideoStore
	gymRoles GymRoles
	accounts StorageAccountant
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(
	repo Repository,
	checker *entitlement.Checker,
	videos VideoStore,
	gymRoles GymRoles,
	accounts StorageAccountant,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		checker:  checker,
		videos:   videos,
		gymRoles: gymRoles,
		accounts: accounts,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID int64,
	tier string,
	req CreateNoteRequest,
) (*Note, error) {
	if err := s.checker.CheckCreateNote(ctx, userID, tier); err != nil {
		return nil, err
	}

	note := &Note{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		LinkToClass: req.LinkToClass,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*Note, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListShared(
	ctx context.Context,
	limit, offset int,
) ([]Note, int, error) {
	return s.repo.ListShared(ctx, limit, offset)
}

func (s *Service) ListByGym(
	ctx context.Context,
	gymID, userID int64,
) ([]Note, error) {
	isAdmin, err := s.gymRoles.IsGymAdmin(ctx, gymID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, fmt.Errorf("list gym notes: %w", core.ErrForbidden)
	}

	return s.repo.ListByGym(ctx, gymID)
}

func (s *Service) Update(
	ctx context.Context,
	id, userID int64,
	req UpdateNoteRequest,
) (*Note, error) {
	note, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Category != nil {
		note.Category = *req.Category
	}
	if req.LinkToClass != nil {
		note.LinkToClass = req.LinkToClass
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	note, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.releaseVideo(ctx, note)
	return nil
}

// ToggleSharing flips community visibility. Turning sharing on runs the
// weekly quota check; turning it off is always allowed and clears
// shared_at so the row drops out of this week's count.
func (s *Service) ToggleSharing(
	ctx context.Context,
	id, userID int64,
	tier string,
) (*Note, error) {
	note, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if note.IsShared {
		if err := s.repo.SetSharing(ctx, id, userID, false, nil); err != nil {
			return nil, err
		}
		note.IsShared = false
		note.SharedAt = nil
		return note, nil
	}

	if err := s.checker.CheckShare(ctx, userID, tier); err != nil {
		return nil, err
	}

	sharedAt := s.now().UTC()
	if err := s.repo.SetSharing(ctx, id, userID, true, &sharedAt); err != nil {
		return nil, err
	}

	note.IsShared = true
	note.SharedAt = &sharedAt
	return note, nil
}

// GymShare pushes the caller's own note into a gym. Only gym admins may
// push; someone else's note answers 404 like any not-owned resource.
func (s *Service) GymShare(
	ctx context.Context,
	id, userID, gymID int64,
) (*Note, error) {
	note, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, fmt.Errorf("gym share: %w", core.ErrNotFound)
	}

	isAdmin, err := s.gymRoles.IsGymAdmin(ctx, gymID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, fmt.Errorf(
			"gym share: only gym admins can share: %w",
			core.ErrForbidden,
		)
	}

	if err := s.repo.SetGym(ctx, id, userID, &gymID); err != nil {
		return nil, err
	}

	note.GymID = &gymID
	return note, nil
}

// GymUnshare pulls a note out of its gym. The owner may always pull
// their own note; admins of that gym may pull any member's note; plain
// members get 403 with the association untouched.
func (s *Service) GymUnshare(
	ctx context.Context,
	id, userID int64,
) (*Note, error) {
	note, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}

	if note.GymID == nil {
		if note.UserID != userID {
			return nil, fmt.Errorf("gym unshare: %w", core.ErrNotFound)
		}
		return note, nil
	}

	if note.UserID != userID {
		isAdmin, err := s.gymRoles.IsGymAdmin(ctx, *note.GymID, userID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, fmt.Errorf(
				"gym unshare: only the owner or a gym admin can unshare: %w",
				core.ErrForbidden,
			)
		}
	}

	if err := s.repo.SetGym(ctx, id, note.UserID, nil); err != nil {
		return nil, err
	}

	note.GymID = nil
	return note, nil
}

func (s *Service) Like(ctx context.Context, noteID, userID int64) error {
	if _, err := s.repo.GetByIDAny(ctx, noteID); err != nil {
		return err
	}
	return s.repo.AddLike(ctx, noteID, userID)
}

func (s *Service) Unlike(ctx context.Context, noteID, userID int64) error {
	return s.repo.RemoveLike(ctx, noteID, userID)
}

// UploadVideo attaches or replaces a note's video. Both the per-file cap
// and the cumulative quota are checked before any byte is stored. When
// replacing, the old object's size is released before the new one is
// charged.
func (s *Service) UploadVideo(
	ctx context.Context,
	noteID, userID int64,
	tier, filename, contentType string,
	body io.Reader,
	size int64,
) (*Note, error) {
	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	oldSize := note.videoSize()
	if err := s.checker.CheckUpload(ctx, userID, tier, size, oldSize); err != nil {
		return nil, err
	}

	key := s.videoKey(filename)
	if err := s.videos.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	if note.HasVideo() {
		s.releaseVideo(ctx, note)
	}

	cleanName := sanitizeFilename(filename)
	if err := s.repo.SetVideo(
		ctx, noteID, userID, &key, &cleanName, &size,
	); err != nil {
		return nil, err
	}

	if err := s.accounts.AddStorage(ctx, userID, size); err != nil {
		return nil, err
	}

	note.VideoKey = &key
	note.VideoFilename = &cleanName
	note.VideoSizeBytes = &size
	return note, nil
}

func (s *Service) DeleteVideo(ctx context.Context, noteID, userID int64) error {
	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		return err
	}

	if !note.HasVideo() {
		return fmt.Errorf("delete video: %w", core.ErrNotFound)
	}

	if err := s.repo.SetVideo(ctx, noteID, userID, nil, nil, nil); err != nil {
		return err
	}

	s.releaseVideo(ctx, note)
	return nil
}

// AdminDelete force-removes any note, clearing its video and the
// owner's storage charge. Moderation path, no ownership scope.
func (s *Service) AdminDelete(ctx context.Context, noteID int64) error {
	note, err := s.repo.GetByIDAny(ctx, noteID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAny(ctx, noteID); err != nil {
		return err
	}

	s.releaseVideo(ctx, note)
	return nil
}

// releaseVideo removes the stored object and refunds the bytes.
// Best-effort on the object side: storage failures log and move on, the
// decrement floors at zero either way.
func (s *Service) releaseVideo(ctx context.Context, note *Note) {
	if !note.HasVideo() {
		return
	}

	if err := s.videos.Remove(ctx, *note.VideoKey); err != nil {
		s.logger.Warn("failed to remove video object",
			"note_id", note.ID,
			"key", *note.VideoKey,
			"error", err,
		)
	}

	if err := s.accounts.AddStorage(ctx, note.UserID, -note.videoSize()); err != nil {
		s.logger.Warn("failed to release storage bytes",
			"note_id", note.ID,
			"user_id", note.UserID,
			"error", err,
		)
	}
}

func (s *Service) videoKey(filename string) string {
	return fmt.Sprintf(
		"videos/%d-%s",
		s.now().UnixMilli(),
		sanitizeFilename(filename),
	)
}

// sanitizeFilename strips directories and characters that are awkward
// in object keys and URLs.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if out == "" || out == "." {
		return "video"
	}
	return out
}
