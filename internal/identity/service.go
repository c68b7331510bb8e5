// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// ObjectRemover deletes a stored object by key. Satisfied by the video
// storage client; account deletion uses it to clear remote objects.
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

// WelcomeSender fires the post-registration email. Nil disables it.
type WelcomeSender interface {
	SendWelcome(email, firstName string)
}

type Service struct {
	repo    Repository
	signer  *LegacyVerifier
	plans   config.PlansConfig
	objects ObjectRemover
	welcome WelcomeSender
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	signer *LegacyVerifier,
	plans config.PlansConfig,
	objects ObjectRemover,
	welcome WelcomeSender,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		signer:  signer,
		plans:   plans,
		objects: objects,
		welcome: welcome,
		logger:  logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	email := strings.ToLower(req.Email)

	user := &User{
		Email:              email,
		PasswordHash:       &hash,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Role:               RoleUser,
		SubscriptionTier:   TierFree,
		SubscriptionStatus: StatusFree,
	}

	if containsEmail(s.plans.AdminEmails, email) {
		user.Role = RoleAdmin
	}

	if containsEmail(s.plans.PremiumEmails, email) {
		user.SubscriptionTier = TierGymPro
		user.SubscriptionStatus = StatusPremium
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.welcome != nil {
		s.welcome.SendWelcome(user.Email, user.FirstName)
	}

	return &AuthResponse{Token: token, User: ToUserResponse(user)}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	// always verify against something so unknown emails and
	// password-less Supabase accounts cost the same as wrong passwords
	var storedHash *string
	if user != nil {
		storedHash = user.PasswordHash
	}

	ok, verifyErr := core.VerifyPasswordTimingSafe(req.Password, storedHash)
	if verifyErr != nil {
		return nil, fmt.Errorf("login: %w", verifyErr)
	}
	if err != nil || !ok {
		return nil, fmt.Errorf("login: %w", core.ErrUnauthorized)
	}

	token, err := s.signer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &AuthResponse{Token: token, User: ToUserResponse(user)}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySupabaseID(
	ctx context.Context,
	supabaseID string,
) (*User, error) {
	return s.repo.GetBySupabaseID(ctx, supabaseID)
}

// DeleteAccount removes the user row (owned rows cascade) after a
// best-effort sweep of their stored videos. A failed object delete is
// logged and skipped; orphaned objects are cheaper than a stuck
// deletion.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	keys, err := s.repo.ListVideoKeys(ctx, userID)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.objects.Remove(ctx, key); err != nil {
			s.logger.Warn("failed to remove video during account deletion",
				"user_id", userID,
				"key", key,
				"error", err,
			)
		}
	}

	return s.repo.Delete(ctx, userID)
}
