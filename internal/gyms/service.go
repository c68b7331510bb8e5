// AngelaMos | 2026
// service.go

package gyms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create sets up a gym with a fresh join code; the creator becomes its
// first admin member. Retries once on the vanishingly rare code
// collision.
func (s *Service) Create(
	ctx context.Context,
	ownerID int64,
	name string,
) (*Gym, error) {
	var gym *Gym

	for attempt := 0; attempt < 2; attempt++ {
		gym = &Gym{
			Name:        name,
			JoinCode:    newJoinCode(),
			OwnerUserID: ownerID,
		}

		err := s.repo.Create(ctx, gym)
		if err == nil {
			break
		}
		if errors.Is(err, core.ErrDuplicateKey) && attempt == 0 {
			continue
		}
		return nil, err
	}

	err := s.repo.AddMember(ctx, gym.ID, ownerID, RoleAdmin)
	if err != nil && !errors.Is(err, core.ErrDuplicateKey) {
		return nil, err
	}

	return gym, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Gym, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Join adds the caller as a member via join code. Joining twice is a
// no-op rather than an error.
func (s *Service) Join(
	ctx context.Context,
	userID int64,
	code string,
) (*Gym, error) {
	gym, err := s.repo.GetByJoinCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	err = s.repo.AddMember(ctx, gym.ID, userID, RoleMember)
	if err != nil && !errors.Is(err, core.ErrDuplicateKey) {
		return nil, err
	}

	return gym, nil
}

// Leave removes the membership. The gym owner cannot leave their own
// gym; they would orphan it.
func (s *Service) Leave(ctx context.Context, gymID, userID int64) error {
	gym, err := s.repo.GetByID(ctx, gymID)
	if err != nil {
		return err
	}

	if gym.OwnerUserID == userID {
		return fmt.Errorf(
			"leave gym: owner cannot leave: %w",
			core.ErrForbidden,
		)
	}

	return s.repo.RemoveMember(ctx, gymID, userID)
}

// ListMembers is restricted to the gym's admin members.
func (s *Service) ListMembers(
	ctx context.Context,
	gymID, requesterID int64,
) ([]Membership, error) {
	isAdmin, err := s.IsGymAdmin(ctx, gymID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, fmt.Errorf("list members: %w", core.ErrForbidden)
	}

	return s.repo.ListMembers(ctx, gymID)
}

// IsGymAdmin reports whether the user holds the admin role in the gym.
// Non-members are simply not admins.
func (s *Service) IsGymAdmin(
	ctx context.Context,
	gymID, userID int64,
) (bool, error) {
	role, err := s.repo.GetMemberRole(ctx, gymID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return role == RoleAdmin, nil
}

func newJoinCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
