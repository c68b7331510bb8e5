// AngelaMos | 2026
// service.go

package classes

import (
	"context"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
)

type Service struct {
	repo    Repository
	checker *entitlement.Checker
}

func NewService(repo Repository, checker *entitlement.Checker) *Service {
	return &Service{repo: repo, checker: checker}
}

// Create enforces the tier ceiling before inserting; a denial writes
// nothing.
func (s *Service) Create(
	ctx context.Context,
	userID int64,
	tier string,
	req CreateClassRequest,
) (*Class, error) {
	if err := s.checker.CheckCreateClass(ctx, userID, tier); err != nil {
		return nil, err
	}

	class := &Class{
		UserID:            userID,
		Date:              req.Date,
		ClassTime:         req.ClassTime,
		Location:          req.Location,
		Instructor:        req.Instructor,
		ClassType:         req.ClassType,
		DurationMinutes:   req.DurationMinutes,
		TechniquesLearned: req.TechniquesLearned,
		RollingNotes:      req.RollingNotes,
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, err
	}

	return class, nil
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*Class, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]Class, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(
	ctx context.Context,
	id, userID int64,
	req UpdateClassRequest,
) (*Class, error) {
	class, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		class.Date = *req.Date
	}
	if req.ClassTime != nil {
		class.ClassTime = *req.ClassTime
	}
	if req.Location != nil {
		class.Location = *req.Location
	}
	if req.Instructor != nil {
		class.Instructor = *req.Instructor
	}
	if req.ClassType != nil {
		class.ClassType = *req.ClassType
	}
	if req.DurationMinutes != nil {
		class.DurationMinutes = *req.DurationMinutes
	}
	if req.TechniquesLearned != nil {
		class.TechniquesLearned = *req.TechniquesLearned
	}
	if req.RollingNotes != nil {
		class.RollingNotes = *req.RollingNotes
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, err
	}

	return class, nil
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
