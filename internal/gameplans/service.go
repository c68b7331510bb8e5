// AngelaMos | 2026
// service.go

package gameplans

import (
	"context"
	"fmt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateMove inserts a node. A parent must exist, belong to the caller,
// and live in the same plan, so trees can never span plans or users.
func (s *Service) CreateMove(
	ctx context.Context,
	userID int64,
	req CreateMoveRequest,
) (*Move, error) {
	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID, userID)
		if err != nil {
			return nil, err
		}

		if parent.PlanName != req.PlanName {
			return nil, fmt.Errorf(
				"create move: parent in plan %q: %w",
				parent.PlanName,
				core.ErrInvalidInput,
			)
		}
	}

	move := &Move{
		UserID:      userID,
		PlanName:    req.PlanName,
		MoveName:    req.MoveName,
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	if err := s.repo.Create(ctx, move); err != nil {
		return nil, err
	}

	return move, nil
}

func (s *Service) ListMoves(
	ctx context.Context,
	userID int64,
	plan string,
) ([]Move, error) {
	return s.repo.ListByPlan(ctx, userID, plan)
}

func (s *Service) ListPlanNames(
	ctx context.Context,
	userID int64,
) ([]string, error) {
	return s.repo.ListPlanNames(ctx, userID)
}

// DeleteSubtree removes the move and every descendant, returning the
// total number of rows removed.
func (s *Service) DeleteSubtree(
	ctx context.Context,
	id, userID int64,
) (int64, error) {
	return s.repo.DeleteSubtree(ctx, id, userID)
}
