// AngelaMos | 2026
// handler.go

package gameplans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

type CreateMoveRequest struct {
	PlanName    string `json:"planName" validate:"required,max=255"`
	MoveName    string `json:"moveName" validate:"required,max=255"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId" validate:"omitempty,gt=0"`
}

type MoveResponse struct {
	ID          int64     `json:"id"`
	PlanName    string    `json:"planName"`
	MoveName    string    `json:"moveName"`
	Description string    `json:"description"`
	ParentID    *int64    `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DeleteSubtreeResponse struct {
	Deleted int64 `json:"deleted"`
}

func toResponse(m *Move) MoveResponse {
	return MoveResponse{
		ID:          m.ID,
		PlanName:    m.PlanName,
		MoveName:    m.MoveName,
		Description: m.Description,
		ParentID:    m.ParentID,
		CreatedAt:   m.CreatedAt,
	}
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/game-plans", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListMoves)
		r.Get("/plans", h.ListPlanNames)
		r.Post("/", h.CreateMove)
		r.Delete("/{moveID}", h.DeleteSubtree)
	})
}

func (h *Handler) CreateMove(w http.ResponseWriter, r *http.Request) {
	var req CreateMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	move, err := h.service.CreateMove(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "parent move")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "parent move belongs to a different plan")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, toResponse(move))
}

func (h *Handler) ListMoves(w http.ResponseWriter, r *http.Request) {
	plan := r.URL.Query().Get("plan")
	if plan == "" {
		core.BadRequest(w, "plan query parameter is required")
		return
	}

	list, err := h.service.ListMoves(
		r.Context(),
		middleware.GetUserID(r.Context()),
		plan,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]MoveResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}

	core.OK(w, out)
}

func (h *Handler) ListPlanNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListPlanNames(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if names == nil {
		names = []string{}
	}

	core.OK(w, names)
}

func (h *Handler) DeleteSubtree(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "moveID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	deleted, err := h.service.DeleteSubtree(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "move")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DeleteSubtreeResponse{Deleted: deleted})
}
