// AngelaMos | 2026
// handler.go

package commitments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

type UpsertCommitmentRequest struct {
	WeekStart     *time.Time `json:"weekStart"`
	TargetClasses int        `json:"targetClasses" validate:"required,gte=1,lte=21"`
}

type CommitmentResponse struct {
	ID               int64     `json:"id"`
	WeekStart        time.Time `json:"weekStart"`
	TargetClasses    int       `json:"targetClasses"`
	CompletedClasses int       `json:"completedClasses"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toResponse(c *WeeklyCommitment) CommitmentResponse {
	return CommitmentResponse{
		ID:               c.ID,
		WeekStart:        c.WeekStart,
		TargetClasses:    c.TargetClasses,
		CompletedClasses: c.CompletedClasses,
		UpdatedAt:        c.UpdatedAt,
	}
}

type Handler struct {
	repo      Repository
	validator *validator.Validate
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo:      repo,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/weekly-commitments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/current", h.GetCurrent)
		r.Post("/", h.Upsert)
		r.Post("/current/complete", h.CompleteClass)
		r.Delete("/{commitmentID}", h.Delete)
	})
}

// Upsert sets the target for a week. An omitted weekStart means the
// current week; any supplied date normalizes to its Monday.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertCommitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	weekStart := entitlement.WeekStart(time.Now())
	if req.WeekStart != nil {
		weekStart = entitlement.WeekStart(*req.WeekStart)
	}

	c := &WeeklyCommitment{
		UserID:        middleware.GetUserID(r.Context()),
		WeekStart:     weekStart,
		TargetClasses: req.TargetClasses,
	}

	if err := h.repo.Upsert(r.Context(), c); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(c))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]CommitmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}

	core.OK(w, out)
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.GetByWeek(
		r.Context(),
		middleware.GetUserID(r.Context()),
		entitlement.WeekStart(time.Now()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "commitment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(c))
}

func (h *Handler) CompleteClass(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.IncrementCompleted(
		r.Context(),
		middleware.GetUserID(r.Context()),
		entitlement.WeekStart(time.Now()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "commitment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "commitmentID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	err = h.repo.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "commitment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
