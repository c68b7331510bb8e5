// AngelaMos | 2026
// handler.go

package belts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

// Belt history is plain owner-scoped CRUD; the handler talks straight to
// the repository.
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
	r.Route("/belts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{beltID}", h.Update)
		r.Delete("/{beltID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBeltRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	belt := &Belt{
		UserID:        middleware.GetUserID(r.Context()),
		Belt:          req.Belt,
		Stripes:       req.Stripes,
		PromotionDate: req.PromotionDate,
		Instructor:    req.Instructor,
	}

	if err := h.repo.Create(r.Context(), belt); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToBeltResponse(belt))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBeltResponseList(list))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "beltID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	var req UpdateBeltRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	belt, err := h.repo.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "belt")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if req.Belt != nil {
		belt.Belt = *req.Belt
	}
	if req.Stripes != nil {
		belt.Stripes = *req.Stripes
	}
	if req.PromotionDate != nil {
		belt.PromotionDate = *req.PromotionDate
	}
	if req.Instructor != nil {
		belt.Instructor = *req.Instructor
	}

	if err := h.repo.Update(r.Context(), belt); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "belt")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBeltResponse(belt))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "beltID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	err = h.repo.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "belt")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
