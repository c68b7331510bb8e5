// AngelaMos | 2026
// handler.go

package drawings

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

type CreateDrawingRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	CanvasData   string `json:"canvasData" validate:"required"`
	LinkedNoteID *int64 `json:"linkedNoteId" validate:"omitempty,gt=0"`
}

type UpdateDrawingRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	CanvasData   *string `json:"canvasData"`
	LinkedNoteID *int64  `json:"linkedNoteId" validate:"omitempty,gt=0"`
}

type DrawingResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CanvasData   string    `json:"canvasData,omitempty"`
	LinkedNoteID *int64    `json:"linkedNoteId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResponse(d *Drawing) DrawingResponse {
	return DrawingResponse{
		ID:           d.ID,
		Title:        d.Title,
		CanvasData:   d.CanvasData,
		LinkedNoteID: d.LinkedNoteID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
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
	r.Route("/drawings", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{drawingID}", h.Get)
		r.Put("/{drawingID}", h.Update)
		r.Delete("/{drawingID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDrawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	drawing := &Drawing{
		UserID:       middleware.GetUserID(r.Context()),
		Title:        req.Title,
		CanvasData:   req.CanvasData,
		LinkedNoteID: req.LinkedNoteID,
	}

	if err := h.repo.Create(r.Context(), drawing); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, toResponse(drawing))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]DrawingResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	drawing, err := h.repo.GetByID(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "drawing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(drawing))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateDrawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	drawing, err := h.repo.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "drawing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if req.Title != nil {
		drawing.Title = *req.Title
	}
	if req.CanvasData != nil {
		drawing.CanvasData = *req.CanvasData
	}
	if req.LinkedNoteID != nil {
		drawing.LinkedNoteID = req.LinkedNoteID
	}

	if err := h.repo.Update(r.Context(), drawing); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "drawing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponse(drawing))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	err := h.repo.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "drawing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "drawingID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
