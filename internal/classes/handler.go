// AngelaMos | 2026
// handler.go

package classes

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
	r.Route("/classes", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{classID}", h.Get)
		r.Put("/{classID}", h.Update)
		r.Delete("/{classID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	class, err := h.service.Create(
		ctx,
		middleware.GetUserID(ctx),
		middleware.GetUserTier(ctx),
		req,
	)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToClassResponse(class))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToClassResponseList(list))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "classID")
	if !ok {
		return
	}

	class, err := h.service.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "class")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToClassResponse(class))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "classID")
	if !ok {
		return
	}

	var req UpdateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	class, err := h.service.Update(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "class")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToClassResponse(class))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "classID")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "class")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseID(
	w http.ResponseWriter,
	r *http.Request,
	param string,
) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
