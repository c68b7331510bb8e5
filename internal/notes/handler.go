// AngelaMos | 2026
// handler.go

package notes

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

// uploads stream through multipart; the form itself stays small since
// the file part is read directly
const maxMultipartMemory = 10 << 20

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
	r.Route("/notes", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/shared", h.ListShared)
		r.Get("/gym/{gymID}", h.ListByGym)

		r.Route("/{noteID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/toggle-sharing", h.ToggleSharing)
			r.Post("/gym-share", h.GymShare)
			r.Post("/gym-unshare", h.GymUnshare)
			r.Post("/like", h.Like)
			r.Delete("/like", h.Unlike)
			r.Post("/video", h.UploadVideo)
			r.Delete("/video", h.DeleteVideo)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/notes", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Delete("/{noteID}", h.AdminDelete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	note, err := h.service.Create(
		ctx,
		middleware.GetUserID(ctx),
		middleware.GetUserTier(ctx),
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, h.service.toNoteResponse(note))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponseList(list))
}

func (h *Handler) ListShared(w http.ResponseWriter, r *http.Request) {
	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}

	list, total, err := h.service.ListShared(
		r.Context(),
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, h.service.toNoteResponseList(list), page, pageSize, total)
}

func (h *Handler) ListByGym(w http.ResponseWriter, r *http.Request) {
	gymID, ok := parseID(w, r, "gymID")
	if !ok {
		return
	}

	list, err := h.service.ListByGym(
		r.Context(),
		gymID,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponseList(list))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.service.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	note, err := h.service.Update(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ToggleSharing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	ctx := r.Context()
	note, err := h.service.ToggleSharing(
		ctx,
		id,
		middleware.GetUserID(ctx),
		middleware.GetUserTier(ctx),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) GymShare(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	var req GymShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	note, err := h.service.GymShare(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req.GymID,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) GymUnshare(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.service.GymUnshare(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	err := h.service.Like(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	err := h.service.Unlike(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		core.BadRequest(w, "missing video file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx := r.Context()
	note, err := h.service.UploadVideo(
		ctx,
		id,
		middleware.GetUserID(ctx),
		middleware.GetUserTier(ctx),
		header.Filename,
		contentType,
		file,
		header.Size,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, h.service.toNoteResponse(note))
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	err := h.service.DeleteVideo(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "noteID")
	if !ok {
		return
	}

	if err := h.service.AdminDelete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "note")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	default:
		core.InternalServerError(w, err)
	}
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

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return defaultVal
	}

	return parsed
}
