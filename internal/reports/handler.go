// AngelaMos | 2026
// handler.go

package reports

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

type ReportNoteRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type ReportResponse struct {
	ID             int64     `json:"id"`
	NoteID         int64     `json:"noteId"`
	ReporterUserID int64     `json:"reporterUserId"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
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
	r.With(authenticator).Post("/notes/{noteID}/report", h.ReportNote)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/reports", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListOpen)
		r.Post("/{reportID}/resolve", h.Resolve)
	})
}

func (h *Handler) ReportNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil || noteID <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	var req ReportNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	report := &Report{
		NoteID:         noteID,
		ReporterUserID: middleware.GetUserID(r.Context()),
		Reason:         req.Reason,
	}

	if err := h.repo.Create(r.Context(), report); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "note")
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("report"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, toReportResponse(report))
}

func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListOpen(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]ReportResponse, 0, len(list))
	for i := range list {
		out = append(out, toReportResponse(&list[i]))
	}

	core.OK(w, out)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil || reportID <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	if err := h.repo.Resolve(r.Context(), reportID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "report")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": StatusResolved})
}

func toReportResponse(rep *Report) ReportResponse {
	return ReportResponse{
		ID:             rep.ID,
		NoteID:         rep.NoteID,
		ReporterUserID: rep.ReporterUserID,
		Reason:         rep.Reason,
		Status:         rep.Status,
		CreatedAt:      rep.CreatedAt,
	}
}
