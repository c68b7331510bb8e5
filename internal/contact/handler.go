// AngelaMos | 2026
// handler.go

package contact

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// AdminNotifier forwards a contact message to the site admin.
type AdminNotifier interface {
	SendContactNotification(name, email, message string)
}

type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Handler struct {
	repo      Repository
	notifier  AdminNotifier
	validator *validator.Validate
}

func NewHandler(repo Repository, notifier AdminNotifier) *Handler {
	return &Handler{
		repo:      repo,
		notifier:  notifier,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the public submission endpoint. The caller is
// expected to wrap it in the public rate limiter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.Submit)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/contact-messages", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	msg := &Message{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.repo.Create(r.Context(), msg); err != nil {
		core.InternalServerError(w, err)
		return
	}

	if h.notifier != nil {
		h.notifier.SendContactNotification(req.Name, req.Email, req.Message)
	}

	core.Created(w, toMessageResponse(msg))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), 200)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]MessageResponse, 0, len(list))
	for i := range list {
		out = append(out, toMessageResponse(&list[i]))
	}

	core.OK(w, out)
}

func toMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
