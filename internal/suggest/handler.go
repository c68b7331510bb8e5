// AngelaMos | 2026
// handler.go

package suggest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

type CounterMovesRequest struct {
	Technique string `json:"technique" validate:"required,max=255"`
	Position  string `json:"position" validate:"max=255"`
}

type CounterMovesResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
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
	r.Route("/suggest", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/counter-moves", h.CounterMoves)
	})
}

func (h *Handler) CounterMoves(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetAuthUser(r.Context())
	if user == nil || !user.Premium {
		core.Forbidden(w, "counter-move suggestions require a paid plan")
		return
	}

	var req CounterMovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	suggestions, err := h.service.CounterMoves(
		r.Context(), req.Technique, req.Position,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CounterMovesResponse{Suggestions: suggestions})
}
