// AngelaMos | 2026
// handler.go

package gyms

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

type CreateGymRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type JoinGymRequest struct {
	Code string `json:"code" validate:"required,max=36"`
}

type GymResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"joinCode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberResponse struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func toGymResponse(g *Gym, includeCode bool) GymResponse {
	resp := GymResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
	if includeCode {
		resp.JoinCode = g.JoinCode
	}
	return resp
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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/gyms", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListMine)
		r.Post("/join", h.Join)
		r.Delete("/leave/{gymID}", h.Leave)
		r.Get("/{gymID}/members", h.ListMembers)

		r.With(adminOnly).Post("/", h.Create)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	gym, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Name,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, toGymResponse(gym, true))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]GymResponse, 0, len(list))
	for i := range list {
		// owners see their gym's join code; members do not
		out = append(out, toGymResponse(&list[i], list[i].OwnerUserID == userID))
	}

	core.OK(w, out)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	gym, err := h.service.Join(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Code,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "gym")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toGymResponse(gym, false))
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	gymID, err := strconv.ParseInt(chi.URLParam(r, "gymID"), 10, 64)
	if err != nil || gymID <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	err = h.service.Leave(r.Context(), gymID, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "gym membership")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "gym owners cannot leave their own gym")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	gymID, err := strconv.ParseInt(chi.URLParam(r, "gymID"), 10, 64)
	if err != nil || gymID <= 0 {
		core.BadRequest(w, "invalid id")
		return
	}

	members, err := h.service.ListMembers(
		r.Context(),
		gymID,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "gym")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only gym admins can list members")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{
			UserID:    m.UserID,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Role:      m.Role,
			JoinedAt:  m.CreatedAt,
		})
	}

	core.OK(w, out)
}
