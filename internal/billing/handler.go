// AngelaMos | 2026
// handler.go

package billing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 64 << 10

type VerifyPurchaseRequest struct {
	AppUserID string `json:"appUserId" validate:"required,max=255"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type VerifyPurchaseResponse struct {
	Premium bool       `json:"premium"`
	Expiry  *time.Time `json:"expiry,omitempty"`
}

type Handler struct {
	stripe     *StripeService
	revenueCat *RevenueCatService
	validator  *validator.Validate
}

func NewHandler(stripe *StripeService, revenueCat *RevenueCatService) *Handler {
	return &Handler{
		stripe:     stripe,
		revenueCat: revenueCat,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the authenticated billing endpoints. The
// webhook route is registered separately because Stripe calls it
// without a bearer token.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/stripe", func(r chi.Router) {
		r.With(authenticator).
			Post("/create-checkout-session", h.CreateCheckoutSession)
	})

	r.Route("/revenuecat", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/verify", h.VerifyPurchase)
	})
}

func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/stripe/webhook", h.Webhook)
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetAuthUser(r.Context())
	if user == nil {
		core.Unauthorized(w, "authentication required")
		return
	}

	url, err := h.stripe.CreateCheckoutSession(user.ID, user.Email)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CheckoutResponse{URL: url})
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "invalid payload")
		return
	}

	event, err := h.stripe.VerifyWebhook(
		payload, r.Header.Get("Stripe-Signature"),
	)
	if err != nil {
		core.BadRequest(w, "signature verification failed")
		return
	}

	if err := h.stripe.HandleEvent(r.Context(), event); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// no matching account yet; Stripe should not retry
			core.OK(w, map[string]string{"status": "ignored"})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": "ok"})
}

func (h *Handler) VerifyPurchase(w http.ResponseWriter, r *http.Request) {
	var req VerifyPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	premium, expiry, err := h.revenueCat.Verify(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.AppUserID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscriber")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, VerifyPurchaseResponse{Premium: premium, Expiry: expiry})
}
