// AngelaMos | 2026
// handler.go

package storage

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

// UsageReader reports how many video bytes a user currently has stored.
type UsageReader interface {
	StorageUsed(ctx context.Context, userID int64) (int64, error)
}

type UsageResponse struct {
	UsedBytes      int64  `json:"usedBytes"`
	QuotaBytes     int64  `json:"quotaBytes"`
	UsedFormatted  string `json:"usedFormatted"`
	QuotaFormatted string `json:"quotaFormatted"`
	Tier           string `json:"tier"`
}

type Handler struct {
	usage   UsageReader
	checker *entitlement.Checker
}

func NewHandler(usage UsageReader, checker *entitlement.Checker) *Handler {
	return &Handler{usage: usage, checker: checker}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/storage", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/usage", h.Usage)
	})
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	used, err := h.usage.StorageUsed(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	tier := middleware.GetUserTier(r.Context())
	limits := h.checker.Limits(tier)

	core.OK(w, UsageResponse{
		UsedBytes:      used,
		QuotaBytes:     limits.StorageBytes,
		UsedFormatted:  entitlement.FormatBytes(used),
		QuotaFormatted: entitlement.FormatBytes(limits.StorageBytes),
		Tier:           tier,
	})
}
