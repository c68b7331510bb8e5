// AngelaMos | 2026
// handler_test.go

package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
)

type fakeUsage struct {
	used map[int64]int64
}

func (f *fakeUsage) StorageUsed(_ context.Context, userID int64) (int64, error) {
	return f.used[userID], nil
}

type checkerUsage struct{}

func (checkerUsage) CountClasses(context.Context, int64) (int, error) { return 0, nil }
func (checkerUsage) CountNotes(context.Context, int64) (int, error)   { return 0, nil }

func (checkerUsage) CountSharesSince(
	context.Context, int64, time.Time,
) (int, error) {
	return 0, nil
}

func (checkerUsage) StorageUsed(context.Context, int64) (int64, error) {
	return 0, nil
}

func usageRequest(userID int64, tier string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/storage/usage", nil)
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserTierKey, tier)
	return r.WithContext(ctx)
}

func TestUsageReportsTierQuota(t *testing.T) {
	gib := int64(1) << 30
	checker := entitlement.NewChecker(checkerUsage{}, config.PlansConfig{})
	h := NewHandler(&fakeUsage{used: map[int64]int64{1: 3 * gib}}, checker)

	rec := httptest.NewRecorder()
	h.Usage(rec, usageRequest(1, entitlement.TierEnthusiast))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data UsageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 3*gib, body.Data.UsedBytes)
	assert.Equal(t, 75*gib, body.Data.QuotaBytes)
	assert.Equal(t, entitlement.TierEnthusiast, body.Data.Tier)
	assert.Equal(t, "3 GiB", body.Data.UsedFormatted)
}

// The quota reported must come from the checker's folded limits, the
// same table the write paths enforce, not a second lookup that could
// drift from it.
func TestUsageQuotaMatchesCheckerLimits(t *testing.T) {
	checker := entitlement.NewChecker(checkerUsage{}, config.PlansConfig{
		FreeMaxClasses: 10,
		FreeMaxNotes:   5,
	})
	h := NewHandler(&fakeUsage{used: map[int64]int64{}}, checker)

	rec := httptest.NewRecorder()
	h.Usage(rec, usageRequest(2, entitlement.TierFree))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data UsageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	want := checker.Limits(entitlement.TierFree)
	assert.Equal(t, want.StorageBytes, body.Data.QuotaBytes)
	assert.Equal(t, entitlement.FormatBytes(want.StorageBytes), body.Data.QuotaFormatted)
}
