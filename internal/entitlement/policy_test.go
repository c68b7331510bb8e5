// AngelaMos | 2026
// policy_test.go

package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type fakeUsage struct {
	classes    int
	notes      int
	shares     int
	storage    int64
	sharesFrom time.Time
}

func (f *fakeUsage) CountClasses(_ context.Context, _ int64) (int, error) {
	return f.classes, nil
}

func (f *fakeUsage) CountNotes(_ context.Context, _ int64) (int, error) {
	return f.notes, nil
}

func (f *fakeUsage) CountSharesSince(
	_ context.Context,
	_ int64,
	since time.Time,
) (int, error) {
	f.sharesFrom = since
	return f.shares, nil
}

func (f *fakeUsage) StorageUsed(_ context.Context, _ int64) (int64, error) {
	return f.storage, nil
}

func newTestChecker(usage *fakeUsage) *Checker {
	return NewChecker(usage, config.PlansConfig{
		FreeMaxClasses: 3,
		FreeMaxNotes:   3,
	})
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid-week",
			now:  time.Date(2026, 3, 5, 15, 30, 0, 0, time.UTC), // Thursday
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday morning stays on same day",
			now:  time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC),
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday maps back six days",
			now:  time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non-utc input normalized",
			now: time.Date(
				2026, 3, 2, 1, 0, 0, 0,
				time.FixedZone("UTC+3", 3*3600),
			), // Sunday 22:00 UTC
			want: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.now))
		})
	}
}

func TestCheckCreateClass(t *testing.T) {
	ctx := context.Background()

	t.Run("free under limit", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{classes: 2})
		assert.NoError(t, c.CheckCreateClass(ctx, 1, TierFree))
	})

	t.Run("free at limit denied with details", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{classes: 3})
		err := c.CheckCreateClass(ctx, 1, TierFree)
		require.ErrorIs(t, err, core.ErrQuotaExceeded)

		appErr, ok := core.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 3, appErr.Details["limit"])
		assert.Equal(t, 3, appErr.Details["current"])
	})

	t.Run("paid tier unlimited", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{classes: 5000})
		assert.NoError(t, c.CheckCreateClass(ctx, 1, TierEnthusiast))
	})

	t.Run("unknown tier treated as free", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{classes: 3})
		assert.ErrorIs(
			t,
			c.CheckCreateClass(ctx, 1, "mystery"),
			core.ErrQuotaExceeded,
		)
	})
}

func TestCheckCreateNote(t *testing.T) {
	ctx := context.Background()

	c := newTestChecker(&fakeUsage{notes: 3})
	assert.ErrorIs(t, c.CheckCreateNote(ctx, 1, TierFree), core.ErrQuotaExceeded)
	assert.NoError(t, c.CheckCreateNote(ctx, 1, TierGymPro))
}

func TestCheckShare(t *testing.T) {
	ctx := context.Background()

	t.Run("free denied outright", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{})
		err := c.CheckShare(ctx, 1, TierFree)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("enthusiast gets one per week", func(t *testing.T) {
		usage := &fakeUsage{shares: 0}
		c := newTestChecker(usage)
		assert.NoError(t, c.CheckShare(ctx, 1, TierEnthusiast))

		usage.shares = 1
		assert.ErrorIs(t, c.CheckShare(ctx, 1, TierEnthusiast), core.ErrQuotaExceeded)
	})

	t.Run("gym pro gets three per week", func(t *testing.T) {
		usage := &fakeUsage{shares: 2}
		c := newTestChecker(usage)
		assert.NoError(t, c.CheckShare(ctx, 1, TierGymPro))

		usage.shares = 3
		assert.ErrorIs(t, c.CheckShare(ctx, 1, TierGymPro), core.ErrQuotaExceeded)
	})

	t.Run("counts from monday week start", func(t *testing.T) {
		usage := &fakeUsage{}
		c := newTestChecker(usage)
		c.now = func() time.Time {
			return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
		}

		require.NoError(t, c.CheckShare(ctx, 1, TierGymPro))
		assert.Equal(
			t,
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			usage.sharesFrom,
		)
	})
}

func TestCheckUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("per-file cap", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{})
		err := c.CheckUpload(ctx, 1, TierFree, 101*mib, 0)
		require.ErrorIs(t, err, core.ErrPayloadTooLarge)

		assert.NoError(t, c.CheckUpload(ctx, 1, TierFree, 100*mib, 0))
	})

	t.Run("paid per-file cap is higher", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{})
		assert.NoError(t, c.CheckUpload(ctx, 1, TierEnthusiast, 400*mib, 0))
		assert.ErrorIs(
			t,
			c.CheckUpload(ctx, 1, TierEnthusiast, 501*mib, 0),
			core.ErrPayloadTooLarge,
		)
	})

	t.Run("cumulative quota", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{storage: 10*gib - 50*mib})
		assert.ErrorIs(
			t,
			c.CheckUpload(ctx, 1, TierFree, 100*mib, 0),
			core.ErrPayloadTooLarge,
		)
	})

	t.Run("replacement frees the old size first", func(t *testing.T) {
		c := newTestChecker(&fakeUsage{storage: 10*gib - 50*mib})
		assert.NoError(t, c.CheckUpload(ctx, 1, TierFree, 100*mib, 80*mib))
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "100 MiB", FormatBytes(100*mib))
	assert.Equal(t, "10 GiB", FormatBytes(10*gib))
	assert.Equal(t, "1.5 GiB", FormatBytes(gib+gib/2))
}
