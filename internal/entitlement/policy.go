// AngelaMos | 2026
// policy.go

package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// Unlimited marks a count ceiling that is never enforced.
const Unlimited = -1

const (
	TierFree       = "free"
	TierEnthusiast = "enthusiast"
	TierGymPro     = "gym_pro"
)

// Limits is the full ceiling set for one tier. Counts use Unlimited for
// no cap; byte values are always finite.
type Limits struct {
	MaxClasses    int
	MaxNotes      int
	StorageBytes  int64
	MaxVideoBytes int64
	WeeklyShares  int
}

const (
	gib = int64(1) << 30
	mib = int64(1) << 20
)

var limitsByTier = map[string]Limits{
	TierFree: {
		MaxClasses:    3,
		MaxNotes:      3,
		StorageBytes:  10 * gib,
		MaxVideoBytes: 100 * mib,
		WeeklyShares:  0,
	},
	TierEnthusiast: {
		MaxClasses:    Unlimited,
		MaxNotes:      Unlimited,
		StorageBytes:  75 * gib,
		MaxVideoBytes: 500 * mib,
		WeeklyShares:  1,
	},
	TierGymPro: {
		MaxClasses:    Unlimited,
		MaxNotes:      Unlimited,
		StorageBytes:  150 * gib,
		MaxVideoBytes: 500 * mib,
		WeeklyShares:  3,
	},
}

// ForTier returns the ceilings for a tier; unknown tiers get free-tier
// limits.
func ForTier(tier string) Limits {
	if l, ok := limitsByTier[tier]; ok {
		return l
	}
	return limitsByTier[TierFree]
}

// WeekStart returns the most recent Monday 00:00 UTC at or before now.
// Weekly share quotas count rows from this instant.
func WeekStart(now time.Time) time.Time {
	now = now.UTC()

	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -daysSinceMonday)

	return time.Date(
		monday.Year(), monday.Month(), monday.Day(),
		0, 0, 0, 0, time.UTC,
	)
}

// UsageReader is the slice of the ledger the checker needs.
type UsageReader interface {
	CountClasses(ctx context.Context, userID int64) (int, error)
	CountNotes(ctx context.Context, userID int64) (int, error)
	CountSharesSince(
		ctx context.Context,
		userID int64,
		since time.Time,
	) (int, error)
	StorageUsed(ctx context.Context, userID int64) (int64, error)
}

// Checker enforces plan ceilings before writes. Checks count live rows;
// a denial never leaves a partial row behind.
type Checker struct {
	ledger UsageReader
	plans  config.PlansConfig
	now    func() time.Time
}

func NewChecker(ledger UsageReader, plans config.PlansConfig) *Checker {
	return &Checker{
		ledger: ledger,
		plans:  plans,
		now:    time.Now,
	}
}

// limitsFor folds the configured free-tier ceilings over the defaults.
// Only the free tier has finite count ceilings, so the overrides apply
// whenever the ceiling is finite.
func (c *Checker) limitsFor(tier string) Limits {
	limits := ForTier(tier)

	if limits.MaxClasses != Unlimited && c.plans.FreeMaxClasses > 0 {
		limits.MaxClasses = c.plans.FreeMaxClasses
	}
	if limits.MaxNotes != Unlimited && c.plans.FreeMaxNotes > 0 {
		limits.MaxNotes = c.plans.FreeMaxNotes
	}

	return limits
}

// Limits is the config-folded ceiling table for a tier; callers that
// report quotas must read through here rather than ForTier so config
// overrides are never bypassed.
func (c *Checker) Limits(tier string) Limits {
	return c.limitsFor(tier)
}

func (c *Checker) CheckCreateClass(
	ctx context.Context,
	userID int64,
	tier string,
) error {
	limits := c.limitsFor(tier)
	if limits.MaxClasses == Unlimited {
		return nil
	}

	count, err := c.ledger.CountClasses(ctx, userID)
	if err != nil {
		return err
	}

	if count >= limits.MaxClasses {
		return core.QuotaError(
			fmt.Sprintf(
				"free plan is limited to %d classes; upgrade to log more",
				limits.MaxClasses,
			),
			limits.MaxClasses,
			count,
		)
	}

	return nil
}

func (c *Checker) CheckCreateNote(
	ctx context.Context,
	userID int64,
	tier string,
) error {
	limits := c.limitsFor(tier)
	if limits.MaxNotes == Unlimited {
		return nil
	}

	count, err := c.ledger.CountNotes(ctx, userID)
	if err != nil {
		return err
	}

	if count >= limits.MaxNotes {
		return core.QuotaError(
			fmt.Sprintf(
				"free plan is limited to %d notes; upgrade to write more",
				limits.MaxNotes,
			),
			limits.MaxNotes,
			count,
		)
	}

	return nil
}

// CheckShare gates community sharing. Free users are denied outright;
// paid tiers get a weekly allowance counted from shared note rows since
// Monday 00:00 UTC, so the count self-heals when shares are revoked.
func (c *Checker) CheckShare(
	ctx context.Context,
	userID int64,
	tier string,
) error {
	limits := c.limitsFor(tier)

	if limits.WeeklyShares == 0 {
		return core.ForbiddenError(
			"sharing notes requires a paid plan",
		)
	}

	used, err := c.ledger.CountSharesSince(ctx, userID, WeekStart(c.now()))
	if err != nil {
		return err
	}

	if used >= limits.WeeklyShares {
		return core.QuotaError(
			fmt.Sprintf(
				"weekly share limit of %d reached; resets Monday",
				limits.WeeklyShares,
			),
			limits.WeeklyShares,
			used,
		)
	}

	return nil
}

// CheckUpload enforces the per-file cap and the cumulative storage
// quota. replacedBytes is the size of a video being overwritten; it is
// subtracted before the cumulative check since the old object goes away.
func (c *Checker) CheckUpload(
	ctx context.Context,
	userID int64,
	tier string,
	size, replacedBytes int64,
) error {
	limits := c.limitsFor(tier)

	if size > limits.MaxVideoBytes {
		return core.StorageLimitError(
			fmt.Sprintf(
				"video is %s; the %s plan allows up to %s per video",
				FormatBytes(size),
				tier,
				FormatBytes(limits.MaxVideoBytes),
			),
			limits.MaxVideoBytes,
			size,
		)
	}

	used, err := c.ledger.StorageUsed(ctx, userID)
	if err != nil {
		return err
	}

	effective := used - replacedBytes
	if effective < 0 {
		effective = 0
	}

	if effective+size > limits.StorageBytes {
		return core.StorageLimitError(
			fmt.Sprintf(
				"upload would use %s of your %s storage quota",
				FormatBytes(effective+size),
				FormatBytes(limits.StorageBytes),
			),
			limits.StorageBytes,
			effective,
		)
	}

	return nil
}
