// AngelaMos | 2026
// service.go

// Package billing keeps subscription state in sync with the payment
// providers. Stripe covers web checkout, RevenueCat covers the mobile
// app stores; both funnel into the same users columns.
package billing

import (
	"context"
	"time"
)

// SubscriptionStore is the slice of the user repository billing needs.
type SubscriptionStore interface {
	UpdateSubscription(
		ctx context.Context,
		id int64,
		tier, status string,
		expiry *time.Time,
	) error
	UpdateSubscriptionByEmail(
		ctx context.Context,
		email, tier, status string,
		expiry *time.Time,
	) error
}
