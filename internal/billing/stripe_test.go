// AngelaMos | 2026
// stripe_test.go

package billing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
)

type subUpdate struct {
	userID int64
	email  string
	tier   string
	status string
	expiry *time.Time
}

type fakeStore struct {
	updates []subUpdate
}

func (f *fakeStore) UpdateSubscription(
	_ context.Context,
	id int64,
	tier, status string,
	expiry *time.Time,
) error {
	f.updates = append(f.updates, subUpdate{
		userID: id, tier: tier, status: status, expiry: expiry,
	})
	return nil
}

func (f *fakeStore) UpdateSubscriptionByEmail(
	_ context.Context,
	email, tier, status string,
	expiry *time.Time,
) error {
	f.updates = append(f.updates, subUpdate{
		email: email, tier: tier, status: status, expiry: expiry,
	})
	return nil
}

func newStripeTestService(store *fakeStore) *StripeService {
	return NewStripeService(
		config.StripeConfig{WebhookSecret: "whsec_test"},
		store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func stripeEvent(t *testing.T, eventType string, payload any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return stripe.Event{
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleCheckoutCompleted(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	event := stripeEvent(t, "checkout.session.completed", map[string]any{
		"id": "cs_123",
		"customer_details": map[string]any{
			"email": "roller@example.com",
		},
	})

	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, store.updates, 1)
	assert.Equal(t, "roller@example.com", store.updates[0].email)
	assert.Equal(t, "enthusiast", store.updates[0].tier)
	assert.Equal(t, "active", store.updates[0].status)
	assert.Nil(t, store.updates[0].expiry)
}

func TestHandleCheckoutCompletedMissingEmail(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	event := stripeEvent(t, "checkout.session.completed", map[string]any{
		"id": "cs_123",
	})

	assert.Error(t, svc.HandleEvent(context.Background(), event))
	assert.Empty(t, store.updates)
}

func TestHandleSubscriptionUpdatedActive(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	event := stripeEvent(t, "customer.subscription.updated", map[string]any{
		"id":                 "sub_123",
		"status":             "active",
		"current_period_end": periodEnd.Unix(),
		"customer": map[string]any{
			"id":    "cus_123",
			"email": "roller@example.com",
		},
	})

	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, store.updates, 1)
	assert.Equal(t, "enthusiast", store.updates[0].tier)
	require.NotNil(t, store.updates[0].expiry)
	assert.Equal(t, periodEnd, *store.updates[0].expiry)
}

func TestHandleSubscriptionUpdatedLapsed(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	event := stripeEvent(t, "customer.subscription.updated", map[string]any{
		"id":     "sub_123",
		"status": "past_due",
		"customer": map[string]any{
			"id":    "cus_123",
			"email": "roller@example.com",
		},
	})

	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, store.updates, 1)
	assert.Equal(t, "free", store.updates[0].tier)
	assert.Equal(t, "free", store.updates[0].status)
}

func TestHandleSubscriptionDeleted(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	event := stripeEvent(t, "customer.subscription.deleted", map[string]any{
		"id":     "sub_123",
		"status": "canceled",
		"customer": map[string]any{
			"id":    "cus_123",
			"email": "roller@example.com",
		},
	})

	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, store.updates, 1)
	assert.Equal(t, "free", store.updates[0].tier)
}

func TestHandleSubscriptionLooksUpCustomerEmail(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	orig := lookupCustomerEmail
	lookupCustomerEmail = func(customerID string) (string, error) {
		assert.Equal(t, "cus_123", customerID)
		return "fetched@example.com", nil
	}
	defer func() { lookupCustomerEmail = orig }()

	event := stripeEvent(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_123",
		"status":   "canceled",
		"customer": map[string]any{"id": "cus_123"},
	})

	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, store.updates, 1)
	assert.Equal(t, "fetched@example.com", store.updates[0].email)
}

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	store := &fakeStore{}
	svc := newStripeTestService(store)

	event := stripeEvent(t, "invoice.finalized", map[string]any{"id": "in_1"})

	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Empty(t, store.updates)
}
