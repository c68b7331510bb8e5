// AngelaMos | 2026
// revenuecat_test.go

package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

func newRCTestService(
	t *testing.T,
	store *fakeStore,
	handler http.HandlerFunc,
) *RevenueCatService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewRevenueCatService(config.RevenueCatConfig{
		APIKey:      "sk_rc_test",
		Entitlement: "premium",
	}, store)
	svc.baseURL = server.URL
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}

	return svc
}

func TestVerifyActiveEntitlement(t *testing.T) {
	store := &fakeStore{}
	svc := newRCTestService(t, store,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sk_rc_test", r.Header.Get("Authorization"))
			assert.Equal(t, "/subscribers/app-user-1", r.URL.Path)
			w.Write([]byte(`{"subscriber":{"entitlements":{
				"premium":{"expires_date":"2026-04-01T00:00:00Z",
				"product_identifier":"monthly"}}}}`))
		})

	premium, expiry, err := svc.Verify(context.Background(), 7, "app-user-1")
	require.NoError(t, err)

	assert.True(t, premium)
	require.NotNil(t, expiry)

	require.Len(t, store.updates, 1)
	assert.Equal(t, int64(7), store.updates[0].userID)
	assert.Equal(t, "enthusiast", store.updates[0].tier)
	assert.Equal(t, "active", store.updates[0].status)
}

func TestVerifyLifetimeEntitlement(t *testing.T) {
	store := &fakeStore{}
	svc := newRCTestService(t, store,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"subscriber":{"entitlements":{
				"premium":{"expires_date":null,
				"product_identifier":"lifetime"}}}}`))
		})

	premium, expiry, err := svc.Verify(context.Background(), 7, "app-user-1")
	require.NoError(t, err)

	assert.True(t, premium)
	assert.Nil(t, expiry)
}

func TestVerifyExpiredEntitlementDowngrades(t *testing.T) {
	store := &fakeStore{}
	svc := newRCTestService(t, store,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"subscriber":{"entitlements":{
				"premium":{"expires_date":"2026-01-01T00:00:00Z",
				"product_identifier":"monthly"}}}}`))
		})

	premium, _, err := svc.Verify(context.Background(), 7, "app-user-1")
	require.NoError(t, err)

	assert.False(t, premium)
	require.Len(t, store.updates, 1)
	assert.Equal(t, "free", store.updates[0].tier)
	assert.Equal(t, "free", store.updates[0].status)
}

func TestVerifyNoEntitlementDowngrades(t *testing.T) {
	store := &fakeStore{}
	svc := newRCTestService(t, store,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"subscriber":{"entitlements":{}}}`))
		})

	premium, _, err := svc.Verify(context.Background(), 7, "app-user-1")
	require.NoError(t, err)
	assert.False(t, premium)
}

func TestVerifyUnknownSubscriber(t *testing.T) {
	store := &fakeStore{}
	svc := newRCTestService(t, store,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

	_, _, err := svc.Verify(context.Background(), 7, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, store.updates)
}
