// AngelaMos | 2026
// revenuecat.go

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/identity"
)

const revenueCatAPI = "https://api.revenuecat.com/v1"

type rcSubscriberResponse struct {
	Subscriber struct {
		Entitlements map[string]rcEntitlement `json:"entitlements"`
	} `json:"subscriber"`
}

type rcEntitlement struct {
	ExpiresDate       *time.Time `json:"expires_date"`
	ProductIdentifier string     `json:"product_identifier"`
}

// RevenueCatService verifies mobile purchases against the RevenueCat
// subscriber API and mirrors the result into the subscription columns.
type RevenueCatService struct {
	cfg     config.RevenueCatConfig
	store   SubscriptionStore
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func NewRevenueCatService(
	cfg config.RevenueCatConfig,
	store SubscriptionStore,
) *RevenueCatService {
	return &RevenueCatService{
		cfg:     cfg,
		store:   store,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: revenueCatAPI,
		now:     time.Now,
	}
}

// Verify fetches the subscriber record for the given app user id and
// updates the user's tier to match. An active configured entitlement
// grants the paid tier; anything else downgrades to free.
func (s *RevenueCatService) Verify(
	ctx context.Context,
	userID int64,
	appUserID string,
) (bool, *time.Time, error) {
	sub, err := s.fetchSubscriber(ctx, appUserID)
	if err != nil {
		return false, nil, err
	}

	ent, ok := sub.Subscriber.Entitlements[s.cfg.Entitlement]
	active := ok &&
		(ent.ExpiresDate == nil || ent.ExpiresDate.After(s.now()))

	if !active {
		err = s.store.UpdateSubscription(
			ctx, userID, identity.TierFree, identity.StatusFree, nil,
		)
		return false, nil, err
	}

	err = s.store.UpdateSubscription(
		ctx, userID, identity.TierEnthusiast, identity.StatusActive,
		ent.ExpiresDate,
	)
	if err != nil {
		return false, nil, err
	}

	return true, ent.ExpiresDate, nil
}

func (s *RevenueCatService) fetchSubscriber(
	ctx context.Context,
	appUserID string,
) (*rcSubscriberResponse, error) {
	endpoint := fmt.Sprintf(
		"%s/subscribers/%s", s.baseURL, url.PathEscape(appUserID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build revenuecat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch revenuecat subscriber: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf(
			"revenuecat subscriber %s: %w", appUserID, core.ErrNotFound,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"revenuecat subscriber %s: unexpected status %d",
			appUserID, resp.StatusCode,
		)
	}

	var out rcSubscriberResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode revenuecat response: %w", err)
	}

	return &out, nil
}
