// AngelaMos | 2026
// stripe.go

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/customer"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/identity"
)

// lookupCustomerEmail is swappable in tests; subscription events only
// carry the customer id, so the email comes from a follow-up fetch.
var lookupCustomerEmail = func(customerID string) (string, error) {
	c, err := customer.Get(customerID, nil)
	if err != nil {
		return "", fmt.Errorf("get stripe customer %s: %w", customerID, err)
	}
	return c.Email, nil
}

type StripeService struct {
	cfg    config.StripeConfig
	store  SubscriptionStore
	logger *slog.Logger
}

func NewStripeService(
	cfg config.StripeConfig,
	store SubscriptionStore,
	logger *slog.Logger,
) *StripeService {
	stripe.Key = cfg.SecretKey
	return &StripeService{cfg: cfg, store: store, logger: logger}
}

// CreateCheckoutSession starts a subscription checkout for the user and
// returns the hosted payment page URL.
func (s *StripeService) CreateCheckoutSession(
	userID int64,
	email string,
) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail:     stripe.String(email),
		ClientReferenceID: stripe.String(strconv.FormatInt(userID, 10)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return sess.URL, nil
}

// VerifyWebhook checks the Stripe-Signature header against the
// configured signing secret.
func (s *StripeService) VerifyWebhook(
	payload []byte,
	signature string,
) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf(
			"verify webhook: %w: %v", core.ErrUnauthorized, err,
		)
	}
	return event, nil
}

// HandleEvent applies a verified Stripe event to the user's
// subscription columns. Unhandled event types are ignored.
func (s *StripeService) HandleEvent(
	ctx context.Context,
	event stripe.Event,
) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}

		email := checkoutEmail(&sess)
		if email == "" {
			return fmt.Errorf("checkout session %s has no email", sess.ID)
		}

		s.logger.Info("stripe checkout completed", "email", email)
		return s.store.UpdateSubscriptionByEmail(
			ctx, email, identity.TierEnthusiast, identity.StatusActive, nil,
		)

	case "customer.subscription.updated":
		sub, email, err := s.decodeSubscription(event)
		if err != nil {
			return err
		}

		if sub.Status == stripe.SubscriptionStatusActive ||
			sub.Status == stripe.SubscriptionStatusTrialing {
			expiry := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			s.logger.Info("stripe subscription active",
				"email", email, "expiry", expiry)
			return s.store.UpdateSubscriptionByEmail(
				ctx, email, identity.TierEnthusiast, identity.StatusActive, &expiry,
			)
		}

		s.logger.Info("stripe subscription lapsed",
			"email", email, "status", sub.Status)
		return s.store.UpdateSubscriptionByEmail(
			ctx, email, identity.TierFree, identity.StatusFree, nil,
		)

	case "customer.subscription.deleted":
		_, email, err := s.decodeSubscription(event)
		if err != nil {
			return err
		}

		s.logger.Info("stripe subscription canceled", "email", email)
		return s.store.UpdateSubscriptionByEmail(
			ctx, email, identity.TierFree, identity.StatusFree, nil,
		)
	}

	return nil
}

func (s *StripeService) decodeSubscription(
	event stripe.Event,
) (*stripe.Subscription, string, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, "", fmt.Errorf("decode subscription: %w", err)
	}

	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil, "", fmt.Errorf("subscription %s has no customer", sub.ID)
	}

	email := sub.Customer.Email
	if email == "" {
		var err error
		email, err = lookupCustomerEmail(sub.Customer.ID)
		if err != nil {
			return nil, "", err
		}
	}
	if email == "" {
		return nil, "", fmt.Errorf(
			"stripe customer %s has no email", sub.Customer.ID,
		)
	}

	return &sub, email, nil
}

func checkoutEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}
