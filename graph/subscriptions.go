package graph

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/events"
)

const subscriptionsPath = "/subscriptions"

// CreateSubscription registers a new change-notification subscription.
func (c *Client) CreateSubscription(ctx context.Context, sub events.Subscription) (events.Subscription, error) {
	var created events.Subscription
	if err := c.do(ctx, http.MethodPost, subscriptionsPath, sub, &created); err != nil {
		return events.Subscription{}, fmt.Errorf("cannot create subscription: %w", err)
	}
	return created, nil
}

// ListSubscriptions returns all subscriptions registered under the
// application identity. Order is provider-defined.
func (c *Client) ListSubscriptions(ctx context.Context) ([]events.Subscription, error) {
	var resp struct {
		Value []events.Subscription `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, subscriptionsPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("cannot list subscriptions: %w", err)
	}
	return resp.Value, nil
}

// RenewSubscription extends the expiration of an existing subscription.
func (c *Client) RenewSubscription(ctx context.Context, id string, expiration time.Time) (events.Subscription, error) {
	body := struct {
		ExpirationDateTime time.Time `json:"expirationDateTime"`
	}{ExpirationDateTime: expiration}
	var renewed events.Subscription
	if err := c.do(ctx, http.MethodPatch, subscriptionsPath+"/"+id, body, &renewed); err != nil {
		return events.Subscription{}, fmt.Errorf("cannot renew subscription %v: %w", id, err)
	}
	return renewed, nil
}

// DeleteSubscription removes the subscription. The provider answers 404 for
// an unknown id, surfaced as ErrNotFound.
func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, subscriptionsPath+"/"+id, nil, nil); err != nil {
		return fmt.Errorf("cannot delete subscription %v: %w", id, err)
	}
	return nil
}
