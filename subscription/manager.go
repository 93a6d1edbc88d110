// Package subscription owns the lifecycle of change-notification
// subscriptions: creation with a fresh clientState, renewal ahead of the
// provider's short maximum lifetime, and deletion. The manager never
// schedules itself; the Renewer (or an external operator) drives the
// cadence.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/events"
	"github.com/Tandera-io/integracao-lia-teams/graph"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/Tandera-io/integracao-lia-teams/store"
	"github.com/google/uuid"
)

// Provider is the subscription surface of the notification provider.
type Provider interface {
	CreateSubscription(ctx context.Context, sub events.Subscription) (events.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]events.Subscription, error)
	RenewSubscription(ctx context.Context, id string, expiration time.Time) (events.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}

type Manager struct {
	cfg      Config
	provider Provider
	states   *store.ClientStates
}

func NewManager(cfg Config, provider Provider, states *store.ClientStates) *Manager {
	if cfg.Resource == "" {
		cfg.Resource = DefaultResource
	}
	if cfg.ExpirationWindow == 0 {
		cfg.ExpirationWindow = DefaultExpirationWindow
	}
	return &Manager{
		cfg:      cfg,
		provider: provider,
		states:   states,
	}
}

func (m *Manager) clientState() string {
	if m.cfg.ClientState != "" {
		return m.cfg.ClientState
	}
	return uuid.NewString()
}

// Create registers a new subscription for the configured resource. An empty
// webhookURL falls back to the configured default.
func (m *Manager) Create(ctx context.Context, webhookURL string) (events.Subscription, error) {
	if webhookURL == "" {
		webhookURL = m.cfg.WebhookURL
	}
	if webhookURL == "" {
		return events.Subscription{}, fmt.Errorf("webhook url not provided")
	}
	sub := events.Subscription{
		Resource:           m.cfg.Resource,
		ChangeType:         events.ChangeTypeCreated,
		NotificationURL:    webhookURL,
		ExpirationDateTime: time.Now().UTC().Add(m.cfg.ExpirationWindow),
		ClientState:        m.clientState(),
	}
	created, err := m.provider.CreateSubscription(ctx, sub)
	if err != nil {
		return events.Subscription{}, err
	}
	// Provider responses may omit the echoed clientState.
	if created.ClientState == "" {
		created.ClientState = sub.ClientState
	}
	m.states.Set(created.ID, created.ClientState, created.ExpirationDateTime)
	log.Infof("subscription %v created for %v, expires %v", created.ID, created.Resource, created.ExpirationDateTime)
	return created, nil
}

// List returns all subscriptions registered under the application identity.
func (m *Manager) List(ctx context.Context) ([]events.Subscription, error) {
	return m.provider.ListSubscriptions(ctx)
}

// Renew extends the expiration of the subscription with the given id.
// Returns graph.ErrNotFound when the id is unknown to the provider.
func (m *Manager) Renew(ctx context.Context, id string) (events.Subscription, error) {
	renewed, err := m.provider.RenewSubscription(ctx, id, time.Now().UTC().Add(m.cfg.ExpirationWindow))
	if err != nil {
		return events.Subscription{}, err
	}
	if state, ok := m.states.Get(id); ok {
		m.states.Set(id, state, renewed.ExpirationDateTime)
	} else if renewed.ClientState != "" {
		m.states.Set(id, renewed.ClientState, renewed.ExpirationDateTime)
	}
	log.Infof("subscription %v renewed until %v", id, renewed.ExpirationDateTime)
	return renewed, nil
}

// Delete removes the subscription. Deleting an already absent id is treated
// as already-satisfied intent, not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.provider.DeleteSubscription(ctx, id)
	if err != nil && !errors.Is(err, graph.ErrNotFound) {
		return err
	}
	m.states.Delete(id)
	return nil
}

// Resync re-seeds the clientState bookkeeping from the provider so
// notifications for subscriptions created before a restart keep verifying.
func (m *Manager) Resync(ctx context.Context) error {
	subs, err := m.provider.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("cannot resync subscriptions: %w", err)
	}
	seeded := 0
	for _, sub := range subs {
		if sub.ClientState == "" {
			continue
		}
		m.states.Set(sub.ID, sub.ClientState, sub.ExpirationDateTime)
		seeded++
	}
	log.Infof("resynced %v of %v subscriptions", seeded, len(subs))
	return nil
}

// owned reports whether the subscription was registered by this service.
func (m *Manager) owned(sub events.Subscription) bool {
	return m.cfg.WebhookURL == "" || sub.NotificationURL == m.cfg.WebhookURL
}
