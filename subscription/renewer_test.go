package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/events"
	"github.com/Tandera-io/integracao-lia-teams/store"
	"github.com/Tandera-io/integracao-lia-teams/subscription"
	"github.com/stretchr/testify/require"
)

func newForeignSubscription() events.Subscription {
	return events.Subscription{
		Resource:           subscription.DefaultResource,
		ChangeType:         events.ChangeTypeCreated,
		NotificationURL:    "https://other.example.com/hook",
		ExpirationDateTime: time.Now().Add(time.Minute * 30),
		ClientState:        "foreign",
	}
}

func TestRenewAll(t *testing.T) {
	provider := newFakeProvider()
	m := newManager(provider, store.NewClientStates())

	first, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	second, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	// Registered by someone else, must not be touched.
	foreign, err := provider.CreateSubscription(context.Background(), newForeignSubscription())
	require.NoError(t, err)
	foreignExpiration := foreign.ExpirationDateTime

	r, err := subscription.NewRenewer(subscription.RenewalConfig{}, m)
	require.NoError(t, err)
	defer r.Close()

	firstBefore := first.ExpirationDateTime
	secondBefore := second.ExpirationDateTime
	time.Sleep(time.Millisecond * 10)
	require.NoError(t, r.RenewAll(context.Background()))

	require.True(t, provider.subs[first.ID].ExpirationDateTime.After(firstBefore))
	require.True(t, provider.subs[second.ID].ExpirationDateTime.After(secondBefore))
	require.True(t, provider.subs[foreign.ID].ExpirationDateTime.Equal(foreignExpiration))
}

func TestRenewAllAggregatesFailures(t *testing.T) {
	provider := newFakeProvider()
	m := newManager(provider, store.NewClientStates())

	created, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	broken, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	// Simulate a subscription the provider no longer knows while it still
	// shows up in the listing snapshot.
	snapshot := provider.subs[broken.ID]
	delete(provider.subs, broken.ID)
	provider.subs["stale"] = snapshot
	before := provider.subs[created.ID].ExpirationDateTime

	r, err := subscription.NewRenewer(subscription.RenewalConfig{}, m)
	require.NoError(t, err)
	defer r.Close()

	time.Sleep(time.Millisecond * 10)
	err = r.RenewAll(context.Background())
	require.Error(t, err)
	// The healthy subscription is still renewed.
	require.True(t, provider.subs[created.ID].ExpirationDateTime.After(before))
}
