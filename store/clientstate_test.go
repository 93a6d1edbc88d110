package store_test

import (
	"testing"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/store"
	"github.com/stretchr/testify/require"
)

func TestClientStates(t *testing.T) {
	s := store.NewClientStates()
	s.Set("sub-1", "secret-1", time.Now().Add(time.Minute*55))

	state, ok := s.Get("sub-1")
	require.True(t, ok)
	require.Equal(t, "secret-1", state)

	_, ok = s.Get("sub-2")
	require.False(t, ok)

	s.Delete("sub-1")
	_, ok = s.Get("sub-1")
	require.False(t, ok)
}

func TestClientStatesExpiredSubscriptionIgnored(t *testing.T) {
	s := store.NewClientStates()
	s.Set("sub-1", "secret-1", time.Now().Add(-time.Hour))
	_, ok := s.Get("sub-1")
	require.False(t, ok)
}

func TestClientStatesOverwriteOnRenew(t *testing.T) {
	s := store.NewClientStates()
	s.Set("sub-1", "secret-1", time.Now().Add(time.Minute))
	s.Set("sub-1", "secret-1", time.Now().Add(time.Minute*55))
	state, ok := s.Get("sub-1")
	require.True(t, ok)
	require.Equal(t, "secret-1", state)
}
