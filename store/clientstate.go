// Package store keeps the minimal local bookkeeping of the service: the
// mapping from subscription id to the clientState secret embedded in it.
// Entries are written when a subscription is created or renewed and read by
// the webhook receiver to reject forged deliveries; they expire together
// with the subscription they belong to.
package store

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// slack keeps an entry around past the subscription's nominal expiry so a
// late provider retry still verifies.
const slack = time.Minute * 10

type ClientStates struct {
	cache *cache.Cache
}

func NewClientStates() *ClientStates {
	return &ClientStates{
		cache: cache.New(time.Hour, time.Minute*10),
	}
}

// Set records the clientState for a subscription valid until expiration.
func (s *ClientStates) Set(subscriptionID, clientState string, expiration time.Time) {
	ttl := time.Until(expiration) + slack
	if ttl <= 0 {
		return
	}
	s.cache.Set(subscriptionID, clientState, ttl)
}

// Get returns the stored clientState for a subscription id.
func (s *ClientStates) Get(subscriptionID string) (string, bool) {
	v, ok := s.cache.Get(subscriptionID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *ClientStates) Delete(subscriptionID string) {
	s.cache.Delete(subscriptionID)
}
