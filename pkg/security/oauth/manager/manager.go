package manager

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Manager holds a cached client-credentials token and refreshes it on demand
// when less than a third of its lifetime remains.
type Manager struct {
	config         clientcredentials.Config
	requestTimeout time.Duration
	httpClient     *http.Client

	mutex            sync.Mutex
	token            *oauth2.Token
	nextRenewalTime  time.Time
	lastAcquireError error
}

// New creates an oauth manager which caches the acquired token.
func New(config Config) *Manager {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 1
	t.IdleConnTimeout = time.Second * 30
	timeout := config.Timeout
	if timeout == 0 {
		timeout = time.Second * 10
	}
	return &Manager{
		config:         config.ToClientCredentials(),
		requestTimeout: timeout,
		httpClient: &http.Client{
			Transport: t,
			Timeout:   timeout,
		},
	}
}

// GetToken returns a valid access token, acquiring or refreshing it when needed.
func (m *Manager) GetToken(ctx context.Context) (*oauth2.Token, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.token != nil && !m.shouldRefresh() {
		return m.token, nil
	}
	m.acquireToken(ctx)
	return m.token, m.lastAcquireError
}

// Close releases idle connections held by the manager.
func (m *Manager) Close() {
	m.httpClient.CloseIdleConnections()
}

func (m *Manager) shouldRefresh() bool {
	// Compare wall-clock nanos: monotonic comparison misbehaves across
	// hibernation and manual clock changes.
	return time.Now().UnixNano() > m.nextRenewalTime.UnixNano()
}

func (m *Manager) acquireToken(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.requestTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	token, err := m.config.Token(ctx)
	if err != nil {
		log.Errorf("cannot acquire client credential token: %v", err)
		m.lastAcquireError = err
		return
	}
	now := time.Now()
	m.token = token
	m.nextRenewalTime = now.Add(token.Expiry.Sub(now) * 2 / 3)
	m.lastAcquireError = nil
	log.Debugf("client credential token acquired, next renewal after %v", m.nextRenewalTime)
}
