// Package auth implements the dual-mode ingress gate: a request is accepted
// either with the shared service key or with an end-user bearer token. The
// two checks run in a fixed priority order and the shared-key check, when
// the header is present, short-circuits session-token evaluation entirely.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const (
	APIKeyHeader        = "X-Api-Key"
	AuthorizationHeader = "Authorization"
)

const (
	ServiceAccountID = "service-account"
	RoleService      = "service"
	RoleUser         = "user"
)

var (
	// ErrUnauthorized rejects a request whose credentials are missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMisconfigured signals a server-side defect: the gate cannot evaluate
	// the presented credential because its own configuration is incomplete.
	ErrMisconfigured = errors.New("authenticator misconfigured")
)

// Identity is the authenticated caller context.
type Identity struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	IsService bool   `json:"isService"`
}

// TokenValidator verifies an end-user session token. The verification logic
// is external to the gate.
type TokenValidator interface {
	Parse(token string) (jwt.MapClaims, error)
}

// Gate evaluates the two capability checks in fixed order.
type Gate struct {
	sharedKey string
	validator TokenValidator
}

func NewGate(sharedKey string, validator TokenValidator) *Gate {
	return &Gate{
		sharedKey: sharedKey,
		validator: validator,
	}
}

type check func(r *http.Request) (Identity, bool, error)

// Authenticate runs the priority chain. Each check reports whether it claims
// the request; the first claiming check is terminal.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	for _, c := range []check{g.checkSharedKey, g.checkSessionToken} {
		identity, claimed, err := c(r)
		if !claimed {
			continue
		}
		return identity, err
	}
	return Identity{}, fmt.Errorf("no credentials supplied: %w", ErrUnauthorized)
}

// checkSharedKey claims the request whenever the key header is present: an
// invalid shared key fails the request even if a valid bearer token is also
// attached.
func (g *Gate) checkSharedKey(r *http.Request) (Identity, bool, error) {
	key := r.Header.Get(APIKeyHeader)
	if key == "" {
		return Identity{}, false, nil
	}
	if g.sharedKey == "" {
		return Identity{}, true, fmt.Errorf("service key not configured: %w", ErrMisconfigured)
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(g.sharedKey)) != 1 {
		return Identity{}, true, fmt.Errorf("invalid service key: %w", ErrUnauthorized)
	}
	return Identity{
		ID:        ServiceAccountID,
		Role:      RoleService,
		IsService: true,
	}, true, nil
}

// checkSessionToken is the terminal fallback: it claims every request that
// reaches it and requires a bearer token.
func (g *Gate) checkSessionToken(r *http.Request) (Identity, bool, error) {
	token, err := parseBearer(r.Header.Get(AuthorizationHeader))
	if err != nil {
		return Identity{}, true, err
	}
	if g.validator == nil {
		return Identity{}, true, fmt.Errorf("session token verifier not configured: %w", ErrMisconfigured)
	}
	claims, err := g.validator.Parse(token)
	if err != nil {
		return Identity{}, true, fmt.Errorf("invalid session token: %w", err)
	}
	return identityFromClaims(claims), true, nil
}

func parseBearer(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("no credentials supplied: %w", ErrUnauthorized)
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", fmt.Errorf("cannot parse bearer: prefix 'Bearer ' not found: %w", ErrUnauthorized)
	}
	token := header[7:]
	if token == "" {
		return "", fmt.Errorf("empty bearer token: %w", ErrUnauthorized)
	}
	return token, nil
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	identity := Identity{Role: RoleUser}
	if sub, ok := claims["sub"].(string); ok {
		identity.ID = sub
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	return identity
}

type contextKey int

const identityKey contextKey = 0

// FromContext returns the identity stored by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Middleware guards the wrapped handler with the gate. Missing or invalid
// credentials answer 401, a misconfigured gate answers 500 (fail closed).
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.Authenticate(r)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrMisconfigured) {
				status = http.StatusInternalServerError
			}
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}
