package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Validator parses and verifies bearer tokens against a JWKS endpoint.
type Validator struct {
	keys *KeyCache
}

// NewValidator creates a validator fetching verification keys from jwksURL.
func NewValidator(jwksURL string, httpClient *http.Client) *Validator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Second * 10}
	}
	return &Validator{keys: NewKeyCache(jwksURL, httpClient)}
}

func (v *Validator) ParseWithClaims(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, v.keys.GetOrFetchKey)
	if err != nil {
		return fmt.Errorf("could not parse token: %w", err)
	}
	return nil
}

// Parse parses the token into map claims.
func (v *Validator) Parse(token string) (jwt.MapClaims, error) {
	var claims jwt.MapClaims
	_, err := jwt.ParseWithClaims(token, &claims, v.keys.GetOrFetchKey)
	if err != nil {
		return nil, fmt.Errorf("could not parse token: %w", err)
	}
	return claims, nil
}
