package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const DefaultEndpoint = "https://graph.microsoft.com/v1.0"

const authorizationHeader = "Authorization"

// Config configuration of the notification-provider client.
type Config struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout('%v')", c.Timeout)
	}
	return nil
}

// TokenProvider supplies an application access token for provider calls.
type TokenProvider interface {
	GetToken(ctx context.Context) (*oauth2.Token, error)
}

// Client calls the provider's subscription and recording surfaces.
type Client struct {
	endpoint string
	http     *http.Client
	tokens   TokenProvider
}

func New(cfg Config, tokens TokenProvider) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = time.Second * 10
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 1
	t.IdleConnTimeout = time.Second * 30
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		tokens:   tokens,
		http: &http.Client{
			Transport: t,
			Timeout:   timeout,
		},
	}
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("cannot acquire access token: %w", err)
	}

	var body io.Reader
	if reqBody != nil {
		data, errM := json.Marshal(reqBody)
		if errM != nil {
			return fmt.Errorf("cannot encode request body: %w", errM)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("cannot create %v request: %w", method, err)
	}
	req.Header.Set(authorizationHeader, "Bearer "+token.AccessToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cannot %v %v: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}
	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("cannot decode response: %w", err)
		}
	}
	return nil
}
