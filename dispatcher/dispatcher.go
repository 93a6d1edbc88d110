// Package dispatcher forwards resolved recording URLs to the downstream
// transcription API. Failures are logged and surfaced, never retried here:
// the provider's own redelivery plus the renewal cadence are the recovery
// path, and the downstream API must tolerate duplicate dispatches.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/auth"
	"github.com/Tandera-io/integracao-lia-teams/events"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
)

const DefaultTitle = "Teams Meeting"

// Config configuration of the transcription API client.
type Config struct {
	URL string `yaml:"url" json:"url"`
	// APIKey is the shared service key presented as X-Api-Key. When empty no
	// credential header is attached; a downstream enforcing the dual-mode
	// gate will reject such calls, which the operator must configure against.
	APIKey  string        `yaml:"apiKey" json:"-"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url('%v')", c.URL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout('%v')", c.Timeout)
	}
	return nil
}

// Request is the outbound work item sent downstream.
type Request struct {
	ResourceURL string `json:"resourceUrl"`
	Title       string `json:"title"`
}

// Resolver derives a downloadable URL for a recording reference.
type Resolver interface {
	RecordingDownloadURL(ctx context.Context, recordingID string) (string, error)
}

type Dispatcher struct {
	targetURL string
	apiKey    string
	timeout   time.Duration
	resolver  Resolver
	http      *http.Client
}

func New(cfg Config, resolver Resolver) *Dispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = time.Second * 10
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 1
	t.IdleConnTimeout = time.Second * 30
	return &Dispatcher{
		targetURL: cfg.URL,
		apiKey:    cfg.APIKey,
		timeout:   timeout,
		resolver:  resolver,
		http: &http.Client{
			Transport: t,
		},
	}
}

// Close releases idle connections held by the dispatcher.
func (d *Dispatcher) Close() {
	d.http.CloseIdleConnections()
}

// Dispatch resolves the recording referenced by the resource path and
// forwards it downstream. An unresolvable or expired URL is a terminal
// failure for the notification.
func (d *Dispatcher) Dispatch(ctx context.Context, resource string) error {
	recordingID, callID, err := events.ParseRecordingResource(resource)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resourceURL, err := d.resolver.RecordingDownloadURL(ctx, recordingID)
	if err != nil {
		return fmt.Errorf("cannot resolve download url for recording %v: %w", recordingID, err)
	}
	return d.send(ctx, Request{
		ResourceURL: resourceURL,
		Title:       DefaultTitle + " - " + callID,
	})
}

func (d *Dispatcher) send(ctx context.Context, dispatchReq Request) error {
	body, err := json.Marshal(dispatchReq)
	if err != nil {
		return fmt.Errorf("cannot encode dispatch request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot create post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set(auth.APIKeyHeader, d.apiKey)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return &UnreachableError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)
		rejected := &RejectedError{StatusCode: resp.StatusCode, Body: string(errBody)}
		log.Errorf("dispatch to %v failed: %v", d.targetURL, rejected)
		return rejected
	}
	log.Infof("dispatched %v to transcription api", dispatchReq.Title)
	return nil
}
