package service

import (
	"fmt"

	"github.com/Tandera-io/integracao-lia-teams/dispatcher"
	"github.com/Tandera-io/integracao-lia-teams/graph"
	"github.com/Tandera-io/integracao-lia-teams/pkg/config"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/Tandera-io/integracao-lia-teams/pkg/security/oauth/manager"
	"github.com/Tandera-io/integracao-lia-teams/pkg/sync/queue"
	"github.com/Tandera-io/integracao-lia-teams/subscription"
)

// AuthorizationConfig configuration of the management API's dual-mode gate.
type AuthorizationConfig struct {
	// SharedKey accepted in the X-Api-Key header. Empty means the shared-key
	// mode fails closed.
	SharedKey string `yaml:"sharedKey" json:"-"`
	// JWKSURL is the key endpoint for session-token verification. Empty
	// means the session-token mode fails closed.
	JWKSURL string `yaml:"jwksURL" json:"jwksURL"`
}

func (c *AuthorizationConfig) Validate() error {
	return nil
}

type HTTPConfig struct {
	Addr          string              `yaml:"address" json:"address"`
	Authorization AuthorizationConfig `yaml:"authorization" json:"authorization"`
}

func (c *HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("address('%v')", c.Addr)
	}
	if err := c.Authorization.Validate(); err != nil {
		return fmt.Errorf("authorization.%w", err)
	}
	return nil
}

type APIsConfig struct {
	HTTP HTTPConfig `yaml:"http" json:"http"`
}

func (c *APIsConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http.%w", err)
	}
	return nil
}

type ClientsConfig struct {
	OAuth            manager.Config    `yaml:"oauth" json:"oauth"`
	Graph            graph.Config      `yaml:"graph" json:"graph"`
	TranscriptionAPI dispatcher.Config `yaml:"transcriptionAPI" json:"transcriptionAPI"`
}

func (c *ClientsConfig) Validate() error {
	if err := c.OAuth.Validate(); err != nil {
		return fmt.Errorf("oauth.%w", err)
	}
	if err := c.Graph.Validate(); err != nil {
		return fmt.Errorf("graph.%w", err)
	}
	if err := c.TranscriptionAPI.Validate(); err != nil {
		return fmt.Errorf("transcriptionAPI.%w", err)
	}
	return nil
}

// Config represents application configuration.
type Config struct {
	Log          log.Config          `yaml:"log" json:"log"`
	APIs         APIsConfig          `yaml:"apis" json:"apis"`
	Clients      ClientsConfig       `yaml:"clients" json:"clients"`
	Subscription subscription.Config `yaml:"subscription" json:"subscription"`
	TaskQueue    queue.Config        `yaml:"taskQueue" json:"taskQueue"`
}

func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log.%w", err)
	}
	if err := c.APIs.Validate(); err != nil {
		return fmt.Errorf("apis.%w", err)
	}
	if err := c.Clients.Validate(); err != nil {
		return fmt.Errorf("clients.%w", err)
	}
	if err := c.Subscription.Validate(); err != nil {
		return fmt.Errorf("subscription.%w", err)
	}
	if err := c.TaskQueue.Validate(); err != nil {
		return fmt.Errorf("taskQueue.%w", err)
	}
	return nil
}

// String returns string representation of Config.
func (c Config) String() string {
	return config.ToString(c)
}
