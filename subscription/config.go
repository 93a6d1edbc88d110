package subscription

import (
	"fmt"
	"time"
)

const DefaultResource = "communications/onlineMeetings/getAllRecordings"

// The provider caps this resource's subscription lifetime at one hour;
// 55 minutes leaves a margin for the renewal cadence.
const DefaultExpirationWindow = time.Minute * 55

// Config configuration of the subscription manager.
type Config struct {
	// Resource is the provider resource path being watched.
	Resource string `yaml:"resource" json:"resource"`
	// WebhookURL is the default callback endpoint registered on create and
	// the ownership filter used by the renewer.
	WebhookURL string `yaml:"webhookURL" json:"webhookURL"`
	// ExpirationWindow is how far in the future created and renewed
	// subscriptions expire.
	ExpirationWindow time.Duration `yaml:"expirationWindow" json:"expirationWindow"`
	// ClientState optionally pins the validation secret instead of
	// generating a fresh one per subscription.
	ClientState string `yaml:"clientState" json:"-"`

	Renewal RenewalConfig `yaml:"renewal" json:"renewal"`
}

func (c *Config) Validate() error {
	if c.Resource == "" {
		c.Resource = DefaultResource
	}
	if c.WebhookURL == "" {
		return fmt.Errorf("webhookURL('%v')", c.WebhookURL)
	}
	if c.ExpirationWindow < 0 {
		return fmt.Errorf("expirationWindow('%v')", c.ExpirationWindow)
	}
	if c.ExpirationWindow == 0 {
		c.ExpirationWindow = DefaultExpirationWindow
	}
	if err := c.Renewal.Validate(); err != nil {
		return fmt.Errorf("renewal.%w", err)
	}
	return nil
}

// RenewalConfig configuration of the periodic renewal job.
type RenewalConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Interval time.Duration `yaml:"interval" json:"interval"`
}

func (c *RenewalConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval('%v')", c.Interval)
	}
	return nil
}
