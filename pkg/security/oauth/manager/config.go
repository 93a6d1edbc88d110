package manager

import (
	"fmt"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Config configuration for the client-credentials token manager.
type Config struct {
	ClientID     string        `yaml:"clientID" json:"clientID"`
	ClientSecret string        `yaml:"clientSecret" json:"-"`
	TokenURL     string        `yaml:"tokenURL" json:"tokenURL"`
	Scopes       []string      `yaml:"scopes" json:"scopes"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("clientID('%v')", c.ClientID)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("clientSecret")
	}
	if c.TokenURL == "" {
		return fmt.Errorf("tokenURL('%v')", c.TokenURL)
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("scopes('%v')", c.Scopes)
	}
	return nil
}

func (c Config) ToClientCredentials() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}
