package config_test

import (
	"testing"

	"github.com/Tandera-io/integracao-lia-teams/pkg/config"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Addr    string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

func TestParse(t *testing.T) {
	var cfg testConfig
	err := config.Parse([]byte("address: localhost:8080\nenabled: true\n"), &cfg)
	require.NoError(t, err)
	require.Equal(t, "localhost:8080", cfg.Addr)
	require.True(t, cfg.Enabled)
}

func TestParseInvalid(t *testing.T) {
	var cfg testConfig
	err := config.Parse([]byte(":\n\t- not yaml"), &cfg)
	require.Error(t, err)
}
