package config

import (
	"encoding/json"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	yaml "gopkg.in/yaml.v3"
)

type ConfigPath struct {
	ConfigPath string `long:"config" description:"yaml config file path"`
}

type Validator interface {
	Validate() error
}

func LoadAndValidateConfig(v Validator) error {
	err := Load(v)
	if err != nil {
		return err
	}
	return v.Validate()
}

// Load loads config from the file referenced by the --config argument.
func Load(config interface{}) error {
	var c ConfigPath
	_, err := flags.NewParser(&c, flags.Default|flags.IgnoreUnknown).Parse()
	if err != nil {
		return err
	}
	return Read(c.ConfigPath, config)
}

// Read reads config from file.
func Read(filename string, config interface{}) error {
	cfg, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return Parse(cfg, config)
}

// Parse parses config from bytes.
func Parse(data []byte, config interface{}) error {
	err := yaml.Unmarshal(data, config)
	if err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}
	return nil
}

// ToString returns a pretty-printed representation for logging.
func ToString(config interface{}) string {
	b, _ := json.MarshalIndent(config, "", "  ")
	return string(b)
}
