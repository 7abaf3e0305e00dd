// internal/config/load.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is decoded.
const (
	EnvApplianceURL = "MONITOR_APPLIANCE_URL"
	EnvListen       = "MONITOR_LISTEN"
	EnvLogLevel     = "MONITOR_LOG_LEVEL"
)

// Load reads and decodes a YAML config file, then applies env overrides.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// Parse decodes YAML bytes into a Config.
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides file values with non-empty environment values.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil {
		return
	}
	if v := getenv(EnvApplianceURL); v != "" {
		cfg.Monitor.Appliance.BaseURL = v
	}
	if v := getenv(EnvListen); v != "" {
		cfg.Monitor.HTTP.Listen = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Monitor.Log.Level = v
	}
}
