// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	m := cfg.Monitor

	// ------------------------------------------------------------
	// APPLIANCE
	// ------------------------------------------------------------

	if m.Appliance.BaseURL == "" {
		return errors.New("appliance.base_url is required")
	}
	u, err := url.Parse(m.Appliance.BaseURL)
	if err != nil {
		return fmt.Errorf("appliance.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("appliance.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("appliance.base_url: host is required")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("appliance.base_url: query and fragment are not allowed")
	}

	// ------------------------------------------------------------
	// RENDERING BOUNDARY
	// ------------------------------------------------------------

	if m.HTTP.Listen != "" {
		if _, _, err := net.SplitHostPort(m.HTTP.Listen); err != nil {
			return fmt.Errorf("http.listen: %w", err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(m.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: invalid level %q", m.Log.Level)
	}

	// ------------------------------------------------------------
	// MODBUS STATUS EXPORT (OPT-IN)
	// ------------------------------------------------------------

	if m.Export == nil {
		return nil
	}
	ex := m.Export

	if ex.Endpoint == "" {
		return errors.New("export.endpoint is required when export is set")
	}
	if _, _, err := net.SplitHostPort(ex.Endpoint); err != nil {
		return fmt.Errorf("export.endpoint: %w", err)
	}
	if ex.TimeoutMs < 0 {
		return fmt.Errorf("export.timeout_ms must be >= 0, got %d", ex.TimeoutMs)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(ex.DeviceName); i++ {
		if ex.DeviceName[i] > 0x7F {
			return errors.New("export.device_name must contain ASCII characters only")
		}
	}

	// The status block is addressed as base_slot * 20 and must fit a uint16 address space.
	if uint32(ex.BaseSlot)*20+20 > 0x10000 {
		return fmt.Errorf("export.base_slot %d out of addressable range", ex.BaseSlot)
	}

	return nil
}
