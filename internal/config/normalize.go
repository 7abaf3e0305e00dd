// internal/config/normalize.go
package config

import "strings"

const (
	DefaultListen        = "127.0.0.1:8081"
	DefaultLogLevel      = "info"
	DefaultExportTimeout = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Monitor

	// Endpoint paths are joined onto the base URL.
	m.Appliance.BaseURL = strings.TrimRight(m.Appliance.BaseURL, "/")

	if m.HTTP.Listen == "" {
		m.HTTP.Listen = DefaultListen
	}

	m.Log.Level = strings.ToLower(strings.TrimSpace(m.Log.Level))
	if m.Log.Level == "" {
		m.Log.Level = DefaultLogLevel
	}

	if m.Export == nil {
		return
	}
	if m.Export.TimeoutMs == 0 {
		m.Export.TimeoutMs = DefaultExportTimeout
	}
	// Truncate to the 16 characters the status block can hold.
	if len(m.Export.DeviceName) > 16 {
		m.Export.DeviceName = m.Export.DeviceName[:16]
	}
}
