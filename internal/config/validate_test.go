// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// helper to build a config quickly
func monitor(baseURL string) *Config {
	return &Config{
		Monitor: MonitorConfig{
			Appliance: ApplianceConfig{BaseURL: baseURL},
		},
	}
}

// ---- tests ----

func TestValidate_MinimalOK(t *testing.T) {
	if err := Validate(monitor("http://citadel.local")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BaseURLRequired(t *testing.T) {
	if err := Validate(monitor("")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_BaseURLScheme(t *testing.T) {
	if err := Validate(monitor("ftp://citadel.local")); err == nil {
		t.Fatalf("expected scheme error, got nil")
	}
}

func TestValidate_BaseURLQueryRejected(t *testing.T) {
	if err := Validate(monitor("http://citadel.local/?x=1")); err == nil {
		t.Fatalf("expected query error, got nil")
	}
}

func TestValidate_BadListen(t *testing.T) {
	cfg := monitor("http://citadel.local")
	cfg.Monitor.HTTP.Listen = "8081"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected listen error, got nil")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := monitor("http://citadel.local")
	cfg.Monitor.Log.Level = "loud"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}

func TestValidate_ExportNeedsEndpoint(t *testing.T) {
	cfg := monitor("http://citadel.local")
	cfg.Monitor.Export = &ExportConfig{}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected export endpoint error, got nil")
	}
}

func TestValidate_ExportDeviceNameASCII(t *testing.T) {
	cfg := monitor("http://citadel.local")
	cfg.Monitor.Export = &ExportConfig{Endpoint: "127.0.0.1:502", DeviceName: "cïtadel"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ascii error, got nil")
	}
}

func TestValidate_ExportBaseSlotRange(t *testing.T) {
	cfg := monitor("http://citadel.local")
	cfg.Monitor.Export = &ExportConfig{Endpoint: "127.0.0.1:502", BaseSlot: 3276}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected base_slot range error, got nil")
	}

	cfg.Monitor.Export.BaseSlot = 3275 // 65500..65519
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := monitor("http://citadel.local/")
	cfg.Monitor.Log.Level = " WARN "
	cfg.Monitor.Export = &ExportConfig{
		Endpoint:   "127.0.0.1:502",
		DeviceName: "a-very-long-device-name",
	}

	Normalize(cfg)

	m := cfg.Monitor
	if m.Appliance.BaseURL != "http://citadel.local" {
		t.Fatalf("base_url=%q", m.Appliance.BaseURL)
	}
	if m.HTTP.Listen != DefaultListen {
		t.Fatalf("listen=%q", m.HTTP.Listen)
	}
	if m.Log.Level != "warn" {
		t.Fatalf("level=%q", m.Log.Level)
	}
	if m.Export.TimeoutMs != DefaultExportTimeout {
		t.Fatalf("timeout_ms=%d", m.Export.TimeoutMs)
	}
	if len(m.Export.DeviceName) != 16 {
		t.Fatalf("device_name not truncated: %q", m.Export.DeviceName)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	body := []byte(`
monitor:
  appliance:
    base_url: http://citadel.local
  http:
    listen: 127.0.0.1:9000
  export:
    endpoint: 10.0.0.5:502
    unit_id: 7
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvApplianceURL, "http://10.0.0.2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Monitor.Appliance.BaseURL != "http://10.0.0.2" {
		t.Fatalf("env override not applied: %q", cfg.Monitor.Appliance.BaseURL)
	}
	if cfg.Monitor.HTTP.Listen != "127.0.0.1:9000" {
		t.Fatalf("listen=%q", cfg.Monitor.HTTP.Listen)
	}
	if cfg.Monitor.Export == nil || cfg.Monitor.Export.UnitID != 7 {
		t.Fatalf("export not decoded: %+v", cfg.Monitor.Export)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("monitor:\n  appliance:\n    url: http://x\n"))
	if err == nil {
		t.Fatalf("expected unknown field error, got nil")
	}
}
