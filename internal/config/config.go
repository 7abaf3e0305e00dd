// internal/config/config.go
package config

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	Appliance ApplianceConfig `yaml:"appliance"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Export    *ExportConfig   `yaml:"export"` // optional, opt-in
}

// ---- APPLIANCE ----

type ApplianceConfig struct {
	// BaseURL is where /manager-api/ping, /status, /token and the
	// power endpoints live.
	BaseURL string `yaml:"base_url"`
}

// ---- RENDERING BOUNDARY ----

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// ---- MODBUS STATUS EXPORT ----

type ExportConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}
