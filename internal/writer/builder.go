// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/appliance-monitor/internal/config"
	wmodbus "github.com/tamzrod/appliance-monitor/internal/writer/modbus"
)

// BuildPlan converts the export config into a StatusPlan.
// Assumes config has already passed validation and normalization.
func BuildPlan(ex *cfg.ExportConfig) (StatusPlan, error) {
	if ex == nil {
		return StatusPlan{}, errors.New("writer: export config required")
	}
	return StatusPlan{
		Endpoint:   ex.Endpoint,
		UnitID:     ex.UnitID,
		BaseSlot:   ex.BaseSlot,
		DeviceName: ex.DeviceName,
	}, nil
}

// BuildStatusWriter connects to the export endpoint and returns a writer
// plus its closer.
func BuildStatusWriter(ex *cfg.ExportConfig) (StatusWriter, func() error, error) {
	plan, err := BuildPlan(ex)
	if err != nil {
		return nil, nil, err
	}

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(ex.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	w, err := NewStatusWriter(plan, c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return w, c.Close, nil
}
