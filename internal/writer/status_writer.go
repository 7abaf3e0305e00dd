// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/appliance-monitor/internal/metrics"
	"github.com/tamzrod/appliance-monitor/internal/status"
)

// blockWriter is the concrete StatusWriter used by the exporter.
type blockWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer for one plan.
func NewStatusWriter(plan StatusPlan, cli endpointClient) (StatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	return &blockWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *blockWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.cli == nil {
		return errors.New("status writer: disabled")
	}

	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs); err != nil {
			metrics.ExportWrites.WithLabelValues("full", "error").Inc()
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		metrics.ExportWrites.WithLabelValues("full", "ok").Inc()

		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	// Slot 0: state code
	if sw.last.State != s.State {
		if err := sw.write(baseAddr+status.SlotStateCode, []uint16{s.State}); err != nil {
			errs = append(errs, fmt.Sprintf("slot0 state write failed: %v", err))
		} else {
			sw.last.State = s.State
		}
	}

	// Slots 1 and 3-10: error flag and code move together
	if sw.last.ErrorCode != s.ErrorCode {
		full := status.Encode(s, "")
		flag := full[status.SlotErrorFlag : status.SlotErrorFlag+1]
		code := full[status.SlotErrorCodeStart : status.SlotErrorCodeStart+status.SlotErrorCodeSlots]

		if err := sw.write(baseAddr+status.SlotErrorCodeStart, code); err != nil {
			errs = append(errs, fmt.Sprintf("slot3 error code write failed: %v", err))
		} else if err := sw.write(baseAddr+status.SlotErrorFlag, flag); err != nil {
			errs = append(errs, fmt.Sprintf("slot1 error flag write failed: %v", err))
		} else {
			sw.last.ErrorCode = s.ErrorCode
		}
	}

	// Slot 2: seconds in state
	if sw.last.SecondsInState != s.SecondsInState {
		if err := sw.write(baseAddr+status.SlotSecondsInState, []uint16{s.SecondsInState}); err != nil {
			errs = append(errs, fmt.Sprintf("slot2 seconds write failed: %v", err))
		} else {
			sw.last.SecondsInState = s.SecondsInState
		}
	}

	if len(errs) > 0 {
		// Any partial failure: re-assert the full block on the next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *blockWriter) write(addr uint16, regs []uint16) error {
	err := sw.cli.WriteRegisters(sw.plan.UnitID, addr, regs)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ExportWrites.WithLabelValues("incremental", result).Inc()
	return err
}

func (sw *blockWriter) baseAddr() uint16 {
	// Each appliance owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
