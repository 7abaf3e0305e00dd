// internal/writer/status_writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/appliance-monitor/internal/status"
)

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeEndpointClient struct {
	calls   []writeCall
	failAll bool
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.failAll {
		return errors.New("boom")
	}
	cp := append([]uint16(nil), regs...)
	f.calls = append(f.calls, writeCall{unitID: unitID, addr: addr, regs: cp})
	return nil
}

func (f *fakeEndpointClient) last() writeCall {
	return f.calls[len(f.calls)-1]
}

func newTestWriter(t *testing.T, cli *fakeEndpointClient) StatusWriter {
	t.Helper()
	sw, err := NewStatusWriter(StatusPlan{
		Endpoint:   "status-endpoint",
		UnitID:     3,
		BaseSlot:   2,
		DeviceName: "citadel",
	}, cli)
	if err != nil {
		t.Fatalf("NewStatusWriter: %v", err)
	}
	return sw
}

func TestFirstWriteIsFullBlock(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	s := status.Snapshot{State: status.StateStarting}
	if err := sw.WriteStatus(s); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := cli.last()
	if len(c.regs) != status.SlotsPerDevice {
		t.Fatalf("expected full block (%d regs), got %d", status.SlotsPerDevice, len(c.regs))
	}
	if c.addr != 2*status.SlotsPerDevice {
		t.Fatalf("base address: got %d want %d", c.addr, 2*status.SlotsPerDevice)
	}
	if c.unitID != 3 {
		t.Fatalf("unit id: got %d", c.unitID)
	}

	name := status.EncodeASCII("citadel")
	for i := range name {
		if got := c.regs[status.SlotDeviceNameStart+i]; got != name[i] {
			t.Fatalf("device name slot %d: got %d want %d", i, got, name[i])
		}
	}
}

func TestIncrementalWritesOnlyChangedSlots(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	_ = sw.WriteStatus(status.Snapshot{State: status.StateStarting})
	cli.calls = nil

	if err := sw.WriteStatus(status.Snapshot{State: status.StateStarting, SecondsInState: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(cli.calls) != 1 {
		t.Fatalf("expected one incremental write, got %d", len(cli.calls))
	}
	c := cli.last()
	base := uint16(2 * status.SlotsPerDevice)
	if c.addr != base+status.SlotSecondsInState || len(c.regs) != 1 || c.regs[0] != 1 {
		t.Fatalf("unexpected seconds write: %+v", c)
	}

	// unchanged snapshot writes nothing
	cli.calls = nil
	_ = sw.WriteStatus(status.Snapshot{State: status.StateStarting, SecondsInState: 1})
	if len(cli.calls) != 0 {
		t.Fatalf("unchanged snapshot should not write, got %d calls", len(cli.calls))
	}
}

func TestErrorCodeWritesFlagAndCode(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	_ = sw.WriteStatus(status.Snapshot{State: status.StateStarting})
	cli.calls = nil

	s := status.Snapshot{State: status.StateError, ErrorCode: "E1"}
	if err := sw.WriteStatus(s); err != nil {
		t.Fatalf("write: %v", err)
	}

	base := uint16(2 * status.SlotsPerDevice)
	var sawState, sawFlag, sawCode bool
	for _, c := range cli.calls {
		switch c.addr {
		case base + status.SlotStateCode:
			sawState = c.regs[0] == status.StateError
		case base + status.SlotErrorFlag:
			sawFlag = len(c.regs) == 1 && c.regs[0] == 1
		case base + status.SlotErrorCodeStart:
			want := status.EncodeASCII("E1")
			sawCode = len(c.regs) == len(want) && c.regs[0] == want[0]
		}
	}
	if !sawState || !sawFlag || !sawCode {
		t.Fatalf("state=%v flag=%v code=%v calls=%+v", sawState, sawFlag, sawCode, cli.calls)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	_ = sw.WriteStatus(status.Snapshot{State: status.StateStarting})

	cli.failAll = true
	if err := sw.WriteStatus(status.Snapshot{State: status.StateReady}); err == nil {
		t.Fatalf("expected error from failing client")
	}

	cli.failAll = false
	cli.calls = nil
	if err := sw.WriteStatus(status.Snapshot{State: status.StateReady}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(cli.calls) != 1 || len(cli.last().regs) != status.SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %+v", cli.calls)
	}
}

func TestNewStatusWriterRequiresClient(t *testing.T) {
	if _, err := NewStatusWriter(StatusPlan{Endpoint: "x"}, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
