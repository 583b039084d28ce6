package hw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegAccessModes(t *testing.T) {
	testCases := []struct {
		name      string
		access    Mode
		read      bool
		wantPanic bool
	}{
		{name: "rw read", access: RW, read: true},
		{name: "rw write", access: RW},
		{name: "ro read", access: RO, read: true},
		{name: "ro write", access: RO, wantPanic: true},
		{name: "wo write", access: WO},
		{name: "wo read", access: WO, read: true, wantPanic: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := NewMux(NewRAM("ram", 0x1000, 0x100))
			reg := Reg{Name: "REG", Addr: 0x1010, Access: tc.access}
			op := func() {
				if tc.read {
					reg.Read(bus)
				} else {
					reg.Write(bus, 1)
				}
			}
			if tc.wantPanic {
				require.Panics(t, op)
			} else {
				require.NotPanics(t, op)
			}
		})
	}
}

func TestRegBits(t *testing.T) {
	ram := NewRAM("ram", 0, 0x10)
	trace := NewTrace(ram)
	reg := Reg{Name: "CR", Addr: 0x4}

	reg.Write(trace, 0x0f)
	reg.SetBits(trace, 0xf0)
	require.Equal(t, uint32(0xff), reg.Read(trace))
	reg.ClrBits(trace, 0x0f)
	require.Equal(t, uint32(0xf0), reg.Read(trace))

	// read-modify-write is two observable accesses, not one
	require.Equal(t, []Access{
		{Op: OpWrite, Addr: 0x4, Value: 0x0f},
		{Op: OpRead, Addr: 0x4, Value: 0x0f},
		{Op: OpWrite, Addr: 0x4, Value: 0xff},
		{Op: OpRead, Addr: 0x4, Value: 0xff},
		{Op: OpRead, Addr: 0x4, Value: 0xff},
		{Op: OpWrite, Addr: 0x4, Value: 0xf0},
		{Op: OpRead, Addr: 0x4, Value: 0xf0},
	}, trace.Accesses())
}
