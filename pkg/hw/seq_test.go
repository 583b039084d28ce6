package hw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeqRunOrder(t *testing.T) {
	seq := Seq{
		{Reg: Reg{Name: "CR1", Addr: 0x00}, Value: 0x1},
		{Reg: Reg{Name: "CR2", Addr: 0x08}, Value: 0x20},
		{Reg: Reg{Name: "CR1", Addr: 0x00}, Value: 0x3},
		{Reg: Reg{Name: "DR", Addr: 0x0c, Access: WO}, Value: 0xd000},
	}

	trace := NewTrace(NewRAM("ram", 0, 0x100))
	seq.Run(trace, func(time.Duration) {})
	require.Equal(t, seq.Writes(), trace.Accesses())
}

func TestSeqSettle(t *testing.T) {
	seq := Seq{
		{Reg: Reg{Name: "EN", Addr: 0x0}, Value: 1, Settle: 100 * time.Microsecond},
		{Reg: Reg{Name: "CFG", Addr: 0x4}, Value: 2},
		{Reg: Reg{Name: "CMD", Addr: 0x8}, Value: 3, Settle: 5 * time.Millisecond},
	}

	var slept []time.Duration
	seq.Run(NewRAM("ram", 0, 0x100), func(d time.Duration) {
		slept = append(slept, d)
	})
	require.Equal(t, []time.Duration{100 * time.Microsecond, 5 * time.Millisecond}, slept)
}

// flagBus reports mask bits set after a number of reads.
type flagBus struct {
	after int
	mask  uint32
	reads int
}

func (b *flagBus) Read32(Addr) uint32 {
	b.reads++
	if b.reads > b.after {
		return b.mask
	}
	return 0
}

func (b *flagBus) Write32(Addr, uint32) {}

func TestWaitSet(t *testing.T) {
	testCases := []struct {
		name      string
		after     int
		spins     int
		err       error
		wantReads int
	}{
		{name: "ready at once", after: 0, spins: 10, wantReads: 1},
		{name: "ready after polls", after: 3, spins: 10, wantReads: 4},
		{name: "bounded exhaustion", after: 20, spins: 10, err: ErrNotReady, wantReads: 10},
	}

	reg := Reg{Name: "SR", Addr: 0x8, Access: RO}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := &flagBus{after: tc.after, mask: 0x2}
			err := WaitSet(bus, reg, 0x2, tc.spins)
			require.Equal(t, tc.err, err)
			require.Equal(t, tc.wantReads, bus.reads)
		})
	}
}

func TestWaitClear(t *testing.T) {
	bus := &flagBus{after: 2, mask: 0x1}
	reg := Reg{Name: "SR", Addr: 0x8, Access: RO}
	// flagBus starts clear, sets after 2 reads: WaitClear succeeds
	// immediately, then exhausts once the flag latches
	require.NoError(t, WaitClear(bus, reg, 0x1, 4))
	bus.reads = 10
	require.Equal(t, ErrNotReady, WaitClear(bus, reg, 0x1, 4))
}
