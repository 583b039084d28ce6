package i2c

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// fakeWire models the slave side of the master's flag protocol.
type fakeWire struct {
	ack   bool
	stall bool
	data  []byte

	addrs []byte
	wrote []byte
	stops int

	cr1       uint32
	cr2, ccr  uint32
	trise     uint32
	started   bool
	awaitAddr bool
	addrFlag  bool
	af        bool
	reading   bool
	sr1Reads  int
}

func (w *fakeWire) Read32(a hw.Addr) uint32 {
	switch a {
	case 0x00:
		return w.cr1
	case 0x04:
		return w.cr2
	case 0x10:
		if len(w.data) > 0 {
			b := w.data[0]
			w.data = w.data[1:]
			return uint32(b)
		}
		return 0
	case 0x14:
		w.sr1Reads++
		if w.stall {
			return 0
		}
		var v uint32 = TXE | BTF
		if w.started {
			v |= SB
		}
		if w.addrFlag {
			v |= ADDR
		}
		if w.af {
			v |= AF
		}
		if w.reading && len(w.data) > 0 {
			v |= RXNE
		}
		return v
	case 0x18:
		w.addrFlag = false
		return 0
	case 0x1c:
		return w.ccr
	case 0x20:
		return w.trise
	}
	return 0
}

func (w *fakeWire) Write32(a hw.Addr, val uint32) {
	switch a {
	case 0x00:
		if val&START != 0 {
			w.started, w.awaitAddr = true, true
		}
		if val&STOP != 0 {
			w.stops++
		}
		w.cr1 = val &^ (START | STOP)
	case 0x04:
		w.cr2 = val
	case 0x10:
		if w.awaitAddr {
			w.addrs = append(w.addrs, byte(val))
			w.reading = val&1 != 0
			w.started, w.awaitAddr = false, false
			if w.ack {
				w.addrFlag = true
			} else {
				w.af = true
			}
			return
		}
		w.wrote = append(w.wrote, byte(val))
	case 0x14:
		if val&AF == 0 {
			w.af = false
		}
	case 0x1c:
		w.ccr = val
	case 0x20:
		w.trise = val
	}
}

func newTestController(w *fakeWire) *Controller {
	c := NewController(w, RegsAt(0))
	c.Spins = 50
	return c
}

func TestControllerWrite(t *testing.T) {
	wire := &fakeWire{ack: true}
	c := newTestController(wire)

	require.NoError(t, c.Write(0x34, []byte{0x6b, 0x00}))
	require.Equal(t, []byte{0x68}, wire.addrs)
	require.Equal(t, []byte{0x6b, 0x00}, wire.wrote)
	require.Equal(t, 1, wire.stops)
}

func TestControllerWriteRead(t *testing.T) {
	wire := &fakeWire{ack: true, data: []byte{0xaa, 0xbb}}
	c := newTestController(wire)

	r := make([]byte, 2)
	require.NoError(t, c.WriteRead(0x34, []byte{0x75}, r))
	require.Equal(t, []byte{0xaa, 0xbb}, r)
	// write address, then read address after the repeated start
	require.Equal(t, []byte{0x68, 0x69}, wire.addrs)
	require.Equal(t, []byte{0x75}, wire.wrote)
	require.Equal(t, 1, wire.stops)
	// the final byte was NACKed
	require.Zero(t, wire.cr1&ACK)
}

func TestControllerNack(t *testing.T) {
	wire := &fakeWire{}
	c := newTestController(wire)

	err := c.Write(0x34, []byte{0x6b})
	require.Equal(t, ErrNack, err)
	// bus released, no payload leaked after the failed address phase
	require.Equal(t, 1, wire.stops)
	require.Empty(t, wire.wrote)
	require.False(t, wire.af)
}

func TestControllerTimeout(t *testing.T) {
	wire := &fakeWire{stall: true}
	c := newTestController(wire)

	err := c.Write(0x34, []byte{0x6b})
	require.Equal(t, ErrTimeout, err)
	// the wait is bounded: exactly Spins status reads, then release
	require.Equal(t, c.Spins, wire.sr1Reads)
	require.Equal(t, 1, wire.stops)
}

func TestControllerEnable(t *testing.T) {
	wire := &fakeWire{ack: true}
	c := newTestController(wire)

	require.NoError(t, c.Enable(45))
	require.Equal(t, uint32(45), wire.cr2)
	require.Equal(t, uint32(225), wire.ccr)
	require.Equal(t, uint32(46), wire.trise)
	require.NotZero(t, wire.cr1&PE)
}
