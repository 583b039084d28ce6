package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/sim"
)

func noSleep(time.Duration) {}

func TestInitRunsDeclaredSequence(t *testing.T) {
	trace := hw.NewTrace(hw.NewRAM("regs", 0, 0x100))
	d := New(trace)
	d.Seq = hw.Seq{
		{Reg: hw.Reg{Name: "CLOCKCFG", Addr: 0x00}, Value: 0x1},
		{Reg: hw.Reg{Name: "TIMINGCFG", Addr: 0x04}, Value: 0x20},
		{Reg: hw.Reg{Name: "LAYERCFG", Addr: 0x08}, Value: 0x3},
		{Reg: hw.Reg{Name: "FBADDR", Addr: 0x0c}, Value: 0x0d000000},
	}

	require.False(t, d.Ready())
	require.NoError(t, d.Init(noSleep))

	// exactly the declared writes, in declared order, nothing else
	require.Equal(t, d.Seq.Writes(), trace.Accesses())
	require.True(t, d.Ready())
}

func TestSpriteOpsBeforeInit(t *testing.T) {
	// an empty bus: any access would fault, so the guards must
	// return before touching a register
	d := New(hw.NewMux())
	require.Equal(t, ErrNotInitialized, d.SetSpritePos(0, 0))
	require.Equal(t, ErrNotInitialized, d.SetSpriteAlpha(0x80))
}

func TestInitConfiguresScanOut(t *testing.T) {
	bench := sim.NewBench()
	d := New(bench.Bus)
	require.NoError(t, d.Init(noSleep))

	require.True(t, bench.LTDC.Enabled())

	scene := bench.LTDC.Active(0)
	require.True(t, scene.On)
	require.Equal(t, uint32(board.PFRGB565), scene.PixelFormat)
	require.Equal(t, uint32(board.Layer1Base), scene.FBAddr)
	require.Equal(t, uint32(30), scene.H0)
	require.Equal(t, uint32(269), scene.H1)
	require.Equal(t, uint32(4), scene.V0)
	require.Equal(t, uint32(323), scene.V1)

	sprite := bench.LTDC.Active(1)
	require.True(t, sprite.On)
	require.Equal(t, uint32(board.PFARGB8888), sprite.PixelFormat)
	require.Equal(t, uint32(board.Layer2Base), sprite.FBAddr)
	require.Equal(t, uint32(0xff), sprite.Alpha)
}

func TestSpriteMoveLatchesAtReload(t *testing.T) {
	bench := sim.NewBench()
	d := New(bench.Bus)
	require.NoError(t, d.Init(noSleep))
	reloads := bench.LTDC.Reloads()

	require.NoError(t, d.SetSpritePos(10, 20))
	require.Equal(t, reloads+1, bench.LTDC.Reloads())

	st := bench.LTDC.Active(1)
	require.Equal(t, uint32(40), st.H0)
	require.Equal(t, uint32(103), st.H1)
	require.Equal(t, uint32(24), st.V0)
	require.Equal(t, uint32(87), st.V1)

	require.NoError(t, d.SetSpriteAlpha(0x40))
	require.Equal(t, uint32(0x40), bench.LTDC.Active(1).Alpha)
}

func TestSpritePosClamped(t *testing.T) {
	testCases := []struct {
		name   string
		x, y   int
		h0, v0 uint32
	}{
		{name: "origin", x: 0, y: 0, h0: 30, v0: 4},
		{name: "negative", x: -5, y: -40, h0: 30, v0: 4},
		{name: "past right edge", x: 1000, y: 0, h0: 30 + 176, v0: 4},
		{name: "past bottom edge", x: 0, y: 1000, h0: 30, v0: 4 + 256},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bench := sim.NewBench()
			d := New(bench.Bus)
			require.NoError(t, d.Init(noSleep))
			require.NoError(t, d.SetSpritePos(tc.x, tc.y))

			st := bench.LTDC.Active(1)
			require.Equal(t, tc.h0, st.H0)
			require.Equal(t, tc.v0, st.V0)
		})
	}
}
