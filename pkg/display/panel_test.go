package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/sim"
)

func TestPanelInitSequence(t *testing.T) {
	bench := sim.NewBench()
	p := NewPanel(bench.Bus)
	var slept []time.Duration
	require.NoError(t, p.Init(func(d time.Duration) { slept = append(slept, d) }))

	cmds := bench.Panel.Commands()
	require.Len(t, cmds, len(initCmds))
	require.Equal(t, sim.PanelCmd{Code: 0xc0, Data: []byte{0x10}}, cmds[0])
	require.Equal(t, byte(0x36), cmds[4].Code)
	require.Len(t, cmds[8].Data, 15)
	require.Equal(t, byte(0x11), cmds[10].Code)
	require.Equal(t, byte(0x29), cmds[11].Code)

	// sleep-out settles before display-on
	require.Equal(t, []time.Duration{5 * time.Millisecond}, slept)
	require.False(t, bench.Panel.Sleeping())
	require.True(t, bench.Panel.On())

	// select line released
	require.True(t, bench.GPIOC.Pin(board.PanelCSPin))
}

func TestPanelCmdBoundedWait(t *testing.T) {
	// dead link: the status register never reports ready
	mux := hw.NewMux(
		hw.NewRAM("GPIOC", board.GPIOCBase, 0x28),
		hw.NewRAM("GPIOD", board.GPIODBase, 0x28),
		hw.NewRAM("SPI5", board.SPI5Base, 0x10),
	)
	p := NewPanel(mux)
	p.Spins = 25

	err := p.Cmd(0x11)
	ie, ok := err.(*hw.InitError)
	require.True(t, ok, "got %v", err)
	require.Equal(t, "panel", ie.Periph)
	require.Equal(t, "txe", ie.Stage)
	require.Equal(t, hw.ErrNotReady, ie.Err)
}
