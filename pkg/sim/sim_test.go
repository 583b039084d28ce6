package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
)

func TestBenchI2CTransactions(t *testing.T) {
	bench := NewBench()
	ctrl := i2c.NewController(bench.Bus, board.I2C1)
	require.NoError(t, ctrl.Enable(board.APB1Clock))

	require.NoError(t, ctrl.Write(MPUAddr, []byte{0x6b, 0x00}))
	require.Equal(t, []RegWrite{{0x6b, 0x00}}, bench.MPU.Writes())
	require.Equal(t, byte(0), bench.MPU.Reg(0x6b))

	bench.MPU.SetAccel(16, 0, -4096)
	buf := make([]byte, 6)
	require.NoError(t, ctrl.WriteRead(MPUAddr, []byte{0x3b}, buf))
	require.Equal(t, []byte{0x00, 0x10, 0x00, 0x00, 0xf0, 0x00}, buf)

	id := make([]byte, 1)
	require.NoError(t, ctrl.WriteRead(MPUAddr, []byte{0x75}, id))
	require.Equal(t, byte(0x68), id[0])
}

func TestBenchI2CNack(t *testing.T) {
	bench := NewBench()
	ctrl := i2c.NewController(bench.Bus, board.I2C1)
	require.NoError(t, ctrl.Enable(board.APB1Clock))

	require.Equal(t, i2c.ErrNack, ctrl.Write(0x42, []byte{0x00}))

	bench.MPU.Quiet = true
	require.Equal(t, i2c.ErrNack, ctrl.Write(MPUAddr, []byte{0x6b, 0x00}))
	require.Empty(t, bench.MPU.Writes())

	bench.MPU.Quiet = false
	require.NoError(t, ctrl.Write(MPUAddr, []byte{0x6b, 0x00}))
}

func TestRCCReadyWarmup(t *testing.T) {
	bench := NewBench()
	bus := bench.Bus

	board.RCC.CR.SetBits(bus, board.HSEON)
	for i := 0; i < rccWarmup; i++ {
		require.Zero(t, board.RCC.CR.Read(bus)&board.HSERDY)
	}
	require.NotZero(t, board.RCC.CR.Read(bus)&board.HSERDY)
}

func TestLTDCShadowReload(t *testing.T) {
	bench := NewBench()
	bus := bench.Bus
	l := board.LTDC.Layer[1]

	l.CR.Write(bus, board.LCREN)
	l.WHPCR.Write(bus, 40<<16|10)
	l.WVPCR.Write(bus, 70<<16|20)
	l.CFBAR.Write(bus, uint32(board.Layer2Base))

	// staged only, the panel-visible set waits for a reload
	require.False(t, bench.LTDC.Active(1).On)
	require.Zero(t, bench.LTDC.Reloads())

	board.LTDC.SRCR.Write(bus, board.SRCRVBR)
	st := bench.LTDC.Active(1)
	require.True(t, st.On)
	require.Equal(t, uint32(10), st.H0)
	require.Equal(t, uint32(40), st.H1)
	require.Equal(t, uint32(20), st.V0)
	require.Equal(t, uint32(70), st.V1)
	require.Equal(t, uint32(board.Layer2Base), st.FBAddr)
	require.Equal(t, 1, bench.LTDC.Reloads())

	// shadow reads keep returning the staged values
	require.Equal(t, uint32(40<<16|10), l.WHPCR.Read(bus))
}

func TestFMCCommandCapture(t *testing.T) {
	bench := NewBench()
	bus := bench.Bus

	board.FMC.SDCMR.Write(bus, board.CmdClockEnable|board.SDCMRCTB2)
	reads := 0
	for board.FMC.SDSR.Read(bus)&board.SDSRBusy != 0 {
		reads++
	}
	require.Equal(t, fmcBusyReads, reads)

	board.FMC.SDCMR.Write(bus, board.CmdLoadMode|board.SDCMRCTB2|1<<board.SDCMRNRFSShift|0x231<<board.SDCMRMRDShift)
	require.Equal(t, []SDRAMCmd{
		{Mode: board.CmdClockEnable},
		{Mode: board.CmdLoadMode, NRFS: 1, MRD: 0x231},
	}, bench.FMC.Commands())
	require.Equal(t, uint32(0x231), bench.FMC.ModeRegister())
}

func TestSPIPanelCapture(t *testing.T) {
	bench := NewBench()
	bus := bench.Bus

	board.GPIOC.Low(bus, board.PanelCSPin)
	board.SPI5.CR1.Write(bus, board.SPIMSTR|board.SPISPE)

	board.GPIOD.Low(bus, board.PanelDCPin)
	board.SPI5.DR.Write(bus, 0xc0)
	board.GPIOD.High(bus, board.PanelDCPin)
	board.SPI5.DR.Write(bus, 0x10)

	require.Equal(t, []PanelCmd{{Code: 0xc0, Data: []byte{0x10}}}, bench.Panel.Commands())

	// nothing reaches a deselected panel
	board.GPIOC.High(bus, board.PanelCSPin)
	board.SPI5.DR.Write(bus, 0xff)
	require.Len(t, bench.Panel.Commands(), 1)

	board.GPIOC.Low(bus, board.PanelCSPin)
	board.GPIOD.Low(bus, board.PanelDCPin)
	require.True(t, bench.Panel.Sleeping())
	board.SPI5.DR.Write(bus, 0x11)
	require.False(t, bench.Panel.Sleeping())
	board.SPI5.DR.Write(bus, 0x29)
	require.True(t, bench.Panel.On())
}
