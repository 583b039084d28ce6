package board

import (
	"time"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// FMCRegs is the SDRAM controller slice of the FMC register block.
type FMCRegs struct {
	SDCR1 hw.Reg
	SDCR2 hw.Reg
	SDTR1 hw.Reg
	SDTR2 hw.Reg
	SDCMR hw.Reg
	SDRTR hw.Reg
	SDSR  hw.Reg
}

// FMCAt lays out the register block at base.
func FMCAt(base hw.Addr) FMCRegs {
	return FMCRegs{
		SDCR1: hw.Reg{Name: "FMC_SDCR1", Addr: base + 0x140},
		SDCR2: hw.Reg{Name: "FMC_SDCR2", Addr: base + 0x144},
		SDTR1: hw.Reg{Name: "FMC_SDTR1", Addr: base + 0x148},
		SDTR2: hw.Reg{Name: "FMC_SDTR2", Addr: base + 0x14c},
		SDCMR: hw.Reg{Name: "FMC_SDCMR", Addr: base + 0x150},
		SDRTR: hw.Reg{Name: "FMC_SDRTR", Addr: base + 0x154},
		SDSR:  hw.Reg{Name: "FMC_SDSR", Addr: base + 0x158, Access: hw.RO},
	}
}

// SDCMR fields
const (
	SDCMRModeMask  = 0x7
	SDCMRCTB2      = 1 << 3
	SDCMRCTB1      = 1 << 4
	SDCMRNRFSShift = 5
	SDCMRMRDShift  = 9
)

// SDCMR command modes
const (
	CmdClockEnable  = 1
	CmdPrechargeAll = 2
	CmdAutoRefresh  = 3
	CmdLoadMode     = 4
)

// SDSR bits
const SDSRBusy = 1 << 5

// Bank 2 configuration for the Discovery's IS42S16400J: 16-bit data,
// 12 row and 8 column address bits, 4 banks, CAS 3, SDCLK at half
// HCLK with a one cycle read pipeline.
const (
	sdcr = 1<<13 | 2<<10 | 3<<7 | 1<<6 | 1<<4 | 1<<2
	sdtr = 2 | 7<<4 | 4<<8 | 7<<12 | 2<<16 | 2<<20 | 2<<24

	sdramModeReg = 0x231 // burst length 2 sequential, CAS 3, single writes
	refreshCount = 683
)

// SetupSDRAM routes the FMC pins, programs bank 2 and walks the JEDEC
// wake sequence: clock enable, settle, precharge all, auto-refresh,
// load mode register, then the refresh timer. sleep covers the settle
// after clock enable; nil uses time.Sleep.
func SetupSDRAM(b hw.Bus, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	RCC.AHB1ENR.SetBits(b, GPIOBEN|GPIOCEN|GPIODEN|GPIOEEN|GPIOFEN|GPIOGEN)
	for _, m := range sdramPins {
		afPin(b, m.port, m.pin, m.af)
	}
	RCC.AHB3ENR.SetBits(b, FMCEN)

	r := FMC
	r.SDCR1.Write(b, sdcr)
	r.SDCR2.Write(b, sdcr)
	r.SDTR1.Write(b, sdtr)
	r.SDTR2.Write(b, sdtr)

	if err := sdramCmd(b, CmdClockEnable|SDCMRCTB2, "clock enable"); err != nil {
		return err
	}
	sleep(100 * time.Microsecond)
	if err := sdramCmd(b, CmdPrechargeAll|SDCMRCTB2, "precharge"); err != nil {
		return err
	}
	if err := sdramCmd(b, CmdAutoRefresh|SDCMRCTB2|4<<SDCMRNRFSShift, "auto refresh"); err != nil {
		return err
	}
	if err := sdramCmd(b, CmdLoadMode|SDCMRCTB2|1<<SDCMRNRFSShift|sdramModeReg<<SDCMRMRDShift, "load mode"); err != nil {
		return err
	}
	r.SDRTR.Write(b, refreshCount<<1)
	return nil
}

func sdramCmd(b hw.Bus, cmd uint32, stage string) error {
	FMC.SDCMR.Write(b, cmd)
	if err := hw.WaitClear(b, FMC.SDSR, SDSRBusy, waitSpins); err != nil {
		return &hw.InitError{Periph: "sdram", Stage: stage, Err: err}
	}
	return nil
}
