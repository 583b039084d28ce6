package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// fmcBusyReads is how many status reads the controller stays busy
// after a command.
const fmcBusyReads = 2

// SDRAMCmd is one command issued through SDCMR.
type SDRAMCmd struct {
	Mode uint32
	NRFS uint32
	MRD  uint32
}

// FMC models the SDRAM controller command interface. Each command
// holds the busy flag up for a few status reads, so the wake sequence
// must poll between commands.
type FMC struct {
	dev
	sdcr      [2]uint32
	sdtr      [2]uint32
	sdcmr     uint32
	sdrtr     uint32
	cmds      []SDRAMCmd
	busyReads int
}

// NewFMC creates the model at base.
func NewFMC(base hw.Addr) *FMC {
	return &FMC{dev: dev{"FMC", base, 0x160}}
}

// Read32 implements hw.Device.
func (f *FMC) Read32(off hw.Addr) uint32 {
	switch off {
	case 0x140:
		return f.sdcr[0]
	case 0x144:
		return f.sdcr[1]
	case 0x148:
		return f.sdtr[0]
	case 0x14c:
		return f.sdtr[1]
	case 0x150:
		return f.sdcmr
	case 0x154:
		return f.sdrtr
	case 0x158:
		if f.busyReads > 0 {
			f.busyReads--
			return board.SDSRBusy
		}
		return 0
	}
	return 0
}

// Write32 implements hw.Device.
func (f *FMC) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x140:
		f.sdcr[0] = val
	case 0x144:
		f.sdcr[1] = val
	case 0x148:
		f.sdtr[0] = val
	case 0x14c:
		f.sdtr[1] = val
	case 0x150:
		f.sdcmr = val
		f.cmds = append(f.cmds, SDRAMCmd{
			Mode: val & board.SDCMRModeMask,
			NRFS: val >> board.SDCMRNRFSShift & 0xf,
			MRD:  val >> board.SDCMRMRDShift & 0x1fff,
		})
		f.busyReads = fmcBusyReads
	case 0x154:
		f.sdrtr = val
	}
}

// Commands returns every command issued so far, in order.
func (f *FMC) Commands() []SDRAMCmd { return f.cmds }

// ModeRegister returns the device mode register from the last load
// mode command, or zero if none was issued.
func (f *FMC) ModeRegister() uint32 {
	for i := len(f.cmds) - 1; i >= 0; i-- {
		if f.cmds[i].Mode == board.CmdLoadMode {
			return f.cmds[i].MRD
		}
	}
	return 0
}

// RefreshCount returns the programmed refresh timer count.
func (f *FMC) RefreshCount() uint32 { return f.sdrtr >> 1 & 0x1fff }
