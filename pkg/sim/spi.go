package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// SPI models an SPI master whose shift register is always ready. A
// data register write clocks one byte out to the attached panel when
// the peripheral is enabled and the panel is selected.
type SPI struct {
	dev
	cr1   uint32
	cr2   uint32
	panel *Panel
	dc    func() bool
	cs    func() bool
}

// NewSPI creates the model at base. dc reports the data/command line
// level, cs whether the panel is selected.
func NewSPI(base hw.Addr, panel *Panel, dc, cs func() bool) *SPI {
	return &SPI{dev: dev{"SPI5", base, 0x10}, panel: panel, dc: dc, cs: cs}
}

// Read32 implements hw.Device.
func (s *SPI) Read32(off hw.Addr) uint32 {
	switch off {
	case 0x00:
		return s.cr1
	case 0x04:
		return s.cr2
	case 0x08:
		return board.SPITXE
	}
	return 0
}

// Write32 implements hw.Device.
func (s *SPI) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x00:
		s.cr1 = val
	case 0x04:
		s.cr2 = val
	case 0x0c:
		if s.cr1&board.SPISPE != 0 && s.cs() {
			s.panel.ByteIn(byte(val), s.dc())
		}
	}
}
