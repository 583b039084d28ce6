package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

type layerRegs struct {
	cr     uint32
	whpcr  uint32
	wvpcr  uint32
	pfcr   uint32
	cacr   uint32
	bfcr   uint32
	cfbar  uint32
	cfblr  uint32
	cfblnr uint32
}

// LayerState is the decoded, panel-visible configuration of one layer.
type LayerState struct {
	On          bool
	PixelFormat uint32
	FBAddr      uint32
	H0, H1      uint32
	V0, V1      uint32
	Alpha       uint32
}

// LTDC models the display controller. Layer registers are shadowed:
// reads return the staged values, but the active set the panel sees
// advances only on a reload request through SRCR.
type LTDC struct {
	dev
	sscr    uint32
	bpcr    uint32
	awcr    uint32
	twcr    uint32
	gcr     uint32
	bccr    uint32
	shadow  [2]layerRegs
	active  [2]layerRegs
	reloads int
}

// NewLTDC creates the model at base.
func NewLTDC(base hw.Addr) *LTDC {
	return &LTDC{dev: dev{"LTDC", base, 0x200}}
}

// Read32 implements hw.Device.
func (l *LTDC) Read32(off hw.Addr) uint32 {
	switch off {
	case 0x08:
		return l.sscr
	case 0x0c:
		return l.bpcr
	case 0x10:
		return l.awcr
	case 0x14:
		return l.twcr
	case 0x18:
		return l.gcr
	case 0x24:
		return 0 // reload requests self-clear
	case 0x2c:
		return l.bccr
	}
	if i, rel, ok := layerOff(off); ok {
		s := &l.shadow[i]
		switch rel {
		case 0x00:
			return s.cr
		case 0x04:
			return s.whpcr
		case 0x08:
			return s.wvpcr
		case 0x10:
			return s.pfcr
		case 0x14:
			return s.cacr
		case 0x1c:
			return s.bfcr
		case 0x28:
			return s.cfbar
		case 0x2c:
			return s.cfblr
		case 0x30:
			return s.cfblnr
		}
	}
	return 0
}

// Write32 implements hw.Device.
func (l *LTDC) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x08:
		l.sscr = val
		return
	case 0x0c:
		l.bpcr = val
		return
	case 0x10:
		l.awcr = val
		return
	case 0x14:
		l.twcr = val
		return
	case 0x18:
		l.gcr = val
		return
	case 0x24:
		if val&(board.SRCRIMR|board.SRCRVBR) != 0 {
			l.active = l.shadow
			l.reloads++
		}
		return
	case 0x2c:
		l.bccr = val
		return
	}
	if i, rel, ok := layerOff(off); ok {
		s := &l.shadow[i]
		switch rel {
		case 0x00:
			s.cr = val
		case 0x04:
			s.whpcr = val
		case 0x08:
			s.wvpcr = val
		case 0x10:
			s.pfcr = val
		case 0x14:
			s.cacr = val
		case 0x1c:
			s.bfcr = val
		case 0x28:
			s.cfbar = val
		case 0x2c:
			s.cfblr = val
		case 0x30:
			s.cfblnr = val
		}
	}
}

func layerOff(off hw.Addr) (i int, rel hw.Addr, ok bool) {
	if off < 0x84 || off >= 0x184 {
		return 0, 0, false
	}
	return int((off - 0x84) / 0x80), (off - 0x84) % 0x80, true
}

// Enabled reports whether the controller is scanning out.
func (l *LTDC) Enabled() bool { return l.gcr&board.GCREN != 0 }

// Reloads returns how many shadow reloads have been requested.
func (l *LTDC) Reloads() int { return l.reloads }

// Active returns the active configuration of layer i, the one the
// panel currently sees.
func (l *LTDC) Active(i int) LayerState {
	a := l.active[i]
	return LayerState{
		On:          a.cr&board.LCREN != 0,
		PixelFormat: a.pfcr & 7,
		FBAddr:      a.cfbar,
		H0:          a.whpcr & 0xfff,
		H1:          a.whpcr >> 16 & 0xfff,
		V0:          a.wvpcr & 0x7ff,
		V1:          a.wvpcr >> 16 & 0x7ff,
		Alpha:       a.cacr & 0xff,
	}
}
