package board

import (
	"fmt"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// LTDCRegs is the display controller register block.
type LTDCRegs struct {
	SSCR  hw.Reg
	BPCR  hw.Reg
	AWCR  hw.Reg
	TWCR  hw.Reg
	GCR   hw.Reg
	SRCR  hw.Reg
	BCCR  hw.Reg
	Layer [2]LayerRegs
}

// LayerRegs is the per-layer register block. Layer registers are
// shadowed: writes stage a new configuration which takes effect only
// when a reload is requested through SRCR.
type LayerRegs struct {
	CR     hw.Reg
	WHPCR  hw.Reg
	WVPCR  hw.Reg
	PFCR   hw.Reg
	CACR   hw.Reg
	BFCR   hw.Reg
	CFBAR  hw.Reg
	CFBLR  hw.Reg
	CFBLNR hw.Reg
}

// LTDCAt lays out the register block at base.
func LTDCAt(base hw.Addr) LTDCRegs {
	r := LTDCRegs{
		SSCR: hw.Reg{Name: "LTDC_SSCR", Addr: base + 0x08},
		BPCR: hw.Reg{Name: "LTDC_BPCR", Addr: base + 0x0c},
		AWCR: hw.Reg{Name: "LTDC_AWCR", Addr: base + 0x10},
		TWCR: hw.Reg{Name: "LTDC_TWCR", Addr: base + 0x14},
		GCR:  hw.Reg{Name: "LTDC_GCR", Addr: base + 0x18},
		SRCR: hw.Reg{Name: "LTDC_SRCR", Addr: base + 0x24},
		BCCR: hw.Reg{Name: "LTDC_BCCR", Addr: base + 0x2c},
	}
	for i := range r.Layer {
		lb := base + 0x84 + hw.Addr(i)*0x80
		n := fmt.Sprintf("LTDC_L%d", i+1)
		r.Layer[i] = LayerRegs{
			CR:     hw.Reg{Name: n + "CR", Addr: lb + 0x00},
			WHPCR:  hw.Reg{Name: n + "WHPCR", Addr: lb + 0x04},
			WVPCR:  hw.Reg{Name: n + "WVPCR", Addr: lb + 0x08},
			PFCR:   hw.Reg{Name: n + "PFCR", Addr: lb + 0x10},
			CACR:   hw.Reg{Name: n + "CACR", Addr: lb + 0x14},
			BFCR:   hw.Reg{Name: n + "BFCR", Addr: lb + 0x1c},
			CFBAR:  hw.Reg{Name: n + "CFBAR", Addr: lb + 0x28},
			CFBLR:  hw.Reg{Name: n + "CFBLR", Addr: lb + 0x2c},
			CFBLNR: hw.Reg{Name: n + "CFBLNR", Addr: lb + 0x30},
		}
	}
	return r
}

// LTDC_GCR bits
const (
	GCREN    = 1 << 0
	GCRPCPol = 1 << 28
)

// LTDC_SRCR reload requests: immediate, or latched at the next
// vertical blank.
const (
	SRCRIMR = 1 << 0
	SRCRVBR = 1 << 1
)

// Layer CR bits
const LCREN = 1 << 0

// PFCR pixel formats
const (
	PFARGB8888 = 0
	PFRGB565   = 2
)
