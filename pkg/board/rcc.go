package board

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// RCCRegs is the reset and clock control register block.
type RCCRegs struct {
	CR         hw.Reg
	PLLCFGR    hw.Reg
	CFGR       hw.Reg
	APB1RSTR   hw.Reg
	AHB1ENR    hw.Reg
	AHB3ENR    hw.Reg
	APB1ENR    hw.Reg
	APB2ENR    hw.Reg
	PLLSAICFGR hw.Reg
	DCKCFGR    hw.Reg
}

// RCCAt lays out the register block at base.
func RCCAt(base hw.Addr) RCCRegs {
	return RCCRegs{
		CR:         hw.Reg{Name: "RCC_CR", Addr: base + 0x00},
		PLLCFGR:    hw.Reg{Name: "RCC_PLLCFGR", Addr: base + 0x04},
		CFGR:       hw.Reg{Name: "RCC_CFGR", Addr: base + 0x08},
		APB1RSTR:   hw.Reg{Name: "RCC_APB1RSTR", Addr: base + 0x20},
		AHB1ENR:    hw.Reg{Name: "RCC_AHB1ENR", Addr: base + 0x30},
		AHB3ENR:    hw.Reg{Name: "RCC_AHB3ENR", Addr: base + 0x38},
		APB1ENR:    hw.Reg{Name: "RCC_APB1ENR", Addr: base + 0x40},
		APB2ENR:    hw.Reg{Name: "RCC_APB2ENR", Addr: base + 0x44},
		PLLSAICFGR: hw.Reg{Name: "RCC_PLLSAICFGR", Addr: base + 0x88},
		DCKCFGR:    hw.Reg{Name: "RCC_DCKCFGR", Addr: base + 0x8c},
	}
}

// RCC_CR bits
const (
	HSION     = 1 << 0
	HSIRDY    = 1 << 1
	HSEON     = 1 << 16
	HSERDY    = 1 << 17
	PLLON     = 1 << 24
	PLLRDY    = 1 << 25
	PLLSAION  = 1 << 28
	PLLSAIRDY = 1 << 29
)

// RCC_AHB1ENR bits
const (
	GPIOAEN = 1 << 0
	GPIOBEN = 1 << 1
	GPIOCEN = 1 << 2
	GPIODEN = 1 << 3
	GPIOEEN = 1 << 4
	GPIOFEN = 1 << 5
	GPIOGEN = 1 << 6
)

// RCC_AHB3ENR bits
const FMCEN = 1 << 0

// RCC_APB1ENR bits
const (
	I2C1EN = 1 << 21
	PWREN  = 1 << 28
)

// RCC_APB1RSTR bits
const I2C1RST = 1 << 21

// RCC_APB2ENR bits
const (
	SPI5EN = 1 << 20
	LTDCEN = 1 << 26
)

// PLL settings for 168MHz SYSCLK from the 8MHz external oscillator:
// VCO = 8MHz / PLLM * PLLN, SYSCLK = VCO / 2.
const (
	pllSrcHSE = 1 << 22
	pllM      = 8
	pllN      = 336
	pllQ      = 7
)

// CFGR fields
const (
	cfgrPPRE1Div4 = 5 << 10
	cfgrPPRE2Div2 = 4 << 13
	cfgrPreMask   = 0xf<<4 | 7<<10 | 7<<13
	cfgrSWMask    = 3
	cfgrSWPLL     = 2
	cfgrSWSPLL    = 1 << 3
)

const (
	pwrVOSScale1 = 3 << 14
	acr168MHz    = 5 | 1<<8 | 1<<9 | 1<<10 // 5 wait states, prefetch, I/D cache
)

// waitSpins bounds every readiness poll during bring-up. Each spin is
// one observable status read.
const waitSpins = 100000

// Standalone power and flash interface registers used during the
// clock switch.
var (
	PWRCR    = hw.Reg{Name: "PWR_CR", Addr: PWRBase}
	FlashACR = hw.Reg{Name: "FLASH_ACR", Addr: FlashBase}
)

// SetupClocks brings the clock tree to 168MHz SYSCLK off the external
// oscillator, with APB1 at 42MHz and APB2 at 84MHz.
func SetupClocks(b hw.Bus) error {
	r := RCC
	r.CR.SetBits(b, HSEON)
	if err := hw.WaitSet(b, r.CR, HSERDY, waitSpins); err != nil {
		return &hw.InitError{Periph: "rcc", Stage: "hse", Err: err}
	}

	// Voltage scale 1 and flash timing must be in place before the
	// switch to 168MHz.
	r.APB1ENR.SetBits(b, PWREN)
	PWRCR.SetBits(b, pwrVOSScale1)
	FlashACR.Write(b, acr168MHz)

	cfgr := r.CFGR.Read(b)
	r.CFGR.Write(b, cfgr&^cfgrPreMask|cfgrPPRE1Div4|cfgrPPRE2Div2)

	r.PLLCFGR.Write(b, pllSrcHSE|pllM|pllN<<6|pllQ<<24)
	r.CR.SetBits(b, PLLON)
	if err := hw.WaitSet(b, r.CR, PLLRDY, waitSpins); err != nil {
		return &hw.InitError{Periph: "rcc", Stage: "pll", Err: err}
	}

	cfgr = r.CFGR.Read(b)
	r.CFGR.Write(b, cfgr&^cfgrSWMask|cfgrSWPLL)
	if err := hw.WaitSet(b, r.CFGR, cfgrSWSPLL, waitSpins); err != nil {
		return &hw.InitError{Periph: "rcc", Stage: "sysclk", Err: err}
	}
	r.CR.ClrBits(b, HSION)
	return nil
}

// SetupPixelClock configures PLLSAI for a ~6MHz LTDC pixel clock and
// gates the controller's peripheral clock on.
func SetupPixelClock(b hw.Bus) error {
	r := RCC
	sai := r.PLLSAICFGR.Read(b)
	q := sai >> 24 & 0xf
	r.PLLSAICFGR.Write(b, 192<<6|q<<24|4<<28)

	dck := r.DCKCFGR.Read(b)
	r.DCKCFGR.Write(b, dck&^(3<<16)|2<<16) // DIVR /8

	r.CR.SetBits(b, PLLSAION)
	if err := hw.WaitSet(b, r.CR, PLLSAIRDY, waitSpins); err != nil {
		return &hw.InitError{Periph: "rcc", Stage: "pllsai", Err: err}
	}
	r.APB2ENR.SetBits(b, LTDCEN)
	return nil
}
