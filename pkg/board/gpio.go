package board

import (
	"time"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// GPIORegs is the register block of one GPIO port.
type GPIORegs struct {
	MODER   hw.Reg
	OTYPER  hw.Reg
	OSPEEDR hw.Reg
	PUPDR   hw.Reg
	IDR     hw.Reg
	ODR     hw.Reg
	BSRR    hw.Reg
	AFRL    hw.Reg
	AFRH    hw.Reg
}

// GPIOAt lays out the register block of port name at base.
func GPIOAt(name string, base hw.Addr) GPIORegs {
	return GPIORegs{
		MODER:   hw.Reg{Name: name + "_MODER", Addr: base + 0x00},
		OTYPER:  hw.Reg{Name: name + "_OTYPER", Addr: base + 0x04},
		OSPEEDR: hw.Reg{Name: name + "_OSPEEDR", Addr: base + 0x08},
		PUPDR:   hw.Reg{Name: name + "_PUPDR", Addr: base + 0x0c},
		IDR:     hw.Reg{Name: name + "_IDR", Addr: base + 0x10, Access: hw.RO},
		ODR:     hw.Reg{Name: name + "_ODR", Addr: base + 0x14},
		BSRR:    hw.Reg{Name: name + "_BSRR", Addr: base + 0x18, Access: hw.WO},
		AFRL:    hw.Reg{Name: name + "_AFRL", Addr: base + 0x20},
		AFRH:    hw.Reg{Name: name + "_AFRH", Addr: base + 0x24},
	}
}

// Pin modes
const (
	ModeInput = iota
	ModeOutput
	ModeAF
	ModeAnalog
)

// Slew rates
const (
	SpeedLow = iota
	SpeedMedium
	SpeedFast
	SpeedHigh
)

// Pull resistors
const (
	PullNone = iota
	PullUp
	PullDown
)

func field2(b hw.Bus, r hw.Reg, pin, val uint32) {
	v := r.Read(b)
	r.Write(b, v&^(3<<(2*pin))|val<<(2*pin))
}

// SetMode selects the pin mode.
func (g GPIORegs) SetMode(b hw.Bus, pin, mode uint32) { field2(b, g.MODER, pin, mode) }

// SetSpeed selects the pin slew rate.
func (g GPIORegs) SetSpeed(b hw.Bus, pin, speed uint32) { field2(b, g.OSPEEDR, pin, speed) }

// SetPull selects the pin pull resistor.
func (g GPIORegs) SetPull(b hw.Bus, pin, pull uint32) { field2(b, g.PUPDR, pin, pull) }

// OpenDrain selects the pin output type.
func (g GPIORegs) OpenDrain(b hw.Bus, pin uint32, od bool) {
	v := g.OTYPER.Read(b)
	if od {
		v |= 1 << pin
	} else {
		v &^= 1 << pin
	}
	g.OTYPER.Write(b, v)
}

// SetAF muxes the pin to alternate function af.
func (g GPIORegs) SetAF(b hw.Bus, pin, af uint32) {
	r := g.AFRL
	if pin >= 8 {
		r, pin = g.AFRH, pin-8
	}
	v := r.Read(b)
	r.Write(b, v&^(0xf<<(4*pin))|af<<(4*pin))
}

// High drives the pin high through the set/reset register.
func (g GPIORegs) High(b hw.Bus, pin uint32) { g.BSRR.Write(b, 1<<pin) }

// Low drives the pin low.
func (g GPIORegs) Low(b hw.Bus, pin uint32) { g.BSRR.Write(b, 1<<(pin+16)) }

// afPin routes one pin to a peripheral function: alternate mode,
// push-pull, no pull, fast slew.
func afPin(b hw.Bus, g GPIORegs, pin, af uint32) {
	g.SetMode(b, pin, ModeAF)
	g.SetSpeed(b, pin, SpeedFast)
	g.OpenDrain(b, pin, false)
	g.SetPull(b, pin, PullNone)
	g.SetAF(b, pin, af)
}

type afMap struct {
	port GPIORegs
	pin  uint32
	af   uint32
}

func pinsAF(g GPIORegs, af uint32, pins ...uint32) []afMap {
	m := make([]afMap, 0, len(pins))
	for _, p := range pins {
		m = append(m, afMap{g, p, af})
	}
	return m
}

func joinPins(groups ...[]afMap) []afMap {
	var all []afMap
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// LTDC data and control lines per the Discovery schematic. The AF
// mapping is not uniform: most lines sit on AF14, a few on AF9.
var ltdcPins = joinPins(
	// R2..R7
	pinsAF(GPIOC, 14, 10), pinsAF(GPIOB, 9, 0), pinsAF(GPIOA, 14, 11, 12), pinsAF(GPIOB, 9, 1), pinsAF(GPIOG, 14, 6),
	// G2..G7
	pinsAF(GPIOA, 14, 6), pinsAF(GPIOG, 9, 10), pinsAF(GPIOB, 14, 10, 11), pinsAF(GPIOC, 14, 7), pinsAF(GPIOD, 14, 3),
	// B2..B7
	pinsAF(GPIOD, 14, 6), pinsAF(GPIOG, 14, 11), pinsAF(GPIOG, 9, 12), pinsAF(GPIOA, 14, 3), pinsAF(GPIOB, 14, 8, 9),
	// DE, DOTCLK, HSYNC, VSYNC
	pinsAF(GPIOF, 14, 10), pinsAF(GPIOG, 14, 7), pinsAF(GPIOC, 14, 6), pinsAF(GPIOA, 14, 4),
)

// SDRAM address, data and control lines, all on AF12.
var sdramPins = joinPins(
	pinsAF(GPIOB, 12, 5, 6),
	pinsAF(GPIOC, 12, 0),
	pinsAF(GPIOD, 12, 0, 1, 8, 9, 10, 14, 15),
	pinsAF(GPIOE, 12, 0, 1, 7, 8, 9, 10, 11, 12, 13, 14, 15),
	pinsAF(GPIOF, 12, 0, 1, 2, 3, 4, 5, 11, 12, 13, 14, 15),
	pinsAF(GPIOG, 12, 0, 1, 4, 5, 8, 15),
)

// SetupLTDCPins gates the port clocks and routes the panel's RGB
// interface to the display controller.
func SetupLTDCPins(b hw.Bus) {
	RCC.AHB1ENR.SetBits(b, GPIOAEN|GPIOBEN|GPIOCEN|GPIODEN|GPIOFEN|GPIOGEN)
	for _, m := range ltdcPins {
		afPin(b, m.port, m.pin, m.af)
	}
}

// Panel control lines: chip select on PC2, data/command on PD13. The
// serial link itself runs on SPI5, PF7 clock and PF9 data.
const (
	PanelCSPin = 2
	PanelDCPin = 13
)

// SetupPanelPins prepares the panel's serial link pins.
func SetupPanelPins(b hw.Bus) {
	RCC.AHB1ENR.SetBits(b, GPIOCEN|GPIODEN|GPIOFEN)
	RCC.APB2ENR.SetBits(b, SPI5EN)

	GPIOC.SetMode(b, PanelCSPin, ModeOutput)
	GPIOC.SetSpeed(b, PanelCSPin, SpeedFast)
	GPIOD.SetMode(b, PanelDCPin, ModeOutput)
	GPIOD.SetSpeed(b, PanelDCPin, SpeedFast)

	afPin(b, GPIOF, 7, 5)
	afPin(b, GPIOF, 9, 5)
}

// Status LEDs on the Discovery board.
const (
	LEDGreenPin = 13 // PG13
	LEDRedPin   = 14 // PG14
)

// SetupLEDPins prepares the status LEDs as outputs, off.
func SetupLEDPins(b hw.Bus) {
	RCC.AHB1ENR.SetBits(b, GPIOGEN)
	for _, pin := range []uint32{LEDGreenPin, LEDRedPin} {
		GPIOG.SetMode(b, pin, ModeOutput)
		GPIOG.SetSpeed(b, pin, SpeedLow)
		GPIOG.Low(b, pin)
	}
}

// SetupI2CPins muxes PB8/PB9 to I2C1, open drain with pull-ups, and
// pulses the peripheral reset to clear any stuck bus state.
func SetupI2CPins(b hw.Bus, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	RCC.AHB1ENR.SetBits(b, GPIOBEN)
	RCC.APB1ENR.SetBits(b, I2C1EN)

	for _, pin := range []uint32{8, 9} {
		GPIOB.SetMode(b, pin, ModeAF)
		GPIOB.SetAF(b, pin, 4)
		GPIOB.OpenDrain(b, pin, true)
		GPIOB.SetPull(b, pin, PullUp)
		GPIOB.SetSpeed(b, pin, SpeedMedium)
	}

	RCC.APB1RSTR.SetBits(b, I2C1RST)
	sleep(10 * time.Microsecond)
	RCC.APB1RSTR.ClrBits(b, I2C1RST)
	sleep(100 * time.Microsecond)
}
