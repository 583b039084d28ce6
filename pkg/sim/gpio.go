package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// GPIO models one port. Output levels live in ODR; the set/reset
// register resolves into it and the input register loops it back.
type GPIO struct {
	dev
	moder   uint32
	otyper  uint32
	ospeedr uint32
	pupdr   uint32
	odr     uint32
	afrl    uint32
	afrh    uint32
}

// NewGPIO creates the model of port name at base.
func NewGPIO(name string, base hw.Addr) *GPIO {
	return &GPIO{dev: dev{name, base, 0x28}}
}

// Read32 implements hw.Device.
func (g *GPIO) Read32(off hw.Addr) uint32 {
	switch off {
	case 0x00:
		return g.moder
	case 0x04:
		return g.otyper
	case 0x08:
		return g.ospeedr
	case 0x0c:
		return g.pupdr
	case 0x10, 0x14:
		return g.odr
	case 0x20:
		return g.afrl
	case 0x24:
		return g.afrh
	}
	return 0
}

// Write32 implements hw.Device.
func (g *GPIO) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x00:
		g.moder = val
	case 0x04:
		g.otyper = val
	case 0x08:
		g.ospeedr = val
	case 0x0c:
		g.pupdr = val
	case 0x14:
		g.odr = val
	case 0x18:
		// set wins over reset
		g.odr = g.odr&^(val>>16) | val&0xffff
	case 0x20:
		g.afrl = val
	case 0x24:
		g.afrh = val
	}
}

// Pin reports the output level of pin.
func (g *GPIO) Pin(pin uint32) bool { return g.odr>>pin&1 != 0 }

// Mode reports the configured mode of pin.
func (g *GPIO) Mode(pin uint32) uint32 { return g.moder >> (2 * pin) & 3 }

// AF reports the alternate function muxed onto pin.
func (g *GPIO) AF(pin uint32) uint32 {
	if pin < 8 {
		return g.afrl >> (4 * pin) & 0xf
	}
	return g.afrh >> (4 * (pin - 8)) & 0xf
}
