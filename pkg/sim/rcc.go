package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// rccWarmup is how many status reads an oscillator or PLL stays
// not-ready after being switched on.
const rccWarmup = 2

var rccReady = map[uint32]uint32{
	board.HSION:    board.HSIRDY,
	board.HSEON:    board.HSERDY,
	board.PLLON:    board.PLLRDY,
	board.PLLSAION: board.PLLSAIRDY,
}

// RCC models the clock controller. Clock sources report ready a few
// polls after they are switched on; the system clock switch completes
// immediately.
type RCC struct {
	dev
	mem  [36]uint32
	warm map[uint32]int
}

// NewRCC creates the model at base, with the internal oscillator
// running as after reset.
func NewRCC(base hw.Addr) *RCC {
	r := &RCC{
		dev:  dev{"RCC", base, 0x90},
		warm: make(map[uint32]int),
	}
	r.mem[0] = board.HSION | board.HSIRDY
	return r
}

// Read32 implements hw.Device.
func (r *RCC) Read32(off hw.Addr) uint32 {
	v := r.mem[off/4]
	if off == 0x00 {
		for rdy, n := range r.warm {
			if n > 0 {
				r.warm[rdy] = n - 1
				v &^= rdy
			}
		}
	}
	return v
}

// Write32 implements hw.Device.
func (r *RCC) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x00:
		old := r.mem[0]
		for on, rdy := range rccReady {
			val &^= rdy
			if val&on != 0 {
				val |= rdy
				if old&on == 0 {
					r.warm[rdy] = rccWarmup
				}
			}
		}
	case 0x08:
		val = val&^uint32(0xc) | val&3<<2 // SWS follows SW
	}
	r.mem[off/4] = val
}
