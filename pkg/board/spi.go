package board

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// SPIRegs is the register block of an SPI master.
type SPIRegs struct {
	CR1 hw.Reg
	CR2 hw.Reg
	SR  hw.Reg
	DR  hw.Reg
}

// SPIAt lays out the register block of controller name at base.
func SPIAt(name string, base hw.Addr) SPIRegs {
	return SPIRegs{
		CR1: hw.Reg{Name: name + "_CR1", Addr: base + 0x00},
		CR2: hw.Reg{Name: name + "_CR2", Addr: base + 0x04},
		SR:  hw.Reg{Name: name + "_SR", Addr: base + 0x08},
		DR:  hw.Reg{Name: name + "_DR", Addr: base + 0x0c},
	}
}

// SPI_CR1 bits
const (
	SPICPHA   = 1 << 0
	SPICPOL   = 1 << 1
	SPIMSTR   = 1 << 2
	SPIBRDiv4 = 1 << 3
	SPISPE    = 1 << 6
	SPISSI    = 1 << 8
	SPISSM    = 1 << 9
)

// SPI_SR bits
const (
	SPIRXNE = 1 << 0
	SPITXE  = 1 << 1
	SPIBSY  = 1 << 7
)
