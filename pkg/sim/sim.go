// Package sim models the board's peripherals well enough to run the
// driver stack unmodified on a host. Every register access a driver
// performs lands in a modeled device on the bus mux; the models cover
// the behaviors the drivers depend on, not the silicon's full feature
// set. Readiness flags come up after a few polls so bounded waits are
// actually exercised.
package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// Bench is the assembled board model: a bus mux with every peripheral
// mapped at its datasheet address, plus direct handles on the models
// for instrumentation.
type Bench struct {
	Bus *hw.Mux

	RCC   *RCC
	GPIOA *GPIO
	GPIOB *GPIO
	GPIOC *GPIO
	GPIOD *GPIO
	GPIOE *GPIO
	GPIOF *GPIO
	GPIOG *GPIO
	FMC   *FMC
	SDRAM *hw.RAM
	LTDC  *LTDC
	SPI5  *SPI
	Panel *Panel
	I2C1  *I2CPort
	MPU   *MPU6050
}

// NewBench assembles the model with the motion sensor attached to
// I2C1 and the panel wired to SPI5, chip select on PC2 (active low)
// and data/command on PD13.
func NewBench() *Bench {
	b := &Bench{
		RCC:   NewRCC(board.RCCBase),
		GPIOA: NewGPIO("GPIOA", board.GPIOABase),
		GPIOB: NewGPIO("GPIOB", board.GPIOBBase),
		GPIOC: NewGPIO("GPIOC", board.GPIOCBase),
		GPIOD: NewGPIO("GPIOD", board.GPIODBase),
		GPIOE: NewGPIO("GPIOE", board.GPIOEBase),
		GPIOF: NewGPIO("GPIOF", board.GPIOFBase),
		GPIOG: NewGPIO("GPIOG", board.GPIOGBase),
		FMC:   NewFMC(board.FMCBase),
		SDRAM: hw.NewRAM("SDRAM", board.SDRAMBase, board.SDRAMSize),
		LTDC:  NewLTDC(board.LTDCBase),
		Panel: NewPanel(),
		MPU:   NewMPU6050(),
	}
	b.SPI5 = NewSPI(board.SPI5Base, b.Panel,
		func() bool { return b.GPIOD.Pin(board.PanelDCPin) },
		func() bool { return !b.GPIOC.Pin(board.PanelCSPin) })
	b.I2C1 = NewI2CPort(board.I2C1Base)
	b.I2C1.Attach(MPUAddr, b.MPU)

	b.Bus = hw.NewMux(
		b.RCC,
		b.GPIOA, b.GPIOB, b.GPIOC, b.GPIOD, b.GPIOE, b.GPIOF, b.GPIOG,
		b.FMC, b.SDRAM, b.LTDC, b.SPI5, b.I2C1,
		hw.NewRAM("PWR", board.PWRBase, 0x400),
		hw.NewRAM("FLASH", board.FlashBase, 0x400),
	)
	return b
}

// dev carries the identity shared by every modeled device.
type dev struct {
	name string
	base hw.Addr
	size uint32
}

// Name implements hw.Device.
func (d dev) Name() string { return d.name }

// Base implements hw.Device.
func (d dev) Base() hw.Addr { return d.base }

// Size implements hw.Device.
func (d dev) Size() uint32 { return d.size }
