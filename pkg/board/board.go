// Package board supports the STM32F429 Discovery fitted with an
// ILI9341 panel and an MPU6050 motion sensor on I2C1. It holds the
// board's memory map, register layouts and the bring-up sequences
// that are specific to this wiring. The display and sensor drivers
// live in pkg/display and pkg/sensor; pkg/sim provides a modeled
// counterpart of this board for bench runs.
package board

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
)

// Peripheral base addresses.
const (
	I2C1Base  hw.Addr = 0x40005400
	PWRBase   hw.Addr = 0x40007000
	SPI5Base  hw.Addr = 0x40015000
	LTDCBase  hw.Addr = 0x40016800
	GPIOABase hw.Addr = 0x40020000
	GPIOBBase hw.Addr = 0x40020400
	GPIOCBase hw.Addr = 0x40020800
	GPIODBase hw.Addr = 0x40020c00
	GPIOEBase hw.Addr = 0x40021000
	GPIOFBase hw.Addr = 0x40021400
	GPIOGBase hw.Addr = 0x40021800
	RCCBase   hw.Addr = 0x40023800
	FlashBase hw.Addr = 0x40023c00
	FMCBase   hw.Addr = 0xa0000000
	SDRAMBase hw.Addr = 0xd0000000
)

// SDRAMSize is the external SDRAM bank size in bytes.
const SDRAMSize = 8 << 20

// Panel geometry and framebuffer placement. Layer 1 carries the
// full-screen scene in RGB565, layer 2 a small ARGB8888 sprite whose
// window the display controller moves over the scene.
const (
	LCDWidth  = 240
	LCDHeight = 320

	Layer1BPP  = 2
	Layer1Size = LCDWidth * LCDHeight * Layer1BPP

	Layer2Side = 64
	Layer2BPP  = 4
	Layer2Size = Layer2Side * Layer2Side * Layer2BPP

	Layer1Base = SDRAMBase
	Layer2Base = Layer1Base + Layer1Size
)

// Sync and porch timings for the panel's RGB interface.
const (
	HSync = 10
	HBP   = 20
	HFP   = 10
	VSync = 2
	VBP   = 2
	VFP   = 4
)

// APB1Clock is the APB1 bus clock in MHz once the 168MHz tree is up.
// I2C1 timing derives from it.
const APB1Clock = 42

// Register block singletons, laid out at the addresses above.
var (
	RCC   = RCCAt(RCCBase)
	GPIOA = GPIOAt("GPIOA", GPIOABase)
	GPIOB = GPIOAt("GPIOB", GPIOBBase)
	GPIOC = GPIOAt("GPIOC", GPIOCBase)
	GPIOD = GPIOAt("GPIOD", GPIODBase)
	GPIOE = GPIOAt("GPIOE", GPIOEBase)
	GPIOF = GPIOAt("GPIOF", GPIOFBase)
	GPIOG = GPIOAt("GPIOG", GPIOGBase)
	FMC   = FMCAt(FMCBase)
	LTDC  = LTDCAt(LTDCBase)
	SPI5  = SPIAt("SPI5", SPI5Base)
	I2C1  = i2c.RegsAt(I2C1Base)
)
