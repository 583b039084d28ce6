package display

import (
	"time"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// DefaultSpins bounds each serial link flag wait, in status reads.
const DefaultSpins = 100000

// Panel drives the ILI9341 command interface over SPI5, chip select
// on PC2 and data/command on PD13. The pixel path does not go through
// here, the panel scans RGB lines fed by the display controller; the
// serial link only carries configuration commands.
type Panel struct {
	Bus   hw.Bus
	Spins int
}

// NewPanel creates the panel link driver.
func NewPanel(b hw.Bus) *Panel {
	return &Panel{Bus: b, Spins: DefaultSpins}
}

type panelCmd struct {
	code   byte
	data   []byte
	settle time.Duration
}

// initCmds wakes the panel for RGB scan-out: power and VCOM levels,
// BGR pixel order, RGB interface mode, gamma tables, then sleep-out
// with its settle and display-on. The panel rejects commands while
// waking, so the sleep-out settle is part of the sequence.
var initCmds = []panelCmd{
	{code: 0xc0, data: []byte{0x10}},
	{code: 0xc1, data: []byte{0x10}},
	{code: 0xc5, data: []byte{0x45, 0x15}},
	{code: 0xc7, data: []byte{0x90}},
	{code: 0x36, data: []byte{0x08}},
	{code: 0xb0, data: []byte{0xc0}},
	{code: 0xf6, data: []byte{0x01, 0x00, 0x06}},
	{code: 0x26, data: []byte{0x01}},
	{code: 0xe0, data: []byte{
		0x0f, 0x29, 0x24, 0x0c, 0x0e, 0x09, 0x4e, 0x78,
		0x3c, 0x09, 0x13, 0x05, 0x17, 0x11, 0x00,
	}},
	{code: 0xe1, data: []byte{
		0x00, 0x16, 0x1b, 0x04, 0x11, 0x07, 0x31, 0x33,
		0x42, 0x05, 0x0c, 0x0a, 0x28, 0x2f, 0x0f,
	}},
	{code: 0x11, settle: 5 * time.Millisecond},
	{code: 0x29},
}

// Init enables the serial link and walks the wake sequence. sleep
// serves the settles; nil uses time.Sleep.
func (p *Panel) Init(sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	// select and data/command lines idle high before the shifter
	// comes up
	board.GPIOC.High(p.Bus, board.PanelCSPin)
	board.GPIOD.High(p.Bus, board.PanelDCPin)
	board.SPI5.CR1.Write(p.Bus, board.SPIMSTR|board.SPIBRDiv4|board.SPISSM|board.SPISSI)
	board.SPI5.CR1.SetBits(p.Bus, board.SPISPE)

	for _, c := range initCmds {
		if err := p.Cmd(c.code, c.data...); err != nil {
			return err
		}
		if c.settle > 0 {
			sleep(c.settle)
		}
	}
	return nil
}

// Cmd sends one command and its parameter bytes. The select line is
// released even when the transfer fails midway.
func (p *Panel) Cmd(code byte, data ...byte) error {
	board.GPIOC.Low(p.Bus, board.PanelCSPin)
	board.GPIOD.Low(p.Bus, board.PanelDCPin)
	err := p.send(code)
	if err == nil {
		board.GPIOD.High(p.Bus, board.PanelDCPin)
		for _, b := range data {
			if err = p.send(b); err != nil {
				break
			}
		}
	}
	board.GPIOC.High(p.Bus, board.PanelCSPin)
	return err
}

// send shifts one byte out and drains the shifted-in byte.
func (p *Panel) send(b byte) error {
	if err := hw.WaitSet(p.Bus, board.SPI5.SR, board.SPITXE, p.Spins); err != nil {
		return &hw.InitError{Periph: "panel", Stage: "txe", Err: err}
	}
	board.SPI5.DR.Write(p.Bus, uint32(b))
	if err := hw.WaitClear(p.Bus, board.SPI5.SR, board.SPIBSY, p.Spins); err != nil {
		return &hw.InitError{Periph: "panel", Stage: "busy", Err: err}
	}
	board.SPI5.DR.Read(p.Bus)
	return nil
}
