// Package display drives the LTDC display controller and the ILI9341
// panel behind it: a full-screen RGB565 scene layer, a small ARGB8888
// sprite layer the controller moves over the scene, and the serial
// command link that wakes the panel.
package display

import (
	"errors"
	"time"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// ErrNotInitialized is returned by scan-out operations before Init
// has run the controller bring-up.
var ErrNotInitialized = errors.New("display not initialized")

// Active area offsets: where the first visible column and line sit
// behind sync and porch.
const (
	hStart = board.HSync + board.HBP
	vStart = board.VSync + board.VBP
)

// Driver owns the display controller and its two framebuffers.
type Driver struct {
	Bus hw.Bus

	// Seq is the controller bring-up sequence Init runs. It is the
	// declared access order; Init performs exactly these writes.
	Seq hw.Seq

	ready  bool
	scene  *FrameBuffer
	sprite *FrameBuffer
}

// New creates the driver with the board's layer layout.
func New(b hw.Bus) *Driver {
	return &Driver{
		Bus: b,
		Seq: InitSeq(),
		scene: &FrameBuffer{
			Bus: b, Base: board.Layer1Base,
			Width: board.LCDWidth, Height: board.LCDHeight, Format: RGB565,
		},
		sprite: &FrameBuffer{
			Bus: b, Base: board.Layer2Base,
			Width: board.Layer2Side, Height: board.Layer2Side, Format: ARGB8888,
		},
	}
}

// Scene returns the full-screen layer's framebuffer. The descriptor
// stays owned by the driver; callers draw through it.
func (d *Driver) Scene() *FrameBuffer { return d.scene }

// Sprite returns the sprite layer's framebuffer.
func (d *Driver) Sprite() *FrameBuffer { return d.sprite }

// Ready reports whether the controller bring-up has run.
func (d *Driver) Ready() bool { return d.ready }

// Init runs the bring-up sequence. sleep serves the settle steps; nil
// uses time.Sleep.
func (d *Driver) Init(sleep func(time.Duration)) error {
	d.Seq.Run(d.Bus, sleep)
	d.ready = true
	return nil
}

// window packs a layer window register: first visible position lo,
// last visible position hi.
func window(start, pos, size uint32) uint32 {
	lo := start + pos
	return lo | (lo+size-1)<<16
}

// InitSeq builds the controller bring-up: panel timings, the scene
// layer over the whole active area, the sprite layer parked at the
// origin, one immediate reload, then scan-out enable. Order matters,
// the controller latches timing before layers and layers before the
// reload.
func InitSeq() hw.Seq {
	r := board.LTDC
	l1, l2 := r.Layer[0], r.Layer[1]
	const (
		scenePitch  = board.LCDWidth * board.Layer1BPP
		spritePitch = board.Layer2Side * board.Layer2BPP
	)
	return hw.Seq{
		{Reg: r.SSCR, Value: (board.HSync-1)<<16 | (board.VSync - 1)},
		{Reg: r.BPCR, Value: (hStart-1)<<16 | (vStart - 1)},
		{Reg: r.AWCR, Value: (hStart+board.LCDWidth-1)<<16 | (vStart + board.LCDHeight - 1)},
		{Reg: r.TWCR, Value: (hStart+board.LCDWidth+board.HFP-1)<<16 | (vStart + board.LCDHeight + board.VFP - 1)},
		{Reg: r.BCCR, Value: 0},

		{Reg: l1.WHPCR, Value: window(hStart, 0, board.LCDWidth)},
		{Reg: l1.WVPCR, Value: window(vStart, 0, board.LCDHeight)},
		{Reg: l1.PFCR, Value: board.PFRGB565},
		{Reg: l1.CACR, Value: 0xff},
		{Reg: l1.BFCR, Value: 4<<8 | 5}, // constant alpha
		{Reg: l1.CFBAR, Value: uint32(board.Layer1Base)},
		{Reg: l1.CFBLR, Value: scenePitch<<16 | (scenePitch + 3)},
		{Reg: l1.CFBLNR, Value: board.LCDHeight},
		{Reg: l1.CR, Value: board.LCREN},

		{Reg: l2.WHPCR, Value: window(hStart, 0, board.Layer2Side)},
		{Reg: l2.WVPCR, Value: window(vStart, 0, board.Layer2Side)},
		{Reg: l2.PFCR, Value: board.PFARGB8888},
		{Reg: l2.CACR, Value: 0xff},
		{Reg: l2.BFCR, Value: 6<<8 | 7}, // pixel alpha times constant alpha
		{Reg: l2.CFBAR, Value: uint32(board.Layer2Base)},
		{Reg: l2.CFBLR, Value: spritePitch<<16 | (spritePitch + 3)},
		{Reg: l2.CFBLNR, Value: board.Layer2Side},
		{Reg: l2.CR, Value: board.LCREN},

		{Reg: r.SRCR, Value: board.SRCRIMR},
		{Reg: r.GCR, Value: board.GCREN | board.GCRPCPol},
	}
}

// SetSpritePos moves the sprite layer window to panel coordinates
// (x, y), clamped to keep the window on screen. The move latches at
// the next vertical blank so a frame never scans out a half-moved
// window.
func (d *Driver) SetSpritePos(x, y int) error {
	if !d.ready {
		return ErrNotInitialized
	}
	x = clamp(x, board.LCDWidth-board.Layer2Side)
	y = clamp(y, board.LCDHeight-board.Layer2Side)

	l := board.LTDC.Layer[1]
	l.WHPCR.Write(d.Bus, window(hStart, uint32(x), board.Layer2Side))
	l.WVPCR.Write(d.Bus, window(vStart, uint32(y), board.Layer2Side))
	board.LTDC.SRCR.Write(d.Bus, board.SRCRVBR)
	return nil
}

// SetSpriteAlpha sets the sprite layer's constant alpha, latched at
// the next vertical blank.
func (d *Driver) SetSpriteAlpha(a byte) error {
	if !d.ready {
		return ErrNotInitialized
	}
	board.LTDC.Layer[1].CACR.Write(d.Bus, uint32(a))
	board.LTDC.SRCR.Write(d.Bus, board.SRCRVBR)
	return nil
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
