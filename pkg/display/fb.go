package display

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// Format is a framebuffer pixel format.
type Format int

// Pixel formats
const (
	RGB565 Format = iota
	ARGB8888
)

// BPP returns bytes per pixel.
func (f Format) BPP() int {
	if f == ARGB8888 {
		return 4
	}
	return 2
}

// FrameBuffer describes one scan-out surface in external RAM. The
// display driver creates the descriptors; everything else draws
// through them. All drawing goes over the bus as explicit word
// accesses, a 16-bit pixel is a read-modify-write of its word.
type FrameBuffer struct {
	Bus    hw.Bus
	Base   hw.Addr
	Width  int
	Height int
	Format Format
}

// Size returns the buffer size in bytes.
func (f *FrameBuffer) Size() int {
	return f.Width * f.Height * f.Format.BPP()
}

// SetPixel writes one pixel. Out-of-bounds coordinates are dropped.
func (f *FrameBuffer) SetPixel(x, y int, c uint32) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	if f.Format == ARGB8888 {
		f.Bus.Write32(f.Base+hw.Addr((y*f.Width+x)*4), c)
		return
	}
	addr := f.Base + hw.Addr((y*f.Width+x)*2)
	word := addr &^ 3
	v := f.Bus.Read32(word)
	if addr&2 != 0 {
		v = v&0xffff | c<<16
	} else {
		v = v&^0xffff | c&0xffff
	}
	f.Bus.Write32(word, v)
}

// Pixel reads one pixel back. Out-of-bounds coordinates read zero.
func (f *FrameBuffer) Pixel(x, y int) uint32 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	if f.Format == ARGB8888 {
		return f.Bus.Read32(f.Base + hw.Addr((y*f.Width+x)*4))
	}
	addr := f.Base + hw.Addr((y*f.Width+x)*2)
	v := f.Bus.Read32(addr &^ 3)
	if addr&2 != 0 {
		return v >> 16
	}
	return v & 0xffff
}

// Fill floods the whole buffer with one color.
func (f *FrameBuffer) Fill(c uint32) {
	word := c
	if f.Format == RGB565 {
		word = c&0xffff | c<<16
	}
	end := f.Base + hw.Addr(f.Size())
	for a := f.Base; a < end; a += 4 {
		f.Bus.Write32(a, word)
	}
}

// FillRect floods a rectangle with one color. The rectangle is
// clipped to the buffer.
func (f *FrameBuffer) FillRect(x, y, w, h int, c uint32) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			f.SetPixel(i, j, c)
		}
	}
}
