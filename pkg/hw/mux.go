package hw

import "fmt"

// Device is a peripheral or memory region mapped at a base address.
// Read32/Write32 receive the offset from the device base.
type Device interface {
	Name() string
	Base() Addr
	Size() uint32
	Read32(off Addr) uint32
	Write32(off Addr, val uint32)
}

// Mux dispatches bus accesses to mapped devices by address range.
// An access outside every mapped range is a bus fault.
type Mux struct {
	devs []Device
}

// NewMux creates a Mux with devices mapped.
func NewMux(devs ...Device) *Mux {
	return (&Mux{}).Map(devs...)
}

// Map maps more devices.
func (m *Mux) Map(devs ...Device) *Mux {
	m.devs = append(m.devs, devs...)
	return m
}

// At locates the device covering addr.
func (m *Mux) At(addr Addr) Device {
	for _, d := range m.devs {
		if base := d.Base(); addr >= base && uint32(addr-base) < d.Size() {
			return d
		}
	}
	return nil
}

// Read32 implements Bus.
func (m *Mux) Read32(addr Addr) uint32 {
	d := m.At(addr)
	if d == nil {
		panic(fmt.Sprintf("bus fault: read @%08x", uint32(addr)))
	}
	return d.Read32(addr - d.Base())
}

// Write32 implements Bus.
func (m *Mux) Write32(addr Addr, val uint32) {
	d := m.At(addr)
	if d == nil {
		panic(fmt.Sprintf("bus fault: write @%08x", uint32(addr)))
	}
	d.Write32(addr-d.Base(), val)
}

// RAM is a plain memory region.
type RAM struct {
	name  string
	base  Addr
	words []uint32
}

// NewRAM creates a RAM region of size bytes.
func NewRAM(name string, base Addr, size uint32) *RAM {
	return &RAM{name: name, base: base, words: make([]uint32, size/4)}
}

// Name implements Device.
func (r *RAM) Name() string { return r.name }

// Base implements Device.
func (r *RAM) Base() Addr { return r.base }

// Size implements Device.
func (r *RAM) Size() uint32 { return uint32(len(r.words)) * 4 }

// Read32 implements Device.
func (r *RAM) Read32(off Addr) uint32 { return r.words[off/4] }

// Write32 implements Device.
func (r *RAM) Write32(off Addr, val uint32) { r.words[off/4] = val }
