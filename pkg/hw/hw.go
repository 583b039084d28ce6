// Package hw models memory-mapped peripheral access.
package hw

// Peripheral registers are never touched through raw pointers: every
// access is an explicit Read32/Write32 call on a Bus. A call performs
// exactly one access to the given address at the point it is written.
// Nothing in this package caches, merges, elides or reorders accesses,
// even when the value read is not used. Peripherals with internal
// state machines observe every access, and observe them in program
// order. The control loop owns the bus on a single goroutine, so no
// locking is layered on top.

import (
	"errors"
	"fmt"
)

// Addr is a 32-bit address in the peripheral and memory map.
type Addr uint32

// Bus performs 32-bit accesses on the memory map. Implementations
// must treat every call as an observable side effect.
type Bus interface {
	Read32(Addr) uint32
	Write32(Addr, uint32)
}

// Mode is the access mode of a register.
type Mode int

// Access modes
const (
	RW Mode = iota
	RO
	WO
)

func (m Mode) String() string {
	switch m {
	case RO:
		return "ro"
	case WO:
		return "wo"
	}
	return "rw"
}

// Reg describes a 32-bit hardware register.
type Reg struct {
	Name   string
	Addr   Addr
	Access Mode
}

// Read performs one read access. Reading a write-only register is a
// bus fault.
func (r Reg) Read(b Bus) uint32 {
	if r.Access == WO {
		panic(fmt.Sprintf("read of write-only register %s @%08x", r.Name, uint32(r.Addr)))
	}
	return b.Read32(r.Addr)
}

// Write performs one write access. Writing a read-only register is a
// bus fault.
func (r Reg) Write(b Bus, val uint32) {
	if r.Access == RO {
		panic(fmt.Sprintf("write of read-only register %s @%08x", r.Name, uint32(r.Addr)))
	}
	b.Write32(r.Addr, val)
}

// SetBits reads the register, sets mask bits and writes it back.
// Two accesses, both observable.
func (r Reg) SetBits(b Bus, mask uint32) {
	r.Write(b, r.Read(b)|mask)
}

// ClrBits reads the register, clears mask bits and writes it back.
func (r Reg) ClrBits(b Bus, mask uint32) {
	r.Write(b, r.Read(b)&^mask)
}

// ErrNotReady indicates a peripheral flag did not reach the expected
// state within the bounded wait.
var ErrNotReady = errors.New("not ready")

// InitError reports a peripheral that failed to reach ready state
// within its bring-up sequence. Initialization failures are fatal:
// there is no safe partial-hardware state to continue from.
type InitError struct {
	Periph string
	Stage  string
	Err    error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %s: %v", e.Periph, e.Stage, e.Err)
}
