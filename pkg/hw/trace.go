package hw

import "fmt"

// Op is the kind of a bus access.
type Op int

// Ops
const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "wr"
	}
	return "rd"
}

// Access is one recorded bus access.
type Access struct {
	Op    Op
	Addr  Addr
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s @%08x = %08x", a.Op, uint32(a.Addr), a.Value)
}

// Trace wraps a Bus and records every access in the order performed,
// one entry per call. It is how ordering and no-elision are verified:
// the log of a code path must match its declared access sequence
// exactly.
type Trace struct {
	Bus Bus

	accesses []Access
}

// NewTrace wraps a bus.
func NewTrace(b Bus) *Trace {
	return &Trace{Bus: b}
}

// Read32 implements Bus.
func (t *Trace) Read32(addr Addr) uint32 {
	val := t.Bus.Read32(addr)
	t.accesses = append(t.accesses, Access{Op: OpRead, Addr: addr, Value: val})
	return val
}

// Write32 implements Bus.
func (t *Trace) Write32(addr Addr, val uint32) {
	t.accesses = append(t.accesses, Access{Op: OpWrite, Addr: addr, Value: val})
	t.Bus.Write32(addr, val)
}

// Accesses returns all recorded accesses in order.
func (t *Trace) Accesses() []Access {
	return t.accesses
}

// Writes returns recorded write accesses in order.
func (t *Trace) Writes() []Access {
	var writes []Access
	for _, a := range t.accesses {
		if a.Op == OpWrite {
			writes = append(writes, a)
		}
	}
	return writes
}

// Reset discards recorded accesses.
func (t *Trace) Reset() {
	t.accesses = nil
}
