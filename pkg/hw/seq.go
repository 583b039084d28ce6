package hw

import "time"

// Step is one write of an initialization sequence. Settle is the
// minimum elapsed time after the write before the next access may
// touch the peripheral.
type Step struct {
	Reg    Reg
	Value  uint32
	Settle time.Duration
}

// Seq is an ordered peripheral initialization sequence. Order is part
// of correctness: peripherals with internal state machines require
// specific inter-write ordering.
type Seq []Step

// Run issues every write in declared order, pausing Settle after the
// steps that require it. sleep provides the delay implementation; nil
// uses time.Sleep.
func (s Seq) Run(b Bus, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	for _, step := range s {
		step.Reg.Write(b, step.Value)
		if step.Settle > 0 {
			sleep(step.Settle)
		}
	}
}

// Writes returns the access list Run produces, for comparison against
// a recorded trace.
func (s Seq) Writes() []Access {
	writes := make([]Access, len(s))
	for i, step := range s {
		writes[i] = Access{Op: OpWrite, Addr: step.Reg.Addr, Value: step.Value}
	}
	return writes
}

// WaitSet polls reg until all mask bits are set, at most spins reads.
// Every poll is a real, observable access. Returns ErrNotReady when
// the bound is exhausted, so a wedged peripheral cannot hang the
// control loop.
func WaitSet(b Bus, reg Reg, mask uint32, spins int) error {
	for i := 0; i < spins; i++ {
		if reg.Read(b)&mask == mask {
			return nil
		}
	}
	return ErrNotReady
}

// WaitClear polls reg until all mask bits are clear, at most spins
// reads.
func WaitClear(b Bus, reg Reg, mask uint32, spins int) error {
	for i := 0; i < spins; i++ {
		if reg.Read(b)&mask == 0 {
			return nil
		}
	}
	return ErrNotReady
}
