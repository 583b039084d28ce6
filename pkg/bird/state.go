package bird

import "fmt"

// State is the lifecycle phase of the firmware.
type State int

// Lifecycle phases. A healthy cycle walks Ready, Sampling, Rendering
// and back to Ready. Faulted is terminal.
const (
	Uninitialized State = iota
	Initializing
	Ready
	Sampling
	Rendering
	Faulted
)

var stateNames = [...]string{
	"uninitialized",
	"initializing",
	"ready",
	"sampling",
	"rendering",
	"faulted",
}

// String implements Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// TransitionError reports a lifecycle move that is not allowed.
type TransitionError struct {
	From State
	To   State
}

// Error implements error.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s to %s", e.From, e.To)
}

var transitions = map[State][]State{
	Uninitialized: {Initializing},
	Initializing:  {Ready, Faulted},
	Ready:         {Sampling, Faulted},
	Sampling:      {Rendering, Ready, Faulted},
	Rendering:     {Ready, Sampling, Faulted},
	Faulted:       {},
}

// Machine tracks the lifecycle phase and rejects illegal moves.
type Machine struct {
	state State
}

// State gets the current phase.
func (m *Machine) State() State { return m.state }

// To moves to phase s, or fails leaving the phase unchanged.
func (m *Machine) To(s State) error {
	for _, next := range transitions[m.state] {
		if next == s {
			m.state = s
			return nil
		}
	}
	return &TransitionError{From: m.state, To: s}
}
