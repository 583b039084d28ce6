package framework

import (
	"context"
	"time"
)

// Runnable is a long running task driven by a context.
type Runnable interface {
	Run(context.Context) error
}

// Named optionally gives a Runnable a name for logs.
type Named interface {
	Name() string
}

// Controller is one unit of work invoked on every loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is handed to every controller during an iteration.
type ControlContext interface {
	// Context returns the context of the running loop.
	Context() context.Context
	// Time is the timestamp taken when the iteration started.
	Time() time.Time
	// Cycle counts iterations starting from 1. Controllers use it
	// to schedule work at a cadence coarser than the loop period.
	Cycle() uint64
	// PriorityLevel is the level currently being run.
	PriorityLevel() int
	// Messages exposes the messages collected before this
	// iteration started.
	Messages() MessageStore
	// PostRun installs one-shot hooks behind the regular
	// controllers of the current priority level. Hooks installed
	// while hooks run go to the next iteration.
	PostRun(hooks ...Controller)

	LoopControl
}

// LoopControl mutates a running loop. It may be used from goroutines
// other than the loop's own.
type LoopControl interface {
	// PreRunAt installs one-shot hooks run before the regular
	// controllers of the given priority level.
	PreRunAt(priorityLevel int, controllers ...Controller)
	// PostRunAt installs one-shot hooks run after the regular
	// controllers of the given priority level.
	PostRunAt(priorityLevel int, controllers ...Controller)
	// PostMessage queues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext requests an immediate iteration without waiting
	// for the period timer.
	TriggerNext()
}

// PriorityLevels is the number of distinct priority levels.
const PriorityLevels int = 16

// Priority levels, lower runs earlier.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is where samplers run.
	PrLvSense = PrLvHigh
	// PrLvControl is where control logic runs.
	PrLvControl = PrLvNormal
	// PrLvRender is where output stages run.
	PrLvRender = PrLvLow
	// PrLvPostProc runs after rendering, before idle work.
	PrLvPostProc = PrLvIdle - 1
)
