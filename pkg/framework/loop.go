package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the period of the control cycle.
const DefaultInterval = time.Millisecond

// Loop drives samplers, controllers and output stages once per
// fixed-period iteration, walking the priority levels in order.
// Controllers all run on the loop goroutine, so the state they share
// needs no locking.
type Loop struct {
	Interval time.Duration

	stages  [PriorityLevels]stage
	runners []Runnable

	lock  sync.Mutex
	inbox []Message

	cycle uint64
	kick  chan struct{}
}

// LoopAdder wires a component into a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// stage holds the controllers of one priority level. Hooks are
// one-shot and may be installed from other goroutines.
type stage struct {
	lock sync.Mutex
	pre  []Controller
	main []Controller
	post []Controller
}

func (s *stage) takePre() (hooks []Controller) {
	s.lock.Lock()
	hooks, s.pre = s.pre, nil
	s.lock.Unlock()
	return
}

func (s *stage) takePost() (hooks []Controller) {
	s.lock.Lock()
	hooks, s.post = s.post, nil
	s.lock.Unlock()
	return
}

func (s *stage) run(it *iteration) {
	runControllers(it, s.takePre())
	runControllers(it, s.main)
	runControllers(it, s.takePost())
}

func runControllers(it *iteration, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(it); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}

var loopCtxKey = &Loop{}

// LoopCtlFrom extracts the LoopControl a running loop stores in its
// context. It panics when ctx does not come from a loop.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// NewLoop creates a Loop running at DefaultInterval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// Add wires LoopAdders into the loop.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level. A
// controller that is also Runnable starts with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	s := &l.stages[priorityLevel]
	s.main = append(s.main, ctls...)
	for _, ctl := range ctls {
		if r, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, r)
		}
	}
	return l
}

// AddRunnable registers background tasks started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. It starts the registered runners and
// iterates until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	kick := l.kickCh()

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, l))
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tick := time.Tick(interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			l.step(ctx)
		case <-kick:
			l.step(ctx)
		}
	}
}

func (l *Loop) kickCh() chan struct{} {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.kick == nil {
		l.kick = make(chan struct{}, 1)
	}
	return l.kick
}

// RunOrFail runs the loop and exits the process on error.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.TODO()); err != nil {
		log.Fatalln(err)
	}
}

// PreRunAt implements LoopControl.
func (l *Loop) PreRunAt(priorityLevel int, hooks ...Controller) {
	s := &l.stages[priorityLevel]
	s.lock.Lock()
	s.pre = append(s.pre, hooks...)
	s.lock.Unlock()
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	s := &l.stages[priorityLevel]
	s.lock.Lock()
	s.post = append(s.post, hooks...)
	s.lock.Unlock()
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.inbox = append(l.inbox, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.kickCh() <- struct{}{}:
	default:
	}
}

func (l *Loop) step(ctx context.Context) {
	l.cycle++
	it := &iteration{Loop: l, start: time.Now(), count: l.cycle}
	l.lock.Lock()
	it.pending, l.inbox = l.inbox, nil
	l.lock.Unlock()
	it.ctx = context.WithValue(ctx, loopCtxKey, it)
	for lv := 0; lv < PriorityLevels; lv++ {
		it.level = lv
		l.stages[lv].run(it)
	}
}

// iteration implements ControlContext for one pass over the priority
// levels. LoopControl comes promoted from the embedded Loop.
type iteration struct {
	*Loop
	ctx     context.Context
	start   time.Time
	count   uint64
	level   int
	pending []Message
}

func (it *iteration) Context() context.Context { return it.ctx }
func (it *iteration) Time() time.Time          { return it.start }
func (it *iteration) Cycle() uint64            { return it.count }
func (it *iteration) PriorityLevel() int       { return it.level }
func (it *iteration) Messages() MessageStore   { return it }

func (it *iteration) PostRun(hooks ...Controller) {
	it.PostRunAt(it.level, hooks...)
}

// AddMessages implements MessageAppender. Messages land behind the
// current pass, a processor never visits what it appended.
func (it *iteration) AddMessages(msgs ...Message) {
	it.pending = append(it.pending, msgs...)
}

// ProcessMessages implements MessageStore. Untaken messages keep
// their order and stay for the next pass within this iteration.
func (it *iteration) ProcessMessages(proc MessageProcessor) {
	walk := it.pending
	it.pending = nil
	var kept []Message
	for i, msg := range walk {
		view := &msgView{it: it, msg: msg}
		proc.ProcessMessage(view)
		if !view.taken {
			kept = append(kept, msg)
		}
		if view.stop {
			kept = append(kept, walk[i+1:]...)
			break
		}
	}
	it.pending = append(kept, it.pending...)
}

type msgView struct {
	it    *iteration
	msg   Message
	taken bool
	stop  bool
}

func (v *msgView) CurrentMessage() Message { return v.msg }
func (v *msgView) MessageTaken()           { v.taken = true }
func (v *msgView) StopProcessing()         { v.stop = true }

func (v *msgView) AddMessages(msgs ...Message) {
	v.it.AddMessages(msgs...)
}
