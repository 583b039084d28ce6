package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type note struct {
	tag string
}

func (n *note) NewMessage() Message { return &note{} }

func TestPriorityOrder(t *testing.T) {
	loop := NewLoop()
	var order []int
	for _, lv := range []int{PrLvIdle, PrLvNormal, PrLvTop, PrLvSense} {
		lv := lv
		loop.AddController(lv, ControlFunc(func(cc ControlContext) error {
			order = append(order, lv)
			require.Equal(t, lv, cc.PriorityLevel())
			return nil
		}))
	}
	loop.step(context.Background())
	require.Equal(t, []int{PrLvTop, PrLvSense, PrLvNormal, PrLvIdle}, order)
}

func TestCycleCounts(t *testing.T) {
	loop := NewLoop()
	var cycles []uint64
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		cycles = append(cycles, cc.Cycle())
		return nil
	}))
	loop.step(context.Background())
	loop.step(context.Background())
	loop.step(context.Background())
	require.Equal(t, []uint64{1, 2, 3}, cycles)
}

func TestMessageTakenMasksLaterLevels(t *testing.T) {
	loop := NewLoop()
	counts := make(map[int]int)
	procAt := func(lv int, take bool) {
		loop.AddController(lv, ControlFunc(func(cc ControlContext) error {
			cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
				counts[lv]++
				if take {
					mc.MessageTaken()
				}
			}))
			return nil
		}))
	}
	procAt(PrLvHigh, true)
	procAt(PrLvLow, false)
	loop.PostMessage(&note{})
	loop.step(context.Background())
	require.Equal(t, 1, counts[PrLvHigh])
	require.Equal(t, 0, counts[PrLvLow])
}

func TestUntakenMessagesDropWithIteration(t *testing.T) {
	loop := NewLoop()
	seen := 0
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen++
		}))
		return nil
	}))
	loop.PostMessage(&note{})
	loop.step(context.Background())
	require.Equal(t, 1, seen)
	loop.step(context.Background())
	require.Equal(t, 1, seen)
}

func TestStopProcessingLeavesRestForLaterLevels(t *testing.T) {
	loop := NewLoop()
	var highTags, lowTags []string
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			highTags = append(highTags, mc.CurrentMessage().(*note).tag)
			mc.MessageTaken()
			mc.StopProcessing()
		}))
		return nil
	}))
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			lowTags = append(lowTags, mc.CurrentMessage().(*note).tag)
		}))
		return nil
	}))
	loop.PostMessage(&note{tag: "a"})
	loop.PostMessage(&note{tag: "b"})
	loop.PostMessage(&note{tag: "c"})
	loop.step(context.Background())
	require.Equal(t, []string{"a"}, highTags)
	require.Equal(t, []string{"b", "c"}, lowTags)
}

func TestAddMessagesVisibleToLaterLevelsOnly(t *testing.T) {
	loop := NewLoop()
	var high, low []string
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			tag := mc.CurrentMessage().(*note).tag
			high = append(high, tag)
			if tag == "raw" {
				mc.MessageTaken()
				mc.AddMessages(&note{tag: "derived"})
			}
		}))
		return nil
	}))
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			low = append(low, mc.CurrentMessage().(*note).tag)
		}))
		return nil
	}))
	loop.PostMessage(&note{tag: "raw"})
	loop.step(context.Background())
	require.Equal(t, []string{"raw"}, high)
	require.Equal(t, []string{"derived"}, low)
}

func TestPreAndPostHooksRunOnce(t *testing.T) {
	loop := NewLoop()
	var events []string
	first := true
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		events = append(events, "main")
		if first {
			first = false
			cc.PostRun(ControlFunc(func(ControlContext) error {
				events = append(events, "post")
				return nil
			}))
		}
		return nil
	}))
	loop.PreRunAt(PrLvNormal, ControlFunc(func(ControlContext) error {
		events = append(events, "pre")
		return nil
	}))
	loop.step(context.Background())
	loop.step(context.Background())
	require.Equal(t, []string{"pre", "main", "post", "main"}, events)
}

func TestControllerErrorDoesNotStopOthers(t *testing.T) {
	loop := NewLoop()
	ran := false
	loop.AddController(PrLvHigh, ControlFunc(func(ControlContext) error {
		return errors.New("sensor stuck")
	}))
	loop.AddController(PrLvLow, ControlFunc(func(ControlContext) error {
		ran = true
		return nil
	}))
	loop.step(context.Background())
	require.True(t, ran)
}

// Posting through the loop control reaches the next iteration, not
// the current one.
func TestLoopCtlPostsToNextIteration(t *testing.T) {
	loop := NewLoop()
	posted := false
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		if !posted {
			posted = true
			LoopCtlFrom(cc.Context()).PostMessage(&note{tag: "fromctx"})
		}
		return nil
	}))
	var tags []string
	loop.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			tags = append(tags, mc.CurrentMessage().(*note).tag)
		}))
		return nil
	}))
	loop.step(context.Background())
	require.Empty(t, tags)
	loop.step(context.Background())
	require.Equal(t, []string{"fromctx"}, tags)
}

type runnableCtl struct {
	started chan struct{}
}

func (r *runnableCtl) Control(ControlContext) error { return nil }

func (r *runnableCtl) Run(ctx context.Context) error {
	close(r.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnableControllerStartsWithLoop(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	ctl := &runnableCtl{started: make(chan struct{})}
	loop.AddController(PrLvControl, ctl)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	select {
	case <-ctl.started:
	case <-time.After(5 * time.Second):
		t.Fatal("runnable controller not started")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestPostAndTriggerDelivers(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	tags := make(chan string, 1)
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			tags <- mc.CurrentMessage().(*note).tag
		}))
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	loop.PostMessage(&note{tag: "wake"})
	deadline := time.After(5 * time.Second)
	for {
		loop.TriggerNext()
		select {
		case tag := <-tags:
			require.Equal(t, "wake", tag)
			cancel()
			require.Equal(t, context.Canceled, <-errCh)
			return
		case <-deadline:
			t.Fatal("message not delivered")
		case <-time.After(time.Millisecond):
		}
	}
}
