package comm

import (
	"context"
	"sync"
	"time"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

// DefaultCommandExpiration bounds how long a command waits for its result.
const DefaultCommandExpiration = time.Second

// RigConn is the base implementation of rig.Conn on top of a Pipe.
// Replies are matched to commands by sequence number, events are
// posted to the local loop.
type RigConn struct {
	Expiration time.Duration

	pipe    Pipe
	lastSeq uint32
	pending map[uint32]*commandFuture
	fifo    []*commandFuture
	lock    sync.Mutex
}

// Init wires in the transport and resets the connection state.
func (c *RigConn) Init(rw PacketReadWriter) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.receive)
	c.pending = make(map[uint32]*commandFuture)
}

// DoCommand implements rig.Conn.
func (c *RigConn) DoCommand(msg fx.Message) rig.CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.lastSeq++; c.lastSeq == 0 {
		c.lastSeq++
	}
	f := &commandFuture{
		seq:      c.lastSeq,
		deadline: time.Now().Add(c.Expiration),
		result:   make(chan rig.Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.result <- rig.Result{Err: err}
		return f
	}
	c.pending[f.seq] = f
	c.fifo = append(c.fifo, f)
	return f
}

// AddToLoop implements LoopAdder.
func (c *RigConn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.purgeExpired))
}

func (c *RigConn) receive(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		loopCtl := fx.LoopCtlFrom(ctx)
		loopCtl.PostMessage(msg)
		loopCtl.TriggerNext()
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	f := c.pending[typed.Sequence]
	if f == nil {
		// A late reply, the command already expired.
		return nil
	}
	delete(c.pending, typed.Sequence)
	result := rig.Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

// purgeExpired times out the oldest outstanding commands. All commands
// on a connection share one expiration, so the send order is also the
// deadline order. Entries answered before expiring are skipped when
// they reach the front.
func (c *RigConn) purgeExpired(cc fx.ControlContext) error {
	now := time.Now()
	c.lock.Lock()
	defer c.lock.Unlock()
	for len(c.fifo) > 0 {
		f := c.fifo[0]
		if c.pending[f.seq] != f {
			c.fifo = c.fifo[1:]
			continue
		}
		if f.deadline.After(now) {
			break
		}
		c.fifo = c.fifo[1:]
		delete(c.pending, f.seq)
		f.result <- rig.Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
	return nil
}

type commandFuture struct {
	seq      uint32
	deadline time.Time
	result   chan rig.Result
}

func (f *commandFuture) ResultChan() <-chan rig.Result {
	return f.result
}
