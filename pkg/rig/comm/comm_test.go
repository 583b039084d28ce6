package comm

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

type chanPacketRW struct {
	readCh  chan []byte
	writeCh chan []byte
}

func (c *chanPacketRW) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.readCh
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *chanPacketRW) WritePacket(pkt []byte) error {
	c.writeCh <- pkt
	return nil
}

type commTestEnv struct {
	t         *testing.T
	registrar *Registrar
	conn      *RigConn
	events    chan fx.Message
}

// commandTaker adapts a command callback into a controller. The
// callback reports whether it consumed the command, unconsumed
// commands stay for UnsupportedCommands.
func commandTaker(handle func(rig.Command) bool) fx.ControlFunc {
	return func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			if cmdMsg, ok := mc.CurrentMessage().(*rig.CommandMsg); ok && handle(cmdMsg.Command) {
				mc.MessageTaken()
			}
		}))
		return nil
	}
}

func newCommTestEnv(t *testing.T, handle func(rig.Command) bool) (*commTestEnv, context.CancelFunc) {
	cmdCh := make(chan []byte, 16)
	msgCh := make(chan []byte, 16)

	env := &commTestEnv{t: t, events: make(chan fx.Message, 16)}

	env.registrar = &Registrar{}
	env.registrar.Init(&chanPacketRW{readCh: cmdCh, writeCh: msgCh})
	rigLoop := fx.NewLoop()
	rigLoop.Interval = time.Millisecond
	rigLoop.Add(env.registrar, &UnsupportedCommands{})
	rigLoop.AddController(fx.PrLvNormal, commandTaker(handle))

	env.conn = &RigConn{}
	env.conn.Init(&chanPacketRW{readCh: msgCh, writeCh: cmdCh})
	connLoop := fx.NewLoop()
	connLoop.Interval = time.Millisecond
	connLoop.Add(env.conn)
	connLoop.AddController(fx.PrLvNormal, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			env.events <- mc.CurrentMessage()
			mc.MessageTaken()
		}))
		return nil
	}))

	ctx, cancel := context.WithCancel(context.TODO())
	go rigLoop.Run(ctx)
	go connLoop.Run(ctx)
	return env, cancel
}

func (e *commTestEnv) result(f rig.CommandFuture) (r rig.Result) {
	select {
	case r = <-f.ResultChan():
	case <-time.After(3 * time.Second):
		e.t.Fatal("result timeout")
	}
	return
}

func (e *commTestEnv) event() fx.Message {
	select {
	case msg := <-e.events:
		return msg
	case <-time.After(3 * time.Second):
		e.t.Fatal("event timeout")
	}
	return nil
}

func peekHandler(cmd rig.Command) bool {
	peek, ok := cmd.Msg().(*msgs.RegPeek)
	if !ok {
		return false
	}
	cmd.Done(msgs.NewRegValue(peek.Addr, 0x12345678))
	return true
}

func TestComm(t *testing.T) {
	testCases := []struct {
		name   string
		handle func(rig.Command) bool
		logic  func(*commTestEnv)
	}{
		{
			"command round trip",
			peekHandler,
			func(env *commTestEnv) {
				r := env.result(env.conn.DoCommand(msgs.NewRegPeek(0xa0000000)))
				require.NoError(env.t, r.Err)
				value, ok := r.Msg.(*msgs.RegValue)
				require.True(env.t, ok, "unexpected reply %T", r.Msg)
				require.Equal(env.t, uint32(0xa0000000), value.Addr)
				require.Equal(env.t, uint32(0x12345678), value.Value)
			},
		},
		{
			"unsupported command",
			peekHandler,
			func(env *commTestEnv) {
				r := env.result(env.conn.DoCommand(&msgs.GameReset{}))
				require.Error(env.t, r.Err)
				cmdErr, ok := r.Err.(*msgs.CommandErr)
				require.True(env.t, ok, "unexpected error %T", r.Err)
				require.Equal(env.t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Error())
			},
		},
		{
			"command expiration",
			func(cmd rig.Command) bool {
				_, ok := cmd.Msg().(*msgs.TiltSet)
				return ok
			},
			func(env *commTestEnv) {
				env.conn.Expiration = 20 * time.Millisecond
				r := env.result(env.conn.DoCommand(msgs.NewTiltSet(0, 0, 0)))
				require.Equal(env.t, context.DeadlineExceeded, r.Err)
			},
		},
		{
			"event delivery",
			peekHandler,
			func(env *commTestEnv) {
				ev := &msgs.ScoreEvent{}
				ev.Score, ev.Cycle = 7, 42
				require.NoError(env.t, env.registrar.SendEvent(context.TODO(), ev))
				msg := env.event()
				scoreEv, ok := msg.(*msgs.ScoreEvent)
				require.True(env.t, ok, "unexpected event %T", msg)
				require.Equal(env.t, int32(7), scoreEv.Score)
				require.Equal(env.t, uint64(42), scoreEv.Cycle)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, cancel := newCommTestEnv(t, tc.handle)
			defer cancel()
			tc.logic(env)
		})
	}
}
