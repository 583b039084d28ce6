package stream

import (
	"context"
	"net"
	"sync"

	"github.com/golang/glog"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm"
)

// Listener serves the rig protocol on a TCP port with length-prefixed
// framing. Every accepted connection gets its own command pipe, and
// events fan out to all of them.
type Listener struct {
	Addr string

	lock sync.Mutex
	regs map[*comm.Registrar]struct{}
}

// NewListener creates a Listener on addr.
func NewListener(addr string) *Listener {
	return &Listener{Addr: addr, regs: make(map[*comm.Registrar]struct{})}
}

// AddToLoop implements LoopAdder.
func (l *Listener) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(l)
}

// Name implements Named.
func (l *Listener) Name() string {
	return "tcp-listener " + l.Addr
}

// SendEvent implements rig.Registrar.
func (l *Listener) SendEvent(ctx context.Context, msg fx.Message) error {
	l.lock.Lock()
	regs := make([]*comm.Registrar, 0, len(l.regs))
	for reg := range l.regs {
		regs = append(regs, reg)
	}
	l.lock.Unlock()
	var errs fx.AggregatedError
	for _, reg := range regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Run implements Runnable.
func (l *Listener) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	return fx.RunWithContextCloser(ctx, lis, func() error {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return err
			}
			go l.serve(ctx, conn)
		}
	})
}

func (l *Listener) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	reg := &comm.Registrar{}
	reg.Init(New(conn))
	l.lock.Lock()
	l.regs[reg] = struct{}{}
	l.lock.Unlock()
	if err := reg.Run(ctx); err != nil {
		glog.V(1).Infof("connection %s closed: %v", conn.RemoteAddr(), err)
	}
	l.lock.Lock()
	delete(l.regs, reg)
	l.lock.Unlock()
}
