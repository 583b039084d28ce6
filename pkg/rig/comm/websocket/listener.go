package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm"
)

// Listener serves the rig protocol over websockets so browser panels
// can drive the rig directly.
type Listener struct {
	Addr string

	lock sync.Mutex
	ctx  context.Context
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
	return "websocket-listener " + l.Addr
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
	l.lock.Lock()
	l.ctx = ctx
	l.lock.Unlock()
	server := &http.Server{Addr: l.Addr, Handler: websocket.Handler(l.serve)}
	return fx.RunWithContextCloser(ctx, server, func() error {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
}

func (l *Listener) serve(ws *websocket.Conn) {
	l.lock.Lock()
	ctx := l.ctx
	l.lock.Unlock()
	reg := &comm.Registrar{}
	reg.Init(New(ws))
	l.lock.Lock()
	l.regs[reg] = struct{}{}
	l.lock.Unlock()
	if err := reg.Run(ctx); err != nil {
		glog.V(1).Infof("websocket %s closed: %v", ws.Request().RemoteAddr, err)
	}
	l.lock.Lock()
	delete(l.regs, reg)
	l.lock.Unlock()
}
