package comm

import (
	"context"
	"io"
	"sync"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

// Pipe sends and receives typed messages over a PacketReadWriter.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe over rw.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// SendCommandMsg sends a command message. The sequence correlates the
// reply on the way back.
func (p *Pipe) SendCommandMsg(msg fx.Message, seq uint32) error {
	typed := mustTyped(msg)
	if !typed.IsCommand() {
		panic("message is not a command")
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendEventMsg sends an event message.
func (p *Pipe) SendEventMsg(msg fx.Message) error {
	typed := mustTyped(msg)
	if !typed.IsEvent() {
		panic("message is not an event")
	}
	return p.SendTyped(typed)
}

func mustTyped(msg fx.Message) *msgs.Typed {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		panic(err)
	}
	return typed
}

// SendTyped encodes and writes one packet. Concurrent senders are
// serialized.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable, pumping received packets into the handler
// until the reader fails.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		if err := p.handlePacket(ctx, pkt); err != nil {
			return err
		}
	}
}

func (p *Pipe) handlePacket(ctx context.Context, pkt []byte) error {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		return err
	}
	msg, err := typed.Decode()
	if err != nil {
		// A command with an undecodable payload still gets an
		// answer, otherwise the sender waits for expiration.
		if typed.IsCommand() {
			return p.SendCommandMsg(msgs.NewCommandErr(err), typed.Sequence)
		}
		return nil
	}
	if h := p.Handler; h != nil {
		return h.HandleTypedMsg(ctx, msg, typed)
	}
	return nil
}

// Close implements io.Closer, closing the underlying transport when
// it is closable.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder, wiring the transport in as well
// when it participates in the loop.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(p)
}
