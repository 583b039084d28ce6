package mqtt

import (
	"context"
	"io"

	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
)

// ReadWriter implements comm.PacketReadWriter over a topic pair. One
// side's pub topic is the other side's sub topic.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
}

// NewPacketReadWriter creates a ReadWriter on q.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{Queue: q, packetCh: make(chan []byte, 1)}
}

// WithTopics sets the topic pair directly.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForConnector points the ReadWriter at a rig from the client side:
// commands go out on ref/cmd, messages come back on ref/msg.
func (p *ReadWriter) ForConnector(ref rig.Ref) *ReadWriter {
	name := ref.Name()
	return p.WithTopics(name+"/msg", name+"/cmd")
}

// ForRig is the rig side of the same convention.
func (p *ReadWriter) ForRig(ref rig.Ref) *ReadWriter {
	name := ref.Name()
	return p.WithTopics(name+"/cmd", name+"/msg")
}

// ReadPacket implements comm.PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	pkt, ok := <-p.packetCh
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

// WritePacket implements comm.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable, holding the subscription open until ctx
// ends.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.receive))
	defer sub.Close()
	defer close(p.packetCh)
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) receive(_ string, payload []byte) {
	p.packetCh <- payload
}
