package mqtt

import (
	"context"
	"encoding/json"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm"
)

// Registrar implements rig.Registrar using MQTT. The rig announces
// itself with retained metadata on prefix/meta, and a will clears the
// announcement if the connection dies.
type Registrar struct {
	Queue *Queue
	Info  rig.Info

	metaJSON  string
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info rig.Info) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		panic(err)
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	r := &Registrar{Info: info, metaJSON: string(meta)}
	opts.SetBinaryWill(topicPrefix+r.metaTopic(), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("bird:" + info.Ref.Name())
	}
	r.Queue = NewQueue(opts, topicPrefix)
	r.Queue.OnConnect = func(*Queue) { r.announce() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForRig(info.Ref))
	return r, nil
}

// SendEvent implements rig.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable. On shutdown the retained metadata is
// cleared so the rig disappears from discovery.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(r.metaTopic(), nil, 1, true)
	r.Queue.Close()
	return ctx.Err()
}

func (r *Registrar) metaTopic() string {
	return r.Info.Ref.Name() + "/meta"
}

func (r *Registrar) announce() {
	r.Queue.PubWith(r.metaTopic(), []byte(r.metaJSON), 1, true)
}
