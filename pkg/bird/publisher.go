package bird

import (
	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

// DefaultStatusEvery is the heartbeat period in cycles, one second
// at the default loop interval.
const DefaultStatusEvery = 1000

// Publisher reports phase transitions, score changes, and faults to
// the registrar, plus a periodic status heartbeat. It runs in the
// post-processing stage so it observes the cycle's settled state.
type Publisher struct {
	Bird      *Controller
	Registrar rig.Registrar
	// StatusEvery is the cycle count between status heartbeats.
	// Zero disables them.
	StatusEvery uint64

	state     State
	score     int
	faultSent bool
}

// NewPublisher creates a Publisher for a controller.
func NewPublisher(c *Controller, registrar rig.Registrar) *Publisher {
	return &Publisher{Bird: c, Registrar: registrar, StatusEvery: DefaultStatusEvery}
}

// AddToLoop implements fx.LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(p.publish))
}

func (p *Publisher) publish(cc fx.ControlContext) error {
	ctx := cc.Context()
	var errs fx.AggregatedError
	if state := p.Bird.State(); state != p.state {
		p.state = state
		ev := &msgs.StateEvent{}
		ev.State, ev.Cycle = state.String(), cc.Cycle()
		errs.Add(p.Registrar.SendEvent(ctx, ev))
	}
	if score := p.Bird.Game.Score; score != p.score {
		p.score = score
		ev := &msgs.ScoreEvent{}
		ev.Score, ev.Cycle = int32(score), cc.Cycle()
		errs.Add(p.Registrar.SendEvent(ctx, ev))
	}
	if err := p.Bird.Fault(); err != nil && !p.faultSent {
		p.faultSent = true
		ev := &msgs.FaultEvent{}
		if initErr, ok := err.(*hw.InitError); ok {
			ev.Periph, ev.Stage = initErr.Periph, initErr.Stage
		}
		ev.Message, ev.Cycle = err.Error(), cc.Cycle()
		errs.Add(p.Registrar.SendEvent(ctx, ev))
	}
	if p.StatusEvery > 0 && cc.Cycle()%p.StatusEvery == 0 {
		ev := &msgs.StatusEvent{Status: p.Bird.status(cc.Cycle()).Status}
		errs.Add(p.Registrar.SendEvent(ctx, ev))
	}
	return errs.Aggregate()
}
