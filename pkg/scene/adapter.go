// Package scene publishes a JSON view of the playfield for remote
// viewers.
package scene

import (
	"encoding/json"
	"fmt"

	"github.com/JHooven/flappy-bird-fresh/pkg/bird"
	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/game"
)

// Emitter delivers an encoded batch of scene messages.
type Emitter interface {
	Emit(encoded []byte) error
}

// EmitFunc is the func form of Emitter.
type EmitFunc func([]byte) error

// Emit implements Emitter.
func (f EmitFunc) Emit(encoded []byte) error {
	return f(encoded)
}

// StdoutEmitter writes batches to standard output for piping into a
// viewer.
type StdoutEmitter struct {
}

// Emit implements Emitter.
func (StdoutEmitter) Emit(encoded []byte) error {
	_, err := fmt.Println(string(encoded) + "\n")
	return err
}

// Adapter publishes the visible state of a rig as scene updates.
// Only objects that changed since the last report are sent.
type Adapter struct {
	Bird    *bird.Controller
	Emitter Emitter

	initial   bool
	playerX   int
	playerY   int
	obstacles [2]game.Obstacle
	score     int
	state     bird.State
}

// NewAdapter creates the adapter.
func NewAdapter(b *bird.Controller, emitter Emitter) *Adapter {
	return &Adapter{
		Bird:    b,
		Emitter: emitter,
		initial: true,
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(a.ReportChanges))
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	g := a.Bird.Game
	var batch []Message
	if a.initial {
		batch = append(batch,
			Message{Action: ActionReset},
			objectMsg(NewObject("band", "sky").Style("sky").
				Rc(0, game.ScoreBoardHeight, game.Width, game.GroundY-game.ScoreBoardHeight)),
			objectMsg(NewObject("band", "plants").Style("plants").
				Rc(0, game.GroundY, game.Width, game.PlantsHeight)),
			objectMsg(NewObject("band", "ground").Style("ground").
				Rc(0, game.GroundY+game.PlantsHeight, game.Width, game.Height-game.GroundY-game.PlantsHeight)),
		)
	}
	if a.initial || g.PlayerX != a.playerX || g.PlayerY != a.playerY {
		a.playerX, a.playerY = g.PlayerX, g.PlayerY
		batch = append(batch, objectMsg(NewObject("player", "player").
			Rc(float64(g.PlayerX), float64(g.PlayerY), game.PlayerSide, game.PlayerSide)))
	}
	for i := range g.Obstacles {
		if a.initial || g.Obstacles[i] != a.obstacles[i] {
			a.obstacles[i] = g.Obstacles[i]
			batch = append(batch, pipeMsgs(i, g.Obstacles[i])...)
		}
	}
	if a.initial || g.Score != a.score {
		a.score = g.Score
		batch = append(batch, objectMsg(NewObject("score", "score").
			With("value", g.Score).With("game", g.State.String())))
	}
	if st := a.Bird.State(); a.initial || st != a.state {
		a.state = st
		batch = append(batch, objectMsg(NewObject("rig", "rig").
			With("state", st.String())))
	}
	a.initial = false
	if len(batch) == 0 {
		return nil
	}
	encoded, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return a.Emitter.Emit(encoded)
}

func objectMsg(o Object) Message {
	return Message{Action: ActionObject, Object: o}
}

// pipeMsgs renders one obstacle column as a pair of pipe objects
// around the gap.
func pipeMsgs(i int, o game.Obstacle) []Message {
	x, top, bottom := float64(o.X), float64(o.GapY), float64(o.GapY+game.ObstacleGap)
	return []Message{
		objectMsg(NewObject("pipe", fmt.Sprintf("pipe-%d-top", i)).
			Rc(x, game.ScoreBoardHeight, game.ObstacleWidth, top-game.ScoreBoardHeight)),
		objectMsg(NewObject("pipe", fmt.Sprintf("pipe-%d-bottom", i)).
			Rc(x, bottom, game.ObstacleWidth, game.GroundY-bottom)),
	}
}
