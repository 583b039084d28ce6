// Package bird hosts the firmware controller of the tilt-driven game
// rig: board bring-up, the per-cycle sense, control and render slots,
// and the fault policy.
package bird

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/JHooven/flappy-bird-fresh/pkg/board"
	"github.com/JHooven/flappy-bird-fresh/pkg/display"
	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/game"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
	"github.com/JHooven/flappy-bird-fresh/pkg/sensor"
)

// sensorSettle is the power-up settle after the sensor bus comes up.
const sensorSettle = 100 * time.Millisecond

// Controller owns the firmware lifecycle. Setup brings the board up
// in a fixed order, then the loop slots run the game: sense reads the
// tilt sensor, control steps the game and serves rig commands, render
// updates the panel, post-processing closes the cycle. Once Faulted
// the controller never touches a register again; command handling and
// status reporting stay alive.
type Controller struct {
	Bus     hw.Bus
	Display *display.Driver
	Panel   *display.Panel
	I2C     *i2c.Controller
	Sensor  *sensor.Driver
	Game    *game.Game

	// Sleep substitutes time.Sleep during bring-up.
	Sleep func(time.Duration)

	// SetTilt feeds injected tilt samples to a simulated sensor.
	// Left nil on real hardware, where TiltSet commands are
	// rejected.
	SetTilt func(x, y, z int16)

	MaxSampleMisses int
	HeartbeatCycles int

	machine  Machine
	fault    error
	sample   sensor.Sample
	misses   int
	ledReady bool
	ledOn    bool
	rs       renderState
}

// New creates a Controller over a full board bus.
func New(b hw.Bus) *Controller {
	ctrl := i2c.NewController(b, board.I2C1)
	return &Controller{
		Bus:             b,
		Display:         display.New(b),
		Panel:           display.NewPanel(b),
		I2C:             ctrl,
		Sensor:          sensor.New(ctrl),
		Game:            game.New(),
		MaxSampleMisses: defaultConfig.MaxSampleMisses,
		HeartbeatCycles: defaultConfig.HeartbeatCycles,
	}
}

// NewWithSensor creates a Controller over a bare sensor bus with no
// display stack, for a real part on a Linux I2C adapter.
func NewWithSensor(drv *sensor.Driver) *Controller {
	return &Controller{
		Sensor:          drv,
		Game:            game.New(),
		MaxSampleMisses: defaultConfig.MaxSampleMisses,
		HeartbeatCycles: defaultConfig.HeartbeatCycles,
	}
}

// State gets the current lifecycle phase.
func (c *Controller) State() State { return c.machine.State() }

// Fault gets the fault that halted the rig, nil while healthy.
func (c *Controller) Fault() error { return c.fault }

// LastSample gets the last good tilt sample.
func (c *Controller) LastSample() sensor.Sample { return c.sample }

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(c.sense))
	loop.AddController(fx.PrLvControl, fx.ControlFunc(c.control))
	loop.AddController(fx.PrLvRender, fx.ControlFunc(c.render))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.postProc))
}

// Setup brings the rig up and leaves it Ready. On any failure the
// rig is Faulted and the cause returned.
func (c *Controller) Setup() error {
	if err := c.machine.To(Initializing); err != nil {
		return err
	}
	if err := c.bringUp(); err != nil {
		c.fail(err)
		return err
	}
	return c.machine.To(Ready)
}

func (c *Controller) bringUp() error {
	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	if c.Bus != nil {
		if err := c.boardUp(sleep); err != nil {
			return err
		}
	}
	sleep(sensorSettle)
	return c.Sensor.Configure()
}

// boardUp is the bring-up order the board requires: core clocks,
// SDRAM before anything touches the frame memory, scan-out before the
// panel wakes, the sensor bus last.
func (c *Controller) boardUp(sleep func(time.Duration)) error {
	b := c.Bus
	if err := board.SetupClocks(b); err != nil {
		return err
	}
	board.SetupLEDPins(b)
	c.ledReady = true
	if err := board.SetupSDRAM(b, sleep); err != nil {
		return err
	}
	// paint the initial frames while scan-out is still off
	c.preloadFrames()
	if err := board.SetupPixelClock(b); err != nil {
		return err
	}
	board.SetupLTDCPins(b)
	if err := c.Display.Init(sleep); err != nil {
		return err
	}
	board.SetupPanelPins(b)
	if err := c.Panel.Init(sleep); err != nil {
		return err
	}
	board.SetupI2CPins(b, sleep)
	return c.I2C.Enable(board.APB1Clock)
}

func (c *Controller) sense(cc fx.ControlContext) error {
	if c.machine.State() != Ready {
		return nil
	}
	if err := c.machine.To(Sampling); err != nil {
		return err
	}
	s, err := c.Sensor.ReadSample()
	if err != nil {
		c.misses++
		if c.misses > c.MaxSampleMisses {
			err = fmt.Errorf("sensor lost after %d misses: %v", c.misses, err)
			c.fail(err)
			return err
		}
		// hold the last good sample for this cycle
		glog.V(1).Infof("sensor miss %d of %d: %v", c.misses, c.MaxSampleMisses, err)
		return nil
	}
	c.sample, c.misses = s, 0
	return nil
}

func (c *Controller) control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		msg, ok := mctx.CurrentMessage().(*rig.CommandMsg)
		if !ok {
			return
		}
		if c.handleCommand(cc, msg.Command) {
			mctx.MessageTaken()
		}
	}))
	if c.machine.State() != Sampling {
		return nil
	}
	vx, vy := game.Velocity(c.sample.X, c.sample.Y)
	c.Game.Step(vx, vy)
	return nil
}

func (c *Controller) render(cc fx.ControlContext) error {
	if c.machine.State() != Sampling {
		return nil
	}
	if err := c.machine.To(Rendering); err != nil {
		return err
	}
	if c.Display != nil {
		return c.renderFrame()
	}
	return nil
}

func (c *Controller) postProc(cc fx.ControlContext) error {
	if c.machine.State() != Rendering {
		return nil
	}
	if err := c.machine.To(Ready); err != nil {
		return err
	}
	c.heartbeat(cc.Cycle())
	return nil
}

func (c *Controller) heartbeat(cycle uint64) {
	if !c.ledReady || c.HeartbeatCycles <= 0 || cycle%uint64(c.HeartbeatCycles) != 0 {
		return
	}
	c.ledOn = !c.ledOn
	if c.ledOn {
		board.GPIOG.High(c.Bus, board.LEDGreenPin)
	} else {
		board.GPIOG.Low(c.Bus, board.LEDGreenPin)
	}
}

// fail records the fault and halts the rig. The status LEDs flip
// as the last writes before the halt takes effect.
func (c *Controller) fail(err error) {
	if c.machine.State() == Faulted {
		return
	}
	c.fault = err
	if c.ledReady {
		board.GPIOG.Low(c.Bus, board.LEDGreenPin)
		board.GPIOG.High(c.Bus, board.LEDRedPin)
	}
	c.Game.Stop()
	if terr := c.machine.To(Faulted); terr != nil {
		glog.Errorf("fault transition: %v", terr)
	}
	glog.Errorf("rig faulted: %v", err)
}

func (c *Controller) handleCommand(cc fx.ControlContext, cmd rig.Command) bool {
	var reply fx.Message
	switch m := cmd.Msg().(type) {
	case *msgs.StatusQuery:
		reply = c.status(cc.Cycle())
	case *msgs.TiltSet:
		if c.SetTilt == nil {
			reply = msgs.NewCommandErrFromMsg("tilt injection unavailable")
		} else {
			c.SetTilt(int16(m.X), int16(m.Y), int16(m.Z))
			reply = msgs.NewCommandOK()
		}
	case *msgs.GameReset:
		if c.machine.State() == Faulted {
			reply = msgs.NewCommandErrFromMsg("rig faulted")
		} else {
			c.Game.Reset()
			c.rs.present = false
			reply = msgs.NewCommandOK()
		}
	case *msgs.RegPeek:
		reply = c.peek(m.Addr)
	case *msgs.RegPoke:
		reply = c.poke(m.Addr, m.Value)
	default:
		return false
	}
	if err := cmd.Done(reply); err != nil {
		glog.Errorf("command reply error: %v", err)
	}
	return true
}

func (c *Controller) status(cycle uint64) *msgs.Status {
	st := &msgs.Status{}
	st.State = c.machine.State().String()
	st.Cycle = cycle
	if c.fault != nil {
		st.Fault = c.fault.Error()
	}
	st.TiltX, st.TiltY, st.TiltZ = int32(c.sample.X), int32(c.sample.Y), int32(c.sample.Z)
	if g := c.Game; g != nil {
		st.GameState = g.State.String()
		st.Score = int32(g.Score)
		st.PlayerX, st.PlayerY = int32(g.PlayerX), int32(g.PlayerY)
	}
	return st
}

func (c *Controller) peek(addr uint32) fx.Message {
	if c.Bus == nil {
		return msgs.NewCommandErrFromMsg("no bus")
	}
	v, err := c.busRead(hw.Addr(addr))
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	return msgs.NewRegValue(addr, v)
}

func (c *Controller) poke(addr, val uint32) fx.Message {
	if c.Bus == nil {
		return msgs.NewCommandErrFromMsg("no bus")
	}
	if c.machine.State() == Faulted {
		return msgs.NewCommandErrFromMsg("rig faulted, writes halted")
	}
	if err := c.busWrite(hw.Addr(addr), val); err != nil {
		return msgs.NewCommandErr(err)
	}
	return msgs.NewCommandOK()
}

// busRead turns a bus fault on an unmapped address into an error
// reply instead of tearing the loop down.
func (c *Controller) busRead(addr hw.Addr) (v uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return c.Bus.Read32(addr), nil
}

func (c *Controller) busWrite(addr hw.Addr, val uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	c.Bus.Write32(addr, val)
	return nil
}
