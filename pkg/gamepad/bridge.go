// Package gamepad bridges a local game controller into tilt commands
// for a connected rig.
package gamepad

import (
	"context"
	"log"
	"os"
	"time"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/gamepad/device"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

// restZ is 1 g on the z axis at the default accel range.
const restZ = 16384

// Bridge maps stick deflection to rig tilt. Axis moves coalesce into
// at most one TiltSet per loop cycle, the primary button resets the
// game, an unplugged device levels the tilt.
type Bridge struct {
	Conn        rig.Conn
	DeviceIndex int
	TiltRange   int
	Verbose     bool

	eventCh  chan device.Event
	dev      device.Device
	devTimer <-chan time.Time

	tiltX, tiltY int32
	dirty        bool
}

// NewBridge creates a Bridge over an established rig connection.
func NewBridge(conn rig.Conn) *Bridge {
	return &Bridge{
		Conn:        conn,
		DeviceIndex: defaultConfig.DeviceIndex,
		TiltRange:   defaultConfig.TiltRange,
		Verbose:     defaultConfig.Verbose,
	}
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	// AddController registers the bridge as a runnable too, so the
	// device pump starts exactly once.
	loop.AddController(fx.PrLvControl, b)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(b.flush))
}

// Run implements Runnable. It keeps a device open, reopening after
// unplug, and feeds events into the loop.
func (b *Bridge) Run(ctx context.Context) error {
	defer func() {
		if b.dev != nil {
			b.dev.Close()
		}
	}()
	b.logRigStatus()
	loopCtl := fx.LoopCtlFrom(ctx)
	b.devTimer = time.After(time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.devTimer:
			b.devTimer = nil
			dev, err := b.open()
			if err != nil && !os.IsNotExist(err) {
				log.Printf("open gamepad error: %v", err)
			}
			if dev == nil {
				b.devTimer = time.After(time.Second)
				continue
			}
			log.Printf("gamepad %d %q opened", dev.Index(), dev.Name())
			b.dev, b.eventCh = dev, make(chan device.Event, 1)
			go b.poll(b.dev, b.eventCh)
		case ev, ok := <-b.eventCh:
			if ok {
				loopCtl.PostMessage(&padEvent{event: ev})
			} else {
				loopCtl.PostMessage(&padEvent{unplugged: true})
				b.dev.Close()
				b.dev, b.eventCh = nil, nil
				b.devTimer = time.After(time.Second)
			}
			loopCtl.TriggerNext()
		}
	}
}

// Control implements Controller.
func (b *Bridge) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		msg, ok := mctx.CurrentMessage().(*padEvent)
		if !ok {
			return
		}
		mctx.MessageTaken()
		if msg.unplugged {
			b.level()
			return
		}
		b.handleEvent(msg.event)
	}))
	return nil
}

func (b *Bridge) handleEvent(ev device.Event) {
	switch {
	case ev.IsAxis():
		val := int32(ev.Value) * int32(b.TiltRange) / 32767
		// The sensor sits rotated under the panel: its y axis
		// steers horizontal movement, its x axis vertical.
		switch ev.Index() {
		case 0, 6:
			b.tiltY, b.dirty = val, true
		case 1, 7:
			b.tiltX, b.dirty = val, true
		}
	case ev.IsButton():
		if ev.IsInit() || !ev.Pressed() {
			return
		}
		if ev.Index() == 0 {
			b.do(&msgs.GameReset{})
		}
	}
}

func (b *Bridge) level() {
	b.tiltX, b.tiltY = 0, 0
	b.dirty = true
}

func (b *Bridge) flush(cc fx.ControlContext) error {
	if !b.dirty {
		return nil
	}
	b.dirty = false
	b.do(msgs.NewTiltSet(b.tiltX, b.tiltY, restZ))
	return nil
}

func (b *Bridge) do(msg fx.Message) {
	fut := b.Conn.DoCommand(msg)
	go func() {
		if res := <-fut.ResultChan(); res.Err != nil {
			log.Printf("command error: %v", res.Err)
		}
	}()
}

func (b *Bridge) open() (device.Device, error) {
	if b.DeviceIndex >= 0 {
		return device.Open(b.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

func (b *Bridge) poll(dev device.Device, ch chan<- device.Event) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			log.Printf("gamepad read error: %v", err)
			return
		}
		if b.Verbose {
			switch {
			case ev.IsAxis():
				log.Printf("axis %d: %d", ev.Index(), ev.Value)
			case ev.IsButton():
				log.Printf("button %d: %v", ev.Index(), ev.Pressed())
			}
		}
		ch <- ev
	}
}

func (b *Bridge) logRigStatus() {
	res := <-b.Conn.DoCommand(&msgs.StatusQuery{}).ResultChan()
	if res.Err != nil {
		log.Printf("rig status error: %v", res.Err)
		return
	}
	if st, ok := res.Msg.(*msgs.Status); ok {
		log.Printf("rig state %q game %q score %d", st.State, st.GameState, st.Score)
	}
}

type padEvent struct {
	event     device.Event
	unplugged bool
}

func (m *padEvent) NewMessage() fx.Message { return &padEvent{} }
