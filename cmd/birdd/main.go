package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"
	"github.com/pkg/profile"

	"github.com/JHooven/flappy-bird-fresh/pkg/bird"
	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm/stream"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm/websocket"
	env "github.com/JHooven/flappy-bird-fresh/pkg/rig/env/controller"
	"github.com/JHooven/flappy-bird-fresh/pkg/scene"
	"github.com/JHooven/flappy-bird-fresh/pkg/sensor"
	"github.com/JHooven/flappy-bird-fresh/pkg/sim"
)

var (
	tcpAddr    = flag.String("tcp", "", "Serve the rig protocol on a TCP address (e.g. :9099)")
	wsAddr     = flag.String("ws", "", "Serve the rig protocol on a websocket address (e.g. :9090)")
	i2cBus     = flag.Int("i2c-bus", -1, "Linux I2C bus number for a real sensor, -1 runs the simulated board")
	profileDir = flag.String("profile", "", "Write a CPU profile into this directory")
)

func init() {
	env.SetRigType("bird", rig.Meta{
		Description: "Flappy Bird Rig",
	})
	env.SetupFlags()
	bird.SetupFlags()
	scene.SetupFlags()
}

func main() {
	flag.Parse()
	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	}
	e := env.NewConfig().MustNewEnv()
	if *tcpAddr != "" {
		e.Registrar.Add(stream.NewListener(*tcpAddr))
	}
	if *wsAddr != "" {
		e.Registrar.Add(websocket.NewListener(*wsAddr))
	}

	var ctl *bird.Controller
	if *i2cBus >= 0 {
		ctl = bird.NewWithSensor(sensor.New(i2c.OpenLinux(*i2cBus)))
	} else {
		bench := sim.NewBench()
		ctl = bird.NewConfig().NewController(bench.Bus)
		ctl.SetTilt = bench.MPU.SetAccel
	}
	if err := ctl.Setup(); err != nil {
		// A faulted rig keeps serving status and peek commands.
		glog.Errorf("bring-up failed: %v", err)
	}

	loop := fx.NewLoop().Add(e, ctl, bird.NewPublisher(ctl, e.Registrar))
	if conf := scene.NewConfig(); conf.Enabled {
		emitter := scene.Emitter(scene.StdoutEmitter{})
		if e.MQTT != nil {
			topic := e.Config.Info.Ref.Name() + "/" + conf.Topic
			queue := e.MQTT.Queue
			emitter = scene.EmitFunc(func(encoded []byte) error {
				queue.Pub(topic, encoded)
				return nil
			})
		}
		loop.Add(scene.NewAdapter(ctl, emitter))
	}

	// Stopping through the runner lets the registrars withdraw
	// their announcements before the process exits.
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))
	if err := runner.Wait(); err != nil {
		glog.Exitln(err)
	}
}
