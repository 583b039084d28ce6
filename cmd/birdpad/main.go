package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/gamepad"
	env "github.com/JHooven/flappy-bird-fresh/pkg/rig/env/connector"
)

func init() {
	env.SetupFlags()
	gamepad.SetupFlags()
}

func main() {
	flag.Parse()
	conn := env.NewConfig().MustConnect()
	loop := fx.NewLoop()
	if adder, ok := conn.(fx.LoopAdder); ok {
		loop.Add(adder)
	}
	loop.Add(gamepad.NewConfig().NewBridge(conn))

	runner := fx.NewRunner().HandleSignals()
	runner.Go(loop)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
