package main

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/cli/sh"
	env "github.com/JHooven/flappy-bird-fresh/pkg/rig/env/connector"

	_ "github.com/JHooven/flappy-bird-fresh/pkg/cli/cmds/bird"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
