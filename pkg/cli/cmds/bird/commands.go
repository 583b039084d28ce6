// Package bird provides shell commands speaking the flappy rig
// protocol.
package bird

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/JHooven/flappy-bird-fresh/pkg/cli/sh"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

var (
	// StatusCmd exposes StatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "bird.status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.StatusQuery{})
		}),
	}

	// TiltCmd exposes TiltSet command.
	TiltCmd = ishell.Cmd{
		Name:    "bird.tilt",
		Aliases: []string{"t"},
		Help:    "X Y [Z] (raw accel units, 16384 per g)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("X and Y required"))
				return
			}
			axes := make([]int32, 3)
			for i, arg := range c.Args {
				if i >= len(axes) {
					break
				}
				val, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("Invalid axis value %q: %v", arg, err))
					return
				}
				axes[i] = int32(val)
			}
			sh.DoCommand(c, msgs.NewTiltSet(axes[0], axes[1], axes[2]))
		}),
	}

	// ResetCmd exposes GameReset command.
	ResetCmd = ishell.Cmd{
		Name:    "bird.reset",
		Aliases: []string{"rst"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.GameReset{})
		}),
	}

	// PeekCmd exposes RegPeek command.
	PeekCmd = ishell.Cmd{
		Name:    "bird.peek",
		Aliases: []string{"pk"},
		Help:    "ADDR (e.g. 0xa0000000)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDR required"))
				return
			}
			addr, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid ADDR: %v", err))
				return
			}
			sh.DoCommand(c, msgs.NewRegPeek(uint32(addr)))
		}),
	}

	// PokeCmd exposes RegPoke command.
	PokeCmd = ishell.Cmd{
		Name:    "bird.poke",
		Aliases: []string{"po"},
		Help:    "ADDR VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ADDR and VALUE required"))
				return
			}
			addr, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid ADDR: %v", err))
				return
			}
			value, err := strconv.ParseUint(c.Args[1], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid VALUE: %v", err))
				return
			}
			sh.DoCommand(c, msgs.NewRegPoke(uint32(addr), uint32(value)))
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&TiltCmd,
		&ResetCmd,
		&PeekCmd,
		&PokeCmd,
	)
}
