// Package sh is the interactive shell for poking at rigs.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	env "github.com/JHooven/flappy-bird-fresh/pkg/rig/env/connector"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds registers commands, called from init funcs of command
// providers.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// Shell is the ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Loop   *ConnLoop
}

// ConnLoop is a running loop holding a rig connection.
type ConnLoop struct {
	Ctx    context.Context
	Cancel func()
	Ref    rig.Ref
	Loop   *fx.Loop
	Conn   rig.Conn
}

// New creates a shell with all registered commands.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// Main is the single call for a CLI main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}

// ShellFrom gets the Shell back from an ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func that needs a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Loop == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo renders rig.Info for display.
func FormatInfo(info rig.Info) string {
	out := info.Ref.Name()
	if info.Meta.Description != "" {
		out += ": " + info.Meta.Description
	}
	return out
}

// DoCommand runs a command, waits for the result and prints it.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	if s.Loop == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	f := s.Loop.Conn.DoCommand(msg)
	select {
	case res := <-f.ResultChan():
		if res.Err != nil {
			c.Err(res.Err)
			return res.Err
		}
		return printResult(c, s, res.Msg)
	case <-time.After(time.Second):
		err := fmt.Errorf("command timeout")
		c.Err(err)
		return err
	}
}

func printResult(c *ishell.Context, s *Shell, msg fx.Message) error {
	serializable := msg.(msgs.SerializableMessage).Serializable()
	if s.OutputJSON {
		out, err := json.Marshal(serializable)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	if _, ok := msg.(*msgs.CommandOK); ok {
		c.Println("OK")
		return nil
	}
	name := reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
	c.Printf("%s %s\n", name, serializable.String())
	return nil
}

// WithAutoConnect makes Run connect the configured rig first.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverRigs discovers rigs, optionally filtered.
func (s *Shell) DiscoverRigs(filter func(rig.Info) bool) (rig.Connector, []rig.Info, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, nil, err
	}
	infoList, err := connector.Discover(context.TODO())
	if err != nil {
		return connector, nil, err
	}
	if filter == nil {
		return connector, infoList, nil
	}
	items := make([]rig.Info, 0, len(infoList))
	for _, info := range infoList {
		if filter(info) {
			items = append(items, info)
		}
	}
	return connector, items, nil
}

// SelectRig discovers rigs and asks for a choice when more than one
// matches.
func (s *Shell) SelectRig(filter func(rig.Info) bool) (rig.Connector, *rig.Info, error) {
	connector, infoList, err := s.DiscoverRigs(filter)
	if err != nil {
		return nil, nil, err
	}
	switch len(infoList) {
	case 0:
		return connector, nil, nil
	case 1:
		return connector, &infoList[0], nil
	}
	if !s.Interactive {
		return nil, nil, fmt.Errorf("more than 1 rigs discovered in non-interactive mode")
	}
	items := make([]string, len(infoList))
	for n, info := range infoList {
		items[n] = FormatInfo(info)
	}
	index := s.Shell.MultiChoice(items, "Which one to connect?")
	return connector, &infoList[index], nil
}

// Connect connects the rig with ref, replacing any current
// connection.
func (s *Shell) Connect(ref rig.Ref) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	connLoop := &ConnLoop{Ref: ref}
	connLoop.Ctx, connLoop.Cancel = context.WithCancel(context.Background())
	if connLoop.Conn, err = connector.Connect(connLoop.Ctx, ref); err != nil {
		return err
	}
	connLoop.Loop = fx.NewLoop()
	if adder, ok := connLoop.Conn.(fx.LoopAdder); ok {
		connLoop.Loop.Add(adder)
	}
	if s.Loop != nil {
		s.Loop.Cancel()
	}
	s.Loop = connLoop
	go connLoop.Loop.Run(connLoop.Ctx)
	s.Shell.SetPrompt(ref.Name() + " > ")
	return nil
}

// Disconnect drops the current connection.
func (s *Shell) Disconnect() {
	if s.Loop == nil {
		return
	}
	s.Loop.Cancel()
	s.Loop = nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run runs the shell, either interactive or evaluating args.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if !s.Interactive {
		log.Fatalln("command expected")
	}
	s.Shell.Run()
}

var (
	// DiscoverCmd lists discovered rigs.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			_, infoList, err := s.DiscoverRigs(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if infoList == nil {
					infoList = []rig.Info{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No rigs found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a rig, discovering when no ref is given.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "TYPE ID",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var ref rig.Ref
			if len(c.Args) >= 2 {
				ref.Type, ref.ID = c.Args[0], c.Args[1]
			} else {
				var filter func(rig.Info) bool
				if len(c.Args) == 1 {
					filter = func(info rig.Info) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				_, info, err := s.SelectRig(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no rig discovered"))
					return
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd drops the current connection.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
