// Package rig connects a bird to the outside world. It registers the
// machine on a message queue, feeds received commands into the control
// loop, and publishes events for observers.
package rig

import (
	"context"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
)

// Registrar announces a rig on a registry and carries its events out.
type Registrar interface {
	// SendEvent publishes an event to observers.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command. Done sends the reply, every command
// must be answered or the sender times out.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg carries a Command through the loop as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Ref names a rig uniquely across a registry.
type Ref struct {
	// Type is the rig type.
	Type string
	// ID identifies the machine hosting the rig.
	ID string
}

// Name renders the ref as type/id.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid reports whether both parts are set.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta is the metadata a rig announces about itself.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info is one discovered rig.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Connector is the client side of a registry.
type Connector interface {
	// Discover enumerates registered rigs.
	Discover(context.Context) ([]Info, error)
	// Connect connects to the rig named by ref.
	Connect(context.Context, Ref) (Conn, error)
}

// Conn is an established connection to a rig.
type Conn interface {
	// DoCommand sends a command without waiting for the result.
	DoCommand(fx.Message) CommandFuture
}

// Result is the outcome of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture resolves to the result of a sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}
