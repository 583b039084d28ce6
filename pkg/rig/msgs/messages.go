package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	pb "github.com/JHooven/flappy-bird-fresh/pkg/proto/bird/v1"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// StatusQuery command.
type StatusQuery struct {
	pb.StatusQuery
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return &m.StatusQuery }

// Status response.
type Status struct {
	pb.Status
}

// NewMessage implements Message.
func (m *Status) NewMessage() fx.Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return &m.Status }

// TiltSet command.
type TiltSet struct {
	pb.TiltSet
}

// NewTiltSet creates a TiltSet.
func NewTiltSet(x, y, z int32) *TiltSet {
	return &TiltSet{TiltSet: pb.TiltSet{X: x, Y: y, Z: z}}
}

// NewMessage implements Message.
func (m *TiltSet) NewMessage() fx.Message { return &TiltSet{} }

// TypeID implements SerializableMessage.
func (m *TiltSet) TypeID() uint32 { return TiltSetTypeID }

// Serializable implements SerializableMessage.
func (m *TiltSet) Serializable() proto.Message { return &m.TiltSet }

// GameReset command.
type GameReset struct {
	pb.GameReset
}

// NewMessage implements Message.
func (m *GameReset) NewMessage() fx.Message { return &GameReset{} }

// TypeID implements SerializableMessage.
func (m *GameReset) TypeID() uint32 { return GameResetTypeID }

// Serializable implements SerializableMessage.
func (m *GameReset) Serializable() proto.Message { return &m.GameReset }

// RegPeek command.
type RegPeek struct {
	pb.RegPeek
}

// NewRegPeek creates a RegPeek.
func NewRegPeek(addr uint32) *RegPeek {
	return &RegPeek{RegPeek: pb.RegPeek{Addr: addr}}
}

// NewMessage implements Message.
func (m *RegPeek) NewMessage() fx.Message { return &RegPeek{} }

// TypeID implements SerializableMessage.
func (m *RegPeek) TypeID() uint32 { return RegPeekTypeID }

// Serializable implements SerializableMessage.
func (m *RegPeek) Serializable() proto.Message { return &m.RegPeek }

// RegValue response.
type RegValue struct {
	pb.RegValue
}

// NewRegValue creates a RegValue.
func NewRegValue(addr, value uint32) *RegValue {
	return &RegValue{RegValue: pb.RegValue{Addr: addr, Value: value}}
}

// NewMessage implements Message.
func (m *RegValue) NewMessage() fx.Message { return &RegValue{} }

// TypeID implements SerializableMessage.
func (m *RegValue) TypeID() uint32 { return RegValueTypeID }

// Serializable implements SerializableMessage.
func (m *RegValue) Serializable() proto.Message { return &m.RegValue }

// RegPoke command.
type RegPoke struct {
	pb.RegPoke
}

// NewRegPoke creates a RegPoke.
func NewRegPoke(addr, value uint32) *RegPoke {
	return &RegPoke{RegPoke: pb.RegPoke{Addr: addr, Value: value}}
}

// NewMessage implements Message.
func (m *RegPoke) NewMessage() fx.Message { return &RegPoke{} }

// TypeID implements SerializableMessage.
func (m *RegPoke) TypeID() uint32 { return RegPokeTypeID }

// Serializable implements SerializableMessage.
func (m *RegPoke) Serializable() proto.Message { return &m.RegPoke }

// StatusEvent is the periodic status heartbeat. It carries the same
// payload as the Status reply under an event envelope.
type StatusEvent struct {
	pb.Status
}

// NewMessage implements Message.
func (m *StatusEvent) NewMessage() fx.Message { return &StatusEvent{} }

// TypeID implements SerializableMessage.
func (m *StatusEvent) TypeID() uint32 { return StatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *StatusEvent) Serializable() proto.Message { return &m.Status }

// StateEvent reports a lifecycle phase change.
type StateEvent struct {
	pb.StateEvent
}

// NewMessage implements Message.
func (m *StateEvent) NewMessage() fx.Message { return &StateEvent{} }

// TypeID implements SerializableMessage.
func (m *StateEvent) TypeID() uint32 { return StateEventTypeID }

// Serializable implements SerializableMessage.
func (m *StateEvent) Serializable() proto.Message { return &m.StateEvent }

// ScoreEvent reports a score change.
type ScoreEvent struct {
	pb.ScoreEvent
}

// NewMessage implements Message.
func (m *ScoreEvent) NewMessage() fx.Message { return &ScoreEvent{} }

// TypeID implements SerializableMessage.
func (m *ScoreEvent) TypeID() uint32 { return ScoreEventTypeID }

// Serializable implements SerializableMessage.
func (m *ScoreEvent) Serializable() proto.Message { return &m.ScoreEvent }

// FaultEvent reports the fault that halted a rig.
type FaultEvent struct {
	pb.FaultEvent
}

// NewMessage implements Message.
func (m *FaultEvent) NewMessage() fx.Message { return &FaultEvent{} }

// TypeID implements SerializableMessage.
func (m *FaultEvent) TypeID() uint32 { return FaultEventTypeID }

// Serializable implements SerializableMessage.
func (m *FaultEvent) Serializable() proto.Message { return &m.FaultEvent }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupRig     uint32 = 0x00010000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID   uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID  uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	StatusQueryTypeID uint32 = GroupRig | 0x0000
	StatusTypeID      uint32 = StatusQueryTypeID | TypeIDMaskReply
	TiltSetTypeID     uint32 = GroupRig | 0x0001
	GameResetTypeID   uint32 = GroupRig | 0x0002
	RegPeekTypeID     uint32 = GroupRig | 0x0003
	RegValueTypeID    uint32 = RegPeekTypeID | TypeIDMaskReply
	RegPokeTypeID     uint32 = GroupRig | 0x0004
	StateEventTypeID  uint32 = TypeIDKindEvent | GroupRig | 0x0000
	ScoreEventTypeID  uint32 = TypeIDKindEvent | GroupRig | 0x0001
	FaultEventTypeID  uint32 = TypeIDKindEvent | GroupRig | 0x0002
	StatusEventTypeID uint32 = TypeIDKindEvent | GroupRig | 0x0003
)
