// Package v1 defines the wire schema of the rig protocol. The
// structs carry protobuf field tags and are encoded through the
// proto reflection path, so the schema lives here as plain Go.
package v1

import (
	"github.com/golang/protobuf/proto"
)

// Typed is the envelope of every packet: a type ID, the encoded
// message body, and a sequence number correlating replies with
// commands on a shared pipe.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message  []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	Sequence uint32 `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Typed) ProtoMessage() {}

// CommandOK is the generic success reply.
type CommandOK struct {
}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandOK) ProtoMessage() {}

// CommandErr is the generic failure reply.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandErr) ProtoMessage() {}

// StatusQuery asks a rig for its current status.
type StatusQuery struct {
}

// Reset implements proto.Message.
func (m *StatusQuery) Reset() { *m = StatusQuery{} }

// String implements proto.Message.
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*StatusQuery) ProtoMessage() {}

// Status is the reply to StatusQuery.
type Status struct {
	State     string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	GameState string `protobuf:"bytes,2,opt,name=game_state,json=gameState,proto3" json:"game_state,omitempty"`
	Score     int32  `protobuf:"varint,3,opt,name=score,proto3" json:"score,omitempty"`
	PlayerX   int32  `protobuf:"varint,4,opt,name=player_x,json=playerX,proto3" json:"player_x,omitempty"`
	PlayerY   int32  `protobuf:"varint,5,opt,name=player_y,json=playerY,proto3" json:"player_y,omitempty"`
	Cycle     uint64 `protobuf:"varint,6,opt,name=cycle,proto3" json:"cycle,omitempty"`
	Fault     string `protobuf:"bytes,7,opt,name=fault,proto3" json:"fault,omitempty"`
	TiltX     int32  `protobuf:"varint,8,opt,name=tilt_x,json=tiltX,proto3" json:"tilt_x,omitempty"`
	TiltY     int32  `protobuf:"varint,9,opt,name=tilt_y,json=tiltY,proto3" json:"tilt_y,omitempty"`
	TiltZ     int32  `protobuf:"varint,10,opt,name=tilt_z,json=tiltZ,proto3" json:"tilt_z,omitempty"`
}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Status) ProtoMessage() {}

// TiltSet injects a tilt sample, in accelerometer LSB units.
type TiltSet struct {
	X int32 `protobuf:"varint,1,opt,name=x,proto3" json:"x,omitempty"`
	Y int32 `protobuf:"varint,2,opt,name=y,proto3" json:"y,omitempty"`
	Z int32 `protobuf:"varint,3,opt,name=z,proto3" json:"z,omitempty"`
}

// Reset implements proto.Message.
func (m *TiltSet) Reset() { *m = TiltSet{} }

// String implements proto.Message.
func (m *TiltSet) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*TiltSet) ProtoMessage() {}

// GameReset restarts the game.
type GameReset struct {
}

// Reset implements proto.Message.
func (m *GameReset) Reset() { *m = GameReset{} }

// String implements proto.Message.
func (m *GameReset) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*GameReset) ProtoMessage() {}

// RegPeek reads one register.
type RegPeek struct {
	Addr uint32 `protobuf:"varint,1,opt,name=addr,proto3" json:"addr,omitempty"`
}

// Reset implements proto.Message.
func (m *RegPeek) Reset() { *m = RegPeek{} }

// String implements proto.Message.
func (m *RegPeek) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*RegPeek) ProtoMessage() {}

// RegValue is the reply to RegPeek.
type RegValue struct {
	Addr  uint32 `protobuf:"varint,1,opt,name=addr,proto3" json:"addr,omitempty"`
	Value uint32 `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
}

// Reset implements proto.Message.
func (m *RegValue) Reset() { *m = RegValue{} }

// String implements proto.Message.
func (m *RegValue) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*RegValue) ProtoMessage() {}

// RegPoke writes one register.
type RegPoke struct {
	Addr  uint32 `protobuf:"varint,1,opt,name=addr,proto3" json:"addr,omitempty"`
	Value uint32 `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
}

// Reset implements proto.Message.
func (m *RegPoke) Reset() { *m = RegPoke{} }

// String implements proto.Message.
func (m *RegPoke) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*RegPoke) ProtoMessage() {}

// StateEvent reports a lifecycle phase change.
type StateEvent struct {
	State string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	Cycle uint64 `protobuf:"varint,2,opt,name=cycle,proto3" json:"cycle,omitempty"`
}

// Reset implements proto.Message.
func (m *StateEvent) Reset() { *m = StateEvent{} }

// String implements proto.Message.
func (m *StateEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*StateEvent) ProtoMessage() {}

// ScoreEvent reports a score change.
type ScoreEvent struct {
	Score int32  `protobuf:"varint,1,opt,name=score,proto3" json:"score,omitempty"`
	Cycle uint64 `protobuf:"varint,2,opt,name=cycle,proto3" json:"cycle,omitempty"`
}

// Reset implements proto.Message.
func (m *ScoreEvent) Reset() { *m = ScoreEvent{} }

// String implements proto.Message.
func (m *ScoreEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ScoreEvent) ProtoMessage() {}

// FaultEvent reports the fault that halted a rig.
type FaultEvent struct {
	Periph  string `protobuf:"bytes,1,opt,name=periph,proto3" json:"periph,omitempty"`
	Stage   string `protobuf:"bytes,2,opt,name=stage,proto3" json:"stage,omitempty"`
	Message string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
	Cycle   uint64 `protobuf:"varint,4,opt,name=cycle,proto3" json:"cycle,omitempty"`
}

// Reset implements proto.Message.
func (m *FaultEvent) Reset() { *m = FaultEvent{} }

// String implements proto.Message.
func (m *FaultEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*FaultEvent) ProtoMessage() {}
