package msgs

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	pb "github.com/JHooven/flappy-bird-fresh/pkg/proto/bird/v1"
)

// Type ID layout: the top bit selects the kind, the group sits in the
// middle, the reply bit marks answers to commands.
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
	TypeIDMaskReply uint32 = 0x00008000
)

// Message kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

var (
	// ErrNotSerializable indicates the message is not serializable.
	ErrNotSerializable = errors.New("not serializable message")
	// ErrUnsupportedCommand indicates the command is unsupported.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// ErrUnknownType indicates a type ID without a registered message.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// SerializableMessage can be carried over the wire.
type SerializableMessage interface {
	fx.Message
	TypeID() uint32
	Serializable() proto.Message
}

// MessageTypes maps type IDs to prototype messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:   (*CommandOK)(nil),
	CommandErrTypeID:  (*CommandErr)(nil),
	StatusQueryTypeID: (*StatusQuery)(nil),
	StatusTypeID:      (*Status)(nil),
	TiltSetTypeID:     (*TiltSet)(nil),
	GameResetTypeID:   (*GameReset)(nil),
	RegPeekTypeID:     (*RegPeek)(nil),
	RegValueTypeID:    (*RegValue)(nil),
	RegPokeTypeID:     (*RegPoke)(nil),
	StateEventTypeID:  (*StateEvent)(nil),
	ScoreEventTypeID:  (*ScoreEvent)(nil),
	FaultEventTypeID:  (*FaultEvent)(nil),
	StatusEventTypeID: (*StatusEvent)(nil),
}

// Typed wraps a message with its type information.
type Typed struct {
	pb.Typed
}

// TypedFrom wraps a serializable message into a Typed.
func TypedFrom(msg fx.Message) (*Typed, error) {
	s, ok := msg.(SerializableMessage)
	if !ok {
		return nil, ErrNotSerializable
	}
	data, err := proto.Marshal(s.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{Typed: pb.Typed{TypeId: s.TypeID(), Message: data}}, nil
}

// DecodeTyped parses bytes into a Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed.Typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Decode unwraps the payload into the registered message type.
func (p Typed) Decode() (fx.Message, error) {
	prototype, ok := MessageTypes[p.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeId}
	}
	msg := prototype.NewMessage()
	if err := proto.Unmarshal(p.Message, msg.(SerializableMessage).Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode renders the Typed to bytes.
func (p Typed) Encode() ([]byte, error) {
	return proto.Marshal(&p.Typed)
}

// Kind extracts the message kind from the type ID.
func (p Typed) Kind() uint32 {
	return p.TypeId & TypeIDMaskKind
}

// IsCommand reports whether the message is command-kind.
func (p Typed) IsCommand() bool {
	return p.Kind() == TypeIDKindCommand
}

// IsEvent reports whether the message is event-kind.
func (p Typed) IsEvent() bool {
	return p.Kind() == TypeIDKindEvent
}

// TypedMsgHandler handles a decoded message together with its Typed
// wrapper.
type TypedMsgHandler interface {
	HandleTypedMsg(context.Context, fx.Message, *Typed) error
}

// HandleTypedMsgFunc is the func form of TypedMsgHandler.
type HandleTypedMsgFunc func(context.Context, fx.Message, *Typed) error

// HandleTypedMsg implements TypedMsgHandler.
func (f HandleTypedMsgFunc) HandleTypedMsg(ctx context.Context, msg fx.Message, typed *Typed) error {
	return f(ctx, msg, typed)
}
