package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	pb "github.com/JHooven/flappy-bird-fresh/pkg/proto/bird/v1"
)

func TestTypedRoundTrip(t *testing.T) {
	env, err := TypedFrom(NewTiltSet(-4096, 16, 0))
	require.NoError(t, err)
	require.True(t, env.IsCommand())

	data, err := env.Encode()
	require.NoError(t, err)
	back, err := DecodeTyped(data)
	require.NoError(t, err)
	msg, err := back.Decode()
	require.NoError(t, err)

	tilt, ok := msg.(*TiltSet)
	require.True(t, ok)
	require.Equal(t, int32(-4096), tilt.X)
	require.Equal(t, int32(16), tilt.Y)
	require.Equal(t, int32(0), tilt.Z)
}

func TestTypedKinds(t *testing.T) {
	ev, err := TypedFrom(&ScoreEvent{ScoreEvent: pb.ScoreEvent{Score: 3}})
	require.NoError(t, err)
	require.True(t, ev.IsEvent())
	require.False(t, ev.IsCommand())

	cmd, err := TypedFrom(&StatusQuery{})
	require.NoError(t, err)
	require.True(t, cmd.IsCommand())

	// replies stay in the command kind, tagged by the reply bit
	require.NotZero(t, StatusTypeID&TypeIDMaskReply)
	require.Zero(t, StatusTypeID&TypeIDMaskKind)

	// the status heartbeat is an event even though it shares the
	// Status payload
	hb, err := TypedFrom(&StatusEvent{Status: pb.Status{State: "ready"}})
	require.NoError(t, err)
	require.True(t, hb.IsEvent())
}

func TestDecodeUnknownType(t *testing.T) {
	var p Typed
	p.TypeId = GroupCustom | 0x0007
	_, err := p.Decode()
	uerr, ok := err.(*ErrUnknownType)
	require.True(t, ok)
	require.Equal(t, GroupCustom|0x0007, uerr.TypeID)
}

type plainMsg struct{}

func (m *plainMsg) NewMessage() fx.Message { return &plainMsg{} }

func TestTypedFromNotSerializable(t *testing.T) {
	_, err := TypedFrom(&plainMsg{})
	require.Equal(t, ErrNotSerializable, err)
}
