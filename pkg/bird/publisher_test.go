package bird

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/msgs"
)

type captureRegistrar struct {
	events []fx.Message
}

func (r *captureRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func TestPublisherEvents(t *testing.T) {
	_, c := benchRig(t)
	reg := &captureRegistrar{}
	pub := NewPublisher(c, reg)
	cc := &testCtx{cycle: 1}

	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 1)
	stateEv, ok := reg.events[0].(*msgs.StateEvent)
	require.True(t, ok)
	require.Equal(t, "ready", stateEv.State)
	require.Equal(t, uint64(1), stateEv.Cycle)

	// steady state publishes nothing
	cc.cycle++
	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 1)

	c.Game.Score = 3
	cc.cycle++
	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 2)
	scoreEv, ok := reg.events[1].(*msgs.ScoreEvent)
	require.True(t, ok)
	require.Equal(t, int32(3), scoreEv.Score)
}

func TestPublisherFault(t *testing.T) {
	_, c := benchRig(t)
	reg := &captureRegistrar{}
	pub := NewPublisher(c, reg)
	cc := &testCtx{cycle: 1}
	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 1)

	c.fail(&hw.InitError{Periph: "mpu6050", Stage: "sample", Err: errors.New("sensor lost")})
	cc.cycle++
	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 3)

	stateEv, ok := reg.events[1].(*msgs.StateEvent)
	require.True(t, ok)
	require.Equal(t, "faulted", stateEv.State)

	faultEv, ok := reg.events[2].(*msgs.FaultEvent)
	require.True(t, ok)
	require.Equal(t, "mpu6050", faultEv.Periph)
	require.Equal(t, "sample", faultEv.Stage)
	require.Contains(t, faultEv.Message, "sensor lost")

	// the fault is reported once
	cc.cycle++
	require.NoError(t, pub.publish(cc))
	require.Len(t, reg.events, 3)
}

func TestPublisherStatusHeartbeat(t *testing.T) {
	_, c := benchRig(t)
	reg := &captureRegistrar{}
	pub := NewPublisher(c, reg)
	pub.StatusEvery = 4
	cc := &testCtx{cycle: 1}
	require.NoError(t, pub.publish(cc))
	base := len(reg.events)

	for cc.cycle = 2; cc.cycle <= 9; cc.cycle++ {
		require.NoError(t, pub.publish(cc))
	}
	require.Len(t, reg.events, base+2)

	ev, ok := reg.events[base].(*msgs.StatusEvent)
	require.True(t, ok)
	require.Equal(t, "ready", ev.State)
	require.Equal(t, "start", ev.GameState)
	require.Equal(t, uint64(4), ev.Cycle)
}
