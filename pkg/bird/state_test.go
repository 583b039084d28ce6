package bird

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLifecycleWalk(t *testing.T) {
	var m Machine
	require.Equal(t, Uninitialized, m.State())
	walk := []State{Initializing, Ready, Sampling, Rendering, Ready, Sampling, Rendering, Sampling}
	for _, s := range walk {
		require.NoError(t, m.To(s), "to %s", s)
	}
	require.NoError(t, m.To(Faulted))
	for _, s := range []State{Uninitialized, Initializing, Ready, Sampling, Rendering} {
		require.Error(t, m.To(s), "out of faulted to %s", s)
	}
	require.Equal(t, Faulted, m.State())
}

func TestIllegalMoves(t *testing.T) {
	tests := []struct {
		name string
		walk []State
		to   State
	}{
		{name: "render before init", to: Rendering},
		{name: "ready before init", to: Ready},
		{name: "render without sample", walk: []State{Initializing, Ready}, to: Rendering},
		{name: "sample while initializing", walk: []State{Initializing}, to: Sampling},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var m Machine
			for _, s := range test.walk {
				require.NoError(t, m.To(s))
			}
			before := m.State()
			err := m.To(test.to)
			terr, ok := err.(*TransitionError)
			require.True(t, ok)
			require.Equal(t, before, terr.From)
			require.Equal(t, test.to, terr.To)
			require.Equal(t, before, m.State())
		})
	}
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "uninitialized", Uninitialized.String())
	require.Equal(t, "sampling", Sampling.String())
	require.Equal(t, "faulted", Faulted.String())
	require.Equal(t, "state(42)", State(42).String())
}
