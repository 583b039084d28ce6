package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVelocityMapping(t *testing.T) {
	testCases := []struct {
		name   string
		ax, ay int16
		vx, vy int
	}{
		{name: "level", ax: 0, ay: 0, vx: 0, vy: 0},
		{name: "below one pixel", ax: 99, ay: -99, vx: 0, vy: 0},
		{name: "moderate", ax: 250, ay: -199, vx: -1, vy: 2},
		{name: "swapped axes", ax: 0, ay: 350, vx: 3, vy: 0},
		{name: "clamped forward", ax: 1600, ay: 0, vx: 0, vy: MaxVelocity},
		{name: "clamped back", ax: -32768, ay: 0, vx: 0, vy: -MaxVelocity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vx, vy := Velocity(tc.ax, tc.ay)
			require.Equal(t, tc.vx, vx)
			require.Equal(t, tc.vy, vy)
		})
	}
}

// running returns a game in the running phase with obstacles parked
// far off field, so movement can be tested in isolation.
func running(t *testing.T) *Game {
	g := New()
	require.Equal(t, Start, g.State)
	g.Step(1, 0)
	require.Equal(t, Running, g.State)
	g.Obstacles[0] = Obstacle{X: 5000, GapY: PlayerMinY}
	g.Obstacles[1] = Obstacle{X: 6000, GapY: PlayerMinY}
	return g
}

func TestStartWaitsForTilt(t *testing.T) {
	g := New()
	for i := 0; i < 10; i++ {
		g.Step(0, 0)
	}
	require.Equal(t, Start, g.State)
	require.Equal(t, InitPlayerX, g.PlayerX)

	g.Step(0, 1)
	require.Equal(t, Running, g.State)
}

func TestPlayerBounds(t *testing.T) {
	g := running(t)
	for i := 0; i < 40; i++ {
		g.Step(-MaxVelocity, MaxVelocity)
	}
	require.Equal(t, 0, g.PlayerX)
	require.Equal(t, PlayerMaxY, g.PlayerY)

	for i := 0; i < 80; i++ {
		g.Step(MaxVelocity, -MaxVelocity)
	}
	require.Equal(t, Width-PlayerSide, g.PlayerX)
	require.Equal(t, PlayerMinY, g.PlayerY)
	require.Equal(t, Running, g.State)
}

func TestObstacleMarchAndRespawn(t *testing.T) {
	g := running(t)
	g.Obstacles[0] = Obstacle{X: 0, GapY: PlayerMinY}

	for i := 0; i < 15; i++ {
		g.Step(0, 0)
	}
	require.Equal(t, -30, g.Obstacles[0].X)

	g.Step(0, 0)
	o := g.Obstacles[0]
	require.Equal(t, Width, o.X, "respawns at the right edge")
	require.True(t, o.GapY >= ScoreBoardHeight)
	require.True(t, o.GapY+ObstacleGap <= GroundY)
}

func TestScoreOnPass(t *testing.T) {
	g := running(t)
	g.Obstacles[0] = Obstacle{X: 100, GapY: PlayerMinY}

	for i := 0; i < 40; i++ {
		g.Step(0, 0)
	}
	require.Equal(t, 1, g.Score, "scored once when the column cleared the player")
	require.Equal(t, Running, g.State)
}

func TestCollisionEndsRun(t *testing.T) {
	g := running(t)
	// gap below the player's rows
	g.Obstacles[0] = Obstacle{X: 94, GapY: 120}

	g.Step(0, 0)
	g.Step(0, 0)
	require.Equal(t, Running, g.State, "column not reached yet")
	g.Step(0, 0)
	require.Equal(t, End, g.State)
}

func TestEndPausesThenRestarts(t *testing.T) {
	g := running(t)
	g.Obstacles[0] = Obstacle{X: 94, GapY: 120}
	g.Score = 3
	for i := 0; i < 3; i++ {
		g.Step(0, 0)
	}
	require.Equal(t, End, g.State)

	// tilt during the pause does nothing
	for i := 0; i < EndPause; i++ {
		g.Step(5, 5)
	}
	require.Equal(t, End, g.State)

	g.Step(5, 5)
	require.Equal(t, Running, g.State)
	require.Zero(t, g.Score)
	require.Equal(t, InitPlayerX, g.PlayerX)
	require.Equal(t, InitPlayerY, g.PlayerY)
}

func TestHaltFreezes(t *testing.T) {
	g := running(t)
	g.Stop()
	require.Equal(t, Halt, g.State)

	x, y := g.PlayerX, g.PlayerY
	ox := g.Obstacles[0].X
	for i := 0; i < 10; i++ {
		g.Step(8, 8)
	}
	require.Equal(t, Halt, g.State)
	require.Equal(t, x, g.PlayerX)
	require.Equal(t, y, g.PlayerY)
	require.Equal(t, ox, g.Obstacles[0].X)

	g.Reset()
	require.Equal(t, Start, g.State)
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "start", Start.String())
	require.Equal(t, "running", Running.String())
	require.Equal(t, "end", End.String())
	require.Equal(t, "halt", Halt.String())
}
