// Package game holds the tilt game's logic: a player square steered
// by board tilt through marching obstacle gaps. Pure state, no
// hardware; the controller feeds it tilt and renders its fields.
//
// Coordinates are landscape game space, 320x240, origin top-left,
// x growing right and y growing down. The scoreboard band sits above
// y=30 and the ground below y=200; play happens between.
package game

// Screen layout.
const (
	Width  = 320
	Height = 240

	ScoreBoardHeight = 30
	PlantsHeight     = 30
	GroundY          = 200
)

// Player geometry and movement bounds.
const (
	PlayerSide = 30
	PlayerMinY = 30
	PlayerMaxY = 180

	InitPlayerX = 60
	InitPlayerY = 40
)

// Obstacle geometry and march speed, pixels per frame.
const (
	ObstacleWidth = 30
	ObstacleGap   = 80
	Speed         = 2
)

// MaxVelocity clamps per-frame player movement, pixels.
const MaxVelocity = 8

// EndPause is how many frames a finished run lingers before tilt can
// start the next one.
const EndPause = 120

// State is the game phase.
type State int

// Phases
const (
	Start State = iota
	Running
	End
	Halt
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Running:
		return "running"
	case End:
		return "end"
	case Halt:
		return "halt"
	}
	return "unknown"
}

// Velocity maps raw tilt to per-frame movement. The sensor sits
// rotated a quarter turn under the panel, so its y axis steers
// horizontal movement and its x axis vertical. 100 LSB of tilt make
// one pixel per frame, clamped to MaxVelocity.
func Velocity(ax, ay int16) (vx, vy int) {
	return clampV(int(ay) / 100), clampV(int(ax) / 100)
}

func clampV(v int) int {
	if v > MaxVelocity {
		return MaxVelocity
	}
	if v < -MaxVelocity {
		return -MaxVelocity
	}
	return v
}

// Obstacle is one column with a gap the player fits through. GapY is
// the top of the gap.
type Obstacle struct {
	X      int
	GapY   int
	passed bool
}

// Game is one run's state.
type Game struct {
	State     State
	PlayerX   int
	PlayerY   int
	Obstacles [2]Obstacle
	Score     int

	endFrames int
	seed      uint32
}

// New creates a game ready at the start phase.
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset returns to the start phase with a fresh field.
func (g *Game) Reset() {
	g.State = Start
	g.PlayerX, g.PlayerY = InitPlayerX, InitPlayerY
	g.Score = 0
	g.endFrames = 0
	g.seed = 1
	g.Obstacles[0] = Obstacle{X: Width, GapY: g.nextGap()}
	g.Obstacles[1] = Obstacle{X: Width + Width/2, GapY: g.nextGap()}
}

// Stop freezes the game. Only Reset leaves the halt phase.
func (g *Game) Stop() {
	g.State = Halt
}

// nextGap places a gap fully between the scoreboard and the ground.
func (g *Game) nextGap() int {
	g.seed = g.seed*1103515245 + 12345
	span := GroundY - ObstacleGap - ScoreBoardHeight
	return ScoreBoardHeight + int(g.seed>>16)%span
}

// Step advances one frame with the given tilt velocities.
func (g *Game) Step(vx, vy int) {
	switch g.State {
	case Start:
		if vx != 0 || vy != 0 {
			g.State = Running
		}
	case Running:
		g.movePlayer(vx, vy)
		g.marchObstacles()
		if g.collides() {
			g.State = End
			g.endFrames = 0
		}
	case End:
		g.endFrames++
		if g.endFrames > EndPause && (vx != 0 || vy != 0) {
			g.Reset()
			g.State = Running
		}
	case Halt:
	}
}

func (g *Game) movePlayer(vx, vy int) {
	g.PlayerX += vx
	g.PlayerY += vy
	if g.PlayerX < 0 {
		g.PlayerX = 0
	}
	if g.PlayerX > Width-PlayerSide {
		g.PlayerX = Width - PlayerSide
	}
	if g.PlayerY < PlayerMinY {
		g.PlayerY = PlayerMinY
	}
	if g.PlayerY > PlayerMaxY {
		g.PlayerY = PlayerMaxY
	}
}

func (g *Game) marchObstacles() {
	for i := range g.Obstacles {
		o := &g.Obstacles[i]
		o.X -= Speed
		if o.X+ObstacleWidth < 0 {
			o.X = Width
			o.GapY = g.nextGap()
			o.passed = false
			continue
		}
		if !o.passed && o.X+ObstacleWidth < g.PlayerX {
			o.passed = true
			g.Score++
		}
	}
}

func (g *Game) collides() bool {
	for i := range g.Obstacles {
		o := &g.Obstacles[i]
		if o.X >= g.PlayerX+PlayerSide || o.X+ObstacleWidth <= g.PlayerX {
			continue
		}
		if g.PlayerY < o.GapY || g.PlayerY+PlayerSide > o.GapY+ObstacleGap {
			return true
		}
	}
	return false
}
