package bird

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/game"
)

// Scene colors, RGB565.
const (
	colorSky    = 0x867d
	colorPlants = 0x2444
	colorGround = 0x8a22
	colorPipe   = 0x07e0
	colorBand   = 0x2104
	colorTally  = 0xffff
)

// Sprite pixels, ARGB8888.
const (
	spriteBody = 0xffe01010
	spriteNone = 0x00000000
)

// renderState is the last frame's view of the game, used to limit
// redraw to what moved.
type renderState struct {
	obst    [2]game.Obstacle
	score   int
	present bool
}

// The game plays landscape, 320 by 240, while the panel scans out
// portrait, 240 by 320. Scene rectangles are transposed: panel x is
// the game row, panel y is the game column.
func (c *Controller) fillGame(x, y, w, h int, color uint32) {
	c.Display.Scene().FillRect(y, x, h, w, color)
}

// preloadFrames paints the initial scene and the player sprite while
// scan-out is still off.
func (c *Controller) preloadFrames() {
	c.drawField()
	spr := c.Display.Sprite()
	spr.Fill(spriteNone)
	spr.FillRect(0, 0, game.PlayerSide, game.PlayerSide, spriteBody)
	c.snapshot()
}

// drawField paints the static scene: scoreboard band, sky, plant
// strip and ground.
func (c *Controller) drawField() {
	c.fillGame(0, game.ScoreBoardHeight, game.Width, game.GroundY-game.ScoreBoardHeight, colorSky)
	c.fillGame(0, game.GroundY, game.Width, game.PlantsHeight, colorPlants)
	c.fillGame(0, game.GroundY+game.PlantsHeight, game.Width, game.Height-game.GroundY-game.PlantsHeight, colorGround)
	c.drawScore()
}

// drawScore repaints the scoreboard band, one tally block per point.
func (c *Controller) drawScore() {
	c.fillGame(0, 0, game.Width, game.ScoreBoardHeight, colorBand)
	for i := 0; i < c.Game.Score && i < 26; i++ {
		c.fillGame(4+i*12, 10, 10, 10, colorTally)
	}
}

// renderFrame applies one frame of scene updates, then moves the
// sprite window over the player.
func (c *Controller) renderFrame() error {
	g := c.Game
	if !c.rs.present {
		c.drawField()
	} else {
		for i := range g.Obstacles {
			c.updateColumn(c.rs.obst[i], g.Obstacles[i])
		}
		if g.Score != c.rs.score {
			c.drawScore()
		}
	}
	c.snapshot()
	return c.Display.SetSpritePos(g.PlayerY, g.PlayerX)
}

func (c *Controller) snapshot() {
	c.rs = renderState{obst: c.Game.Obstacles, score: c.Game.Score, present: true}
}

// updateColumn redraws what one obstacle changed since last frame.
// A plain march repaints only the strips at the leading and trailing
// edges; a respawn repaints both columns whole.
func (c *Controller) updateColumn(old, cur game.Obstacle) {
	switch {
	case cur.X == old.X && cur.GapY == old.GapY:
	case cur.GapY != old.GapY || cur.X > old.X:
		c.eraseColumn(old.X, game.ObstacleWidth)
		c.drawColumn(cur.X, game.ObstacleWidth, cur.GapY)
	default:
		c.eraseColumn(cur.X+game.ObstacleWidth, old.X-cur.X)
		c.drawColumn(cur.X, old.X-cur.X, cur.GapY)
	}
}

// obstacle columns span the sky region between the scoreboard band
// and the plant strip.
func (c *Controller) eraseColumn(x, w int) {
	c.fillGame(x, game.ScoreBoardHeight, w, game.GroundY-game.ScoreBoardHeight, colorSky)
}

func (c *Controller) drawColumn(x, w, gapY int) {
	c.fillGame(x, game.ScoreBoardHeight, w, gapY-game.ScoreBoardHeight, colorPipe)
	c.fillGame(x, gapY+game.ObstacleGap, w, game.GroundY-gapY-game.ObstacleGap, colorPipe)
	c.fillGame(x, gapY, w, game.ObstacleGap, colorSky)
}
