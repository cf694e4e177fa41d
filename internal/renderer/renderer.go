package renderer

import (
	"time"

	"lcdpong/internal/packet"
)

// StaleAfter forces a score redraw even when unchanged, healing digits that
// other sprites drew over.
const StaleAfter = 1000 * time.Millisecond

const scoreScale = 2

// Score positions on the 480x272 panel.
var scorePos = [2]struct{ X, Y int }{
	{480/2 - 10 - 15, 272/2 - 20},
	{480/2 + 10, 272/2 - 20},
}

// Cache records what the score digits on screen show. It must only change
// together with the draw it describes.
type Cache struct {
	Score           [2]uint8
	LastScoreRedraw time.Duration
}

// NewCache starts from a score no game reaches so the first frame draws.
func NewCache() Cache {
	return Cache{Score: [2]uint8{99, 99}}
}

// Redraw reports what a composed frame drew besides the sprites.
type Redraw struct {
	Score [2]bool
}

type Composer struct {
	Cache   Cache
	Rackets [2]Racket
	Ball    Ball
	ShowFPS bool
}

func NewComposer(showFPS bool) *Composer {
	return &Composer{Cache: NewCache(), ShowFPS: showFPS}
}

// Compose draws one frame of gamestate. total is the time since start and
// only drives the stale score refresh.
func (c *Composer) Compose(d Display, gamestate packet.GamestatePacket, total time.Duration, fps int) Redraw {
	for id := range c.Rackets {
		r := gamestate.Rackets[id]
		c.Rackets[id].Move(d, int(r.X), int(r.Y))
	}
	c.Ball.Move(d, int(gamestate.Ball.X), int(gamestate.Ball.Y))

	var redraw Redraw
	stale := total > c.Cache.LastScoreRedraw+StaleAfter
	for id := range redraw.Score {
		redraw.Score[id] = gamestate.Score[id] != c.Cache.Score[id] || stale
	}
	if redraw.Score[0] || redraw.Score[1] {
		c.Cache.LastScoreRedraw = total
	}
	for id, ok := range redraw.Score {
		if !ok {
			continue
		}
		c.Cache.Score[id] = gamestate.Score[id]
		drawCounter(d, scorePos[id].X, scorePos[id].Y, scoreScale, int(gamestate.Score[id]), true)
	}

	if c.ShowFPS {
		DrawFPS(d, fps)
	}
	return redraw
}
