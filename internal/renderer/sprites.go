package renderer

const (
	RacketHalfWidth  = 10
	RacketHalfHeight = 30
	BallRadius       = 5
)

// Racket remembers where it was last drawn so it can erase itself.
type Racket struct {
	X, Y  int
	drawn bool
}

// Move erases the racket at its old place and draws it centred on (x, y),
// clamped to the display.
func (r *Racket) Move(d Display, x, y int) {
	x = clamp(x, RacketHalfWidth, d.Width()-1-RacketHalfWidth)
	y = clamp(y, RacketHalfHeight, d.Height()-1-RacketHalfHeight)

	if r.drawn {
		drawRectangle(d, r.X-RacketHalfWidth, r.X+RacketHalfWidth, r.Y-RacketHalfHeight, r.Y+RacketHalfHeight, Background)
	}
	drawRectangle(d, x-RacketHalfWidth, x+RacketHalfWidth, y-RacketHalfHeight, y+RacketHalfHeight, RacketColor)
	r.X, r.Y, r.drawn = x, y, true
}

type Ball struct {
	X, Y  int
	drawn bool
}

func (b *Ball) Move(d Display, x, y int) {
	x = clamp(x, BallRadius, d.Width()-1-BallRadius)
	y = clamp(y, BallRadius, d.Height()-1-BallRadius)

	if b.drawn {
		drawCircle(d, b.X, b.Y, BallRadius, Background)
	}
	drawCircle(d, x, y, BallRadius, BallColor)
	b.X, b.Y, b.drawn = x, y, true
}
