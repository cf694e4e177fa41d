package renderer

import "golang.org/x/exp/constraints"

// Display is the drawing surface of the composer. The framebuffer's back
// layer in production, a recorder in tests.
type Display interface {
	SetPixel(x, y int, color uint8)
	Width() int
	Height() int
}

const (
	Background  uint8 = 0
	Foreground  uint8 = 255
	RacketColor uint8 = 150
	BallColor   uint8 = 255
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Fills the inclusive rectangle.
func drawRectangle(d Display, xLeft, xRight, yTop, yBottom int, color uint8) {
	for y := yTop; y <= yBottom; y++ {
		for x := xLeft; x <= xRight; x++ {
			d.SetPixel(x, y, color)
		}
	}
}

func drawCircle(d Display, xCentre, yCentre, radius int, color uint8) {
	for y := yCentre - radius; y <= yCentre+radius; y++ {
		for x := xCentre - radius; x <= xCentre+radius; x++ {
			dx, dy := x-xCentre, y-yCentre
			if dx*dx+dy*dy <= radius*radius {
				d.SetPixel(x, y, color)
			}
		}
	}
}

// DrawGuidelines marks the quarter and centre lines, useful when lining up
// sprites on a new panel.
func DrawGuidelines(d Display) {
	w, h := d.Width(), d.Height()
	for y := 0; y < h; y++ {
		d.SetPixel(w/4, y, 64)
		d.SetPixel(w/2, y, 128)
		d.SetPixel(w/4*3, y, 64)
	}
	for x := 0; x < w; x++ {
		d.SetPixel(x, h/2, 128)
	}
}
