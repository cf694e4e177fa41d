// Package display is the in-memory stand-in for the LCD controller: two
// 8-bit luminance layers of the panel size, one shown and one drawn.
package display

import "sync/atomic"

const (
	Width  = 480
	Height = 272
)

type Framebuffer struct {
	layers [2][]uint8
	front  atomic.Uint32
	double bool
}

// New allocates both layers. Without double buffering every pixel is written
// straight into the shown layer.
func New(double bool) *Framebuffer {
	fb := &Framebuffer{double: double}
	for i := range fb.layers {
		fb.layers[i] = make([]uint8, Width*Height)
	}
	return fb
}

func (fb *Framebuffer) Width() int  { return Width }
func (fb *Framebuffer) Height() int { return Height }

// SwapBuffers flips which layer is shown. It is the only call made from the
// vsync context.
func (fb *Framebuffer) SwapBuffers() {
	for {
		old := fb.front.Load()
		if fb.front.CompareAndSwap(old, old^1) {
			return
		}
	}
}

// Front returns the layer currently shown. The slice aliases the layer.
func (fb *Framebuffer) Front() []uint8 {
	return fb.layers[fb.front.Load()]
}

// Back returns the layer the next frame is composed into.
func (fb *Framebuffer) Back() []uint8 {
	return fb.layers[fb.target()]
}

func (fb *Framebuffer) target() uint32 {
	if !fb.double {
		return fb.front.Load()
	}
	return fb.front.Load() ^ 1
}

// SetPixel writes the drawing layer. Pixels off the panel are dropped.
func (fb *Framebuffer) SetPixel(x, y int, color uint8) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	fb.layers[fb.target()][y*Width+x] = color
}

// Pixel reads the drawing layer, off-panel reads return 0.
func (fb *Framebuffer) Pixel(x, y int) uint8 {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return 0
	}
	return fb.layers[fb.target()][y*Width+x]
}

// SyncBack copies the shown layer into the drawing layer so sprites can be
// erased where the viewer last saw them. Called by the main loop right
// after a vsync swap.
func (fb *Framebuffer) SyncBack() {
	if !fb.double {
		return
	}
	front := fb.front.Load()
	copy(fb.layers[front^1], fb.layers[front])
}

// Clear fills both layers.
func (fb *Framebuffer) Clear(color uint8) {
	for _, layer := range fb.layers {
		for i := range layer {
			layer[i] = color
		}
	}
}
