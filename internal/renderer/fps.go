package renderer

import "time"

// FPS counts composed frames over one second windows.
type FPS struct {
	Last        int
	frames      int
	windowStart time.Duration
}

func (f *FPS) CountFrame(total time.Duration) {
	f.frames++
	if total-f.windowStart >= time.Second {
		f.Last = f.frames
		f.frames = 0
		f.windowStart = total
	}
}
