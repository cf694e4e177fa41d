// Package input turns key presses into the touch values a panel would
// report, one vertical position per player.
package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"lcdpong/internal/packet"
)

// Source is polled once per frame for both players' input.
type Source interface {
	Evaluate() [2]packet.InputPacket
}

const (
	startY = 135
	step   = 8
	maxY   = 271
)

// Keyboard drives player 0 with w/s and player 1 with the arrow keys.
type Keyboard struct {
	mu      sync.Mutex
	inputs  [2]packet.InputPacket
	quit    chan struct{}
	quitted sync.Once
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		inputs: [2]packet.InputPacket{{Y: startY}, {Y: startY}},
		quit:   make(chan struct{}),
	}
}

// Quit is closed once q was pressed or the reader ended.
func (k *Keyboard) Quit() <-chan struct{} {
	return k.quit
}

func (k *Keyboard) Evaluate() [2]packet.InputPacket {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.inputs
}

// Apply folds one action into the current inputs.
func (k *Keyboard) Apply(action UiAction) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch action {
	case Up:
		k.move(0, -step)
	case Down:
		k.move(0, step)
	case UpArrow:
		k.move(1, -step)
	case DownArrow:
		k.move(1, step)
	case Quit:
		k.quitted.Do(func() { close(k.quit) })
	}
}

func (k *Keyboard) move(player int, dy int16) {
	in := &k.inputs[player]
	in.Y = max(0, min(in.Y+dy, maxY))
	in.Touched = true
}

// Read consumes r until it fails or ctx is done. Reads block, so the caller
// runs it on its own goroutine.
func (k *Keyboard) Read(ctx context.Context, r io.Reader, logger *slog.Logger) {
	defer k.quitted.Do(func() { close(k.quit) })

	buf := make([]byte, 3)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if n > 0 {
			k.Apply(ProcessInput(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Error("Error reading input", slog.Any("err", err))
			return
		}
	}
}
