// Package vsync gates frame composition on the display's vertical sync.
//
// The synchronizer is shared by exactly two contexts: the vsync interrupt,
// which only ever moves Presented to PendingPresent, and the main loop, which
// only ever moves PendingPresent back to Presented once a frame is composed.
// The state lives in an atomic so neither side can observe a stale value.
package vsync

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

type State uint32

const (
	// Waiting for the next vsync.
	Presented State = iota
	// A swap happened and the main loop may compose the next frame.
	PendingPresent
)

func (s State) String() string {
	switch s {
	case Presented:
		return "presented"
	case PendingPresent:
		return "pending_present"
	}
	return "unknown"
}

// Swapper exchanges the front and back buffers.
type Swapper interface {
	SwapBuffers()
}

type Synchronizer struct {
	state   atomic.Uint32
	swapper Swapper
}

// New returns a synchronizer in the Presented state. A nil swapper disables
// double buffering, the main loop then draws into the visible buffer.
func New(swapper Swapper) *Synchronizer {
	return &Synchronizer{swapper: swapper}
}

func (s *Synchronizer) State() State {
	return State(s.state.Load())
}

// Interrupt is the vsync handler. While a frame is still pending the tick is
// dropped without a trace.
func (s *Synchronizer) Interrupt() {
	if s.State() != Presented {
		return
	}
	if s.swapper != nil {
		s.swapper.SwapBuffers()
	}
	s.state.CompareAndSwap(uint32(Presented), uint32(PendingPresent))
}

func (s *Synchronizer) Pending() bool {
	return s.State() == PendingPresent
}

// Present hands the flag back to the interrupt after a frame is composed.
func (s *Synchronizer) Present() {
	s.state.CompareAndSwap(uint32(PendingPresent), uint32(Presented))
}

// Run raises Interrupt every period until ctx is done. It stands in for the
// display controller's line interrupt.
func (s *Synchronizer) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Interrupt()
		}
	}
}

// Loop spins on the flag and calls frame exactly once per pending vsync.
func (s *Synchronizer) Loop(ctx context.Context, frame func()) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Pending() {
			runtime.Gosched()
			continue
		}

		frame()
		s.Present()
	}
}
