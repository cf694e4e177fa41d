package pong

import (
	"context"
	"log/slog"
	"time"

	"lcdpong/internal/input"
	"lcdpong/internal/netwrk"
	"lcdpong/internal/packet"
	"lcdpong/internal/renderer"
	"lcdpong/internal/vsync"
)

// Screen is the drawing side of the display collaborator.
type Screen interface {
	renderer.Display
	SyncBack()
}

// Game wires one node together. A node may hold the server role, any number
// of local player views, or both as in the loopback setup.
type Game struct {
	// Nil when this node is only a player view.
	Server netwrk.Server
	// Client i is fed player i's input. Client 0 is the one drawn.
	Clients []netwrk.Client
	// Moves packets between server and clients: a loopback exchange or a
	// network poll.
	Exchange func()
	Input    input.Source

	// Optional, a headless server has neither.
	Screen   Screen
	Composer *renderer.Composer
	// Called with the elapsed time before every frame is composed.
	BeforeFrame func(total time.Duration)

	FPS       renderer.FPS
	gamestate packet.GamestatePacket
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		gamestate: Opening(),
		logger:    logger,
	}
}

// NewLocal builds the single-board setup: both views and the server share
// one loopback.
func NewLocal(screen Screen, source input.Source, showFPS bool, logger *slog.Logger) *Game {
	loop := netwrk.NewLoopback()
	g := New(logger)
	g.Server = loop.Server
	g.Clients = []netwrk.Client{loop.Clients[0], loop.Clients[1]}
	g.Exchange = loop.Exchange
	g.Input = source
	g.Screen = screen
	g.Composer = renderer.NewComposer(showFPS)
	return g
}

// Gamestate returns the authoritative snapshot of the server role.
func (g *Game) Gamestate() packet.GamestatePacket {
	return g.gamestate
}

// Frame runs the work of one permitted frame.
func (g *Game) Frame(total time.Duration) {
	if g.BeforeFrame != nil {
		g.BeforeFrame(total)
	}

	if g.Server != nil {
		g.gamestate = Referee(g.gamestate, g.Server.ReceiveInputs())
		g.Server.SendGamestate(g.gamestate)
	}
	if g.Exchange != nil {
		g.Exchange()
	}

	if g.Input != nil {
		inputs := g.Input.Evaluate()
		for i, c := range g.Clients {
			if i < len(inputs) {
				c.SendInput(inputs[i])
			}
		}
	}

	if g.Screen != nil && g.Composer != nil && len(g.Clients) > 0 {
		g.Screen.SyncBack()
		gs := g.Clients[0].ReceiveGamestate()
		redraw := g.Composer.Compose(g.Screen, gs, total, g.FPS.Last)
		if redraw.Score[0] || redraw.Score[1] {
			g.logger.Debug("Redrew score", slog.Any("score", gs.Score), slog.Duration("at", total))
		}
	}

	g.FPS.CountFrame(total)
}

// Run drives the game from the synchronizer until ctx is done: one goroutine
// plays the vsync interrupt, the calling goroutine is the main loop.
func (g *Game) Run(ctx context.Context, synchronizer *vsync.Synchronizer, period time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		synchronizer.Run(ctx, period)
	}()

	start := time.Now()
	g.logger.Info("Starting main loop", slog.Duration("frame_period", period))
	err := synchronizer.Loop(ctx, func() {
		g.Frame(time.Since(start))
	})

	cancel()
	<-done
	g.logger.Info("Stopped main loop", slog.Int("fps", g.FPS.Last))
	return err
}
