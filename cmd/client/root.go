package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lcdpong/internal/ansii"
	"lcdpong/internal/config"
	"lcdpong/internal/display"
	"lcdpong/internal/input"
	"lcdpong/internal/logging"
	"lcdpong/internal/netwrk"
	"lcdpong/internal/pong"
	"lcdpong/internal/renderer"
	"lcdpong/internal/vsync"
)

const rejoinEvery = time.Second

var (
	root = &cobra.Command{
		Use:          "client",
		Short:        "Play pong in the terminal, both players on one keyboard or against a server",
		RunE:         startRoot,
		SilenceUsage: true,
	}
	rootFlags = struct {
		ConfigPath string
		Server     bool
	}{}
)

func init() {
	root.Flags().StringVar(&rootFlags.ConfigPath, "config", "config.json", "the JSON config file to load")
	root.Flags().BoolVar(&rootFlags.Server, "server", false, "play against the server at network.server_addr instead of locally")
}

func startRoot(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(rootFlags.ConfigPath); err != nil {
		return err
	}
	cfg := config.Config

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fb := display.New(cfg.DoubleBuffer)
	if cfg.Guidelines {
		renderer.DrawGuidelines(fb)
		fb.SwapBuffers()
		renderer.DrawGuidelines(fb)
	}
	keyboard := input.NewKeyboard()

	game := pong.NewLocal(fb, keyboard, cfg.ShowFPS, logger)
	if rootFlags.Server {
		var closeNetwork func() error
		game, closeNetwork, err = joinServer(cfg, fb, keyboard, logger)
		if err != nil {
			return err
		}
		defer closeNetwork()
	}

	if ansii.IsTerminal() {
		prev, err := ansii.MakeTermRaw()
		if err != nil {
			return fmt.Errorf("making terminal raw: %w", err)
		}
		defer ansii.RestoreTerm(prev)
		fmt.Print(ansii.Screen.HideCursor, ansii.Screen.ClearScreen)
		defer fmt.Print(ansii.Screen.ShowCursor, ansii.Screen.ClearScreen, ansii.Screen.Home)
	}

	panel := terminalPanel(logger)
	game.BeforeFrame = func(time.Duration) {
		if err := panel.Present(os.Stdout, fb.Front(), fb.Width(), fb.Height()); err != nil {
			logger.Debug("Unable to present frame", slog.Any("err", err))
		}
	}

	go keyboard.Read(ctx, os.Stdin, logger)
	go func() {
		select {
		case <-keyboard.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()

	var swapper vsync.Swapper
	if cfg.DoubleBuffer {
		swapper = fb
	}

	err = game.Run(ctx, vsync.New(swapper), cfg.FramePeriod)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// joinServer builds a player view that talks to the authoritative server.
// Player 0's keys drive whichever seat the server hands out.
func joinServer(cfg config.Configuration, fb *display.Framebuffer, source input.Source, logger *slog.Logger) (*pong.Game, func() error, error) {
	session := uuid.Nil
	if cfg.Network.Session != "" {
		var err error
		if session, err = uuid.Parse(cfg.Network.Session); err != nil {
			return nil, nil, fmt.Errorf("parsing session %q: %w", cfg.Network.Session, err)
		}
	}

	server, err := net.ResolveUDPAddr("udp", cfg.Network.ServerAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", cfg.Network.ServerAddr, err)
	}

	iface, err := netwrk.ListenUDP(":0")
	if err != nil {
		return nil, nil, err
	}
	socket := iface.Socket(0)

	client := netwrk.NewUDPClient(session, socket, server, logger)
	network := netwrk.New(iface, logger)
	network.Handle(socket.LocalPort(), client.Handle)

	game := pong.New(logger)
	game.Clients = []netwrk.Client{client}
	game.Input = source
	game.Screen = fb
	game.Composer = renderer.NewComposer(cfg.ShowFPS)

	var lastJoin time.Time
	game.Exchange = func() {
		now := time.Now()
		network.HandlePackets(now)
		if client.Player() >= 0 || now.Sub(lastJoin) < rejoinEvery {
			return
		}
		lastJoin = now
		if err := client.Join(); err != nil {
			logger.Warn("Unable to join server", slog.String("addr", server.String()), slog.Any("err", err))
		}
	}

	logger.Info("Joining server", slog.String("addr", server.String()), slog.Int("port", socket.LocalPort()))
	return game, iface.Close, nil
}

func terminalPanel(logger *slog.Logger) ansii.Panel {
	cols, rows, err := ansii.GetTermSize()
	if err != nil {
		logger.Debug("Unable to read terminal size, using 120x34", slog.Any("err", err))
		return ansii.Panel{Cols: 120, Rows: 34}
	}
	// The last row would scroll the screen.
	return ansii.Panel{Cols: cols, Rows: max(1, rows-1)}
}
