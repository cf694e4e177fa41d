package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lcdpong/internal/config"
	"lcdpong/internal/logging"
	"lcdpong/internal/netwrk"
	"lcdpong/internal/pong"
	"lcdpong/internal/vsync"
)

var (
	root = &cobra.Command{
		Use:               "server",
		Short:             "Authoritative pong server for two networked players",
		PersistentPreRunE: setup,
		RunE:              startRoot,
		SilenceUsage:      true,
	}
	rootFlags = struct {
		ConfigPath string
	}{}

	logger *slog.Logger
)

func init() {
	root.PersistentFlags().StringVar(&rootFlags.ConfigPath, "config", "config.json", "the JSON config file to load")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(rootFlags.ConfigPath); err != nil {
		return err
	}
	level, err := config.Config.Level()
	if err != nil {
		return err
	}
	logger = logging.New(os.Stderr, level)
	return nil
}

func startRoot(cmd *cobra.Command, args []string) error {
	cfg := config.Config

	session := uuid.New()
	if cfg.Network.Session != "" {
		var err error
		if session, err = uuid.Parse(cfg.Network.Session); err != nil {
			return fmt.Errorf("parsing session %q: %w", cfg.Network.Session, err)
		}
	}

	iface, err := netwrk.ListenUDP(cfg.Network.ListenAddr, cfg.Network.EchoAddr)
	if err != nil {
		return err
	}
	defer iface.Close()

	game, echo := iface.Socket(0), iface.Socket(1)
	server := netwrk.NewUDPServer(session, game, logger)
	network := netwrk.New(iface, logger)
	network.Handle(game.LocalPort(), server.Handle)
	network.Handle(echo.LocalPort(), netwrk.Echo)

	g := pong.New(logger)
	g.Server = server
	g.Exchange = func() { network.HandlePackets(time.Now()) }

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Serving pong",
		slog.String("session", session.String()),
		slog.String("addr", game.LocalAddr().String()),
		slog.String("echo_addr", echo.LocalAddr().String()))

	// No display to swap, the tick only paces the referee.
	err = g.Run(ctx, vsync.New(nil), cfg.FramePeriod)
	logger.Info("Bye!", slog.Int("seated", server.Seated()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
