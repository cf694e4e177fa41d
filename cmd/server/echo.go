package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lcdpong/internal/config"
	"lcdpong/internal/netwrk"
)

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Only answer the UDP echo diagnostic on network.echo_addr",
	RunE:  startEcho,
}

func init() {
	root.AddCommand(echoCmd)
}

func startEcho(cmd *cobra.Command, args []string) error {
	iface, err := netwrk.ListenUDP(config.Config.Network.EchoAddr)
	if err != nil {
		return err
	}
	defer iface.Close()

	socket := iface.Socket(0)
	network := netwrk.New(iface, logger)
	network.Handle(socket.LocalPort(), netwrk.Echo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Echoing", slog.String("addr", socket.LocalAddr().String()))

	ticker := time.NewTicker(config.Config.FramePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Bye!")
			return nil
		case now := <-ticker.C:
			network.HandlePackets(now)
		}
	}
}
