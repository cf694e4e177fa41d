package netwrk

import (
	"errors"
	"log/slog"
	"net"
	"slices"
	"time"
)

// EchoPort is the UDP port of the echo diagnostic.
const EchoPort = 2018

var (
	// ErrExhausted means no data is queued right now. It ends a poll cycle
	// and is never reported.
	ErrExhausted = errors.New("no data available")
	// ErrUnrecognized is a frame the interface did not understand.
	ErrUnrecognized = errors.New("unrecognized frame")
)

// Socket is one endpoint of the polled interface.
type Socket interface {
	LocalPort() int
	// Returns ErrExhausted once the receive queue is empty.
	Recv() ([]byte, net.Addr, error)
	SendTo(data []byte, addr net.Addr) error
}

// Interface is the polled packet network. Poll drives its receive and
// transmit queues and reports whether any socket changed.
type Interface interface {
	Poll(now time.Time) (bool, error)
	Sockets() []Socket
}

// Handler drains a socket whose state changed during a poll.
type Handler func(socket Socket) error

type Network struct {
	iface    Interface
	handlers map[int]Handler
	logger   *slog.Logger
}

func New(iface Interface, logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	return &Network{
		iface:    iface,
		handlers: map[int]Handler{},
		logger:   logger,
	}
}

// Handle registers the handler for sockets bound to port.
func (n *Network) Handle(port int, handler Handler) {
	n.handlers[port] = handler
}

// HandlePackets runs one poll cycle. Faults are logged, sockets that still
// changed are dispatched and the caller simply polls again on the next tick.
func (n *Network) HandlePackets(now time.Time) {
	changed, err := n.iface.Poll(now)
	switch {
	case errors.Is(err, ErrExhausted):
		return
	case errors.Is(err, ErrUnrecognized):
	case err != nil:
		n.logger.Error("Network error", slog.Any("err", err))
	}
	if !changed {
		return
	}

	for _, socket := range n.iface.Sockets() {
		handler, ok := n.handlers[socket.LocalPort()]
		if !ok {
			continue
		}
		if err := handler(socket); err != nil {
			n.logger.Error("Socket poll failed", slog.Int("port", socket.LocalPort()), slog.Any("err", err))
		}
	}
}

// Echo answers every queued datagram with its bytes reversed, except for
// the final byte which stays in place.
func Echo(socket Socket) error {
	for {
		data, addr, err := socket.Recv()
		if errors.Is(err, ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}

		reply := make([]byte, len(data))
		copy(reply, data)
		reverseHead(reply)

		if err := socket.SendTo(reply, addr); err != nil {
			return err
		}
	}
}

func reverseHead(data []byte) {
	if len(data) < 2 {
		return
	}
	slices.Reverse(data[:len(data)-1])
}
