package netwrk

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"lcdpong/internal/packet"
)

// UDPClient is a player view over the packet network. The session and the
// player index are learned from the first gamestate the server sends unless
// the session was given up front.
type UDPClient struct {
	session   uuid.UUID
	player    int
	socket    Socket
	server    net.Addr
	input     packet.InputPacket
	gamestate packet.GamestatePacket
	logger    *slog.Logger
}

func NewUDPClient(session uuid.UUID, socket Socket, server net.Addr, logger *slog.Logger) *UDPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &UDPClient{
		session:   session,
		player:    -1,
		socket:    socket,
		server:    server,
		input:     packet.NewInputPacket(),
		gamestate: packet.NewGamestatePacket(),
		logger:    logger,
	}
}

// Join asks the server for a seat. Safe to repeat until Player is known.
func (c *UDPClient) Join() error {
	b := appendHeader(nil, header{Kind: kindJoin, Session: c.session, Player: noPlayer})
	if err := c.socket.SendTo(b, c.server); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	return nil
}

// Player returns the seat index or -1 before the server answered.
func (c *UDPClient) Player() int {
	return c.player
}

func (c *UDPClient) Session() uuid.UUID {
	return c.session
}

// SendInput records the input and sends it right away. A lost datagram is
// superseded by the next input. Nothing goes out before the session is known,
// the server would drop it.
func (c *UDPClient) SendInput(input packet.InputPacket) {
	c.input = input
	if c.session == uuid.Nil {
		return
	}

	player := uint8(noPlayer)
	if c.player >= 0 {
		player = uint8(c.player)
	}
	b := appendHeader(nil, header{Kind: kindInput, Session: c.session, Player: player})
	b = append(b, packet.MarshalInput(input)...)
	if err := c.socket.SendTo(b, c.server); err != nil {
		c.logger.Error("Unable to send input", slog.String("addr", c.server.String()), slog.Any("err", err))
	}
}

func (c *UDPClient) ReceiveGamestate() packet.GamestatePacket {
	return c.gamestate
}

// Handle drains the client socket and keeps the newest gamestate.
func (c *UDPClient) Handle(socket Socket) error {
	for {
		data, addr, err := socket.Recv()
		if errors.Is(err, ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := c.handleDatagram(data); err != nil {
			c.logger.Warn("Dropped datagram", slog.String("addr", addr.String()), slog.Any("err", err))
		}
	}
}

func (c *UDPClient) handleDatagram(data []byte) error {
	h, payload, err := parseHeader(data)
	if err != nil {
		return err
	}
	if h.Kind != kindState {
		return fmt.Errorf("unexpected %s datagram", h.Kind)
	}
	if c.session != uuid.Nil && h.Session != c.session {
		return fmt.Errorf("foreign session %s", h.Session)
	}

	gamestate, err := packet.UnmarshalGamestate(payload)
	if err != nil {
		return err
	}

	if c.session == uuid.Nil {
		c.session = h.Session
		c.logger.Debug("Adopted session", slog.String("session", h.Session.String()))
	}
	if c.player < 0 && h.Player < 2 {
		c.player = int(h.Player)
		c.logger.Info("Seated", slog.Int("player", c.player))
	}
	c.gamestate = gamestate
	return nil
}
