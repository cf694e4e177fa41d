package netwrk

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"lcdpong/internal/packet"
)

// ErrSeatsTaken is returned when a third address tries to join.
var ErrSeatsTaken = errors.New("both seats are taken")

// UDPServer is the authoritative side over the packet network. Both seats
// are handed out in join order and keep their index for the session.
type UDPServer struct {
	session   uuid.UUID
	socket    Socket
	seats     [2]net.Addr
	inputs    [2]packet.InputPacket
	gamestate packet.GamestatePacket
	logger    *slog.Logger
}

func NewUDPServer(session uuid.UUID, socket Socket, logger *slog.Logger) *UDPServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &UDPServer{
		session:   session,
		socket:    socket,
		inputs:    [2]packet.InputPacket{packet.NewInputPacket(), packet.NewInputPacket()},
		gamestate: packet.NewGamestatePacket(),
		logger:    logger.With(slog.String("session", session.String())),
	}
}

func (s *UDPServer) Session() uuid.UUID {
	return s.session
}

func (s *UDPServer) ReceiveInputs() [2]packet.InputPacket {
	return s.inputs
}

// SendGamestate stores the snapshot and sends it to every seated client.
// Send failures are logged, the next snapshot replaces this one anyway.
func (s *UDPServer) SendGamestate(gamestate packet.GamestatePacket) {
	s.gamestate = gamestate
	for player := range s.seats {
		if s.seats[player] == nil {
			continue
		}
		if err := s.sendState(player); err != nil {
			s.logger.Error("Unable to send gamestate",
				slog.Int("player", player),
				slog.String("addr", s.seats[player].String()),
				slog.Any("err", err))
		}
	}
}

// Seated reports how many players joined.
func (s *UDPServer) Seated() int {
	var n int
	for _, seat := range s.seats {
		if seat != nil {
			n++
		}
	}
	return n
}

// Handle drains the server socket. Bad datagrams are logged and skipped.
func (s *UDPServer) Handle(socket Socket) error {
	for {
		data, addr, err := socket.Recv()
		if errors.Is(err, ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.handleDatagram(data, addr); err != nil {
			s.logger.Warn("Dropped datagram", slog.String("addr", addr.String()), slog.Any("err", err))
		}
	}
}

func (s *UDPServer) handleDatagram(data []byte, addr net.Addr) error {
	h, payload, err := parseHeader(data)
	if err != nil {
		return err
	}
	if h.Session != s.session && !(h.Kind == kindJoin && h.Session == uuid.Nil) {
		return fmt.Errorf("foreign session %s", h.Session)
	}

	switch h.Kind {
	case kindJoin:
		player, err := s.seat(addr)
		if err != nil {
			return err
		}
		s.logger.Info("Player joined", slog.Int("player", player), slog.String("addr", addr.String()))
		return s.sendState(player)
	case kindInput:
		input, err := packet.UnmarshalInput(payload)
		if err != nil {
			return err
		}
		player, err := s.seat(addr)
		if err != nil {
			return err
		}
		s.inputs[player] = input
		return nil
	default:
		return fmt.Errorf("unexpected %s datagram", h.Kind)
	}
}

func (s *UDPServer) seat(addr net.Addr) (int, error) {
	free := -1
	for player, seat := range s.seats {
		if seat == nil {
			if free < 0 {
				free = player
			}
			continue
		}
		if seat.String() == addr.String() {
			return player, nil
		}
	}
	if free < 0 {
		return 0, ErrSeatsTaken
	}
	s.seats[free] = addr
	return free, nil
}

func (s *UDPServer) sendState(player int) error {
	b := appendHeader(nil, header{Kind: kindState, Session: s.session, Player: uint8(player)})
	b = append(b, packet.MarshalGamestate(s.gamestate)...)
	return s.socket.SendTo(b, s.seats[player])
}
