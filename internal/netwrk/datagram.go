package netwrk

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type kind byte

const (
	kindJoin kind = iota + 1
	kindInput
	kindState
)

func (k kind) String() string {
	switch k {
	case kindJoin:
		return "join"
	case kindInput:
		return "input"
	case kindState:
		return "state"
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// kind, session, player index
const headerLen = 1 + 16 + 1

// noPlayer marks a datagram not yet bound to a seat.
const noPlayer = 0xff

var errShortDatagram = errors.New("short datagram")

type header struct {
	Kind    kind
	Session uuid.UUID
	Player  uint8
}

func appendHeader(b []byte, h header) []byte {
	b = append(b, byte(h.Kind))
	b = append(b, h.Session[:]...)
	return append(b, h.Player)
}

func parseHeader(b []byte) (header, []byte, error) {
	if len(b) < headerLen {
		return header{}, nil, fmt.Errorf("%w: %d bytes", errShortDatagram, len(b))
	}
	h := header{Kind: kind(b[0]), Player: b[headerLen-1]}
	copy(h.Session[:], b[1:17])
	return h, b[headerLen:], nil
}
