package packet

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned when a payload cannot be decoded.
var ErrMalformed = errors.New("malformed packet")

// Field numbers of the wire messages. Coordinates are zigzag varints so
// negative (off screen) values stay small on the wire.
const (
	inputY       protowire.Number = 1
	inputTouched protowire.Number = 2

	racketX protowire.Number = 1
	racketY protowire.Number = 2

	ballX  protowire.Number = 1
	ballY  protowire.Number = 2
	ballVX protowire.Number = 3
	ballVY protowire.Number = 4

	stateRacket1 protowire.Number = 1
	stateRacket2 protowire.Number = 2
	stateBall    protowire.Number = 3
	stateScore1  protowire.Number = 4
	stateScore2  protowire.Number = 5
)

func appendSint(b []byte, num protowire.Number, v int16) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func MarshalInput(p InputPacket) []byte {
	var b []byte
	b = appendSint(b, inputY, p.Y)
	b = appendUint(b, inputTouched, protowire.EncodeBool(p.Touched))
	return b
}

func UnmarshalInput(b []byte) (InputPacket, error) {
	p := NewInputPacket()
	err := walk(b, func(num protowire.Number, v uint64, _ []byte) error {
		switch num {
		case inputY:
			p.Y = int16(protowire.DecodeZigZag(v))
		case inputTouched:
			p.Touched = protowire.DecodeBool(v)
		}
		return nil
	})
	if err != nil {
		return NewInputPacket(), fmt.Errorf("input: %w", err)
	}
	return p, nil
}

func marshalRacket(p RacketPacket) []byte {
	var b []byte
	b = appendSint(b, racketX, p.X)
	b = appendSint(b, racketY, p.Y)
	return b
}

func unmarshalRacket(b []byte) (RacketPacket, error) {
	p := NewRacketPacket()
	err := walk(b, func(num protowire.Number, v uint64, _ []byte) error {
		switch num {
		case racketX:
			p.X = int16(protowire.DecodeZigZag(v))
		case racketY:
			p.Y = int16(protowire.DecodeZigZag(v))
		}
		return nil
	})
	return p, err
}

func marshalBall(p BallPacket) []byte {
	var b []byte
	b = appendSint(b, ballX, p.X)
	b = appendSint(b, ballY, p.Y)
	b = appendSint(b, ballVX, p.VX)
	b = appendSint(b, ballVY, p.VY)
	return b
}

func unmarshalBall(b []byte) (BallPacket, error) {
	p := NewBallPacket()
	err := walk(b, func(num protowire.Number, v uint64, _ []byte) error {
		switch num {
		case ballX:
			p.X = int16(protowire.DecodeZigZag(v))
		case ballY:
			p.Y = int16(protowire.DecodeZigZag(v))
		case ballVX:
			p.VX = int16(protowire.DecodeZigZag(v))
		case ballVY:
			p.VY = int16(protowire.DecodeZigZag(v))
		}
		return nil
	})
	return p, err
}

func MarshalGamestate(p GamestatePacket) []byte {
	var b []byte
	b = appendMessage(b, stateRacket1, marshalRacket(p.Rackets[0]))
	b = appendMessage(b, stateRacket2, marshalRacket(p.Rackets[1]))
	b = appendMessage(b, stateBall, marshalBall(p.Ball))
	b = appendUint(b, stateScore1, uint64(p.Score[0]))
	b = appendUint(b, stateScore2, uint64(p.Score[1]))
	return b
}

func UnmarshalGamestate(b []byte) (GamestatePacket, error) {
	p := NewGamestatePacket()
	err := walk(b, func(num protowire.Number, v uint64, m []byte) error {
		var err error
		switch num {
		case stateRacket1:
			p.Rackets[0], err = unmarshalRacket(m)
		case stateRacket2:
			p.Rackets[1], err = unmarshalRacket(m)
		case stateBall:
			p.Ball, err = unmarshalBall(m)
		case stateScore1:
			p.Score[0] = uint8(v)
		case stateScore2:
			p.Score[1] = uint8(v)
		}
		return err
	})
	if err != nil {
		return NewGamestatePacket(), fmt.Errorf("gamestate: %w", err)
	}
	return p, nil
}

// walk calls fn for every varint and length-delimited field in b. Fields of
// other wire types are skipped.
func walk(b []byte, fn func(num protowire.Number, v uint64, m []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		case protowire.BytesType:
			m, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(num, 0, m); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
