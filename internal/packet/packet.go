package packet

// InputPacket is one player's touch snapshot. Y is the touched row on the
// panel and only meaningful while Touched is set.
type InputPacket struct {
	Y       int16
	Touched bool
}

type BallPacket struct {
	X  int16
	Y  int16
	VX int16
	VY int16
}

// RacketPacket holds the centre of a racket.
type RacketPacket struct {
	X int16
	Y int16
}

// GamestatePacket is the authoritative snapshot produced by the server.
// Coordinates are not validated here, consumers clamp them.
type GamestatePacket struct {
	Rackets [2]RacketPacket
	Ball    BallPacket
	Score   [2]uint8
}

func NewInputPacket() InputPacket {
	return InputPacket{}
}

func NewBallPacket() BallPacket {
	return BallPacket{}
}

func NewRacketPacket() RacketPacket {
	return RacketPacket{}
}

func NewGamestatePacket() GamestatePacket {
	return GamestatePacket{
		Rackets: [2]RacketPacket{NewRacketPacket(), NewRacketPacket()},
		Ball:    NewBallPacket(),
	}
}
