package pong

import (
	"lcdpong/internal/packet"
	"lcdpong/internal/renderer"
)

const (
	screenWidth  = 480
	screenHeight = 272

	racketStartY = 135
)

// Opening is the snapshot a fresh game starts from: rackets centred on their
// edges, ball in the middle, no score.
func Opening() packet.GamestatePacket {
	gs := packet.NewGamestatePacket()
	gs.Rackets[0] = packet.RacketPacket{X: renderer.RacketHalfWidth, Y: racketStartY}
	gs.Rackets[1] = packet.RacketPacket{X: screenWidth - 1 - renderer.RacketHalfWidth, Y: racketStartY}
	gs.Ball = packet.BallPacket{X: screenWidth / 2, Y: screenHeight / 2}
	return gs
}

// Referee moves each racket to where its player touches, keeping it fully on
// screen. Ball and score are carried over untouched, there is no physics.
func Referee(gs packet.GamestatePacket, inputs [2]packet.InputPacket) packet.GamestatePacket {
	const lo, hi = renderer.RacketHalfHeight, screenHeight - 1 - renderer.RacketHalfHeight
	for player, in := range inputs {
		if !in.Touched {
			continue
		}
		gs.Rackets[player].Y = max(lo, min(in.Y, hi))
	}
	return gs
}
