package netwrk

import "lcdpong/internal/packet"

// Client is one player's view of the game. Implementations copy packets by
// value, a returned snapshot is never shared with the transport.
type Client interface {
	// Records the local input for the next exchange.
	SendInput(input packet.InputPacket)
	// Returns the most recently delivered snapshot, zeroed before the first
	// exchange.
	ReceiveGamestate() packet.GamestatePacket
}

// Server is the authoritative side of the game.
type Server interface {
	// Returns the latest input of both players, indexed by player.
	ReceiveInputs() [2]packet.InputPacket
	// Publishes a snapshot, replacing the previous one entirely.
	SendGamestate(gamestate packet.GamestatePacket)
}
