package netwrk

import "lcdpong/internal/packet"

type LocalClient struct {
	gamestate packet.GamestatePacket
	input     packet.InputPacket
}

func NewLocalClient() *LocalClient {
	return &LocalClient{
		gamestate: packet.NewGamestatePacket(),
		input:     packet.NewInputPacket(),
	}
}

// SendInput overwrites any input not yet picked up by an exchange.
func (c *LocalClient) SendInput(input packet.InputPacket) {
	c.input = input
}

func (c *LocalClient) ReceiveGamestate() packet.GamestatePacket {
	return c.gamestate
}

type LocalServer struct {
	gamestate    packet.GamestatePacket
	playerInputs [2]packet.InputPacket
}

func NewLocalServer() *LocalServer {
	return &LocalServer{
		gamestate:    packet.NewGamestatePacket(),
		playerInputs: [2]packet.InputPacket{packet.NewInputPacket(), packet.NewInputPacket()},
	}
}

func (s *LocalServer) ReceiveInputs() [2]packet.InputPacket {
	return s.playerInputs
}

func (s *LocalServer) SendGamestate(gamestate packet.GamestatePacket) {
	s.gamestate = gamestate
}

// HandleLocal performs one in-memory exchange: the server snapshot is copied
// to both clients and each client's pending input lands in the server slot
// of its player index. It must only be called from the main loop.
func HandleLocal(client1, client2 *LocalClient, server *LocalServer) {
	client1.gamestate = server.gamestate
	client2.gamestate = server.gamestate
	server.playerInputs = [2]packet.InputPacket{client1.input, client2.input}
}

// Loopback ties two local clients to one local server.
type Loopback struct {
	Clients [2]*LocalClient
	Server  *LocalServer
}

func NewLoopback() *Loopback {
	return &Loopback{
		Clients: [2]*LocalClient{NewLocalClient(), NewLocalClient()},
		Server:  NewLocalServer(),
	}
}

func (l *Loopback) Exchange() {
	HandleLocal(l.Clients[0], l.Clients[1], l.Server)
}
