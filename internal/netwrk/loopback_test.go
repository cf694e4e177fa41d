package netwrk

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lcdpong/internal/packet"
)

var scenario = packet.GamestatePacket{
	Rackets: [2]packet.RacketPacket{{X: 10, Y: 135}, {X: 469, Y: 135}},
	Ball:    packet.BallPacket{X: 240, Y: 136},
	Score:   [2]uint8{0, 0},
}

func TestLocalClientBeforeExchange(t *testing.T) {
	c := NewLocalClient()
	if got := c.ReceiveGamestate(); got != packet.NewGamestatePacket() {
		t.Errorf("ReceiveGamestate() = %+v, want zeroed snapshot", got)
	}
}

func TestLoopbackFanOut(t *testing.T) {
	l := NewLoopback()
	l.Server.SendGamestate(scenario)

	l.Clients[0].SendInput(packet.InputPacket{Y: 40, Touched: true})
	l.Clients[1].SendInput(packet.InputPacket{Y: 90, Touched: true})
	l.Exchange()

	for i, c := range l.Clients {
		if diff := cmp.Diff(scenario, c.ReceiveGamestate()); diff != "" {
			t.Errorf("client %d ReceiveGamestate() mismatch (-want +got):\n%s", i, diff)
		}
	}

	want := [2]packet.InputPacket{{Y: 40, Touched: true}, {Y: 90, Touched: true}}
	if diff := cmp.Diff(want, l.Server.ReceiveInputs()); diff != "" {
		t.Errorf("ReceiveInputs() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopbackLastWriteWins(t *testing.T) {
	l := NewLoopback()
	l.Clients[0].SendInput(packet.InputPacket{Y: 1, Touched: true})
	l.Clients[0].SendInput(packet.InputPacket{Y: 2, Touched: true})
	l.Exchange()

	got := l.Server.ReceiveInputs()
	if got[0].Y != 2 {
		t.Errorf("ReceiveInputs()[0].Y = %d, want 2", got[0].Y)
	}
	if got[1] != packet.NewInputPacket() {
		t.Errorf("ReceiveInputs()[1] = %+v, want zeroed input", got[1])
	}
}

func TestLoopbackSnapshotReplaced(t *testing.T) {
	l := NewLoopback()
	l.Server.SendGamestate(scenario)
	l.Exchange()

	next := scenario
	next.Score = [2]uint8{1, 0}
	l.Server.SendGamestate(next)

	// Not yet exchanged: clients still hold the old value.
	if got := l.Clients[1].ReceiveGamestate(); got != scenario {
		t.Errorf("ReceiveGamestate() before exchange = %+v, want %+v", got, scenario)
	}

	l.Exchange()
	if got := l.Clients[1].ReceiveGamestate(); got != next {
		t.Errorf("ReceiveGamestate() = %+v, want %+v", got, next)
	}
}

func TestLocalClientCopiesByValue(t *testing.T) {
	l := NewLoopback()
	l.Server.SendGamestate(scenario)
	l.Exchange()

	got := l.Clients[0].ReceiveGamestate()
	got.Score[0] = 9

	if l.Clients[0].ReceiveGamestate().Score[0] != 0 {
		t.Error("mutating a received snapshot changed the client copy")
	}
}

func TestTransportsSatisfyInterfaces(t *testing.T) {
	var _ Client = NewLocalClient()
	var _ Server = NewLocalServer()
	var _ Client = (*UDPClient)(nil)
	var _ Server = (*UDPServer)(nil)
}
