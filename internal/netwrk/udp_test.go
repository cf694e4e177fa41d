package netwrk

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"lcdpong/internal/packet"
)

// pollUntil polls every network until cond holds or the deadline passes.
func pollUntil(t *testing.T, cond func() bool, nets ...*Network) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, n := range nets {
			n.HandlePackets(time.Now())
		}
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func listen(t *testing.T) *UDPInterface {
	t.Helper()
	iface, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP() unexpected error: %v", err)
	}
	t.Cleanup(func() { iface.Close() })
	return iface
}

func TestUDPEcho(t *testing.T) {
	iface := listen(t)
	n := New(iface, testLogger)
	n.Handle(iface.Socket(0).LocalPort(), Echo)

	conn, err := net.DialUDP("udp", nil, iface.Socket(0).LocalAddr())
	if err != nil {
		t.Fatalf("DialUDP() unexpected error: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{0x01, 0x02, 0x03, 0x04}); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	buf := make([]byte, 16)
	var got []byte
	pollUntil(t, func() bool {
		conn.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
		m, err := conn.Read(buf)
		if err != nil {
			return false
		}
		got = buf[:m]
		return true
	}, n)

	if !bytes.Equal(got, []byte{0x03, 0x02, 0x01, 0x04}) {
		t.Errorf("echo reply = %v, want [3 2 1 4]", got)
	}
}

func TestUDPPollExhausted(t *testing.T) {
	iface := listen(t)

	changed, err := iface.Poll(time.Now())
	if changed || err != ErrExhausted {
		t.Errorf("Poll() = %v, %v, want false, %v", changed, err, ErrExhausted)
	}
}

func TestUDPClientServer(t *testing.T) {
	session := uuid.New()

	srvIface := listen(t)
	srvSock := srvIface.Socket(0)
	server := NewUDPServer(session, srvSock, testLogger)
	srvNet := New(srvIface, testLogger)
	srvNet.Handle(srvSock.LocalPort(), server.Handle)

	var clients [2]*UDPClient
	var nets [2]*Network
	for i := range clients {
		iface := listen(t)
		sock := iface.Socket(0)
		clients[i] = NewUDPClient(uuid.Nil, sock, srvSock.LocalAddr(), testLogger)
		nets[i] = New(iface, testLogger)
		nets[i].Handle(sock.LocalPort(), clients[i].Handle)

		if err := clients[i].Join(); err != nil {
			t.Fatalf("Join() unexpected error: %v", err)
		}
		seated := i + 1
		pollUntil(t, func() bool { return server.Seated() == seated }, srvNet)
	}

	pollUntil(t, func() bool { return clients[0].Player() == 0 && clients[1].Player() == 1 }, nets[0], nets[1])
	for i, c := range clients {
		if c.Session() != session {
			t.Errorf("client %d session = %s, want %s", i, c.Session(), session)
		}
	}

	server.SendGamestate(scenario)
	pollUntil(t, func() bool {
		return clients[0].ReceiveGamestate() == scenario && clients[1].ReceiveGamestate() == scenario
	}, nets[0], nets[1])

	clients[0].SendInput(packet.InputPacket{Y: 50, Touched: true})
	clients[1].SendInput(packet.InputPacket{Y: 200, Touched: true})
	want := [2]packet.InputPacket{{Y: 50, Touched: true}, {Y: 200, Touched: true}}
	pollUntil(t, func() bool { return server.ReceiveInputs() == want }, srvNet)

	if diff := cmp.Diff(want, server.ReceiveInputs()); diff != "" {
		t.Errorf("ReceiveInputs() mismatch (-want +got):\n%s", diff)
	}
}

func TestUDPServerRejectsThirdPlayer(t *testing.T) {
	session := uuid.New()
	server := NewUDPServer(session, &fakeSocket{}, testLogger)

	join := appendHeader(nil, header{Kind: kindJoin, Session: session, Player: noPlayer})
	for i := 0; i < 3; i++ {
		addr := &net.UDPAddr{IP: net.IPv4(10, 0, 0, byte(i+1)), Port: 5000}
		err := server.handleDatagram(join, addr)
		if i < 2 && err != nil {
			t.Fatalf("join %d unexpected error: %v", i, err)
		}
		if i == 2 && err != ErrSeatsTaken {
			t.Errorf("third join error = %v, want %v", err, ErrSeatsTaken)
		}
	}
}

func TestUDPServerDropsForeignSession(t *testing.T) {
	server := NewUDPServer(uuid.New(), &fakeSocket{}, testLogger)

	b := appendHeader(nil, header{Kind: kindInput, Session: uuid.New(), Player: 0})
	b = append(b, packet.MarshalInput(packet.InputPacket{Y: 3, Touched: true})...)

	if err := server.handleDatagram(b, remote); err == nil {
		t.Error("handleDatagram() accepted a foreign session")
	}
	if server.Seated() != 0 {
		t.Errorf("Seated() = %d, want 0", server.Seated())
	}
}

func dial(t *testing.T, iface *UDPInterface) *net.UDPConn {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, iface.Socket(0).LocalAddr())
	if err != nil {
		t.Fatalf("DialUDP() unexpected error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestUDPPollReportsLeftoverQueue(t *testing.T) {
	iface := listen(t)
	conn := dial(t, iface)

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(iface.Socket(0).rx) == 0 && time.Now().Before(deadline) {
		iface.Poll(time.Now())
	}
	if len(iface.Socket(0).rx) == 0 {
		t.Fatal("datagram never queued")
	}

	// Nothing new arrives, the queued datagram still has to be dispatched.
	changed, err := iface.Poll(time.Now())
	if !changed || err != nil {
		t.Errorf("Poll() = %v, %v, want true, <nil>", changed, err)
	}
}

func TestUDPHandlerErrorDoesNotStrandDatagrams(t *testing.T) {
	iface := listen(t)
	conn := dial(t, iface)

	var calls int
	var got []string
	n := New(iface, testLogger)
	n.Handle(iface.Socket(0).LocalPort(), func(socket Socket) error {
		calls++
		for {
			data, _, err := socket.Recv()
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			got = append(got, string(data))
			if calls == 1 {
				return errors.New("handler gave up")
			}
		}
	})

	for _, msg := range []string{"one", "two"} {
		if _, err := conn.Write([]byte(msg)); err != nil {
			t.Fatalf("Write() unexpected error: %v", err)
		}
	}

	pollUntil(t, func() bool { return len(got) == 2 }, n)
	if diff := cmp.Diff([]string{"one", "two"}, got); diff != "" {
		t.Errorf("handled datagrams mismatch (-want +got):\n%s", diff)
	}
}

func TestUDPDropsOversizeDatagram(t *testing.T) {
	iface := listen(t)
	conn := dial(t, iface)

	big := make([]byte, 300)
	big[len(big)-1] = 0xaa
	if _, err := conn.Write(big); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if _, err := conn.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	var oversize bool
	deadline := time.Now().Add(2 * time.Second)
	for len(iface.Socket(0).rx) == 0 && time.Now().Before(deadline) {
		if _, err := iface.Poll(time.Now()); errors.Is(err, ErrOversize) {
			oversize = true
		}
	}
	if !oversize {
		t.Error("Poll() never reported ErrOversize")
	}

	data, _, err := iface.Socket(0).Recv()
	if err != nil {
		t.Fatalf("Recv() unexpected error: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Recv() = %q, want %q", data, "ok")
	}
	if _, _, err := iface.Socket(0).Recv(); err != ErrExhausted {
		t.Errorf("Recv() error = %v, want %v", err, ErrExhausted)
	}
}

func TestUDPServerSeatsOnlyJoinAndInput(t *testing.T) {
	session := uuid.New()
	server := NewUDPServer(session, &fakeSocket{}, testLogger)

	state := appendHeader(nil, header{Kind: kindState, Session: session, Player: 0})
	state = append(state, packet.MarshalGamestate(scenario)...)
	unknown := appendHeader(nil, header{Kind: kind(9), Session: session, Player: 0})

	for _, b := range [][]byte{state, unknown} {
		if err := server.handleDatagram(b, remote); err == nil {
			t.Errorf("handleDatagram() accepted kind %s", kind(b[0]))
		}
	}
	if server.Seated() != 0 {
		t.Errorf("Seated() = %d, want 0", server.Seated())
	}

	input := appendHeader(nil, header{Kind: kindInput, Session: session, Player: noPlayer})
	input = append(input, packet.MarshalInput(packet.InputPacket{Y: 40, Touched: true})...)
	if err := server.handleDatagram(input, remote); err != nil {
		t.Fatalf("handleDatagram() unexpected error: %v", err)
	}
	if server.Seated() != 1 || server.ReceiveInputs()[0] != (packet.InputPacket{Y: 40, Touched: true}) {
		t.Errorf("after input: Seated() = %d, inputs = %v", server.Seated(), server.ReceiveInputs())
	}
}

func TestUDPClientHoldsInputUntilSessionKnown(t *testing.T) {
	socket := &fakeSocket{}
	client := NewUDPClient(uuid.Nil, socket, remote, testLogger)

	client.SendInput(packet.InputPacket{Y: 10, Touched: true})
	if len(socket.sent) != 0 {
		t.Fatalf("SendInput() sent %d datagrams without a session, want 0", len(socket.sent))
	}

	session := uuid.New()
	state := appendHeader(nil, header{Kind: kindState, Session: session, Player: 1})
	state = append(state, packet.MarshalGamestate(scenario)...)
	if err := client.handleDatagram(state); err != nil {
		t.Fatalf("handleDatagram() unexpected error: %v", err)
	}

	client.SendInput(packet.InputPacket{Y: 20, Touched: true})
	if len(socket.sent) != 1 {
		t.Fatalf("SendInput() sent %d datagrams, want 1", len(socket.sent))
	}
	h, payload, err := parseHeader(socket.sent[0].data)
	if err != nil {
		t.Fatalf("parseHeader() unexpected error: %v", err)
	}
	if h.Kind != kindInput || h.Session != session || h.Player != 1 {
		t.Errorf("sent header = %+v", h)
	}
	if in, err := packet.UnmarshalInput(payload); err != nil || in != (packet.InputPacket{Y: 20, Touched: true}) {
		t.Errorf("sent input = %v, %v", in, err)
	}
}
