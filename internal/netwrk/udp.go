package netwrk

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

const (
	// Datagrams buffered per socket between two polls. Anything beyond
	// stays in the kernel until the next poll.
	rxQueueLen = 3
	rxBufSize  = 256

	pollWait = 100 * time.Microsecond
)

type datagram struct {
	data []byte
	addr net.Addr
}

type UDPSocket struct {
	conn *net.UDPConn
	rx   []datagram
}

func (s *UDPSocket) LocalPort() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

func (s *UDPSocket) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

func (s *UDPSocket) Recv() ([]byte, net.Addr, error) {
	if len(s.rx) == 0 {
		return nil, nil, ErrExhausted
	}
	d := s.rx[0]
	s.rx = s.rx[1:]
	return d.data, d.addr, nil
}

func (s *UDPSocket) SendTo(data []byte, addr net.Addr) error {
	_, err := s.conn.WriteTo(data, addr)
	return err
}

// ErrOversize is reported for datagrams longer than the receive buffer.
// They are dropped, never truncated.
var ErrOversize = errors.New("datagram exceeds receive buffer")

// fill moves queued datagrams from the kernel into the receive queue.
func (s *UDPSocket) fill(now time.Time) error {
	if err := s.conn.SetReadDeadline(now.Add(pollWait)); err != nil {
		return err
	}

	var dropped int
	for len(s.rx) < rxQueueLen {
		// One spare byte tells an oversize datagram from one that fits exactly.
		buf := make([]byte, rxBufSize+1)
		n, addr, err := s.conn.ReadFromUDP(buf)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			break
		}
		if err != nil {
			return err
		}
		if n > rxBufSize {
			dropped++
			continue
		}
		s.rx = append(s.rx, datagram{data: buf[:n], addr: addr})
	}
	if dropped > 0 {
		return fmt.Errorf("%w: dropped %d", ErrOversize, dropped)
	}
	return nil
}

// UDPInterface is an Interface over plain UDP sockets.
type UDPInterface struct {
	sockets []*UDPSocket
}

// ListenUDP binds one socket per address.
func ListenUDP(addrs ...string) (*UDPInterface, error) {
	iface := &UDPInterface{}
	for _, addr := range addrs {
		udpAddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			iface.Close()
			return nil, fmt.Errorf("resolving %s: %w", addr, err)
		}
		conn, err := net.ListenUDP("udp", udpAddr)
		if err != nil {
			iface.Close()
			return nil, fmt.Errorf("binding %s: %w", addr, err)
		}
		iface.sockets = append(iface.sockets, &UDPSocket{conn: conn})
	}
	return iface, nil
}

// Poll fills every socket. A socket counts as changed while its queue holds
// datagrams, so whatever a handler left behind is dispatched again on the
// next poll. Faults of single sockets are joined and do not stop the others.
func (u *UDPInterface) Poll(now time.Time) (bool, error) {
	var changed bool
	var errs []error
	for _, s := range u.sockets {
		if err := s.fill(now); err != nil {
			errs = append(errs, fmt.Errorf("port %d: %w", s.LocalPort(), err))
		}
		changed = changed || len(s.rx) > 0
	}
	if err := errors.Join(errs...); err != nil {
		return changed, err
	}
	if !changed {
		return false, ErrExhausted
	}
	return true, nil
}

func (u *UDPInterface) Sockets() []Socket {
	sockets := make([]Socket, len(u.sockets))
	for i, s := range u.sockets {
		sockets[i] = s
	}
	return sockets
}

// Socket returns the i-th bound socket.
func (u *UDPInterface) Socket(i int) *UDPSocket {
	return u.sockets[i]
}

func (u *UDPInterface) Close() error {
	var errs []error
	for _, s := range u.sockets {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}
