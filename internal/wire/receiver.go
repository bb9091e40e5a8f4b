package wire

import (
	"errors"
	"net"
	"os"
	"time"
)

func deadline() time.Time {
	return time.Now().Add(RecvTimeout)
}

// Receiver wraps a bound UDP socket with the non-blocking, short-
// timeout recv loop every actor uses (spec.md §5). The eye actor calls
// Recv from its own receive goroutine and pushes decoded commands onto
// a channel its tick drains; the other actors call Recv directly from
// their main loop.
type Receiver struct {
	conn *net.UDPConn
	buf  [512]byte
}

// NewReceiver binds port and wraps it.
func NewReceiver(port int) (*Receiver, error) {
	conn, err := Listen(port)
	if err != nil {
		return nil, err
	}
	return &Receiver{conn: conn}, nil
}

// Recv blocks up to RecvTimeout for one datagram. A timeout is
// reported via os.ErrDeadlineExceeded so callers can distinguish "no
// packet yet" from a real socket error.
func (r *Receiver) Recv() (Command, error) {
	if err := r.conn.SetReadDeadline(deadline()); err != nil {
		return Command{}, err
	}
	n, _, err := r.conn.ReadFromUDP(r.buf[:])
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Command{}, os.ErrDeadlineExceeded
		}
		return Command{}, err
	}
	return Decode(r.buf[:n])
}

// IsTimeout reports whether err is the "no packet within RecvTimeout"
// sentinel from Recv, as opposed to a decode or socket error.
func IsTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}

// LocalPort reports the bound port, useful when 0 was requested.
func (r *Receiver) LocalPort() int {
	return r.conn.LocalAddr().(*net.UDPAddr).Port
}
