package wire

import (
	"net"
	"strconv"
	"time"
)

// Default ports, spec.md §6. The backlight port has no safe shared
// default per the Open Question resolved in DESIGN.md; callers must
// pass one explicitly when colliding with the thermal status port.
const (
	DefaultEyePort       = 5005
	DefaultMouthPort     = 5006
	DefaultThermalPort   = 5007
	DefaultSoundPort     = 5008
	DefaultBacklightPort = 5009
)

// RecvTimeout bounds every actor's non-blocking recv loop so SIGINT
// returns control within a frame or two (spec.md §5, "all recv
// timeouts are <= 100ms").
const RecvTimeout = 50 * time.Millisecond

// Listen binds 0.0.0.0:port for UDP, per spec.md §4.1 ("every actor
// binds 0.0.0.0").
func Listen(port int) (*net.UDPConn, error) {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: port}
	return net.ListenUDP("udp", addr)
}

// Sender is a thin destination wrapper used by senders (thermal
// tracker, joystick adapter, bundle player) that only ever write to
// one fixed peer.
type Sender struct {
	conn *net.UDPConn
	addr *net.UDPAddr
}

// NewSender resolves host:port once and keeps the UDP socket open for
// the sender's lifetime; it never needs to bind a specific local port.
func NewSender(host string, port int) (*Sender, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	return &Sender{conn: conn, addr: addr}, nil
}

// Send writes an already-encoded command. The wire protocol has no
// delivery guarantee and no retry policy (spec.md §7): a failed write
// is reported to the caller to log, never retried here.
func (s *Sender) Send(buf []byte) error {
	_, err := s.conn.Write(buf)
	return err
}

// Close releases the underlying socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

