package thermaltracker

import (
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// statusPayload is the JSON object spec.md §4.6/§6 documents.
type statusPayload struct {
	Running         bool    `json:"running"`
	SensorAvailable bool    `json:"sensor_available"`
	CurrentX        float64 `json:"current_x"`
	CurrentY        float64 `json:"current_y"`
	Magnitude       float64 `json:"magnitude"`
	LastUpdate      string  `json:"last_update"`
	UpdateRate      float64 `json:"update_rate"`
	Sensitivity     float64 `json:"sensitivity"`
}

// StatusServer answers ASCII "status" and "sensitivity=<f>" requests
// on the tracker's own UDP port (spec.md §4.6). It reads State under
// lock; the sensor goroutine is the sole writer (spec.md §5).
type StatusServer struct {
	conn   *net.UDPConn
	state  *State
	cfg    *Config // pointer so a live sensitivity update is visible to Tick
	logger *log.Logger
}

// NewStatusServer binds port and wires it to the shared State/Config.
func NewStatusServer(port int, state *State, cfg *Config, logger *log.Logger) (*StatusServer, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, err
	}
	return &StatusServer{conn: conn, state: state, cfg: cfg, logger: logger}, nil
}

// Close releases the socket.
func (s *StatusServer) Close() error { return s.conn.Close() }

// ServeOnce handles a single inbound request with the given deadline,
// returning (handled, error). A deadline timeout is reported as
// (false, nil) so the caller's loop can check for shutdown between
// polls (spec.md §5, recv timeouts <= 100ms).
func (s *StatusServer) ServeOnce(timeout time.Duration) (bool, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, err
	}
	buf := make([]byte, 256)
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, err
	}

	req := strings.TrimSpace(string(buf[:n]))
	switch {
	case req == "status":
		snap := s.state.Snapshot(true)
		payload := statusPayload{
			Running:         snap.Running,
			SensorAvailable: snap.SensorAvailable,
			CurrentX:        snap.CurrentX,
			CurrentY:        snap.CurrentY,
			Magnitude:       snap.Magnitude,
			LastUpdate:      snap.LastUpdate.UTC().Format(time.RFC3339Nano),
			UpdateRate:      time.Second.Seconds() / s.cfg.UpdateRate.Seconds(),
			Sensitivity:     s.cfg.Sensitivity,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return true, err
		}
		_, err = s.conn.WriteToUDP(body, addr)
		return true, err

	case strings.HasPrefix(req, "sensitivity="):
		raw := strings.TrimPrefix(req, "sensitivity=")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			_, werr := s.conn.WriteToUDP([]byte("error: invalid sensitivity"), addr)
			if werr != nil {
				return true, werr
			}
			return true, nil
		}
		s.cfg.Sensitivity = clamp(v, 0.1, 20.0)
		_, err = s.conn.WriteToUDP([]byte("ok"), addr)
		return true, err

	default:
		s.logger.Debug("thermal status: unrecognised request", "request", req)
		return true, nil
	}
}
