package thermaltracker

import (
	"sync"
	"time"

	"github.com/kenavn/skelctl/internal/wire"
)

// Config bundles the tracker's tunables (spec.md §4.6, §6).
type Config struct {
	Sensitivity        float64
	DetectionThreshold float64
	PositionThreshold  float64
	Smoothing          float64 // alpha
	UpdateRate         time.Duration
}

// DefaultConfig matches spec.md §4.6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Sensitivity:        DefaultSensitivity,
		DetectionThreshold: 5.0,
		PositionThreshold:  0.05,
		Smoothing:          0.7,
		UpdateRate:         100 * time.Millisecond, // 10Hz
	}
}

// EyeCommand is emitted by the tracker for the eye actor to receive.
type EyeCommand struct {
	Cmd wire.Command
}

// State holds the hysteresis-gated takeover machine (spec.md §3,
// §4.6). The sensor goroutine is the sole writer; Snapshot lets the
// status-server goroutine read a consistent view under lock (spec.md
// §5).
type State struct {
	mu sync.Mutex

	tracking             bool
	smoothedX, smoothedY float64
	lastSentX, lastSentY float64
	magnitude            float64
	lastUpdate           time.Time
	sensorAvailable      bool
}

// Snapshot is a point-in-time copy for the status plane (spec.md
// §4.6).
type Snapshot struct {
	Running         bool
	SensorAvailable bool
	CurrentX        float64
	CurrentY        float64
	Magnitude       float64
	LastUpdate      time.Time
	Tracking        bool
}

func (s *State) Snapshot(running bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Running:         running,
		SensorAvailable: s.sensorAvailable,
		CurrentX:        s.smoothedX,
		CurrentY:        s.smoothedY,
		Magnitude:       s.magnitude,
		LastUpdate:      s.lastUpdate,
		Tracking:        s.tracking,
	}
}

// Tick consumes one sensor sample (or a read failure) and returns the
// wire commands to emit this tick, in order, implementing the
// hysteresis and smoothing rules of spec.md §4.6:
//
//   - idle -> tracking on magnitude > DetectionThreshold: emits 0x01,
//     seeds smoothed/last-sent at the raw centroid, emits the first
//     0x20.
//   - while tracking: exponential smoothing, emits 0x20 only when the
//     smoothed position has moved at least PositionThreshold from the
//     last sent value.
//   - tracking -> idle on magnitude <= DetectionThreshold: emits 0x00.
//   - a sensor read failure is treated as idle for this tick (no
//     re-emission of the last gaze), releasing via 0x00 if tracking.
func (s *State) Tick(cfg Config, c Centroid, sensorOK bool, now time.Time) []wire.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sensorAvailable = sensorOK
	s.lastUpdate = now

	if !sensorOK {
		var cmds []wire.Command
		if s.tracking {
			cmds = append(cmds, wire.Command{Op: wire.OpControllerDetached})
			s.tracking = false
		}
		return cmds
	}

	s.magnitude = c.Magnitude

	if !s.tracking {
		if c.Magnitude <= cfg.DetectionThreshold {
			return nil
		}
		s.tracking = true
		s.smoothedX, s.smoothedY = c.X, c.Y
		s.lastSentX, s.lastSentY = c.X, c.Y
		return []wire.Command{
			{Op: wire.OpControllerAttached},
			{Op: wire.OpGazeTarget, X: wire.EncodeBipolar(c.X), Y: wire.EncodeBipolar(c.Y)},
		}
	}

	if c.Magnitude <= cfg.DetectionThreshold {
		s.tracking = false
		return []wire.Command{{Op: wire.OpControllerDetached}}
	}

	alpha := cfg.Smoothing
	s.smoothedX = alpha*s.smoothedX + (1-alpha)*c.X
	s.smoothedY = alpha*s.smoothedY + (1-alpha)*c.Y

	dx := absF(s.smoothedX - s.lastSentX)
	dy := absF(s.smoothedY - s.lastSentY)
	if dx < cfg.PositionThreshold && dy < cfg.PositionThreshold {
		return nil
	}
	s.lastSentX, s.lastSentY = s.smoothedX, s.smoothedY
	return []wire.Command{
		{Op: wire.OpGazeTarget, X: wire.EncodeBipolar(s.smoothedX), Y: wire.EncodeBipolar(s.smoothedY)},
	}
}

// Shutdown unconditionally emits 0x00, whether or not tracking was active, per
// spec.md §4.6/§5: "on service shutdown it MUST emit 0x00
// unconditionally so the eye actor resumes its autonomous drivers."
func (s *State) Shutdown() []wire.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking = false
	return []wire.Command{{Op: wire.OpControllerDetached}}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
