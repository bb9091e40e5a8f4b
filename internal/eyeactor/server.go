package eyeactor

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// FrameSink receives one Frame per tick; a real deployment wires this
// to the pi3d/SVG rendering pipeline, which is an out-of-scope
// collaborator per spec.md §1. cmd/eyeactor passes a FrameSinkFunc
// that logs each frame at debug level instead.
type FrameSink interface {
	Frame(Frame)
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(Frame)

func (f FrameSinkFunc) Frame(fr Frame) { f(fr) }

// Config bundles the actor's command-line-derived settings.
type Config struct {
	Port       int
	Radius     int // --radius, spec.md §6; reserved for the rendering backend
	CrazyEyes  bool
	PupilMin   float64
	PupilMax   float64
	FrameRate  time.Duration // tick interval; display refresh in production
}

// DefaultConfig matches spec.md §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Port:      wire.DefaultEyePort,
		Radius:    128,
		PupilMin:  0.2,
		PupilMax:  0.8,
		FrameRate: time.Second / 60,
	}
}

// Run is the eye actor's main loop (spec.md §4.2, §5): a receive
// goroutine drains UDP into a channel; this goroutine drains all
// pending commands at the top of each tick, advances autonomous
// drivers, computes the frame via Decide, and emits it. It restores
// safe state on shutdown (0x00 / 0x11 / 0x13 / 0x15, spec.md §5) by
// resetting the policy flags directly -- there is no external process
// left to notify once this actor is exiting.
func Run(ctx context.Context, cfg Config, logger *log.Logger, sink FrameSink) error {
	recv, err := wire.NewReceiver(cfg.Port)
	if err != nil {
		return err
	}
	defer recv.Close()

	s := NewState(cfg.CrazyEyes, cfg.PupilMin, cfg.PupilMax, time.Now())

	cmds := make(chan wire.Command, 64)
	errs := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			c, err := recv.Recv()
			if err != nil {
				if wire.IsTimeout(err) {
					continue
				}
				if errors.Is(err, wire.ErrUnknownOpcode) || errors.Is(err, wire.ErrShortPacket) {
					logger.Debug("eye actor dropped malformed packet", "error", err)
					continue
				}
				select {
				case errs <- err:
				default:
				}
				return
			}
			select {
			case cmds <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(cfg.FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Policy.ControllerAttached = false
			s.Policy.AutoMovement = true
			s.Policy.AutoBlink = true
			s.Policy.AutoPupil = true
			logger.Debug("eye actor stopping, autonomy restored")
			return nil
		case err := <-errs:
			return err
		case <-ticker.C:
			now := time.Now()
			drain := true
			for drain {
				select {
				case c := <-cmds:
					Apply(s, c, now)
				default:
					drain = false
				}
			}
			sink.Frame(Decide(s, now))
		}
	}
}
