package mouthactor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// Config bundles the mouth actor's CLI-derived settings (spec.md §6):
// --min, --max, --pin, --port, --idle, --idle-timeout,
// --idle-ease-duration.
type Config struct {
	Port             int
	Pin              int
	Idle             byte
	Mapping          Mapping
	IdleTimeout      time.Duration
	IdleEaseDuration time.Duration
}

// DefaultConfig matches spec.md §6/§4.3's documented defaults.
func DefaultConfig() Config {
	return Config{
		Port:             wire.DefaultMouthPort,
		Mapping:          DefaultMapping(),
		IdleTimeout:      2 * time.Second,
		IdleEaseDuration: 500 * time.Millisecond,
	}
}

// Run is the mouth actor's main loop (spec.md §4.3, §5): a single
// goroutine does non-blocking recv with a short timeout and advances
// the idle ease between packets so it stays responsive without
// traffic. On shutdown the pulse width is set to 0 to release the
// servo (spec.md §5).
func Run(ctx context.Context, cfg Config, logger *log.Logger, servo Servo) error {
	recv, err := wire.NewReceiver(cfg.Port)
	if err != nil {
		return err
	}
	defer recv.Close()

	s := NewState(cfg.Idle)
	if err := servo.SetPulseWidthMicros(cfg.Mapping.PulseWidthMicros(s.CurrentPosition)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if err := servo.SetPulseWidthMicros(0); err != nil {
				logger.Error("failed to release servo on shutdown", "error", err)
			}
			return nil
		default:
		}

		c, err := recv.Recv()
		now := time.Now()
		switch {
		case err == nil:
			if c.Op != wire.OpMouthPosition {
				logger.Debug("mouth actor dropped unexpected opcode", "op", c.Op)
				break
			}
			s.ApplyPosition(c.Value, now)
		case wire.IsTimeout(err):
			// No packet this tick; fall through to idle-ease advance.
		default:
			logger.Debug("mouth actor recv error", "error", err)
		}

		s.MaybeStartIdleEase(now, cfg.IdleTimeout)
		s.AdvanceEase(now, cfg.IdleEaseDuration)

		if err := servo.SetPulseWidthMicros(cfg.Mapping.PulseWidthMicros(s.CurrentPosition)); err != nil {
			logger.Error("servo write failed", "error", err)
		}
	}
}
