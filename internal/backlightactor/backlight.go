// Package backlightactor drives a PWM brightness channel from a single
// quantised byte (spec.md §4.4).
package backlightactor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// PWM is the hardware boundary; the real implementation drives a
// periph.io/x/periph/conn/gpio pin's PWM output the same way
// internal/mouthactor's Servo does for the servo channel.
type PWM interface {
	SetBrightness(level byte) error
}

// Config bundles the backlight actor's CLI-derived settings (spec.md
// §6): --pin, --brightness, --port, --freq.
type Config struct {
	Port       int
	Pin        int
	FreqHz     int
	Brightness byte // initial brightness at startup
}

// DefaultConfig per spec.md §6. The port default is intentionally
// distinct from the thermal tracker's 5007 (DESIGN.md, Open Question
// 1); deployments that need a different assignment pass --port.
func DefaultConfig() Config {
	return Config{
		Port:       wire.DefaultBacklightPort,
		FreqHz:     1000,
		Brightness: 255,
	}
}

// Run is the backlight actor's main loop: single-threaded, non-
// blocking recv with a short timeout (spec.md §5). On shutdown it sets
// brightness to 255 (spec.md §4.4, §5).
func Run(ctx context.Context, cfg Config, logger *log.Logger, pwm PWM) error {
	recv, err := wire.NewReceiver(cfg.Port)
	if err != nil {
		return err
	}
	defer recv.Close()

	if err := pwm.SetBrightness(cfg.Brightness); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if err := pwm.SetBrightness(255); err != nil {
				logger.Error("failed to restore full brightness on shutdown", "error", err)
			}
			return nil
		default:
		}

		c, err := recv.Recv()
		switch {
		case err == nil:
			if c.Op != wire.OpMouthPosition {
				// Backlight reuses the mouth opcode's single-byte shape
				// on its own port; spec.md §4.1 defines the payload
				// shape per-opcode, not per-port, so any unrecognised
				// opcode on this port is dropped per §7.
				logger.Debug("backlight actor dropped unexpected opcode", "op", c.Op)
				continue
			}
			if err := pwm.SetBrightness(c.Value); err != nil {
				logger.Error("pwm write failed", "error", err)
			}
		case wire.IsTimeout(err):
			// Nothing pending this tick.
		default:
			logger.Debug("backlight actor recv error", "error", err)
		}
	}
}
