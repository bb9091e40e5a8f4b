package thermaltracker

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// ServerConfig bundles everything Run needs beyond the tracking Config
// itself: where to bind the status plane and where to forward commands
// (spec.md §4.6, §6).
type ServerConfig struct {
	Tracking Config

	StatusPort           int
	EyeHost              string
	EyePort              int
	SoundHost            string
	SoundPort            int
	EnableDetectionSound bool
	RandomSound          string // file name passed with OpSoundPlayFile on detection, empty to use OpSoundPlayRandom
}

// DefaultServerConfig matches spec.md §6's documented defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Tracking:   DefaultConfig(),
		StatusPort: wire.DefaultThermalPort,
		EyeHost:    "127.0.0.1",
		EyePort:    wire.DefaultEyePort,
		SoundHost:  "127.0.0.1",
		SoundPort:  wire.DefaultSoundPort,
	}
}

// Run drives the sensor-read loop at cfg.Tracking.UpdateRate, forwards
// the resulting commands to the eye actor, fires the detection sound on
// idle->tracking edges, answers the status plane, and on ctx
// cancellation emits the safe-shutdown 0x00 before returning (spec.md
// §4.6, §5, §8 scenario 6).
func Run(ctx context.Context, cfg ServerConfig, logger *log.Logger, sensor Sensor) error {
	state := &State{}
	trackingCfg := cfg.Tracking

	status, err := NewStatusServer(cfg.StatusPort, state, &trackingCfg, logger)
	if err != nil {
		return err
	}
	defer status.Close()

	eyeSender, err := wire.NewSender(cfg.EyeHost, cfg.EyePort)
	if err != nil {
		return err
	}
	defer eyeSender.Close()

	soundSender, err := wire.NewSender(cfg.SoundHost, cfg.SoundPort)
	if err != nil {
		return err
	}
	defer soundSender.Close()

	wasTracking := false
	lastSample := time.Now().Add(-trackingCfg.UpdateRate)

	for {
		select {
		case <-ctx.Done():
			for _, c := range state.Shutdown() {
				if err := eyeSender.Send(wire.Encode(c)); err != nil {
					logger.Warn("thermaltracker: shutdown send failed", "err", err)
				}
			}
			return nil
		default:
		}

		now := time.Now()
		if now.Sub(lastSample) >= trackingCfg.UpdateRate {
			lastSample = now
			grid, readErr := sensor.Read()
			sensorOK := readErr == nil

			var centroid Centroid
			if sensorOK {
				centroid = ComputeCentroid(grid, trackingCfg.Sensitivity)
			} else {
				logger.Debug("thermaltracker: sensor read failed", "err", readErr)
			}

			cmds := state.Tick(trackingCfg, centroid, sensorOK, now)
			for _, c := range cmds {
				if err := eyeSender.Send(wire.Encode(c)); err != nil {
					logger.Warn("thermaltracker: eye send failed", "err", err)
				}
			}

			nowTracking := state.Snapshot(true).Tracking
			if cfg.EnableDetectionSound && nowTracking && !wasTracking {
				sound := wire.Command{Op: wire.OpSoundPlayRandom}
				if cfg.RandomSound != "" {
					sound = wire.Command{Op: wire.OpSoundPlayFile, Name: cfg.RandomSound}
				}
				if err := soundSender.Send(wire.Encode(sound)); err != nil {
					logger.Warn("thermaltracker: detection sound send failed", "err", err)
				}
			}
			wasTracking = nowTracking
		}

		handled, err := status.ServeOnce(wire.RecvTimeout)
		if err != nil {
			logger.Debug("thermaltracker: status serve failed", "err", err)
		}
		_ = handled
	}
}
