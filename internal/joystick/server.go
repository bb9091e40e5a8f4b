package joystick

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// PollInterval matches the 100ms joystick ticker in other_examples'
// cctv-ptz client.
const PollInterval = 100 * time.Millisecond

// Config bundles everything Run needs to turn one gamepad into two
// UDP command streams plus a recorder feed (spec.md §4.7).
type Config struct {
	DeviceIndex int
	Axes        AxisIndices
	Buttons     ButtonMask
	Mode        RightStickMode

	EyeHost, MouthHost string
	EyePort, MouthPort int
}

func DefaultConfig() Config {
	return Config{
		Axes:      DefaultAxisIndices(),
		Buttons:   DefaultButtonMask(),
		Mode:      RightStickEyelid,
		EyeHost:   "127.0.0.1",
		MouthHost: "127.0.0.1",
		EyePort:   wire.DefaultEyePort,
		MouthPort: wire.DefaultMouthPort,
	}
}

// OpenFunc abstracts device acquisition so Run can be driven by a test
// double or a hot-plug retry loop equally.
type OpenFunc func(index int) (Device, error)

// Run polls the device at PollInterval, applies the Mapper, and sends
// the resulting commands to the eye/mouth actors. If the device
// disappears (hot-unplug) it retries open on each tick rather than
// exiting, since spec.md §4.7 describes the adapter as a long-lived
// process independent of any single gamepad's lifetime.
func Run(ctx context.Context, cfg Config, logger *log.Logger, open OpenFunc, pub *Publisher) error {
	mapper := NewMapper(cfg.Axes, cfg.Buttons, cfg.Mode)

	eyeSender, err := wire.NewSender(cfg.EyeHost, cfg.EyePort)
	if err != nil {
		return err
	}
	defer eyeSender.Close()

	mouthSender, err := wire.NewSender(cfg.MouthHost, cfg.MouthPort)
	if err != nil {
		return err
	}
	defer mouthSender.Close()

	sendOne := func(c wire.Command) {
		buf := wire.Encode(c)
		switch c.Op {
		case wire.OpMouthPosition:
			if err := mouthSender.Send(buf); err != nil {
				logger.Warn("joystick: mouth send failed", "err", err)
			}
		default:
			if err := eyeSender.Send(buf); err != nil {
				logger.Warn("joystick: eye send failed", "err", err)
			}
		}
	}

	queue := NewResendQueue(sendOne)
	defer queue.Close()

	var device Device
	defer func() {
		if device != nil {
			device.Close()
		}
	}()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if device == nil {
			d, err := open(cfg.DeviceIndex)
			if err != nil {
				logger.Debug("joystick: device unavailable", "err", err)
				continue
			}
			device = d
			logger.Info("joystick: device opened", "index", cfg.DeviceIndex)
		}

		raw, err := device.Read()
		if err != nil {
			logger.Warn("joystick: read failed, will retry open", "err", err)
			device.Close()
			device = nil
			continue
		}

		cmds, edges, snapshot := mapper.Update(raw)
		for _, c := range cmds {
			sendOne(c)
		}
		for _, edge := range edges {
			op := edge.EndOp
			if edge.Pressed {
				op = edge.StartOp
			}
			queue.Enqueue(wire.Command{Op: op})
		}
		if pub != nil {
			pub.Publish(snapshot)
		}
	}
}
