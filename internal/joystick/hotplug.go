package joystick

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jochenvg/go-udev"
)

// WatchHotplug subscribes to udev "input" subsystem add/remove events
// and logs them; Run's own open-retry loop is what actually recovers a
// disconnected gamepad, this just gives an operator visibility into
// why (spec.md §4.7 describes the adapter as independent of a single
// gamepad's lifetime, not that it must react instantly to replug).
func WatchHotplug(ctx context.Context, logger *log.Logger) error {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("input"); err != nil {
		return err
	}

	deviceCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil {
				logger.Debug("joystick: udev monitor error", "err", err)
			}
		case dev := <-deviceCh:
			if dev == nil {
				continue
			}
			logger.Info("joystick: udev input event", "action", dev.Action(), "devnode", dev.Devnode())
		}
	}
}
