package backlightactor

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
)

// PeriphPWM drives a backlight brightness channel through periph.io,
// the same conn/gpio + conn/physic pairing internal/mouthactor uses
// for its servo pin, generalised from a 50Hz servo pulse to a
// configurable-frequency brightness PWM.
type PeriphPWM struct {
	pin      gpio.PinIO
	freq     physic.Frequency
	shutdown *gpiocdev.Line // optional: forces the channel off on boards with no hardware PWM off-state
}

// OpenPeriphPWM opens pinName at freqHz. When shutdownChip is non-
// empty, an additional go-gpiocdev output line is driven high while
// the brightness is 0 and low otherwise, for boards where the PWM
// peripheral has no reliable "off"
// level of its own (SPEC_FULL's note on reusing go-gpiocdev for
// "boards without hardware PWM").
func OpenPeriphPWM(pinName string, freqHz int, shutdownChip string, shutdownLine int) (*PeriphPWM, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("backlightactor: periph host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("backlightactor: no such gpio pin %q", pinName)
	}

	var shutdown *gpiocdev.Line
	if shutdownChip != "" {
		l, err := gpiocdev.RequestLine(shutdownChip, shutdownLine, gpiocdev.AsOutput(0))
		if err != nil {
			return nil, fmt.Errorf("backlightactor: requesting shutdown line: %w", err)
		}
		shutdown = l
	}

	return &PeriphPWM{pin: pin, freq: physic.Frequency(freqHz) * physic.Hertz, shutdown: shutdown}, nil
}

// SetBrightness implements PWM.
func (p *PeriphPWM) SetBrightness(level byte) error {
	duty := gpio.Duty(level) * gpio.DutyMax / 255
	if err := p.pin.PWM(duty, p.freq); err != nil {
		return err
	}
	if p.shutdown != nil {
		off := 0
		if level == 0 {
			off = 1
		}
		return p.shutdown.SetValue(off)
	}
	return nil
}

// Close releases the shutdown line, if any.
func (p *PeriphPWM) Close() error {
	if p.shutdown != nil {
		return p.shutdown.Close()
	}
	return nil
}
