package mouthactor

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
)

// PeriphServo drives a servo's PWM input pin via periph.io/x/periph
// (conn/gpio for the signal line, conn/physic for the frequency unit),
// with an optional go-gpiocdev output line to gate power to the servo.
type PeriphServo struct {
	pin    gpio.PinIO
	enable *gpiocdev.Line // nil when no enable line is configured
}

// OpenPeriphServo initialises the periph.io host drivers and opens
// pinName as a PWM-capable output. When enableChip is non-empty, an
// additional go-gpiocdev output line gates servo power.
func OpenPeriphServo(pinName, enableChip string, enableLine int) (*PeriphServo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mouthactor: periph host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("mouthactor: no such gpio pin %q", pinName)
	}

	var enable *gpiocdev.Line
	if enableChip != "" {
		l, err := gpiocdev.RequestLine(enableChip, enableLine, gpiocdev.AsOutput(0))
		if err != nil {
			return nil, fmt.Errorf("mouthactor: requesting enable line: %w", err)
		}
		enable = l
	}

	return &PeriphServo{pin: pin, enable: enable}, nil
}

// SetPulseWidthMicros implements Servo. A width of 0 drops the enable
// line (if any) and parks the pin low, releasing the servo.
func (s *PeriphServo) SetPulseWidthMicros(us int) error {
	if us <= 0 {
		if s.enable != nil {
			if err := s.enable.SetValue(0); err != nil {
				return err
			}
		}
		return s.pin.Out(gpio.Low)
	}
	if s.enable != nil {
		if err := s.enable.SetValue(1); err != nil {
			return err
		}
	}
	const servoFreq = 50 * physic.Hertz
	duty := gpio.Duty(us) * gpio.DutyMax / (1000000 / 50)
	return s.pin.PWM(duty, servoFreq)
}

// Close releases the enable line, if any.
func (s *PeriphServo) Close() error {
	if s.enable != nil {
		return s.enable.Close()
	}
	return nil
}
