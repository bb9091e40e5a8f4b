package mouthactor

// Servo drives a single PWM-controlled servo. The real implementation
// wraps periph.io/x/periph's GPIO/PWM pins; tests use a recording fake.
type Servo interface {
	// SetPulseWidthMicros drives the servo at the given pulse width in
	// microseconds at 50Hz. A width of 0 releases the servo.
	SetPulseWidthMicros(us int) error
}

// Mapping holds the linear position->PWM mapping (spec.md §4.3):
// [0,255] -> [PWMMin,PWMMax] PWM ticks, times 10 for microseconds at
// 50Hz.
type Mapping struct {
	PWMMin, PWMMax int
}

// DefaultMapping matches spec.md §6's documented defaults.
func DefaultMapping() Mapping {
	return Mapping{PWMMin: 102, PWMMax: 180}
}

// PulseWidthMicros converts a quantised mouth position to a pulse
// width in microseconds.
func (m Mapping) PulseWidthMicros(pos byte) int {
	span := m.PWMMax - m.PWMMin
	ticks := m.PWMMin + int(float64(pos)/255*float64(span)+0.5)
	return ticks * 10
}
