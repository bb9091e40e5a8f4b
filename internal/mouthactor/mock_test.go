package mouthactor

// mockServo records every pulse width written to it, a narrow hardware
// interface double used across this package's tests.
type mockServo struct {
	writes []int
}

func (m *mockServo) SetPulseWidthMicros(us int) error {
	m.writes = append(m.writes, us)
	return nil
}
