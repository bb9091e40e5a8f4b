// Package joystick reads a local gamepad, maps stick and button state
// onto the animatronic control surface, and republishes the result
// both as outbound UDP commands and as snapshots for the recorder
// (spec.md §4.7).
package joystick

import (
	simjoy "github.com/simulatedsimian/joystick"
)

// AxisMax is the full-scale magnitude the Linux joystick driver
// reports for an analog stick at full deflection (a centred stick
// reads 0), matching the xbox-pad constants
// in other_examples' cctv-ptz joystick client.
const AxisMax = 32767

// RawState is one poll of the device: raw axis counts and a button
// bitmask, independent of any particular gamepad's button layout.
type RawState struct {
	AxisData []int
	Buttons  uint32
}

// Device abstracts simulatedsimian/joystick.Joystick so Run can be
// tested against a fake without a real /dev/input/jsN node.
type Device interface {
	Read() (RawState, error)
	Close()
}

type hardwareDevice struct {
	js simjoy.Joystick
}

// Open binds /dev/input/js<index>.
func Open(index int) (Device, error) {
	js, err := simjoy.Open(index)
	if err != nil {
		return nil, err
	}
	return &hardwareDevice{js: js}, nil
}

func (h *hardwareDevice) Read() (RawState, error) {
	s, err := h.js.Read()
	if err != nil {
		return RawState{}, err
	}
	return RawState{AxisData: s.AxisData, Buttons: s.Buttons}, nil
}

func (h *hardwareDevice) Close() { h.js.Close() }
