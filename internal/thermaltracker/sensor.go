// Package thermaltracker reads an 8x8 thermal sensor, computes a
// temperature-weighted centroid, and drives the eye actor with
// takeover/release hysteresis (spec.md §4.6).
package thermaltracker

import "errors"

// GridSize is the sensor's row/column count.
const GridSize = 8

// ErrSensorRead is returned by Sensor.Read on any I/O failure; the
// tracker treats the tick as "no detection" and retries next tick
// (spec.md §4.6, §7).
var ErrSensorRead = errors.New("thermaltracker: sensor read failed")

// Sensor reads one 8x8 grid of temperatures in degrees Celsius, row-
// major, rows top-to-bottom and columns left-to-right. The real
// implementation, AMG8833, wraps periph.io/x/periph/conn/i2c.
type Sensor interface {
	Read() ([GridSize * GridSize]float64, error)
}

// gridCoords are the eight coordinates used for both rows and columns
// (spec.md §4.6): {+3.5, +2.5, ..., -3.5}.
var gridCoords = [GridSize]float64{3.5, 2.5, 1.5, 0.5, -0.5, -1.5, -2.5, -3.5}
