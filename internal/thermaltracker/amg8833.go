package thermaltracker

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
)

// amg8833Addr is the Panasonic Grid-EYE AMG8833's default I2C address.
const amg8833Addr = 0x69

// amg8833PixelBase is the first pixel temperature register; each of
// the 64 pixels occupies two little-endian bytes, a 12-bit signed
// value in 0.25C units.
const amg8833PixelBase = 0x80

// AMG8833 wraps an i2c.Bus, giving Sensor its real hardware
// implementation.
type AMG8833 struct {
	dev *i2c.Dev
}

// OpenAMG8833 opens a handle to the sensor on bus.
func OpenAMG8833(bus i2c.Bus) *AMG8833 {
	return &AMG8833{dev: &i2c.Dev{Bus: bus, Addr: amg8833Addr}}
}

// Read implements Sensor: one 8x8 grid, row-major, degrees Celsius.
func (a *AMG8833) Read() ([GridSize * GridSize]float64, error) {
	var out [GridSize * GridSize]float64

	buf := make([]byte, GridSize*GridSize*2)
	if err := a.dev.Tx([]byte{amg8833PixelBase}, buf); err != nil {
		return out, fmt.Errorf("%w: %v", ErrSensorRead, err)
	}

	for i := 0; i < GridSize*GridSize; i++ {
		raw := int16(buf[2*i]) | int16(buf[2*i+1])<<8
		// 12-bit signed magnitude in the low bits; sign is bit 11.
		if raw&0x0800 != 0 {
			raw = -(raw &^ 0xF800)
		}
		out[i] = float64(raw) * 0.25
	}
	return out, nil
}
