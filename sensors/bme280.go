package sensors

import (
	"time"

	"github.com/pkg/errors"

	"github.com/b3nn0/bme280"
)

// BME280Sensor exposes one quantity of a BME280 through the Sensor interface.
// The three adapters over one device share its transport and are therefore
// subject to the device's serialization rule: don't poll them concurrently.
type BME280Sensor struct {
	dev      *bme280.Device
	id       int32
	quantity Quantity
}

// NewBME280Temperature wraps dev as a temperature sensor.
func NewBME280Temperature(dev *bme280.Device, id int32) *BME280Sensor {
	return &BME280Sensor{dev: dev, id: id, quantity: Temperature}
}

// NewBME280Pressure wraps dev as a pressure sensor reporting hPa.
func NewBME280Pressure(dev *bme280.Device, id int32) *BME280Sensor {
	return &BME280Sensor{dev: dev, id: id, quantity: Pressure}
}

// NewBME280Humidity wraps dev as a relative humidity sensor.
func NewBME280Humidity(dev *bme280.Device, id int32) *BME280Sensor {
	return &BME280Sensor{dev: dev, id: id, quantity: Humidity}
}

func (s *BME280Sensor) Event() (Event, error) {
	r, err := s.dev.Read()
	if err != nil {
		return Event{}, errors.Wrapf(err, "reading %s", s.quantity)
	}
	ev := Event{Quantity: s.quantity, Time: time.Now()}
	switch s.quantity {
	case Temperature:
		ev.Value = r.Temperature
	case Pressure:
		ev.Value = r.Pressure / 100 // Pa -> hPa
	case Humidity:
		ev.Value = r.Humidity
	}
	return ev, nil
}

// Describe returns the datasheet operating range and resolution for the
// wrapped quantity.
func (s *BME280Sensor) Describe() Descriptor {
	d := Descriptor{
		Name:      "BME280",
		ID:        s.id,
		Quantity:  s.quantity,
		InitDelay: 2 * time.Millisecond,
	}
	switch s.quantity {
	case Temperature:
		d.Min, d.Max, d.Resolution = -40, 85, 0.01
	case Pressure:
		d.Min, d.Max, d.Resolution = 300, 1100, 0.16 // hPa
	case Humidity:
		d.Min, d.Max, d.Resolution = 0, 100, 1
	}
	return d
}
