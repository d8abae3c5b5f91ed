// Package sensors provides a uniform event/descriptor interface over
// environmental sensor drivers, so consumers (an exporter, a logger, a test
// harness) need not know the concrete sensor type.
package sensors

import "time"

// Quantity identifies the physical quantity an event or descriptor refers to.
type Quantity int

const (
	Temperature Quantity = iota // degrees Celsius
	Pressure                    // hPa
	Humidity                    // percent relative humidity
)

func (q Quantity) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Pressure:
		return "pressure"
	case Humidity:
		return "humidity"
	}
	return "unknown"
}

// Event is one timestamped measurement. The quantity tag and the value travel
// together, so they cannot disagree.
type Event struct {
	Quantity Quantity
	Time     time.Time
	Value    float64
}

// Descriptor is the static metadata of one measured quantity.
type Descriptor struct {
	Name       string
	ID         int32
	Quantity   Quantity
	Min        float64
	Max        float64
	Resolution float64       // smallest difference between two values
	MinDelay   time.Duration // minimum interval between events
	InitDelay  time.Duration // settling time after power up
}

// Sensor produces events for exactly one quantity.
type Sensor interface {
	// Event triggers a measurement and returns its result.
	Event() (Event, error)
	// Describe returns the quantity's static range/resolution/timing data.
	Describe() Descriptor
}
