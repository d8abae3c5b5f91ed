package bme280

import (
	"errors"
	"time"

	"github.com/kidoman/embd"
)

var (
	// ErrChipID means the probed chip id register did not answer 0x60. The
	// transport binding is wired to something else (or nothing); retry with a
	// different address or bus, not the same one.
	ErrChipID = errors.New("bme280: chip id mismatch, device is not a BME280")

	// ErrInvalidArg means an enumerated setting was out of range.
	ErrInvalidArg = errors.New("bme280: setting out of range")
)

const (
	resetPollMax      = 20
	resetPollInterval = 2 * time.Millisecond
	measPollMax       = 50
	measPollInterval  = 5 * time.Millisecond
)

// Settings mirrors the device configuration last written successfully.
type Settings struct {
	Temperature Oversampling
	Pressure    Oversampling
	Humidity    Oversampling
	Filter      FilterCoefficient
	Standby     StandbyTime
	Mode        Mode
}

// Device is one physical BME280 bound to a Transport. It owns the transport
// for its lifetime. Device is not internally synchronized: callers invoking
// operations from multiple goroutines must serialize access themselves, or
// interleaved register read-modify-writes will corrupt the settings.
type Device struct {
	transport Transport

	calib       calibration
	calibLoaded bool

	settings Settings

	// Fine temperature term carried from a temperature compensation to the
	// pressure and humidity compensation of the same measurement cycle.
	tFine int32
}

// New binds a transport, verifies chip identity, soft resets the sensor,
// loads its factory calibration and applies a conservative default
// configuration: x1 oversampling on all axes, filter off, 1 s standby, sleep
// mode. Anything faster must be escalated explicitly by the caller.
func New(t Transport) (*Device, error) {
	d := &Device{transport: t}

	id, err := d.ChipID()
	if err != nil {
		return nil, err
	}
	if id != ChipID {
		return nil, ErrChipID
	}

	if err := d.SoftReset(); err != nil {
		return nil, err
	}
	if err := d.ReadCalibration(); err != nil {
		return nil, err
	}

	if err := d.SetOversampling(Sampling1X, Sampling1X, Sampling1X); err != nil {
		return nil, err
	}
	if err := d.SetFilter(FilterOff); err != nil {
		return nil, err
	}
	if err := d.SetStandby(Standby1000ms); err != nil {
		return nil, err
	}
	if err := d.SetMode(Sleep); err != nil {
		return nil, err
	}
	return d, nil
}

// NewI2C looks for a BME280 on the given bus at one of the two conventional
// addresses, strap-low first.
func NewI2C(bus *embd.I2CBus) (*Device, error) {
	dev, err := New(&I2CTransport{Bus: bus, Address: Address1})
	if err != nil { // Maybe SDO is strapped high, try the other address
		dev, err = New(&I2CTransport{Bus: bus, Address: Address2})
	}
	return dev, err
}

// ChipID reads the sensor's identity register.
func (d *Device) ChipID() (byte, error) {
	return d.readReg(RegChipID)
}

// SoftReset restores the power-on register state. Configuration is lost and
// must be rewritten; calibration survives in NVM and can be reloaded with
// ReadCalibration.
func (d *Device) SoftReset() error {
	if err := d.writeReg(RegReset, SoftReset); err != nil {
		return err
	}
	// Wait for the NVM copy. The datasheet quotes 2 ms; poll im_update
	// instead of sleeping blind, and proceed even if it never clears.
	for i := 0; i < resetPollMax; i++ {
		st, err := d.readReg(RegStatus)
		if err != nil {
			return err
		}
		if st&statusIMUpdate == 0 {
			break
		}
		d.delay(resetPollInterval)
	}
	return nil
}

// Settings returns the configuration mirror as of the last successful write.
func (d *Device) Settings() Settings {
	return d.settings
}

func (d *Device) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := d.transport.ReadReg(reg, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	return d.transport.WriteReg(reg, []byte{val})
}

// updateBits masks val into reg, skipping the bus write when the register
// already holds the wanted byte. Reports whether a write was issued.
func (d *Device) updateBits(reg, mask, val byte) (bool, error) {
	cur, err := d.readReg(reg)
	if err != nil {
		return false, err
	}
	next := cur&^mask | val&mask
	if next == cur {
		return false, nil
	}
	return true, d.writeReg(reg, next)
}
