// Package bme280 provides a driver for Bosch's BME280 combined digital humidity, pressure & temperature sensor.
// The datasheet can be found here: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bme280-ds002.pdf
package bme280

// The sensor answers on one of two 7-bit I2C addresses depending on how the SDO pin is strapped.
const (
	Address1 byte = 0x76 // SDO strapped low
	Address2 byte = 0x77 // SDO strapped high
)

const (
	RegChipID   byte = 0xD0 // useful for checking the connection
	RegReset    byte = 0xE0 // write-only, accepts only SoftReset
	RegCtrlHum  byte = 0xF2 // humidity oversampling; latched by the next ctrl_meas write
	RegStatus   byte = 0xF3 // conversion / NVM copy status bits
	RegCtrlMeas byte = 0xF4 // temperature & pressure oversampling plus power mode
	RegConfig   byte = 0xF5 // IIR filter & standby time
	RegPressMSB byte = 0xF7 // start of the 8 byte raw data block (press, temp, hum)
	RegCalib00  byte = 0x88 // first calibration range, 0x88..0xA1 (26 bytes)
	RegCalib26  byte = 0xE1 // second calibration range, 0xE1..0xE7 (7 bytes)
)

const (
	ChipID    byte = 0x60 // correct response if reading from chip id register
	SoftReset byte = 0xB6 // command to reset all user configuration

	statusMeasuring byte = 0x08 // a conversion is running
	statusIMUpdate  byte = 0x01 // NVM data is being copied to registers
)

// Oversampling applies per measured axis before internal averaging. Higher
// values increase precision at the cost of conversion time and current draw.
type Oversampling byte

const (
	SamplingSkip Oversampling = iota // axis disabled, raw reads back 0x80000
	Sampling1X
	Sampling2X
	Sampling4X
	Sampling8X
	Sampling16X
)

// FilterCoefficient selects the IIR smoothing applied to successive raw
// readings. Higher values mean steadier output but slower reaction times.
type FilterCoefficient byte

const (
	FilterOff FilterCoefficient = iota
	Filter2
	Filter4
	Filter8
	Filter16
)

// StandbyTime is the idle interval between conversions in normal mode.
type StandbyTime byte

const (
	Standby500us StandbyTime = iota // 0.5 ms
	Standby62ms5                    // 62.5 ms
	Standby125ms
	Standby250ms
	Standby500ms
	Standby1000ms
	Standby10ms
	Standby20ms
)

// Mode is the sensor power mode. The difference between forced and normal mode
// is that the BME280 goes back to sleep after taking a single measurement in
// forced mode; in normal mode it free-runs at the configured standby interval.
type Mode byte

const (
	Sleep  Mode = 0x00
	Forced Mode = 0x01
	Normal Mode = 0x03
)
