package bme280

// Fixed-point compensation from the datasheet, section 4.2.3. The shift
// amounts and additive constants are the reference implementation's and must
// not be "simplified"; the outputs are bit-exact against Bosch's C code for
// identical inputs. Every function returns 0 while the calibration has not
// been loaded, so compensating a fresh device is defined rather than garbage.

// CompensateTemperature converts a raw 20 bit temperature sample to degrees
// Celsius. It also refreshes the fine temperature term that the pressure and
// humidity conversions depend on, so in a measurement cycle it has to run
// before either of them.
func (d *Device) CompensateTemperature(raw int32) float64 {
	if !d.calibLoaded {
		return 0
	}
	var1 := (((raw >> 3) - int32(d.calib.digT1)<<1) * int32(d.calib.digT2)) >> 11
	var2 := (((((raw >> 4) - int32(d.calib.digT1)) * ((raw >> 4) - int32(d.calib.digT1))) >> 12) * int32(d.calib.digT3)) >> 14
	d.tFine = var1 + var2
	t := float64(d.tFine*5+128) / 256 // centidegrees
	return t / 100
}

// CompensatePressure converts a raw 20 bit pressure sample to Pascal using
// 64 bit intermediates. A degenerate calibration (P1 == 0) would make the
// formula divide by zero; that case yields 0 instead.
func (d *Device) CompensatePressure(raw int32) float64 {
	if !d.calibLoaded {
		return 0
	}
	var1 := int64(d.tFine) - 128000
	var2 := var1 * var1 * int64(d.calib.digP6)
	var2 += (var1 * int64(d.calib.digP5)) << 17
	var2 += int64(d.calib.digP4) << 35
	var1 = ((var1 * var1 * int64(d.calib.digP3)) >> 8) + ((var1 * int64(d.calib.digP2)) << 12)
	var1 = ((int64(1) << 47) + var1) * int64(d.calib.digP1) >> 33
	if var1 == 0 {
		return 0
	}
	p := int64(1048576) - int64(raw)
	p = ((p<<31 - var2) * 3125) / var1
	var1 = (int64(d.calib.digP9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(d.calib.digP8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + int64(d.calib.digP7)<<4
	return float64(p) / 256 // Pa
}

// CompensateHumidity converts a raw 16 bit humidity sample to percent
// relative humidity. The intermediate is clamped to the representable range
// before the final division (overflow guard for the fixed-point stage) and
// the result is clamped again to [0, 100] (the physical range contract).
func (d *Device) CompensateHumidity(raw int32) float64 {
	if !d.calibLoaded {
		return 0
	}
	x := d.tFine - 76800
	x = (((raw<<14 - int32(d.calib.digH4)<<20 - int32(d.calib.digH5)*x) + 16384) >> 15) *
		(((((((x*int32(d.calib.digH6))>>10)*(((x*int32(d.calib.digH3))>>11)+32768))>>10)+2097152)*int32(d.calib.digH2) + 8192) >> 14)
	x -= ((((x >> 15) * (x >> 15)) >> 7) * int32(d.calib.digH1)) >> 4
	if x < 0 {
		x = 0
	}
	if x > 419430400 {
		x = 419430400
	}
	h := float64(x>>12) / 1024
	if h > 100 {
		h = 100
	} else if h < 0 {
		h = 0
	}
	return h
}
