package bme280

// Reading is a single compensated measurement in SI units. Nothing is
// retained between readings.
type Reading struct {
	Temperature float64 // degrees Celsius
	Pressure    float64 // Pascal
	Humidity    float64 // percent relative humidity, 0..100
}

// ReadRaw pulls the 8 byte data block in one burst and reassembles the ADC
// counts: pressure and temperature are 20 bit (the xlsb low nibble is
// register padding, not data), humidity is 16 bit.
func (d *Device) ReadRaw() (adcT, adcP, adcH int32, err error) {
	var buf [8]byte
	if err = d.transport.ReadReg(RegPressMSB, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	adcP = int32(buf[0])<<12 | int32(buf[1])<<4 | int32(buf[2])>>4
	adcT = int32(buf[3])<<12 | int32(buf[4])<<4 | int32(buf[5])>>4
	adcH = int32(buf[6])<<8 | int32(buf[7])
	return adcT, adcP, adcH, nil
}

// Read takes one measurement according to the current settings. In forced
// mode it re-arms the one-shot conversion and waits for it to finish; in
// normal mode the device samples on its own schedule and the data registers
// are read directly. Compensation runs temperature first so the fine
// temperature term is fresh for pressure and humidity.
func (d *Device) Read() (Reading, error) {
	if d.settings.Mode == Forced {
		// The previous one-shot dropped the device back to sleep.
		if err := d.SetMode(Forced); err != nil {
			return Reading{}, err
		}
		if err := d.waitMeasuring(); err != nil {
			return Reading{}, err
		}
	}

	adcT, adcP, adcH, err := d.ReadRaw()
	if err != nil {
		return Reading{}, err
	}

	var r Reading
	r.Temperature = d.CompensateTemperature(adcT)
	r.Pressure = d.CompensatePressure(adcP)
	r.Humidity = d.CompensateHumidity(adcH)
	return r, nil
}

// waitMeasuring polls the measuring status bit until it clears or the bound
// runs out. Running out is not a failure: the data registers still hold the
// previous conversion, so we fall through and the caller gets a possibly
// stale reading. Callers seeing that happen repeatedly should suspect the
// configured conversion time exceeds the poll budget.
func (d *Device) waitMeasuring() error {
	for i := 0; i < measPollMax; i++ {
		st, err := d.readReg(RegStatus)
		if err != nil {
			return err
		}
		if st&statusMeasuring == 0 {
			break
		}
		d.delay(measPollInterval)
	}
	return nil
}
