package bme280

// Register bit layout: ctrl_hum osrs_h[2:0]; ctrl_meas osrs_t[7:5]
// osrs_p[4:2] mode[1:0]; config t_sb[7:5] filter[4:2].
const (
	osrsHumMask = 0x07
	modeMask    = 0x03
	filterMask  = 0x1C
	standbyMask = 0xE0
)

// SetOversampling configures the per-axis oversampling. The device only
// latches a new ctrl_hum value on the next ctrl_meas write, so ctrl_hum is
// always written first and ctrl_meas is rewritten whenever ctrl_hum changed,
// even if its own byte did not.
func (d *Device) SetOversampling(temp, press, hum Oversampling) error {
	if temp > Sampling16X || press > Sampling16X || hum > Sampling16X {
		return ErrInvalidArg
	}

	humChanged, err := d.updateBits(RegCtrlHum, osrsHumMask, byte(hum))
	if err != nil {
		return err
	}

	cur, err := d.readReg(RegCtrlMeas)
	if err != nil {
		return err
	}
	next := cur&modeMask | byte(temp)<<5 | byte(press)<<2
	if next != cur || humChanged {
		if err := d.writeReg(RegCtrlMeas, next); err != nil {
			return err
		}
	}

	d.settings.Temperature = temp
	d.settings.Pressure = press
	d.settings.Humidity = hum
	return nil
}

// SetFilter configures the IIR filter coefficient.
func (d *Device) SetFilter(f FilterCoefficient) error {
	if f > Filter16 {
		return ErrInvalidArg
	}
	if _, err := d.updateBits(RegConfig, filterMask, byte(f)<<2); err != nil {
		return err
	}
	d.settings.Filter = f
	return nil
}

// SetStandby configures the idle interval between conversions in normal mode.
func (d *Device) SetStandby(s StandbyTime) error {
	if s > Standby20ms {
		return ErrInvalidArg
	}
	if _, err := d.updateBits(RegConfig, standbyMask, byte(s)<<5); err != nil {
		return err
	}
	d.settings.Standby = s
	return nil
}

// SetMode switches the power mode. Every transition is allowed; only an
// out-of-range value is rejected. Writing Forced while the register already
// reads sleep (the device drops back to sleep after a one-shot) arms the next
// conversion.
func (d *Device) SetMode(m Mode) error {
	if m != Sleep && m != Forced && m != Normal {
		return ErrInvalidArg
	}
	if _, err := d.updateBits(RegCtrlMeas, modeMask, byte(m)); err != nil {
		return err
	}
	d.settings.Mode = m
	return nil
}
