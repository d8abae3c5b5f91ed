package bme280

// calibration holds the factory trim values, datasheet names, read once from
// NVM. Immutable after loading.
type calibration struct {
	digT1 uint16
	digT2 int16
	digT3 int16

	digP1 uint16
	digP2 int16
	digP3 int16
	digP4 int16
	digP5 int16
	digP6 int16
	digP7 int16
	digP8 int16
	digP9 int16

	digH1 uint8
	digH2 int16
	digH3 uint8
	digH4 int16
	digH5 int16
	digH6 int8
}

func u16le(p []byte) uint16 { return uint16(p[0]) | uint16(p[1])<<8 }
func s16le(p []byte) int16  { return int16(u16le(p)) }

// signExtend12 widens a 12 bit two's complement value to int16.
func signExtend12(v uint16) int16 {
	if v&0x0800 != 0 {
		v |= 0xF000
	}
	return int16(v)
}

// ReadCalibration loads the two calibration ranges from the device and
// decodes them into coefficients. New calls this once per device lifetime;
// call it again only after an explicit SoftReset. If either bus read fails
// nothing is decoded and the loaded flag is left untouched, so a device that
// never calibrated keeps compensating to 0.
func (d *Device) ReadCalibration() error {
	var buf1 [26]byte // 0x88..0xA1
	if err := d.transport.ReadReg(RegCalib00, buf1[:]); err != nil {
		return err
	}
	var buf2 [7]byte // 0xE1..0xE7; the gap in between holds control registers
	if err := d.transport.ReadReg(RegCalib26, buf2[:]); err != nil {
		return err
	}

	c := &d.calib
	c.digT1 = u16le(buf1[0:])
	c.digT2 = s16le(buf1[2:])
	c.digT3 = s16le(buf1[4:])

	c.digP1 = u16le(buf1[6:])
	c.digP2 = s16le(buf1[8:])
	c.digP3 = s16le(buf1[10:])
	c.digP4 = s16le(buf1[12:])
	c.digP5 = s16le(buf1[14:])
	c.digP6 = s16le(buf1[16:])
	c.digP7 = s16le(buf1[18:])
	c.digP8 = s16le(buf1[20:])
	c.digP9 = s16le(buf1[22:])

	c.digH1 = buf1[24]

	c.digH2 = s16le(buf2[0:])
	c.digH3 = buf2[2]
	// H4 and H5 are 12 bit values sharing the two nibbles of 0xE5:
	// H4 = 0xE4[7:0] . 0xE5[3:0], H5 = 0xE6[7:0] . 0xE5[7:4]
	c.digH4 = signExtend12(uint16(buf2[3])<<4 | uint16(buf2[4]&0x0F))
	c.digH5 = signExtend12(uint16(buf2[5])<<4 | uint16(buf2[4]>>4))
	c.digH6 = int8(buf2[6])

	d.calibLoaded = true
	return nil
}
