package bme280

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regWrite struct {
	reg byte
	val byte
}

// fakeTransport emulates enough of a BME280 behind the Transport contract to
// drive the full init and measurement paths. It implements Delayer so tests
// never actually sleep.
type fakeTransport struct {
	regs     [256]byte
	writes   []regWrite
	readErr  map[byte]error
	writeErr map[byte]error

	// measLatency is the number of status reads after arming a forced
	// conversion before the measuring bit clears.
	measLatency int
	pending     int
	delays      []time.Duration

	// stickyNVM keeps im_update set across a soft reset, simulating an NVM
	// copy that outlives the driver's poll budget.
	stickyNVM bool
}

func newFakeBME280() *fakeTransport {
	f := &fakeTransport{
		readErr:  map[byte]error{},
		writeErr: map[byte]error{},
	}
	f.regs[RegChipID] = ChipID
	f.setCalib(encodeCalib(datasheetCalib()))
	return f
}

func (f *fakeTransport) setCalib(buf1 [26]byte, buf2 [7]byte) {
	copy(f.regs[RegCalib00:], buf1[:])
	copy(f.regs[RegCalib26:], buf2[:])
}

func (f *fakeTransport) setRaw(block [8]byte) {
	copy(f.regs[RegPressMSB:], block[:])
}

func (f *fakeTransport) ReadReg(reg byte, buf []byte) error {
	if err := f.readErr[reg]; err != nil {
		return err
	}
	if reg == RegStatus && f.regs[RegStatus]&statusMeasuring != 0 {
		if f.pending > 0 {
			f.pending--
		}
		if f.pending == 0 {
			f.regs[RegStatus] &^= statusMeasuring
		}
	}
	for i := range buf {
		buf[i] = f.regs[int(reg)+i]
	}
	return nil
}

func (f *fakeTransport) WriteReg(reg byte, buf []byte) error {
	if err := f.writeErr[reg]; err != nil {
		return err
	}
	for i, b := range buf {
		f.writes = append(f.writes, regWrite{reg + byte(i), b})
		f.regs[int(reg)+i] = b
	}
	switch {
	case reg == RegReset && buf[0] == SoftReset:
		if f.stickyNVM {
			f.regs[RegStatus] |= statusIMUpdate
		} else {
			f.regs[RegStatus] &^= statusIMUpdate
		}
	case reg == RegCtrlMeas && Mode(buf[0]&modeMask) == Forced:
		// One-shot: the conversion starts and the device returns to sleep.
		f.regs[RegStatus] |= statusMeasuring
		f.pending = f.measLatency
		f.regs[RegCtrlMeas] &^= modeMask
	}
	return nil
}

func (f *fakeTransport) Delay(d time.Duration) {
	f.delays = append(f.delays, d)
}

// writesTo returns every value written to reg, in order.
func (f *fakeTransport) writesTo(reg byte) []byte {
	var vals []byte
	for _, w := range f.writes {
		if w.reg == reg {
			vals = append(vals, w.val)
		}
	}
	return vals
}

// datasheetCalib is the worked example trim set from the datasheet's
// compensation chapter, extended with plausible humidity coefficients.
func datasheetCalib() calibration {
	return calibration{
		digT1: 27504, digT2: 26435, digT3: -1000,
		digP1: 36477, digP2: -10685, digP3: 3024, digP4: 2855,
		digP5: 140, digP6: -7, digP7: 15500, digP8: -14600, digP9: 6000,
		digH1: 75, digH2: 362, digH3: 0, digH4: 315, digH5: 50, digH6: 30,
	}
}

// encodeCalib lays a coefficient set out as the two NVM byte ranges the
// device serves, including the shared-nibble packing of H4/H5.
func encodeCalib(c calibration) (buf1 [26]byte, buf2 [7]byte) {
	putU16 := func(p []byte, v uint16) {
		p[0] = byte(v)
		p[1] = byte(v >> 8)
	}
	putU16(buf1[0:], c.digT1)
	putU16(buf1[2:], uint16(c.digT2))
	putU16(buf1[4:], uint16(c.digT3))
	putU16(buf1[6:], c.digP1)
	putU16(buf1[8:], uint16(c.digP2))
	putU16(buf1[10:], uint16(c.digP3))
	putU16(buf1[12:], uint16(c.digP4))
	putU16(buf1[14:], uint16(c.digP5))
	putU16(buf1[16:], uint16(c.digP6))
	putU16(buf1[18:], uint16(c.digP7))
	putU16(buf1[20:], uint16(c.digP8))
	putU16(buf1[22:], uint16(c.digP9))
	buf1[24] = c.digH1

	putU16(buf2[0:], uint16(c.digH2))
	buf2[2] = c.digH3
	h4 := uint16(c.digH4) & 0x0FFF
	h5 := uint16(c.digH5) & 0x0FFF
	buf2[3] = byte(h4 >> 4)
	buf2[4] = byte(h5&0x0F)<<4 | byte(h4&0x0F)
	buf2[5] = byte(h5 >> 4)
	buf2[6] = byte(c.digH6)
	return buf1, buf2
}

func TestNewAppliesConservativeDefaults(t *testing.T) {
	f := newFakeBME280()
	d, err := New(f)
	require.NoError(t, err)

	assert.Equal(t, Settings{
		Temperature: Sampling1X,
		Pressure:    Sampling1X,
		Humidity:    Sampling1X,
		Filter:      FilterOff,
		Standby:     Standby1000ms,
		Mode:        Sleep,
	}, d.Settings())

	// osrs_h = 1, osrs_t/osrs_p = 1, mode = sleep, filter off, t_sb = 1 s
	assert.Equal(t, byte(0x01), f.regs[RegCtrlHum])
	assert.Equal(t, byte(0x24), f.regs[RegCtrlMeas])
	assert.Equal(t, byte(0xA0), f.regs[RegConfig])
	assert.True(t, d.calibLoaded)
}

func TestNewRejectsWrongChipID(t *testing.T) {
	f := newFakeBME280()
	f.regs[RegChipID] = 0x58 // a BMP280 answers here

	_, err := New(f)
	assert.ErrorIs(t, err, ErrChipID)
	assert.Empty(t, f.writes, "no register writes after identity mismatch")
}

func TestNewPropagatesBusFailure(t *testing.T) {
	f := newFakeBME280()
	busErr := errors.New("i2c: no ack")
	f.readErr[RegChipID] = busErr

	_, err := New(f)
	assert.ErrorIs(t, err, busErr)
}

func TestSoftResetSoftTimeoutOnStuckNVMCopy(t *testing.T) {
	f := newFakeBME280()
	d, err := New(f)
	require.NoError(t, err)

	f.stickyNVM = true
	f.delays = nil

	err = d.SoftReset()
	require.NoError(t, err, "poll expiry is not an error")
	assert.Len(t, f.delays, 20, "polls the full budget, 2 ms apart")
	for _, dl := range f.delays {
		assert.Equal(t, 2*time.Millisecond, dl)
	}
}

func TestSoftResetAllowsCalibrationReload(t *testing.T) {
	f := newFakeBME280()
	d, err := New(f)
	require.NoError(t, err)

	require.NoError(t, d.SoftReset())
	assert.True(t, d.calibLoaded, "reset alone does not unload calibration")
	require.NoError(t, d.ReadCalibration())
	assert.True(t, d.calibLoaded)
}

func TestChipID(t *testing.T) {
	f := newFakeBME280()
	d, err := New(f)
	require.NoError(t, err)

	id, err := d.ChipID()
	require.NoError(t, err)
	assert.Equal(t, ChipID, id)
}
