package bme280

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCalibrationDecodesCoefficients(t *testing.T) {
	f := newFakeBME280()
	want := datasheetCalib()
	f.setCalib(encodeCalib(want))

	d := &Device{transport: f}
	require.NoError(t, d.ReadCalibration())

	assert.Equal(t, want, d.calib)
	assert.True(t, d.calibLoaded)
}

func TestReadCalibrationSignExtendsPackedFields(t *testing.T) {
	cases := []struct {
		name   string
		h4, h5 int16
	}{
		{"both positive", 315, 50},
		{"most negative", -2048, -2048},
		{"minus one", -1, -1},
		{"boundary positive", 2047, 2047},
		{"bit 11 set", -1365, -1365},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeBME280()
			c := datasheetCalib()
			c.digH4, c.digH5 = tc.h4, tc.h5
			f.setCalib(encodeCalib(c))

			d := &Device{transport: f}
			require.NoError(t, d.ReadCalibration())
			assert.Equal(t, tc.h4, d.calib.digH4)
			assert.Equal(t, tc.h5, d.calib.digH5)
		})
	}
}

func TestReadCalibrationFailureLeavesUnloaded(t *testing.T) {
	busErr := errors.New("spi: transfer failed")

	for _, reg := range []byte{RegCalib00, RegCalib26} {
		f := newFakeBME280()
		f.readErr[reg] = busErr

		d := &Device{transport: f}
		err := d.ReadCalibration()
		assert.ErrorIs(t, err, busErr)
		assert.False(t, d.calibLoaded)
		assert.Zero(t, d.CompensateTemperature(519888), "uncalibrated compensation stays neutral")
	}
}

func TestSignExtend12(t *testing.T) {
	assert.Equal(t, int16(0), signExtend12(0x000))
	assert.Equal(t, int16(2047), signExtend12(0x7FF))
	assert.Equal(t, int16(-2048), signExtend12(0x800))
	assert.Equal(t, int16(-1), signExtend12(0xFFF))
}
