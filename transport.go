package bme280

import (
	"time"

	"github.com/kidoman/embd"
)

// Transport is the byte bus the driver talks through. Reads and writes are
// blocking and return only once the underlying transfer completed or failed;
// bus errors propagate unchanged. Transport binds everything bus specific
// (address, clock, chip select) below this contract.
type Transport interface {
	// ReadReg reads len(buf) bytes starting at register reg.
	ReadReg(reg byte, buf []byte) error
	// WriteReg writes len(buf) bytes starting at register reg.
	WriteReg(reg byte, buf []byte) error
}

// Delayer is optionally implemented by a Transport that wants to control how
// the driver sleeps between status polls. Without it the driver falls back to
// time.Sleep.
type Delayer interface {
	Delay(d time.Duration)
}

// I2CTransport drives the sensor over an embd I2C bus.
type I2CTransport struct {
	Bus     *embd.I2CBus
	Address byte
}

func (t *I2CTransport) ReadReg(reg byte, buf []byte) error {
	return (*t.Bus).ReadFromReg(t.Address, reg, buf)
}

func (t *I2CTransport) WriteReg(reg byte, buf []byte) error {
	return (*t.Bus).WriteToReg(t.Address, reg, buf)
}

// SPITransport drives the sensor over an embd SPI bus. Per the BME280 SPI
// protocol the top bit of the register address selects the direction: set for
// reads, cleared for writes.
type SPITransport struct {
	Bus embd.SPIBus
}

func (t *SPITransport) ReadReg(reg byte, buf []byte) error {
	tx := make([]byte, len(buf)+1)
	tx[0] = reg | 0x80
	if err := t.Bus.TransferAndReceiveData(tx); err != nil {
		return err
	}
	copy(buf, tx[1:])
	return nil
}

func (t *SPITransport) WriteReg(reg byte, buf []byte) error {
	tx := make([]byte, 0, len(buf)+1)
	tx = append(tx, reg&0x7F)
	tx = append(tx, buf...)
	return t.Bus.TransferAndReceiveData(tx)
}

// delay sleeps through the transport when it implements Delayer, so a test
// fake can observe polling without the test actually waiting.
func (d *Device) delay(dur time.Duration) {
	if t, ok := d.transport.(Delayer); ok {
		t.Delay(dur)
		return
	}
	time.Sleep(dur)
}
