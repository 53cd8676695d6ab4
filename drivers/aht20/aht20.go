// Package aht20 provides a driver for the AHT20 temperature/humidity sensor.
// It exposes a two-phase measurement API so a cooperative loop never waits
// on the conversion:
//
//	d.Trigger()              // start a measurement (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
//
// Conversions are fixed-point: deci-°C and hundredths of %RH.
package aht20

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x38

// Commands and status bits.
const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// ConversionMs is the nominal time between Trigger and a ready sample.
const ConversionMs = 80

var (
	ErrNotReady = errors.New("aht20: not ready")
	ErrNoDevice = errors.New("aht20: no device")
)

// Device wraps an I2C connection to an AHT20 device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	buf         [7]byte
	initialised bool
}

// New creates the Device without touching the bus.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// Configure calibrates the device if its status says it is not yet
// calibrated. The device needs ~10 ms after this before a Trigger.
func (d *Device) Configure() error {
	st, err := d.Status()
	if err != nil {
		return ErrNoDevice
	}
	d.initialised = true
	if st&statusCalibrated != 0 {
		return nil
	}
	return d.bus.Tx(d.Address, []byte{cmdInitialize, 0x08, 0x00}, nil)
}

// Reset issues a soft reset. Give the device ~20 ms before using it again.
func (d *Device) Reset() error {
	d.initialised = false
	return d.bus.Tx(d.Address, []byte{cmdSoftReset}, nil)
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.Address, []byte{cmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Trigger starts a measurement; it does not wait for the conversion.
func (d *Device) Trigger() error {
	if !d.initialised {
		if err := d.Configure(); err != nil {
			return err
		}
	}
	return d.bus.Tx(d.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// Collect reads one measurement into out. ErrNotReady means the conversion
// is still running; bus errors are returned as-is.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return err
	}
	if (data[0]&statusCalibrated) == 0 || (data[0]&statusBusy) != 0 {
		return ErrNotReady
	}
	out.RawHumidity = (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4)
	out.RawTemp = (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5])
	return nil
}

// Sample holds raw 20-bit readings.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciCelsius returns tenths of °C.
func (s Sample) DeciCelsius() int32 {
	return int32((int64(s.RawTemp)*2000)/0x100000) - 500
}

// RHx100 returns hundredths of %RH.
func (s Sample) RHx100() int32 {
	return int32((int64(s.RawHumidity) * 10000) / 0x100000)
}

func (s Sample) Celsius() float32 { return float32(s.RawTemp)*200/0x100000 - 50 }

func (s Sample) RelHumidity() float32 { return float32(s.RawHumidity) * 100 / 0x100000 }
