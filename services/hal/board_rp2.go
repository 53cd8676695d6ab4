//go:build rp2040

package hal

import (
	"context"
	"machine"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
	"tinygo.org/x/drivers/ws2812"

	"costume-go/errcode"
	"costume-go/serial"
	"costume-go/services/config"
	"costume-go/services/fan"
	"costume-go/services/leds"
	"costume-go/services/sensors"
)

const lcdAddress = 0x27

// OpenRP2 configures the RP2040 peripherals named in cfg.
func OpenRP2(ctx context.Context, cfg config.Config) (*Board, error) {
	b := &Board{Name: cfg.Board, Sleep: func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) }}

	var ok bool
	if b.Host, ok = openUART(ctx, cfg.Link.HostUART, cfg.Link.Baud); !ok {
		return nil, errMissing("host uart")
	}
	if b.Menu, ok = openUART(ctx, cfg.Link.MenuUART, cfg.Link.Baud); !ok {
		return nil, errMissing("menu uart")
	}

	for _, n := range cfg.LEDs.Pins {
		pin := machine.Pin(n)
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		d := ws2812.New(pin)
		b.Strips = append(b.Strips, &d)
	}

	pf, err := newPWMFan(machine.Pin(cfg.Fan.PWMPin), cfg.Fan.PWMFreqHz)
	if err != nil {
		println("[hal] fan pwm:", err.Error())
	} else {
		b.Fan = pf
	}
	if t, err := newTach(machine.Pin(cfg.Fan.TachPin)); err != nil {
		println("[hal] fan tach:", err.Error())
	} else {
		b.Tach = t
	}

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.Pin(cfg.Sensor.SDA),
		SCL:       machine.Pin(cfg.Sensor.SCL),
	}); err != nil {
		println("[hal] i2c0 configure:", err.Error())
	}
	switch cfg.Sensor.Kind {
	case "aht20":
		b.Sensor = sensors.NewAHT20(i2c)
	case "shtc3":
		b.Sensor = sensors.NewSHTC3(i2c)
	default:
		b.Sensor = &sensors.Sim{Value: sensors.Reading{TempC: 25, RH: 50}}
	}
	if scr, err := newLCD(i2c); err != nil {
		println("[hal] lcd:", err.Error())
	} else {
		b.Screen = scr
	}

	b.Store = NewFlashStore(fan.StoreKey)
	return b, b.Validate()
}

func openUART(ctx context.Context, u config.UARTPins, baud uint32) (serial.Port, bool) {
	id := "uart0"
	if u.ID == 1 {
		id = "uart1"
	}
	p, ok := serial.OpenUART(ctx, serial.UARTConfig{
		ID:   id,
		Baud: baud,
		TX:   machine.Pin(u.TX),
		RX:   machine.Pin(u.RX),
	})
	if !ok {
		return nil, false
	}
	return p, true
}

// -----------------------------------------------------------------------------
// Fan PWM and tachometer
// -----------------------------------------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type pwmFan struct {
	ctrl pwmCtrl
	ch   uint8
}

var _ fan.Output = (*pwmFan)(nil)

func newPWMFan(pin machine.Pin, freqHz uint32) (*pwmFan, error) {
	if freqHz == 0 {
		return nil, errcode.New(errcode.InvalidConfig, "fan pwm", "zero frequency")
	}
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, err
	}
	ctrl := pwmGroupBySlice(slice)
	if err := ctrl.Configure(machine.PWMConfig{Period: uint64(time.Second) / uint64(freqHz)}); err != nil {
		return nil, err
	}
	ch, err := ctrl.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &pwmFan{ctrl: ctrl, ch: ch}, nil
}

func (f *pwmFan) SetPercent(p uint8) error {
	if p > 100 {
		p = 100
	}
	f.ctrl.Set(f.ch, f.ctrl.Top()*uint32(p)/100)
	return nil
}

// tach counts falling edges from the fan's open-collector output.
type tach struct {
	n atomic.Uint32
}

var _ fan.Tach = (*tach)(nil)

func newTach(pin machine.Pin) (*tach, error) {
	t := &tach{}
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	if err := pin.SetInterrupt(machine.PinFalling, func(machine.Pin) { t.n.Add(1) }); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tach) Count() uint32 { return t.n.Load() }

// -----------------------------------------------------------------------------
// Character LCD
// -----------------------------------------------------------------------------

type lcd struct {
	dev hd44780i2c.Device
}

func newLCD(bus drivers.I2C) (*lcd, error) {
	l := &lcd{dev: hd44780i2c.New(bus, lcdAddress)}
	if err := l.dev.Configure(hd44780i2c.Config{Width: 20, Height: 4}); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *lcd) WriteLine(row int, text string) error {
	l.dev.SetCursor(0, uint8(row))
	l.dev.Print([]byte(text))
	return nil
}

func (l *lcd) SetBacklight(on bool) error {
	l.dev.BacklightOn(on)
	return nil
}
