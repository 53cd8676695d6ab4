// Package hal assembles the board: LED strips, fan, sensor, screen, blob
// store and the two serial links, for either the RP2040 or the host
// simulator.
package hal

import (
	"costume-go/errcode"
	"costume-go/serial"
	"costume-go/services/config"
	"costume-go/services/display"
	"costume-go/services/fan"
	"costume-go/services/leds"
	"costume-go/services/sensors"
)

// Board is the hardware the controller runs on. Optional parts are nil.
type Board struct {
	Name   string
	Host   serial.Port
	Menu   serial.Port
	Strips []leds.Strip
	Fan    fan.Output
	Tach   fan.Tach
	Sensor sensors.Sensor
	Screen display.Screen
	Store  config.Store
	// Sleep blocks for ms; used only during startup.
	Sleep func(ms uint32)
}

// Validate reports a board missing a part the controller cannot run without.
func (b *Board) Validate() error {
	switch {
	case b.Host == nil:
		return errMissing("host link")
	case b.Menu == nil:
		return errMissing("menu link")
	case b.Sensor == nil:
		return errMissing("sensor")
	case b.Store == nil:
		return errMissing("store")
	}
	return nil
}

func errMissing(part string) error {
	return errcode.New(errcode.NotFound, "board", part+" not configured")
}
