//go:build !tinygo

package hal

import (
	"context"
	"io"
	"time"

	"costume-go/serial"
	"costume-go/services/config"
	"costume-go/services/leds"
	"costume-go/services/sensors"
	"costume-go/x/timex"
)

// HostOptions are the parts of a simulated board the caller supplies.
type HostOptions struct {
	Clock timex.Clock
	// StoreDir keeps blobs on disk; empty keeps them in memory.
	StoreDir string
	// Stdio is used as the host link when cfg.Link.HostPort is empty.
	Stdin  io.Reader
	Stdout io.Writer
	// OnScreen receives display row changes.
	OnScreen func(row int, text string)
}

// HostParts exposes the simulated peripherals for inspection.
type HostParts struct {
	Menu   *MenuSim // nil when a real menu port is open
	Fan    *SimFan
	Sensor *sensors.Sim
	Strips []*RecordingStrip
	Screen *SimScreen
}

// OpenHost builds a board for the host runner. Real serial ports are opened
// for any path set in cfg.Link; everything else is simulated. The returned
// func closes the ports.
func OpenHost(ctx context.Context, cfg config.Config, o HostOptions) (*Board, *HostParts, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	b := &Board{Name: cfg.Board, Sleep: func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) }}
	parts := &HostParts{}

	hc := serial.HostConfig{Baud: int(cfg.Link.Baud)}
	if cfg.Link.HostPort != "" {
		hc.Device = cfg.Link.HostPort
		p, err := serial.OpenHost(ctx, hc)
		if err != nil {
			return nil, nil, func() {}, err
		}
		closers = append(closers, p.Close)
		b.Host = p
	} else if o.Stdin != nil && o.Stdout != nil {
		in := o.Stdin
		read := func(_ context.Context, p []byte) (int, error) { return in.Read(p) }
		b.Host = serial.NewPump(ctx, read, o.Stdout, 0)
	}

	if cfg.Link.MenuPort != "" {
		hc.Device = cfg.Link.MenuPort
		p, err := serial.OpenHost(ctx, hc)
		if err != nil {
			closeAll()
			return nil, nil, func() {}, err
		}
		closers = append(closers, p.Close)
		b.Menu = p
	} else {
		parts.Menu = NewMenuSim()
		b.Menu = parts.Menu
	}

	parts.Fan = &SimFan{Clock: o.Clock, MaxRPM: 4800, PulsesPerRev: cfg.Fan.PulsesPerRev}
	b.Fan, b.Tach = parts.Fan, parts.Fan

	if cfg.Sensor.Kind != "sim" {
		println("[hal] sensor", cfg.Sensor.Kind, "not available on host; simulating")
	}
	parts.Sensor = &sensors.Sim{Value: sensors.Reading{TempC: 26.5, RH: 48}}
	b.Sensor = parts.Sensor

	for i := 0; i < leds.StripCount; i++ {
		s := &RecordingStrip{}
		parts.Strips = append(parts.Strips, s)
		b.Strips = append(b.Strips, s)
	}

	parts.Screen = &SimScreen{OnChange: o.OnScreen}
	b.Screen = parts.Screen

	if o.StoreDir != "" {
		b.Store = config.FileStore{Dir: o.StoreDir}
	} else {
		b.Store = config.NewMemStore()
	}
	return b, parts, closeAll, b.Validate()
}
