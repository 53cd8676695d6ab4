//go:build !tinygo

package serial

import (
	"context"
	"fmt"
	"time"

	tarm "github.com/tarm/serial"
)

// HostConfig describes a host tty.
type HostConfig struct {
	Device        string
	Baud          int
	ReadTimeoutMS int
	RXSize        int
}

// HostPort is a tarm/serial port behind a Pump.
type HostPort struct {
	*Pump
	port *tarm.Port
}

// OpenHost opens a host serial device and starts its RX pump.
func OpenHost(ctx context.Context, cfg HostConfig) (*HostPort, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial: empty device path")
	}
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	if cfg.ReadTimeoutMS <= 0 {
		cfg.ReadTimeoutMS = 100
	}
	p, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	read := func(_ context.Context, b []byte) (int, error) { return p.Read(b) }
	return &HostPort{Pump: NewPump(ctx, read, p, cfg.RXSize), port: p}, nil
}

func (h *HostPort) Close() error { return h.port.Close() }
