//go:build rp2040

package serial

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// UARTConfig selects and configures an RP2 UART.
type UARTConfig struct {
	ID     string // "uart0" | "uart1"
	Baud   uint32
	TX, RX machine.Pin
	RXSize int
}

// OpenUART configures the UART and starts its RX pump.
func OpenUART(ctx context.Context, cfg UARTConfig) (*Pump, bool) {
	var hw *uartx.UART
	switch cfg.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, false
	}
	// Defaults inside uartx apply if zero.
	if err := hw.Configure(uartx.UARTConfig{BaudRate: cfg.Baud, TX: cfg.TX, RX: cfg.RX}); err != nil {
		println("[serial]", cfg.ID, "configure:", err.Error())
		return nil, false
	}
	read := func(ctx context.Context, b []byte) (int, error) {
		// Bound the blocking wait to assist shutdown.
		rctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
		defer cancel()
		return hw.RecvSomeContext(rctx, b)
	}
	return NewPump(ctx, read, hw, cfg.RXSize), true
}
