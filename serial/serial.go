// Package serial adapts byte-stream ports to the non-blocking shape the
// cooperative loop needs.
//
// Ports that block on read (host tty, RP2 UART) are wrapped by a Pump: one
// goroutine moves received bytes into an SPSC ring and the loop drains the
// ring with TryRead. Writes go straight through; UART writes are bounded by
// the hardware FIFO and line rate.
package serial

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"costume-go/x/ring"
)

// Port is a non-blocking serial endpoint.
type Port interface {
	// TryRead copies already-received bytes into p and never blocks.
	TryRead(p []byte) int
	Write(p []byte) (int, error)
}

// Dropper is implemented by ports that may discard received bytes.
type Dropper interface {
	Dropped() uint32
}

// ReadFunc is a blocking read; it should return promptly when ctx is done.
type ReadFunc func(ctx context.Context, p []byte) (int, error)

const (
	DefaultRXSize = 1024
	retryDelay    = 50 * time.Millisecond
)

// Pump owns a reader goroutine feeding a ring.
type Pump struct {
	rx *ring.Ring
	w  io.Writer

	mu      sync.Mutex
	lastErr error
	done    chan struct{}
}

// NewPump starts the reader goroutine. rxSize must be a power of two; zero
// selects DefaultRXSize. The goroutine exits when ctx is done or read
// returns io.ErrClosedPipe.
func NewPump(ctx context.Context, read ReadFunc, w io.Writer, rxSize int) *Pump {
	if rxSize == 0 {
		rxSize = DefaultRXSize
	}
	p := &Pump{rx: ring.New(rxSize), w: w, done: make(chan struct{})}
	go p.run(ctx, read)
	return p
}

func (p *Pump) run(ctx context.Context, read ReadFunc) {
	defer close(p.done)
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := read(ctx, buf)
		if n > 0 {
			p.rx.Write(buf[:n])
		}
		switch {
		case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.DeadlineExceeded):
			// timeouts and empty reads are normal
		case errors.Is(err, io.ErrClosedPipe), errors.Is(err, context.Canceled):
			p.setErr(err)
			return
		default:
			p.setErr(err)
			if !sleep(ctx, retryDelay) {
				return
			}
		}
	}
}

func (p *Pump) setErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Err returns the last read error seen by the pump, if any.
func (p *Pump) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Done is closed once the reader goroutine has exited.
func (p *Pump) Done() <-chan struct{} { return p.done }

func (p *Pump) TryRead(b []byte) int        { return p.rx.Read(b) }
func (p *Pump) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *Pump) Dropped() uint32             { return p.rx.Dropped() }

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
