package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Clock yields a monotonic millisecond counter. The cooperative loop polls it
// rather than sleeping.
type Clock interface {
	NowMs() int64
}

// Monotonic counts milliseconds since construction.
type Monotonic struct{ start time.Time }

func NewMonotonic() *Monotonic { return &Monotonic{start: time.Now()} }

func (m *Monotonic) NowMs() int64 { return time.Since(m.start).Milliseconds() }

// Manual is a hand-driven clock for tests and simulations.
type Manual struct{ Ms int64 }

func (m *Manual) NowMs() int64     { return m.Ms }
func (m *Manual) Advance(ms int64) { m.Ms += ms }
func (m *Manual) Set(ms int64)     { m.Ms = ms }

// Cadence fires at most once per period. The first call to Due fires
// immediately unless Start was used to defer it.
type Cadence struct {
	PeriodMs int64
	next     int64
	armed    bool
}

// Every returns a cadence with the given period.
func Every(periodMs int64) Cadence { return Cadence{PeriodMs: periodMs} }

// Start defers the first firing until nowMs+PeriodMs.
func (c *Cadence) Start(nowMs int64) {
	c.next = nowMs + c.PeriodMs
	c.armed = true
}

// Due reports whether the cadence is due at nowMs and, if so, schedules the
// next firing. Missed periods are not replayed.
func (c *Cadence) Due(nowMs int64) bool {
	if !c.armed {
		c.Start(nowMs)
		return true
	}
	if nowMs < c.next {
		return false
	}
	c.next += c.PeriodMs
	if c.next <= nowMs {
		c.next = nowMs + c.PeriodMs
	}
	return true
}

// Once fires a single time after a delay.
type Once struct {
	DelayMs int64
	at      int64
	armed   bool
	done    bool
}

func After(delayMs int64) Once { return Once{DelayMs: delayMs} }

// Arm sets the reference point; Due fires at nowMs+DelayMs.
func (o *Once) Arm(nowMs int64) {
	o.at = nowMs + o.DelayMs
	o.armed = true
	o.done = false
}

func (o *Once) Due(nowMs int64) bool {
	if !o.armed || o.done || nowMs < o.at {
		return false
	}
	o.done = true
	return true
}

func (o *Once) Done() bool { return o.done }
