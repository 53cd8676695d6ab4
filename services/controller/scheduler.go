package controller

import (
	"context"
	"time"

	"costume-go/x/timex"
)

// Cadences.
const (
	SecondMs      = 1000
	FastDisplayMs = 250
	RebroadcastMs = 30000
	StatsMs       = 10000

	// YieldMs is the pause between passes in Run.
	YieldMs = 1
)

// Scheduler runs the Device cooperatively. Each Pass does the every-pass
// work and whichever periodic jobs are due; nothing in a pass blocks.
type Scheduler struct {
	d *Device

	second      timex.Cadence
	fast        timex.Cadence
	rebroadcast timex.Cadence
	stats       timex.Cadence
	startup     timex.Once
	settle      timex.Once

	// fastOn holds while the quick display cadence is in use, so the pass
	// after a notice expires or a warning ends still redraws.
	fastOn bool
}

// NewScheduler arms the startup sync StartupDelayMs after nowMs.
func NewScheduler(d *Device, nowMs int64) *Scheduler {
	s := &Scheduler{
		d:           d,
		second:      timex.Every(SecondMs),
		fast:        timex.Every(FastDisplayMs),
		rebroadcast: timex.Every(RebroadcastMs),
		stats:       timex.Every(StatsMs),
		startup:     timex.After(int64(d.cfg.Scheduler.StartupDelayMs)),
		settle:      timex.After(int64(d.cfg.Scheduler.SettleMs)),
	}
	s.rebroadcast.Start(nowMs)
	s.stats.Start(nowMs)
	s.startup.Arm(nowMs)
	return s
}

// Pass runs one scheduler pass at nowMs.
func (s *Scheduler) Pass(nowMs int64) {
	d := s.d
	d.nowMs = nowMs

	d.pollHost()
	d.menu.Poll()
	d.leds.Tick(nowMs)

	if s.startup.Due(nowMs) {
		d.startup()
		s.settle.Arm(nowMs)
	}
	if s.settle.Due(nowMs) {
		d.leds.MarkReady()
	}

	switch {
	case s.second.Due(nowMs):
		d.everySecond()
	case s.fast.Due(nowMs):
		on := d.fastDisplay()
		if on || s.fastOn {
			d.refreshDisplay()
		}
		s.fastOn = on
	}

	if s.rebroadcast.Due(nowMs) {
		d.publishFanConfig()
	}
	if s.stats.Due(nowMs) {
		d.publishStats()
	}
}

// Started reports whether the startup sync has run.
func (s *Scheduler) Started() bool { return s.startup.Done() }

// Run loops Pass until ctx is done.
func (s *Scheduler) Run(ctx context.Context, clock timex.Clock) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Pass(clock.NowMs())
		time.Sleep(YieldMs * time.Millisecond)
	}
}
