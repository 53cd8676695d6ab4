// Package heartbeat tracks whether the host is still talking to us and
// holds the transient notification shown on the display.
package heartbeat

const DefaultTimeoutMs = 5000

// Liveness latches host presence. Alive only becomes true through
// OnHostMessage; it clears once the timeout has elapsed without traffic.
type Liveness struct {
	timeoutMs  uint32
	lastSeenMs int64
	alive      bool
}

func NewLiveness(timeoutMs uint32) *Liveness {
	if timeoutMs == 0 {
		timeoutMs = DefaultTimeoutMs
	}
	return &Liveness{timeoutMs: timeoutMs}
}

// OnHostMessage records valid host traffic at nowMs.
func (l *Liveness) OnHostMessage(nowMs int64) {
	l.lastSeenMs = nowMs
	l.alive = true
}

// IsAlive expires the latch lazily.
func (l *Liveness) IsAlive(nowMs int64) bool {
	if l.alive && nowMs-l.lastSeenMs >= int64(l.timeoutMs) {
		l.alive = false
	}
	return l.alive
}

// Check reports the current state and whether this call observed the
// alive to lost edge. The edge is reported once per loss.
func (l *Liveness) Check(nowMs int64) (alive, lost bool) {
	was := l.alive
	alive = l.IsAlive(nowMs)
	return alive, was && !alive
}

func (l *Liveness) LastSeenMs() int64 { return l.lastSeenMs }
