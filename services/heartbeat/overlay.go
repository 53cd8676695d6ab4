package heartbeat

import "costume-go/types"

const DefaultNotifyTTLMs = 4000

// Overlay holds at most one notification. A newer Show replaces the
// current one and restarts its TTL.
type Overlay struct {
	ttlMs       uint32
	n           types.Notification
	activatedMs int64
	active      bool
}

func NewOverlay(ttlMs uint32) *Overlay {
	if ttlMs == 0 {
		ttlMs = DefaultNotifyTTLMs
	}
	return &Overlay{ttlMs: ttlMs}
}

func (o *Overlay) Show(title, message string, nowMs int64) {
	o.n = types.Notification{Title: title, Message: message}
	o.activatedMs = nowMs
	o.active = true
}

// Active reports whether a notification is showing, clearing it once its
// TTL has elapsed.
func (o *Overlay) Active(nowMs int64) bool {
	if o.active && nowMs-o.activatedMs >= int64(o.ttlMs) {
		o.Clear()
	}
	return o.active
}

func (o *Overlay) Clear() {
	o.active = false
	o.n = types.Notification{}
}

// Current returns the notification and whether one is set. It does not
// expire; call Active first.
func (o *Overlay) Current() (types.Notification, bool) { return o.n, o.active }

// RemainingMs is the time left before the notification clears.
func (o *Overlay) RemainingMs(nowMs int64) uint32 {
	if !o.Active(nowMs) {
		return 0
	}
	return uint32(int64(o.ttlMs) - (nowMs - o.activatedMs))
}
