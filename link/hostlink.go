package link

import (
	"encoding/json"

	"costume-go/errcode"
	"costume-go/serial"
	"costume-go/types"
)

// MaxPollBytes bounds the bytes drained per Poll so one pass stays short.
const MaxPollBytes = 512

// HostLink is the device end of the framed host link.
type HostLink struct {
	port  serial.Port
	lines *Lines
	rd    [64]byte
	wr    []byte

	frames         uint32
	frameErrors    uint32
	wrongDirection uint32
	lastErr        error
}

func NewHostLink(port serial.Port, maxLine int) *HostLink {
	return &HostLink{
		port:  port,
		lines: NewLines(maxLine),
		wr:    make([]byte, 0, 128),
	}
}

// Poll drains received bytes without blocking and calls fn for each valid
// host-to-device envelope. Invalid frames are counted and dropped; the host
// recovers through periodic rebroadcast.
func (h *HostLink) Poll(fn func(Envelope)) {
	budget := MaxPollBytes
	for budget > 0 {
		n := h.port.TryRead(h.rd[:])
		if n == 0 {
			return
		}
		budget -= n
		h.lines.Feed(h.rd[:n], func(line []byte) {
			env, err := Decode(line)
			if err != nil {
				h.frameErrors++
				h.lastErr = err
				return
			}
			if env.Direction != ToDevice {
				h.wrongDirection++
				return
			}
			h.frames++
			fn(env)
		})
	}
}

// Publish writes one device-to-host frame.
func (h *HostLink) Publish(topic, payload string) error {
	var err error
	h.wr, err = AppendFrame(h.wr[:0], Envelope{Direction: ToHost, Topic: topic, Payload: payload})
	if err != nil {
		return err
	}
	_, err = h.port.Write(h.wr)
	return err
}

// PublishJSON marshals v and publishes it.
func (h *HostLink) PublishJSON(topic string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &errcode.E{C: errcode.InvalidPayload, Op: "publish", Msg: topic, Err: err}
	}
	return h.Publish(topic, string(b))
}

// LastError returns the most recent decode error, if any.
func (h *HostLink) LastError() error { return h.lastErr }

func (h *HostLink) Stats() types.LinkStats {
	s := types.LinkStats{
		Frames:         h.frames,
		FrameErrors:    h.frameErrors,
		Overflows:      h.lines.Overflows(),
		WrongDirection: h.wrongDirection,
	}
	if d, ok := h.port.(serial.Dropper); ok {
		s.Dropped = d.Dropped()
	}
	if err := h.LastError(); err != nil {
		s.LastError = err.Error()
	}
	return s
}
