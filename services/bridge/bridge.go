// Package bridge keeps the host and the menu device in agreement about the
// menu parameters. Host writes go out as SET commands; the device's answers
// are treated as the truth and republished to the host.
package bridge

import (
	"strings"

	"costume-go/errcode"
	"costume-go/link"
	"costume-go/serial"
	"costume-go/types"
	"costume-go/x/conv"
)

// Host-facing topics.
const (
	TopicStatusPrefix = "menu/status/"
	TopicSchema       = "menu/schema"
	TopicState        = "menu/state"
	TopicSaved        = "menu/saved"
	TopicError        = "menu/error"
)

// Publisher sends device-to-host messages.
type Publisher interface {
	Publish(topic, payload string) error
	PublishJSON(topic string, v any) error
}

// Triggers receives parameter changes for the components that render them.
type Triggers interface {
	ParamChanged(i Index, v uint8)
	Booped(on bool)
}

// Bridge owns MenuState. It is not safe for concurrent use.
type Bridge struct {
	dev   serial.Port
	pub   Publisher
	trig  Triggers
	lines *link.Lines

	values [NumParams]uint8
	seen   [NumParams]bool

	rd [64]byte
	wr []byte

	unknown uint32
	dropped uint32
}

// New builds a bridge over the menu-device port. trig may be nil.
func New(dev serial.Port, pub Publisher, trig Triggers) *Bridge {
	return &Bridge{
		dev:   dev,
		pub:   pub,
		trig:  trig,
		lines: link.NewLines(link.DefaultMaxLine),
		wr:    make([]byte, 0, 32),
	}
}

// -----------------------------------------------------------------------------
// Host side
// -----------------------------------------------------------------------------

// SetFromHost applies a host write. Unknown names are dropped and reported
// with errcode.UnknownParameter; values are clamped into range.
func (b *Bridge) SetFromHost(hostName string, value int) error {
	i, ok := ByHostName(hostName)
	if !ok {
		b.unknown++
		println("[bridge] unknown parameter:", hostName)
		return errcode.New(errcode.UnknownParameter, "set", hostName)
	}
	v := i.Desc().Clamp(value)
	b.update(i, v)
	if err := b.sendSet(i, v); err != nil {
		return err
	}
	return b.publishStatus(i)
}

// RequestFullSync asks the device to report every parameter. Safe to call
// repeatedly: answers only overwrite MenuState with device values.
func (b *Bridge) RequestFullSync() error { return b.command("GET ALL") }

// Save asks the device to persist its current values.
func (b *Bridge) Save() error { return b.command("SAVE") }

// Restart asks the device to reboot.
func (b *Bridge) Restart() error { return b.command("RESTART") }

// -----------------------------------------------------------------------------
// Device side
// -----------------------------------------------------------------------------

// Poll drains the device port without blocking and applies every complete
// line.
func (b *Bridge) Poll() {
	for budget := link.MaxPollBytes; budget > 0; {
		n := b.dev.TryRead(b.rd[:])
		if n == 0 {
			return
		}
		budget -= n
		b.lines.Feed(b.rd[:n], func(line []byte) {
			b.ApplyDeviceResponse(string(line))
		})
	}
}

// ApplyDeviceResponse handles one line from the menu device.
func (b *Bridge) ApplyDeviceResponse(line string) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return
	case line == "OK SAVED":
		_ = b.pub.Publish(TopicSaved, "ok")
		return
	case line == "ERR" || strings.HasPrefix(line, "ERR "):
		reason := strings.TrimSpace(strings.TrimPrefix(line, "ERR"))
		if reason == "" {
			reason = string(errcode.DeviceError)
		}
		println("[bridge] device error:", reason)
		_ = b.pub.PublishJSON(TopicError, types.DeviceError{Error: reason})
		return
	}

	name, val, ok := strings.Cut(line, "=")
	if !ok {
		b.drop(line)
		return
	}
	n, ok := conv.Atoi(strings.TrimSpace(val))
	if !ok {
		b.drop(line)
		return
	}
	name = strings.TrimSpace(name)

	if name == "BOOPED" {
		if b.trig != nil {
			b.trig.Booped(n != 0)
		}
		return
	}

	i, ok := ByDeviceName(name)
	if !ok {
		b.drop(line)
		return
	}
	b.update(i, i.Desc().Clamp(n))
	_ = b.publishStatus(i)
}

// -----------------------------------------------------------------------------
// State and schema
// -----------------------------------------------------------------------------

// Value returns the current value of i.
func (b *Bridge) Value(i Index) uint8 { return b.values[i] }

// Known reports whether i has been set by either side since boot.
func (b *Bridge) Known(i Index) bool { return b.seen[i] }

// Snapshot copies MenuState keyed by host name.
func (b *Bridge) Snapshot() map[string]uint8 {
	m := make(map[string]uint8, NumParams)
	for i := Index(0); i < NumParams; i++ {
		m[i.String()] = b.values[i]
	}
	return m
}

func (b *Bridge) PublishState() error { return b.pub.PublishJSON(TopicState, b.Snapshot()) }

// ExportSchema describes every parameter keyed by host name.
func ExportSchema() map[string]types.SchemaEntry {
	m := make(map[string]types.SchemaEntry, NumParams)
	for i := range descriptors {
		m[descriptors[i].HostName] = descriptors[i].Schema()
	}
	return m
}

func (b *Bridge) PublishSchema() error { return b.pub.PublishJSON(TopicSchema, ExportSchema()) }

// Status builds the host status payload for i.
func (b *Bridge) Status(i Index) types.ParamStatus {
	v := b.values[i]
	return types.ParamStatus{Value: v, Label: i.Desc().Label(v)}
}

// Unknown counts host writes to unknown parameters.
func (b *Bridge) Unknown() uint32 { return b.unknown }

// Dropped counts unrecognised device lines.
func (b *Bridge) Dropped() uint32 { return b.dropped }

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

func (b *Bridge) update(i Index, v uint8) {
	b.values[i] = v
	b.seen[i] = true
	if b.trig != nil && i.Desc().Triggers != 0 {
		b.trig.ParamChanged(i, v)
	}
}

func (b *Bridge) publishStatus(i Index) error {
	return b.pub.PublishJSON(TopicStatusPrefix+i.String(), b.Status(i))
}

func (b *Bridge) sendSet(i Index, v uint8) error {
	b.wr = append(b.wr[:0], "SET "...)
	b.wr = append(b.wr, i.Desc().DeviceName...)
	b.wr = append(b.wr, ' ')
	b.wr = conv.AppendInt(b.wr, int64(v))
	b.wr = append(b.wr, '\n')
	return b.write()
}

func (b *Bridge) command(cmd string) error {
	b.wr = append(append(b.wr[:0], cmd...), '\n')
	return b.write()
}

func (b *Bridge) write() error {
	if _, err := b.dev.Write(b.wr); err != nil {
		return &errcode.E{C: errcode.DeviceError, Op: "menu write", Err: err}
	}
	return nil
}

func (b *Bridge) drop(line string) {
	b.dropped++
	println("[bridge] dropped device line:", line)
}
