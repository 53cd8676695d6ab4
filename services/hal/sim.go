package hal

import (
	"image/color"
	"strings"

	"costume-go/services/bridge"
	"costume-go/x/conv"
	"costume-go/x/mathx"
	"costume-go/x/timex"
)

// -----------------------------------------------------------------------------
// Fan
// -----------------------------------------------------------------------------

// SimFan is a fan whose tachometer follows the commanded duty.
type SimFan struct {
	Clock        timex.Clock
	MaxRPM       uint32
	PulsesPerRev uint32

	percent uint8
	pulses  uint32
	lastMs  int64
	frac    uint64 // pulse remainder in 1/60000 units
	started bool
}

func (f *SimFan) SetPercent(p uint8) error {
	f.advance()
	f.percent = mathx.Min(p, 100)
	return nil
}

func (f *SimFan) Percent() uint8 { return f.percent }

func (f *SimFan) Count() uint32 {
	f.advance()
	return f.pulses
}

func (f *SimFan) advance() {
	now := f.Clock.NowMs()
	if !f.started {
		f.lastMs, f.started = now, true
		return
	}
	el := now - f.lastMs
	if el <= 0 {
		return
	}
	f.lastMs = now
	rpm := uint64(f.MaxRPM) * uint64(f.percent) / 100
	f.frac += rpm * uint64(f.PulsesPerRev) * uint64(el)
	f.pulses += uint32(f.frac / 60000)
	f.frac %= 60000
}

// -----------------------------------------------------------------------------
// LEDs and screen
// -----------------------------------------------------------------------------

// RecordingStrip keeps the last frame written to it.
type RecordingStrip struct {
	Last   []color.RGBA
	Writes int
}

func (s *RecordingStrip) WriteColors(buf []color.RGBA) error {
	s.Last = append(s.Last[:0], buf...)
	s.Writes++
	return nil
}

// SimScreen is a character screen that reports row changes.
type SimScreen struct {
	Rows      [4]string
	Backlight bool
	OnChange  func(row int, text string)
}

func (s *SimScreen) WriteLine(row int, text string) error {
	if row < 0 || row >= len(s.Rows) {
		return errMissing("screen row")
	}
	s.Rows[row] = text
	if s.OnChange != nil {
		s.OnChange(row, text)
	}
	return nil
}

func (s *SimScreen) SetBacklight(on bool) error {
	s.Backlight = on
	return nil
}

// -----------------------------------------------------------------------------
// Menu device
// -----------------------------------------------------------------------------

// MenuSim answers the menu-device text protocol in place of real hardware.
// It is a serial.Port: commands written to it queue their replies for
// TryRead. Single-goroutine use only.
type MenuSim struct {
	values map[string]uint8
	max    map[string]uint8
	saved  map[string]uint8
	line   []byte
	out    []byte
	// FailSave makes SAVE answer with an ERR line.
	FailSave bool
}

func NewMenuSim() *MenuSim {
	m := &MenuSim{
		values: make(map[string]uint8),
		max:    make(map[string]uint8),
		saved:  make(map[string]uint8),
	}
	for _, d := range bridge.Descriptors() {
		m.max[d.DeviceName] = d.Max
		m.values[d.DeviceName] = 0
	}
	m.values["BRIGHT"] = 128
	m.values["HUEB"] = 160
	m.values["DISPL"] = 8
	for k, v := range m.values {
		m.saved[k] = v
	}
	return m
}

// Value returns the device-side value of a parameter.
func (m *MenuSim) Value(dev string) uint8 { return m.values[dev] }

// Boop queues a boop sensor report.
func (m *MenuSim) Boop(on bool) {
	if on {
		m.reply("BOOPED=1")
	} else {
		m.reply("BOOPED=0")
	}
}

// Turn simulates the user changing a value on the menu's own controls.
func (m *MenuSim) Turn(dev string, v uint8) {
	if max, ok := m.max[dev]; ok {
		m.values[dev] = mathx.Min(v, max)
		m.report(dev)
	}
}

func (m *MenuSim) TryRead(p []byte) int {
	n := copy(p, m.out)
	m.out = m.out[n:]
	return n
}

func (m *MenuSim) Write(p []byte) (int, error) {
	for _, b := range p {
		switch b {
		case '\n':
			m.command(strings.TrimSpace(string(m.line)))
			m.line = m.line[:0]
		case '\r':
		default:
			m.line = append(m.line, b)
		}
	}
	return len(p), nil
}

func (m *MenuSim) command(cmd string) {
	f := strings.Fields(cmd)
	switch {
	case len(f) == 3 && f[0] == "SET":
		max, ok := m.max[f[1]]
		n, okn := conv.Atoi(f[2])
		if !ok || !okn {
			m.reply("ERR bad set")
			return
		}
		m.values[f[1]] = mathx.ClampU8(n, max)
		m.report(f[1])
	case cmd == "GET ALL":
		m.reportAll()
	case cmd == "SAVE":
		if m.FailSave {
			m.reply("ERR save failed")
			return
		}
		for k, v := range m.values {
			m.saved[k] = v
		}
		m.reply("OK SAVED")
	case cmd == "RESTART":
		for k, v := range m.saved {
			m.values[k] = v
		}
		m.reportAll()
	default:
		m.reply("ERR unknown command")
	}
}

func (m *MenuSim) reportAll() {
	for _, d := range bridge.Descriptors() {
		m.report(d.DeviceName)
	}
}

func (m *MenuSim) report(dev string) {
	m.out = append(m.out, dev...)
	m.out = append(m.out, '=')
	m.out = conv.AppendInt(m.out, int64(m.values[dev]))
	m.out = append(m.out, '\n')
}

func (m *MenuSim) reply(s string) {
	m.out = append(m.out, s...)
	m.out = append(m.out, '\n')
}
