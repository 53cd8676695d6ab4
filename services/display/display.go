// Package display renders the status screen: face, environment, fan and
// host link, or the active notification in their place.
package display

import (
	"costume-go/types"
	"costume-go/x/conv"
)

const (
	Rows = 4
	Cols = 20
)

// Screen is a character display.
type Screen interface {
	WriteLine(row int, text string) error
	SetBacklight(on bool) error
}

// View is everything one refresh shows.
type View struct {
	Face      string
	Env       types.EnvStatus
	Fan       types.FanStatus
	HostAlive bool
	Level     uint8 // display_level; 0 turns the backlight off
	Notice    *types.Notification
	// NoticeLeftS is shown after the notice title when nonzero.
	NoticeLeftS uint32
	// Blink is the phase of the warning mark; it is drawn only when set.
	Blink bool
}

// Display writes only rows whose text changed since the last refresh.
type Display struct {
	scr       Screen
	shown     [Rows]string
	backlight int8 // -1 unknown
	buf       []byte
	errs      uint32
}

func New(scr Screen) *Display {
	return &Display{scr: scr, backlight: -1, buf: make([]byte, 0, Cols)}
}

// Refresh renders v and pushes the changed rows.
func (d *Display) Refresh(v View) {
	var rows [Rows]string
	if v.Notice != nil {
		d.notice(&rows, v.Notice, v.NoticeLeftS)
	} else {
		d.status(&rows, v)
	}

	on := int8(0)
	if v.Level > 0 || v.Notice != nil {
		on = 1
	}
	if on != d.backlight {
		if d.check(d.scr.SetBacklight(on == 1)) {
			d.backlight = on
		}
	}
	for i := range rows {
		if rows[i] == d.shown[i] {
			continue
		}
		if d.check(d.scr.WriteLine(i, pad(rows[i]))) {
			d.shown[i] = rows[i]
		}
	}
}

// Shown returns the rows currently on the screen, without padding.
func (d *Display) Shown() [Rows]string { return d.shown }

// Errors counts failed screen writes.
func (d *Display) Errors() uint32 { return d.errs }

// Invalidate forces every row to be rewritten on the next refresh.
func (d *Display) Invalidate() {
	d.shown = [Rows]string{}
	d.backlight = -1
}

func (d *Display) check(err error) bool {
	if err == nil {
		return true
	}
	if d.errs == 0 {
		println("[display] write failed:", err.Error())
	}
	d.errs++
	return false
}

func (d *Display) notice(rows *[Rows]string, n *types.Notification, leftS uint32) {
	rows[0] = clip(n.Title)
	if leftS > 0 {
		b := conv.AppendInt(d.buf[:0], int64(leftS))
		b = append(b, 's')
		title := n.Title
		if max := Cols - len(b) - 1; len(title) > max {
			title = title[:max]
		}
		rows[0] = pad(title)[:Cols-len(b)] + string(b)
		d.buf = b
	}
	msg := n.Message
	for i := 1; i < Rows && msg != ""; i++ {
		line, rest := wrap(msg)
		rows[i] = line
		msg = rest
	}
}

func (d *Display) status(rows *[Rows]string, v View) {
	rows[0] = clip("Face " + v.Face)

	b := d.buf[:0]
	switch {
	case v.Env.Error != "" && v.Env.DeciC == 0 && v.Env.RHx100 == 0:
		b = append(b, "Env --"...)
	default:
		b = append(b, "T "...)
		b = appendDeci(b, int64(v.Env.DeciC))
		b = append(b, "C RH "...)
		b = conv.AppendInt(b, int64((v.Env.RHx100+50)/100))
		b = append(b, '%')
		if v.Env.Warning && v.Blink {
			b = append(b, " !"...)
		}
	}
	rows[1] = clip(string(b))

	b = append(b[:0], "Fan "...)
	if v.Fan.AutoMode {
		b = append(b, "A "...)
	} else {
		b = append(b, "M "...)
	}
	b = conv.AppendInt(b, int64(v.Fan.Percent))
	b = append(b, "% "...)
	b = conv.AppendInt(b, int64(v.Fan.RPM))
	b = append(b, "rpm"...)
	rows[2] = clip(string(b))

	if v.HostAlive {
		rows[3] = "Host OK"
	} else {
		rows[3] = "Host LOST"
	}
	d.buf = b
}

// appendDeci formats tenths as a decimal, e.g. -5 -> "-0.5".
func appendDeci(b []byte, deci int64) []byte {
	if deci < 0 {
		b = append(b, '-')
		deci = -deci
	}
	b = conv.AppendInt(b, deci/10)
	b = append(b, '.')
	return append(b, byte('0'+deci%10))
}

func clip(s string) string {
	if len(s) > Cols {
		return s[:Cols]
	}
	return s
}

func pad(s string) string {
	for len(s) < Cols {
		s += " "
	}
	return s
}

// wrap splits off one row, breaking at the last space when possible.
func wrap(s string) (line, rest string) {
	if len(s) <= Cols {
		return s, ""
	}
	cut := Cols
	for i := Cols; i > 0; i-- {
		if s[i] == ' ' {
			cut = i
			break
		}
	}
	line = s[:cut]
	rest = s[cut:]
	for len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	return line, rest
}
