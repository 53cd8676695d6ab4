package display

import (
	"strings"
	"testing"

	"costume-go/types"
)

func TestStatusRows(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	d.Refresh(View{
		Face:      "Happy",
		Env:       types.EnvStatus{DeciC: 231, RHx100: 4550, Warning: true},
		Fan:       types.FanStatus{AutoMode: true, Percent: 40, RPM: 1200},
		HostAlive: true,
		Level:     8,
		Blink:     true,
	})
	want := [Rows]string{"Face Happy", "T 23.1C RH 46% !", "Fan A 40% 1200rpm", "Host OK"}
	if d.Shown() != want {
		t.Fatalf("shown = %q", d.Shown())
	}
	if !scr.backlight {
		t.Fatal("backlight off")
	}
	if len(scr.rows[0]) != Cols {
		t.Fatalf("row not padded: %q", scr.rows[0])
	}
}

func TestOnlyChangedRowsWritten(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	v := View{Face: "Default", HostAlive: true, Level: 1}
	d.Refresh(v)
	first := scr.writes

	d.Refresh(v)
	if scr.writes != first {
		t.Fatalf("unchanged refresh wrote %d rows", scr.writes-first)
	}

	v.HostAlive = false
	d.Refresh(v)
	if scr.writes != first+1 || strings.TrimSpace(scr.rows[3]) != "Host LOST" {
		t.Fatalf("writes = %d, row3 = %q", scr.writes-first, scr.rows[3])
	}
}

func TestNoticeOverridesStatus(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	n := &types.Notification{Title: "Water", Message: "Drink something soon please, it is very hot outside"}
	d.Refresh(View{Face: "Sad", Notice: n})

	rows := d.Shown()
	if rows[0] != "Water" {
		t.Fatalf("title row = %q", rows[0])
	}
	for i, r := range rows {
		if len(r) > Cols {
			t.Fatalf("row %d too long: %q", i, r)
		}
	}
	if rows[1] != "Drink something soon" || rows[2] != "please, it is very" || rows[3] != "hot outside" {
		t.Fatalf("rows = %q", rows)
	}
	if !scr.backlight {
		t.Fatal("notice should light the screen")
	}
}

func TestNoticeCountdown(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	n := &types.Notification{Title: "A very long notification title", Message: "x"}
	d.Refresh(View{Notice: n, NoticeLeftS: 12})
	row := d.Shown()[0]
	if len(row) != Cols || !strings.HasSuffix(row, " 12s") || !strings.HasPrefix(row, "A very long noti ") {
		t.Fatalf("title row = %q", row)
	}

	d.Refresh(View{Notice: n, NoticeLeftS: 3})
	if got := d.Shown()[0]; !strings.HasSuffix(got, " 3s") {
		t.Fatalf("title row = %q", got)
	}
}

func TestWarningMarkBlinks(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	v := View{Env: types.EnvStatus{DeciC: 400, RHx100: 5000, Warning: true}}
	d.Refresh(v)
	if got := d.Shown()[1]; got != "T 40.0C RH 50%" {
		t.Fatalf("mark off: %q", got)
	}
	v.Blink = true
	d.Refresh(v)
	if got := d.Shown()[1]; got != "T 40.0C RH 50% !" {
		t.Fatalf("mark on: %q", got)
	}
}

func TestNegativeTemperature(t *testing.T) {
	if got := string(appendDeci(nil, -5)); got != "-0.5" {
		t.Fatalf("appendDeci(-5) = %q", got)
	}
	if got := string(appendDeci(nil, 405)); got != "40.5" {
		t.Fatalf("appendDeci(405) = %q", got)
	}
}

func TestBacklightFollowsLevel(t *testing.T) {
	scr := newFakeScreen()
	d := New(scr)
	d.Refresh(View{Level: 0})
	if scr.backlight || scr.backlightCalls != 1 {
		t.Fatalf("backlight = %v calls = %d", scr.backlight, scr.backlightCalls)
	}
	d.Refresh(View{Level: 0})
	if scr.backlightCalls != 1 {
		t.Fatal("backlight rewritten without change")
	}
}

// ---- helpers ----

type fakeScreen struct {
	rows           [Rows]string
	writes         int
	backlight      bool
	backlightCalls int
}

func newFakeScreen() *fakeScreen { return &fakeScreen{} }

func (f *fakeScreen) WriteLine(row int, text string) error {
	f.rows[row] = text
	f.writes++
	return nil
}

func (f *fakeScreen) SetBacklight(on bool) error {
	f.backlight = on
	f.backlightCalls++
	return nil
}
