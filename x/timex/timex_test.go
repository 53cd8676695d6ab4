package timex

import "testing"

func TestCadenceFiresOncePerPeriod(t *testing.T) {
	c := Every(100)
	fired := 0
	for ms := int64(0); ms < 1000; ms += 10 {
		if c.Due(ms) {
			fired++
		}
	}
	if fired != 10 {
		t.Fatalf("fired %d times, want 10", fired)
	}
}

func TestCadenceStartDefers(t *testing.T) {
	c := Every(50)
	c.Start(0)
	if c.Due(10) {
		t.Fatal("fired before first period")
	}
	if !c.Due(50) {
		t.Fatal("did not fire at first period")
	}
}

func TestCadenceSkipsMissedPeriods(t *testing.T) {
	c := Every(10)
	c.Due(0)
	if !c.Due(1000) {
		t.Fatal("expected fire after long gap")
	}
	if c.Due(1005) {
		t.Fatal("missed periods replayed")
	}
}

func TestOnce(t *testing.T) {
	o := After(300)
	if o.Due(1000) {
		t.Fatal("fired before Arm")
	}
	o.Arm(0)
	if o.Due(299) {
		t.Fatal("fired early")
	}
	if !o.Due(300) {
		t.Fatal("did not fire")
	}
	if o.Due(301) || !o.Done() {
		t.Fatal("fired twice")
	}
}

func TestManual(t *testing.T) {
	var m Manual
	m.Advance(5)
	m.Advance(7)
	if m.NowMs() != 12 {
		t.Fatalf("NowMs = %d", m.NowMs())
	}
}
