// Package sensors samples cabin temperature and humidity for the fan curve
// and the status display.
package sensors

import (
	"costume-go/types"
	"costume-go/x/mathx"
)

// Reading is one temperature/humidity sample.
type Reading struct {
	TempC float32
	RH    float32
}

// Sensor is polled once per scheduler second. Read must not block for
// longer than one bus transaction.
type Sensor interface {
	Name() string
	Read() (Reading, error)
}

// Monitor keeps the latest reading and the warning band state.
type Monitor struct {
	s      Sensor
	warnC  float32
	warnRH float32

	last    Reading
	valid   bool
	err     error
	errs    uint32
	warning bool
}

func NewMonitor(s Sensor, warnC, warnRH float32) *Monitor {
	return &Monitor{s: s, warnC: warnC, warnRH: warnRH}
}

// Sample reads the sensor. On error the previous reading is kept but marked
// stale; the fan then runs on the last known values.
func (m *Monitor) Sample() error {
	r, err := m.s.Read()
	if err != nil {
		if m.err == nil {
			println("[sensors]", m.s.Name(), "read failed:", err.Error())
		}
		m.err = err
		m.errs++
		return err
	}
	m.last, m.valid, m.err = r, true, nil
	m.warning = r.TempC >= m.warnC || r.RH >= m.warnRH
	return nil
}

// Latest returns the last good reading and whether one exists.
func (m *Monitor) Latest() (Reading, bool) { return m.last, m.valid }

// Warning reports whether the last reading is in the warning band.
func (m *Monitor) Warning() bool { return m.valid && m.warning }

// Errors counts failed reads.
func (m *Monitor) Errors() uint32 { return m.errs }

// Status builds the env/status payload.
func (m *Monitor) Status() types.EnvStatus {
	st := types.EnvStatus{Sensor: m.s.Name(), Warning: m.Warning()}
	if m.valid {
		st.DeciC = int16(mathx.Clamp(m.last.TempC*10, -32768, 32767))
		st.RHx100 = uint16(mathx.Clamp(m.last.RH*100, 0, 10000))
	}
	if m.err != nil {
		st.Error = m.err.Error()
	}
	return st
}
