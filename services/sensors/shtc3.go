package sensors

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/shtc3"
)

// SHTC3 reads the sensor in one blocking measurement (~12 ms), waking it for
// the read and putting it back to sleep afterwards.
type SHTC3 struct {
	dev shtc3.Device
}

func NewSHTC3(bus drivers.I2C) *SHTC3 {
	return &SHTC3{dev: shtc3.New(bus)}
}

func (s *SHTC3) Name() string { return "shtc3" }

func (s *SHTC3) Read() (Reading, error) {
	if err := s.dev.WakeUp(); err != nil {
		return Reading{}, err
	}
	defer func() { _ = s.dev.Sleep() }()

	// Milli-°C and hundredths of %RH.
	tmc, rhx100, err := s.dev.ReadTemperatureHumidity()
	if err != nil {
		return Reading{}, err
	}
	return Reading{TempC: float32(tmc) / 1000, RH: float32(rhx100) / 100}, nil
}
