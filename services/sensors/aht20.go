package sensors

import (
	"errors"

	"tinygo.org/x/drivers"

	"costume-go/drivers/aht20"
)

// AHT20 pipelines the two-phase driver across calls: each Read collects the
// conversion started by the previous Read and triggers the next one, so
// consecutive reads are one scheduler period apart and never wait.
type AHT20 struct {
	dev       *aht20.Device
	triggered bool
	last      Reading
	have      bool
}

func NewAHT20(bus drivers.I2C) *AHT20 {
	return &AHT20{dev: aht20.New(bus)}
}

func (a *AHT20) Name() string { return "aht20" }

// ErrWarmingUp is returned by the first Read, before any conversion exists.
var ErrWarmingUp = errors.New("aht20: first conversion pending")

func (a *AHT20) Read() (Reading, error) {
	if a.triggered {
		var s aht20.Sample
		switch err := a.dev.Collect(&s); {
		case err == nil:
			a.last = Reading{TempC: float32(s.DeciCelsius()) / 10, RH: float32(s.RHx100()) / 100}
			a.have = true
			a.triggered = false
		case errors.Is(err, aht20.ErrNotReady):
			// Still converting; report the previous sample.
			if a.have {
				return a.last, nil
			}
			return Reading{}, ErrWarmingUp
		default:
			a.triggered = false
			return Reading{}, err
		}
	}
	if err := a.dev.Trigger(); err != nil {
		return Reading{}, err
	}
	a.triggered = true
	if !a.have {
		return Reading{}, ErrWarmingUp
	}
	return a.last, nil
}
