package fan

import (
	"encoding/json"
	"math"

	"costume-go/errcode"
	"costume-go/x/mathx"
)

const (
	MinPoints = 2
	MaxPoints = 8
)

var (
	ErrTooFewPoints  = errcode.New(errcode.InvalidConfig, "fan config", "curve needs at least 2 points")
	ErrTooManyPoints = errcode.New(errcode.InvalidConfig, "fan config", "curve allows at most 8 points")
	ErrNotIncreasing = errcode.New(errcode.InvalidConfig, "fan config", "curve values must be strictly increasing")
	ErrNotFinite     = errcode.New(errcode.InvalidConfig, "fan config", "curve value not finite")
	ErrPercentRange  = errcode.New(errcode.InvalidConfig, "fan config", "percent must be 0..100")
)

// Breakpoint maps one sensor reading to a fan duty.
type Breakpoint struct {
	Value   float32 `json:"value"`
	Percent uint8   `json:"percent"`
}

// Curve is piecewise linear between breakpoints and flat outside them.
type Curve []Breakpoint

// CurveConfig is the persisted fan configuration.
type CurveConfig struct {
	AutoMode    bool  `json:"autoMode"`
	Temperature Curve `json:"temperature"`
	Humidity    Curve `json:"humidity"`
}

// DefaultConfig is used until a valid configuration is stored.
func DefaultConfig() CurveConfig {
	return CurveConfig{
		AutoMode:    true,
		Temperature: Curve{{25, 0}, {30, 40}, {40, 100}},
		Humidity:    Curve{{40, 0}, {60, 30}, {85, 100}},
	}
}

// At evaluates the curve at x. NaN readings contribute nothing.
func (c Curve) At(x float32) float32 {
	if len(c) == 0 || x != x {
		return 0
	}
	if x <= c[0].Value {
		return float32(c[0].Percent)
	}
	for i := 1; i < len(c); i++ {
		if x <= c[i].Value {
			a, b := c[i-1], c[i]
			return mathx.Segment(x, a.Value, float32(a.Percent), b.Value, float32(b.Percent))
		}
	}
	return float32(c[len(c)-1].Percent)
}

func (c Curve) Validate() error {
	switch {
	case len(c) < MinPoints:
		return ErrTooFewPoints
	case len(c) > MaxPoints:
		return ErrTooManyPoints
	}
	for i, p := range c {
		if math.IsNaN(float64(p.Value)) || math.IsInf(float64(p.Value), 0) {
			return ErrNotFinite
		}
		if p.Percent > 100 {
			return ErrPercentRange
		}
		if i > 0 && p.Value <= c[i-1].Value {
			return ErrNotIncreasing
		}
	}
	return nil
}

func (c *CurveConfig) Validate() error {
	if err := c.Temperature.Validate(); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "fan config", Msg: "temperature", Err: err}
	}
	if err := c.Humidity.Validate(); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "fan config", Msg: "humidity", Err: err}
	}
	return nil
}

// Calculate returns the larger of the two curve outputs, rounded and
// clamped to 0..100.
func (c *CurveConfig) Calculate(temp, humidity float32) uint8 {
	p := mathx.Max(c.Temperature.At(temp), c.Humidity.At(humidity))
	return uint8(mathx.Clamp(p+0.5, 0, 100))
}

// ParseConfig decodes and validates a JSON curve configuration. Percents
// that do not fit a byte fail at the decode step.
func ParseConfig(raw []byte) (CurveConfig, error) {
	var c CurveConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, &errcode.E{C: errcode.InvalidConfig, Op: "fan config", Msg: "decode", Err: err}
	}
	return c, c.Validate()
}
