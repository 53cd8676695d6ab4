// Package config holds the board configuration and the small persisted
// blob store used for settings that must survive a reboot.
package config

import (
	"encoding/json"
	"math"

	"costume-go/errcode"
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

type Config struct {
	Board     string          `json:"board" yaml:"board"`
	Link      LinkConfig      `json:"link" yaml:"link"`
	LEDs      LEDConfig       `json:"leds" yaml:"leds"`
	Fan       FanConfig       `json:"fan" yaml:"fan"`
	Sensor    SensorConfig    `json:"sensor" yaml:"sensor"`
	Heartbeat HeartbeatConfig `json:"heartbeat" yaml:"heartbeat"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
}

// UARTPins selects a UART instance and its pins on the RP2040.
type UARTPins struct {
	ID uint8 `json:"id" yaml:"id"`
	TX int   `json:"tx" yaml:"tx"`
	RX int   `json:"rx" yaml:"rx"`
}

type LinkConfig struct {
	Baud    uint32 `json:"baud" yaml:"baud"`
	MaxLine int    `json:"max_line" yaml:"max_line"`
	// Host runner device paths; empty MenuPort simulates the menu device.
	HostPort string `json:"host_port,omitempty" yaml:"host_port"`
	MenuPort string `json:"menu_port,omitempty" yaml:"menu_port"`
	// Firmware UARTs.
	HostUART UARTPins `json:"host_uart" yaml:"host_uart"`
	MenuUART UARTPins `json:"menu_uart" yaml:"menu_uart"`
}

type LEDConfig struct {
	Pins        []int  `json:"pins" yaml:"pins"`
	CrossfadeMs uint32 `json:"crossfade_ms" yaml:"crossfade_ms"`
}

type FanConfig struct {
	PWMPin       int    `json:"pwm_pin" yaml:"pwm_pin"`
	TachPin      int    `json:"tach_pin" yaml:"tach_pin"`
	PWMFreqHz    uint32 `json:"pwm_freq_hz" yaml:"pwm_freq_hz"`
	PulsesPerRev uint32 `json:"pulses_per_rev" yaml:"pulses_per_rev"`
	KickMs       uint32 `json:"kick_ms" yaml:"kick_ms"`
}

type SensorConfig struct {
	// Kind is "shtc3", "aht20" or "sim".
	Kind   string  `json:"kind" yaml:"kind"`
	SDA    int     `json:"sda" yaml:"sda"`
	SCL    int     `json:"scl" yaml:"scl"`
	WarnC  float32 `json:"warn_c" yaml:"warn_c"`
	WarnRH float32 `json:"warn_rh" yaml:"warn_rh"`
}

type HeartbeatConfig struct {
	TimeoutMs   uint32 `json:"timeout_ms" yaml:"timeout_ms"`
	NotifyTTLMs uint32 `json:"notify_ttl_ms" yaml:"notify_ttl_ms"`
}

type SchedulerConfig struct {
	StartupDelayMs uint32 `json:"startup_delay_ms" yaml:"startup_delay_ms"`
	SettleMs       uint32 `json:"settle_ms" yaml:"settle_ms"`
}

// Defaults.
const (
	DefaultBaud           = 115200
	DefaultMaxLine        = 256
	DefaultCrossfadeMs    = 350
	DefaultPWMFreqHz      = 25000
	DefaultPulsesPerRev   = 2
	DefaultKickMs         = 1500
	DefaultWarnC          = 38
	DefaultWarnRH         = 85
	DefaultHostTimeoutMs  = 5000
	DefaultNotifyTTLMs    = 4000
	DefaultStartupDelayMs = 3000
	DefaultSettleMs       = 500
)

// Default returns a normalised configuration with every default applied.
func Default() Config {
	var c Config
	c.Normalize()
	return c
}

// Normalize fills zero fields with defaults.
func (c *Config) Normalize() {
	setU32(&c.Link.Baud, DefaultBaud)
	if c.Link.MaxLine <= 0 {
		c.Link.MaxLine = DefaultMaxLine
	}
	setU32(&c.LEDs.CrossfadeMs, DefaultCrossfadeMs)
	setU32(&c.Fan.PWMFreqHz, DefaultPWMFreqHz)
	setU32(&c.Fan.PulsesPerRev, DefaultPulsesPerRev)
	setU32(&c.Fan.KickMs, DefaultKickMs)
	if c.Sensor.Kind == "" {
		c.Sensor.Kind = "sim"
	}
	if c.Sensor.WarnC == 0 {
		c.Sensor.WarnC = DefaultWarnC
	}
	if c.Sensor.WarnRH == 0 {
		c.Sensor.WarnRH = DefaultWarnRH
	}
	setU32(&c.Heartbeat.TimeoutMs, DefaultHostTimeoutMs)
	setU32(&c.Heartbeat.NotifyTTLMs, DefaultNotifyTTLMs)
	setU32(&c.Scheduler.StartupDelayMs, DefaultStartupDelayMs)
	setU32(&c.Scheduler.SettleMs, DefaultSettleMs)
}

// Validate reports the first inconsistent field.
func (c *Config) Validate() error {
	switch c.Sensor.Kind {
	case "shtc3", "aht20", "sim":
	default:
		return invalid("sensor.kind", "want shtc3, aht20 or sim")
	}
	if c.Link.MaxLine < 16 || c.Link.MaxLine > 4096 {
		return invalid("link.max_line", "want 16..4096")
	}
	if len(c.LEDs.Pins) > 3 {
		return invalid("leds.pins", "at most 3 strips")
	}
	if c.Fan.KickMs > 10000 {
		return invalid("fan.kick_ms", "startup kick longer than 10s")
	}
	if !finite(c.Sensor.WarnC) || !finite(c.Sensor.WarnRH) || c.Sensor.WarnRH > 100 {
		return invalid("sensor", "warning thresholds out of range")
	}
	if c.Heartbeat.TimeoutMs < 1000 {
		return invalid("heartbeat.timeout_ms", "want at least 1000")
	}
	return nil
}

// Parse decodes, normalises and validates a JSON configuration.
func Parse(raw []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, &errcode.E{C: errcode.InvalidConfig, Op: "config parse", Err: err}
	}
	c.Normalize()
	return c, c.Validate()
}

// EmbeddedConfigLookup allows overriding how board configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Embedded returns the configuration compiled in for board.
func Embedded(board string) (Config, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Config{}, errcode.New(errcode.NotFound, "config", "no embedded config for board: "+board)
	}
	return Parse(raw)
}

func setU32(p *uint32, def uint32) {
	if *p == 0 {
		*p = def
	}
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func invalid(field, msg string) error {
	return errcode.New(errcode.InvalidConfig, field, msg)
}
