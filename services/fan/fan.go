// Package fan drives the cooling fan from temperature and humidity curves,
// or at a fixed duty in manual mode.
package fan

import (
	"encoding/json"
	"errors"

	"costume-go/services/config"
	"costume-go/types"
	"costume-go/x/mathx"
)

// StoreKey names the persisted curve configuration.
const StoreKey = "fan.json"

// Output sets the fan duty in percent.
type Output interface {
	SetPercent(p uint8) error
}

// Tach exposes a free-running pulse counter.
type Tach interface {
	Count() uint32
}

type Options struct {
	Output       Output
	Tach         Tach // optional
	Store        config.Store
	PulsesPerRev uint32
	KickMs       uint32
}

// Controller is not safe for concurrent use.
type Controller struct {
	out   Output
	tach  Tach
	store config.Store
	ppr   uint32
	kick  uint32

	cfg     CurveConfig
	percent uint8
	manual  uint8

	rpm        uint32
	lastCount  uint32
	lastTachMs int64
	tachPrimed bool

	outErrs uint32
}

func New(o Options) *Controller {
	if o.PulsesPerRev == 0 {
		o.PulsesPerRev = config.DefaultPulsesPerRev
	}
	return &Controller{
		out:   o.Output,
		tach:  o.Tach,
		store: o.Store,
		ppr:   o.PulsesPerRev,
		kick:  o.KickMs,
		cfg:   DefaultConfig(),
	}
}

// Load restores the persisted configuration. A missing or invalid blob
// leaves the defaults in place; only the invalid case is reported.
func (c *Controller) Load() error {
	if c.store == nil {
		return nil
	}
	raw, err := c.store.Load(StoreKey)
	if errors.Is(err, config.ErrNotStored) {
		return nil
	}
	if err != nil {
		return err
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		println("[fan] stored config rejected:", err.Error())
		return err
	}
	c.cfg = cfg
	return nil
}

// SetConfig validates, applies and persists a JSON configuration. An
// invalid document leaves the current configuration untouched.
func (c *Controller) SetConfig(raw []byte) error {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return c.persist()
}

// ConfigJSON encodes the active configuration.
func (c *Controller) ConfigJSON() []byte {
	b, _ := json.Marshal(&c.cfg)
	return b
}

func (c *Controller) Config() CurveConfig { return c.cfg }

// Calculate evaluates the active curves without touching the output.
func (c *Controller) Calculate(temp, humidity float32) uint8 {
	return c.cfg.Calculate(temp, humidity)
}

func (c *Controller) AutoMode() bool { return c.cfg.AutoMode }

// SetAutoMode switches between curve and manual control. Leaving auto
// mode holds the last computed duty.
func (c *Controller) SetAutoMode(on bool) {
	if !on && c.cfg.AutoMode {
		c.manual = c.percent
	}
	c.cfg.AutoMode = on
}

// SetManual forces manual mode at p percent (clamped to 100) and drives the
// output immediately.
func (c *Controller) SetManual(p int) error {
	c.cfg.AutoMode = false
	c.manual = mathx.ClampU8(p, 100)
	return c.drive(c.manual)
}

func (c *Controller) Percent() uint8 { return c.percent }

// Update recomputes the duty in auto mode and drives the output.
func (c *Controller) Update(temp, humidity float32) error {
	if c.cfg.AutoMode {
		return c.drive(c.cfg.Calculate(temp, humidity))
	}
	return c.drive(c.manual)
}

// Kick runs the fan at full duty for KickMs so it starts reliably, then
// returns it to the current duty. Startup only; it blocks in sleep.
func (c *Controller) Kick(sleep func(ms uint32)) error {
	if c.kick == 0 || c.out == nil {
		return nil
	}
	if err := c.out.SetPercent(100); err != nil {
		return err
	}
	sleep(c.kick)
	return c.out.SetPercent(c.percent)
}

// SampleTach converts pulses since the previous sample into RPM.
func (c *Controller) SampleTach(nowMs int64) {
	if c.tach == nil {
		return
	}
	n := c.tach.Count()
	if !c.tachPrimed {
		c.lastCount, c.lastTachMs, c.tachPrimed = n, nowMs, true
		return
	}
	el := nowMs - c.lastTachMs
	if el <= 0 {
		return
	}
	pulses := n - c.lastCount // wraps correctly
	c.rpm = uint32(uint64(pulses) * 60000 / (uint64(el) * uint64(c.ppr)))
	c.lastCount, c.lastTachMs = n, nowMs
}

func (c *Controller) RPM() uint32 { return c.rpm }

func (c *Controller) Status() types.FanStatus {
	return types.FanStatus{AutoMode: c.cfg.AutoMode, Percent: c.percent, RPM: c.rpm}
}

// OutputErrors counts failed duty writes.
func (c *Controller) OutputErrors() uint32 { return c.outErrs }

func (c *Controller) drive(p uint8) error {
	c.percent = p
	if c.out == nil {
		return nil
	}
	if err := c.out.SetPercent(p); err != nil {
		c.outErrs++
		return err
	}
	return nil
}

func (c *Controller) persist() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(StoreKey, c.ConfigJSON())
}
