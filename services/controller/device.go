// Package controller owns every on-device component and runs them from one
// cooperative loop.
package controller

import (
	"costume-go/bus"
	"costume-go/link"
	"costume-go/services/bridge"
	"costume-go/services/config"
	"costume-go/services/display"
	"costume-go/services/fan"
	"costume-go/services/hal"
	"costume-go/services/heartbeat"
	"costume-go/services/leds"
	"costume-go/services/sensors"
	"costume-go/types"
)

// Outbound topics not owned by the bridge.
const (
	TopicFaceOverride = "face/override"
	TopicFanStatus    = "fan/status"
	TopicFanConfig    = "fan/config"
	TopicFanError     = "fan/error"
	TopicEnvStatus    = "env/status"
	TopicHeartbeat    = "sys/heartbeat"
	TopicLinkStats    = "link/stats"
	TopicPong         = "pong"
)

// Device is the single owner of component state. Every mutation goes
// through its methods on the loop goroutine.
type Device struct {
	cfg   config.Config
	board *hal.Board

	host   *link.HostLink
	menu   *bridge.Bridge
	leds   *leds.Engine
	fan    *fan.Controller
	env    *sensors.Monitor
	disp   *display.Display
	live   *heartbeat.Liveness
	notice *heartbeat.Overlay
	router *bus.Router

	bootMs      int64
	nowMs       int64
	hostAlive   bool
	handlerErrs uint32
	publishErrs uint32
	unknownTop  uint32
}

// New wires the components onto board. cfg should already be normalised.
func New(cfg config.Config, board *hal.Board) (*Device, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}
	d := &Device{
		cfg:    cfg,
		board:  board,
		host:   link.NewHostLink(board.Host, cfg.Link.MaxLine),
		leds:   leds.New(cfg.LEDs.CrossfadeMs, board.Strips...),
		live:   heartbeat.NewLiveness(cfg.Heartbeat.TimeoutMs),
		notice: heartbeat.NewOverlay(cfg.Heartbeat.NotifyTTLMs),
		env:    sensors.NewMonitor(board.Sensor, cfg.Sensor.WarnC, cfg.Sensor.WarnRH),
		router: bus.NewRouter(),
	}
	d.menu = bridge.New(board.Menu, d.host, d)
	d.fan = fan.New(fan.Options{
		Output:       board.Fan,
		Tach:         board.Tach,
		Store:        board.Store,
		PulsesPerRev: cfg.Fan.PulsesPerRev,
		KickMs:       cfg.Fan.KickMs,
	})
	if board.Screen != nil {
		d.disp = display.New(board.Screen)
	}
	d.routes()
	return d, nil
}

// Boot restores persisted settings and spins the fan up. It blocks for the
// fan kick and must run before the loop starts.
func (d *Device) Boot(nowMs int64) {
	d.bootMs, d.nowMs = nowMs, nowMs
	if err := d.fan.Load(); err != nil {
		println("[ctl] fan config load:", err.Error())
	}
	if d.board.Sleep != nil {
		if err := d.fan.Kick(d.board.Sleep); err != nil {
			println("[ctl] fan kick:", err.Error())
		}
	}
	println("[ctl] boot", d.board.Name)
}

// -----------------------------------------------------------------------------
// Bridge triggers
// -----------------------------------------------------------------------------

// ParamChanged routes menu parameter changes to the LED engine and display.
func (d *Device) ParamChanged(i bridge.Index, v uint8) {
	t := d.leds.Target()
	switch i {
	case bridge.ColorMode:
		d.leds.SetColorMode(v)
	case bridge.HueFront:
		d.leds.SetHues(v, t.HueBack)
	case bridge.HueBack:
		d.leds.SetHues(t.HueFront, v)
	case bridge.Brightness:
		d.leds.SetBrightness(v)
	case bridge.Face:
		d.leds.SetFace(v)
		d.publishOverride()
		d.refreshDisplay()
	}
}

// Booped drives the LED boop flag; it never touches menu state.
func (d *Device) Booped(on bool) { d.leds.SetBoop(on) }

// -----------------------------------------------------------------------------
// Periodic work
// -----------------------------------------------------------------------------

func (d *Device) pollHost() {
	revived := false
	d.host.Poll(func(e link.Envelope) {
		d.live.OnHostMessage(d.nowMs)
		if !d.hostAlive {
			d.hostAlive, revived = true, true
		}
		d.router.Dispatch(&bus.Message{Topic: bus.Parse(e.Topic), Payload: e.Payload})
	})
	if revived {
		println("[ctl] host link up")
		d.refreshDisplay()
	}
}

// startup runs once after the startup delay.
func (d *Device) startup() {
	println("[ctl] startup sync")
	if d.disp != nil {
		d.disp.Invalidate()
	}
	d.publishErr(d.menu.PublishSchema())
	d.publishOverride()
	if err := d.menu.RequestFullSync(); err != nil {
		println("[ctl] menu sync:", err.Error())
	}
}

func (d *Device) everySecond() {
	_ = d.env.Sample()
	d.fan.SampleTach(d.nowMs)
	if r, ok := d.env.Latest(); ok || !d.fan.AutoMode() {
		if err := d.fan.Update(r.TempC, r.RH); err != nil {
			println("[ctl] fan output:", err.Error())
		}
	}

	alive, lost := d.live.Check(d.nowMs)
	if lost {
		println("[ctl] host link lost")
	}
	d.hostAlive = alive

	d.publishJSON(TopicFanStatus, d.fan.Status())
	d.publishJSON(TopicEnvStatus, d.env.Status())
	d.publishJSON(TopicHeartbeat, d.heartbeat())
	d.refreshDisplay()
}

// fastDisplay reports whether the display needs the quick cadence.
func (d *Device) fastDisplay() bool {
	return d.notice.Active(d.nowMs) || d.env.Warning()
}

func (d *Device) refreshDisplay() {
	if d.disp == nil {
		return
	}
	v := display.View{
		Face:      bridge.Face.Desc().Label(d.menu.Value(bridge.Face)),
		Env:       d.env.Status(),
		Fan:       d.fan.Status(),
		HostAlive: d.hostAlive,
		Level:     d.menu.Value(bridge.DisplayLevel),
		Blink:     (d.nowMs/FastDisplayMs)%2 == 0,
	}
	if d.notice.Active(d.nowMs) {
		n, _ := d.notice.Current()
		v.Notice = &n
		v.NoticeLeftS = (d.notice.RemainingMs(d.nowMs) + 999) / 1000
	}
	d.disp.Refresh(v)
}

func (d *Device) heartbeat() types.Heartbeat {
	hb := types.Heartbeat{
		UptimeMs:        d.nowMs - d.bootMs,
		HostAlive:       d.hostAlive,
		HandlerErrors:   d.handlerErrs,
		UnknownTopics:   d.unknownTop,
		PublishErrors:   d.publishErrs,
		LEDWriteErrors:  d.leds.WriteErrors(),
		FanOutputErrors: d.fan.OutputErrors(),
		SensorErrors:    d.env.Errors(),
	}
	if d.disp != nil {
		hb.DisplayErrors = d.disp.Errors()
	}
	return hb
}

func (d *Device) publishOverride() {
	face := d.menu.Value(bridge.Face)
	d.publishJSON(TopicFaceOverride, types.OverrideStatus{
		Value:  face,
		Label:  bridge.Face.Desc().Label(face),
		Active: face == leds.FaceAngry || face == leds.FaceSad,
	})
}

func (d *Device) publishFanConfig() {
	d.publishErr(d.host.Publish(TopicFanConfig, string(d.fan.ConfigJSON())))
}

func (d *Device) publishStats() {
	d.publishJSON(TopicLinkStats, d.host.Stats())
}

func (d *Device) publishJSON(topic string, v any) {
	d.publishErr(d.host.PublishJSON(topic, v))
}

func (d *Device) publishErr(err error) {
	if err == nil {
		return
	}
	if d.publishErrs == 0 {
		println("[ctl] publish failed:", err.Error())
	}
	d.publishErrs++
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

func (d *Device) LEDs() *leds.Engine         { return d.leds }
func (d *Device) Fan() *fan.Controller       { return d.fan }
func (d *Device) Menu() *bridge.Bridge       { return d.menu }
func (d *Device) Host() *link.HostLink       { return d.host }
func (d *Device) Notice() *heartbeat.Overlay { return d.notice }

// HostAlive reports the liveness latch as of the last one-second pass.
func (d *Device) HostAlive() bool { return d.hostAlive }

// HandlerErrors counts inbound messages whose handler failed.
func (d *Device) HandlerErrors() uint32 { return d.handlerErrs }

// UnknownTopics counts inbound messages no handler matched.
func (d *Device) UnknownTopics() uint32 { return d.unknownTop }
