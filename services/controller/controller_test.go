package controller

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"costume-go/link"
	"costume-go/serial"
	"costume-go/services/bridge"
	"costume-go/services/config"
	"costume-go/services/fan"
	"costume-go/services/hal"
	"costume-go/services/leds"
	"costume-go/services/sensors"
	"costume-go/types"
	"costume-go/x/timex"
)

func TestFanSetPublishesStatus(t *testing.T) {
	r := newRig(t)
	r.send("fan/set", "42")
	r.pass()

	var st types.FanStatus
	r.lastJSON(t, TopicFanStatus, &st)
	if st.AutoMode || st.Percent != 42 {
		t.Fatalf("fan/status = %+v, want manual 42", st)
	}
	if got := r.fan.Percent(); got != 42 {
		t.Fatalf("fan output = %d, want 42", got)
	}
}

func TestFanSetRejectsGarbage(t *testing.T) {
	r := newRig(t)
	r.send("fan/set", "fast")
	r.pass()

	var fe types.FanError
	r.lastJSON(t, TopicFanError, &fe)
	if fe.Error == "" {
		t.Fatal("empty fan/error")
	}
	if r.dev.HandlerErrors() != 1 {
		t.Fatalf("handler errors = %d", r.dev.HandlerErrors())
	}
}

func TestFanConfigRoundTrip(t *testing.T) {
	r := newRig(t)
	cfg := `{"autoMode":true,"temperature":[{"value":20,"percent":10},{"value":30,"percent":90}],"humidity":[{"value":50,"percent":0},{"value":90,"percent":100}]}`
	r.send("fan/config/set", cfg)
	r.pass()

	var got fan.CurveConfig
	r.lastJSON(t, TopicFanConfig, &got)
	if len(got.Temperature) != 2 || got.Temperature[1].Percent != 90 {
		t.Fatalf("fan/config = %+v", got)
	}
	if _, err := r.store.Load(fan.StoreKey); err != nil {
		t.Fatalf("config not persisted: %v", err)
	}

	r.send("fan/config/set", `{"autoMode":true,"temperature":[{"value":30,"percent":0}]}`)
	r.pass()
	var fe types.FanError
	r.lastJSON(t, TopicFanError, &fe)
	if fe.Error == "" {
		t.Fatal("invalid config not reported")
	}
}

func TestStartupSyncAndSettle(t *testing.T) {
	r := newRig(t)
	r.runUntil(2990)
	if r.has(bridge.TopicSchema) {
		t.Fatal("schema published before startup delay")
	}
	r.host.TakeOutput()

	r.runUntil(3020)
	if !r.has(bridge.TopicSchema) {
		t.Fatal("schema not published at startup")
	}
	if !r.sched.Started() {
		t.Fatal("startup not marked done")
	}
	if !r.dev.Menu().Known(bridge.Brightness) || r.dev.Menu().Value(bridge.Brightness) != 128 {
		t.Fatalf("brightness not synced: %d", r.dev.Menu().Value(bridge.Brightness))
	}
	if r.dev.LEDs().Ready() {
		t.Fatal("LEDs ready before settle")
	}

	r.runUntil(3600)
	if !r.dev.LEDs().Ready() {
		t.Fatal("LEDs not ready after settle")
	}
	if r.dev.LEDs().Target().Brightness != 128 {
		t.Fatalf("LED brightness = %d", r.dev.LEDs().Target().Brightness)
	}
	if r.strips[0].Writes == 0 {
		t.Fatal("strip never written")
	}

	r.host.TakeOutput()
	r.runUntil(10000)
	if r.has(bridge.TopicSchema) {
		t.Fatal("startup ran twice")
	}
}

func TestMenuSetFromHost(t *testing.T) {
	r := newRig(t)
	r.send("menu/set/face", "4")
	r.pass()
	r.pass()

	if got := r.menu.Value("FACE"); got != 4 {
		t.Fatalf("menu FACE = %d", got)
	}
	var ov types.OverrideStatus
	r.lastJSON(t, TopicFaceOverride, &ov)
	if !ov.Active || ov.Label != "Angry" {
		t.Fatalf("override = %+v", ov)
	}
	if r.dev.LEDs().Target().Face != leds.FaceAngry {
		t.Fatalf("LED face = %d", r.dev.LEDs().Target().Face)
	}

	r.send("menu/set/volume", "3")
	r.pass()
	if r.dev.HandlerErrors() != 1 {
		t.Fatalf("handler errors = %d", r.dev.HandlerErrors())
	}
}

func TestBoopReachesLEDsOnly(t *testing.T) {
	r := newRig(t)
	r.runUntil(3600)

	r.menu.Boop(true)
	r.pass()
	if !r.dev.LEDs().Target().Boop {
		t.Fatal("boop not applied")
	}
	if r.dev.Menu().Value(bridge.BoopSensor) != 0 {
		t.Fatal("boop changed menu state")
	}

	r.menu.Boop(false)
	r.pass()
	if r.dev.LEDs().Target().Boop {
		t.Fatal("boop not released")
	}
}

func TestHeartbeatLatch(t *testing.T) {
	r := newRig(t)
	r.send("ping", "1")
	r.runUntil(1000)
	if !r.dev.HostAlive() {
		t.Fatal("host not alive after ping")
	}
	var pong string
	for _, e := range r.frames() {
		if e.Topic == TopicPong {
			pong = e.Payload
		}
	}
	if pong != "1" {
		t.Fatalf("pong = %q", pong)
	}

	r.runUntil(5000)
	if !r.dev.HostAlive() {
		t.Fatal("host lost before timeout")
	}
	r.runUntil(6100)
	if r.dev.HostAlive() {
		t.Fatal("host still alive after timeout")
	}
	if got := strings.TrimSpace(r.screen.Rows[3]); got != "Host LOST" {
		t.Fatalf("row 3 = %q", got)
	}

	r.host.TakeOutput()
	r.send("ping", "2")
	r.pass()
	if !r.dev.HostAlive() {
		t.Fatal("valid frame did not revive the host")
	}
	if got := strings.TrimSpace(r.screen.Rows[3]); got != "Host OK" {
		t.Fatalf("row 3 after revival = %q", got)
	}
	r.runUntil(7100)
	var hb types.Heartbeat
	r.lastJSON(t, TopicHeartbeat, &hb)
	if !hb.HostAlive {
		t.Fatal("heartbeat did not recover")
	}
}

func TestNotifyShowsThenExpires(t *testing.T) {
	r := newRig(t)
	r.pass()
	r.send("notify", `{"title":"Battery","message":"Swap the pack soon"}`)
	r.pass()

	if got := r.screen.Rows[0]; !strings.HasPrefix(got, "Battery ") || !strings.HasSuffix(got, " 4s") {
		t.Fatalf("row 0 = %q", got)
	}
	if got := strings.TrimSpace(r.screen.Rows[1]); got != "Swap the pack soon" {
		t.Fatalf("row 1 = %q", got)
	}
	if !r.screen.Backlight {
		t.Fatal("backlight off during notice")
	}

	r.runUntil(r.clock.Ms + 5100)
	if got := strings.TrimSpace(r.screen.Rows[0]); !strings.HasPrefix(got, "Face ") {
		t.Fatalf("row 0 after expiry = %q", got)
	}
}

func TestNotifyClearAndBadPayload(t *testing.T) {
	r := newRig(t)
	r.send("notify", `{"title":"Hi"}`)
	r.pass()
	if !r.dev.Notice().Active(r.clock.Ms) {
		t.Fatal("notice not active")
	}
	r.send("notify/clear", "")
	r.pass()
	if r.dev.Notice().Active(r.clock.Ms) {
		t.Fatal("notice not cleared")
	}

	r.send("notify", "{")
	r.pass()
	if r.dev.HandlerErrors() != 1 {
		t.Fatalf("handler errors = %d", r.dev.HandlerErrors())
	}
}

func TestUnknownTopicCounted(t *testing.T) {
	r := newRig(t)
	r.send("warp/engage", "9")
	r.pass()
	if r.dev.UnknownTopics() != 1 {
		t.Fatalf("unknown topics = %d", r.dev.UnknownTopics())
	}
	if r.dev.HandlerErrors() != 0 {
		t.Fatal("unknown topic counted as handler error")
	}
	var hb types.Heartbeat
	r.lastJSON(t, TopicHeartbeat, &hb)
	if hb.UnknownTopics != 1 || hb.HandlerErrors != 0 {
		t.Fatalf("heartbeat counters = %+v", hb)
	}
}

func TestFanConfigRebroadcast(t *testing.T) {
	r := newRig(t)
	r.runUntil(29990)
	if n := r.count(TopicFanConfig); n != 0 {
		t.Fatalf("fan/config published %d times before 30 s", n)
	}
	r.runUntil(30500)
	if n := r.count(TopicFanConfig); n != 1 {
		t.Fatalf("fan/config published %d times at 30 s, want 1", n)
	}
	r.runUntil(59990)
	if n := r.count(TopicFanConfig); n != 0 {
		t.Fatalf("fan/config published %d times before 60 s", n)
	}
}

func TestLinkStatsCadence(t *testing.T) {
	r := newRig(t)
	r.send("ping", "")
	r.runUntil(9990)
	if n := r.count(TopicLinkStats); n != 0 {
		t.Fatalf("link/stats published %d times before 10 s", n)
	}
	r.runUntil(10000)
	var st types.LinkStats
	r.lastJSON(t, TopicLinkStats, &st)
	if st.Frames != 1 {
		t.Fatalf("link/stats = %+v", st)
	}
	r.runUntil(20000)
	if n := r.count(TopicLinkStats); n != 1 {
		t.Fatalf("link/stats published %d times in second period", n)
	}
}

func TestWarningUsesFastDisplay(t *testing.T) {
	cases := []struct {
		name     string
		tempC    float32
		min, max int
	}{
		// The warning mark toggles on every 250 ms refresh.
		{"warning", 40, 7, 9},
		// Otherwise rows change only when the 1 s sample does.
		{"normal", 22, 1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig(t)
			r.sensor.Value = sensors.Reading{TempC: c.tempC, RH: 40}
			r.runUntil(4000)

			writes := 0
			r.screen.OnChange = func(row int, _ string) {
				if row == 1 {
					writes++
				}
			}
			for r.clock.Ms < 6000 {
				r.clock.Advance(10)
				// Vary the reading so every sample changes the row.
				r.sensor.Value.RH = float32(30 + r.clock.Ms/1000)
				r.pass()
			}
			if writes < c.min || writes > c.max {
				t.Fatalf("row 1 written %d times in 2 s, want %d..%d", writes, c.min, c.max)
			}
		})
	}
}

func TestNoticeUsesFastDisplay(t *testing.T) {
	r := newRig(t)
	r.runUntil(1500)
	r.send("notify", `{"title":"Battery","message":"low"}`)
	r.runUntil(1510)
	if got := r.screen.Rows[0]; !strings.HasSuffix(got, " 4s") {
		t.Fatalf("row 0 = %q", got)
	}

	// The countdown crosses 3 s at 2510; the next quick refresh shows it
	// before the 3010 one-second pass.
	r.runUntil(2600)
	if got := r.screen.Rows[0]; !strings.HasSuffix(got, " 3s") {
		t.Fatalf("row 0 at 2600 = %q", got)
	}

	// Expiry at 5510 is redrawn by the quick refresh that follows it.
	r.runUntil(5600)
	if got := r.screen.Rows[0]; !strings.HasPrefix(got, "Face ") {
		t.Fatalf("row 0 after expiry = %q", got)
	}
	if r.dev.Notice().Active(r.clock.Ms) {
		t.Fatal("notice still active")
	}
}

func TestFanFollowsSensorInAutoMode(t *testing.T) {
	r := newRig(t)
	r.sensor.Value = sensors.Reading{TempC: 35, RH: 30}
	r.runUntil(1000)
	// Halfway between 30C/40% and 40C/100%.
	if got := r.fan.Percent(); got != 70 {
		t.Fatalf("fan = %d, want 70", got)
	}

	r.send("fan/set", "10")
	r.runUntil(2000)
	r.send("fan/auto", "1")
	r.runUntil(3000)
	if got := r.fan.Percent(); got != 70 {
		t.Fatalf("fan back in auto = %d, want 70", got)
	}
	var st types.FanStatus
	r.lastJSON(t, TopicFanStatus, &st)
	if !st.AutoMode {
		t.Fatal("status still manual")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

type rig struct {
	clock  *timex.Manual
	host   *serial.Mem
	menu   *hal.MenuSim
	fan    *hal.SimFan
	sensor *sensors.Sim
	store  *config.MemStore
	strips []*hal.RecordingStrip
	screen *hal.SimScreen
	dev    *Device
	sched  *Scheduler
}

func newRig(t *testing.T) *rig {
	t.Helper()
	cfg := config.Default()
	cfg.Normalize()
	cfg.Fan.KickMs = 0

	r := &rig{
		clock:  &timex.Manual{},
		host:   serial.NewMem(),
		menu:   hal.NewMenuSim(),
		sensor: &sensors.Sim{Value: sensors.Reading{TempC: 22, RH: 35}},
		store:  config.NewMemStore(),
		screen: &hal.SimScreen{},
	}
	r.fan = &hal.SimFan{Clock: r.clock, MaxRPM: 3000, PulsesPerRev: 2}
	board := &hal.Board{
		Name:   "test",
		Host:   r.host,
		Menu:   r.menu,
		Fan:    r.fan,
		Tach:   r.fan,
		Sensor: r.sensor,
		Screen: r.screen,
		Store:  r.store,
	}
	for i := 0; i < leds.StripCount; i++ {
		s := &hal.RecordingStrip{}
		r.strips = append(r.strips, s)
		board.Strips = append(board.Strips, s)
	}
	d, err := New(cfg, board)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Boot(0)
	r.dev = d
	r.sched = NewScheduler(d, 0)
	return r
}

func (r *rig) send(topic, payload string) {
	b, err := link.Encode(link.Envelope{Direction: link.ToDevice, Topic: topic, Payload: payload})
	if err != nil {
		panic(err)
	}
	r.host.Feed(b)
}

func (r *rig) pass() { r.sched.Pass(r.clock.Ms) }

// runUntil steps the clock 10 ms at a time, one pass per step.
func (r *rig) runUntil(ms int64) {
	for r.clock.Ms < ms {
		r.clock.Advance(10)
		r.pass()
	}
}

// frames returns every frame published since the previous call.
func (r *rig) frames() []link.Envelope {
	var out []link.Envelope
	for _, line := range bytes.Split(r.host.TakeOutput(), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		e, err := link.Decode(line)
		if err != nil {
			panic(err)
		}
		out = append(out, e)
	}
	return out
}

// count reports how many topic frames were published since the previous
// check.
func (r *rig) count(topic string) int {
	n := 0
	for _, e := range r.frames() {
		if e.Topic == topic {
			n++
		}
	}
	return n
}

// has reports whether topic was published since the previous check.
func (r *rig) has(topic string) bool {
	for _, e := range r.frames() {
		if e.Topic == topic {
			return true
		}
	}
	return false
}

func (r *rig) lastJSON(t *testing.T, topic string, v any) {
	t.Helper()
	var payload string
	for _, e := range r.frames() {
		if e.Topic == topic {
			payload = e.Payload
		}
	}
	if payload == "" {
		t.Fatalf("no %s frame", topic)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		t.Fatalf("%s payload %q: %v", topic, payload, err)
	}
}
