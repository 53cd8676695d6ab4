package controller

import (
	"encoding/json"
	"strings"

	"costume-go/bus"
	"costume-go/errcode"
	"costume-go/types"
	"costume-go/x/conv"
)

// routes registers the inbound host topics.
func (d *Device) routes() {
	r := d.router
	r.HandleString("menu/set/+", d.wrap(d.onMenuSet))
	r.HandleString("menu/sync", d.wrap(func(*bus.Message) error { return d.menu.RequestFullSync() }))
	r.HandleString("menu/save", d.wrap(func(*bus.Message) error { return d.menu.Save() }))
	r.HandleString("menu/restart", d.wrap(func(*bus.Message) error { return d.menu.Restart() }))
	r.HandleString("menu/schema/get", d.wrap(func(*bus.Message) error { return d.menu.PublishSchema() }))
	r.HandleString("menu/state/get", d.wrap(func(*bus.Message) error { return d.menu.PublishState() }))
	r.HandleString("fan/set", d.wrap(d.onFanSet))
	r.HandleString("fan/auto", d.wrap(d.onFanAuto))
	r.HandleString("fan/config/set", d.wrap(d.onFanConfigSet))
	r.HandleString("fan/config/get", d.wrap(func(*bus.Message) error { d.publishFanConfig(); return nil }))
	r.HandleString("notify", d.wrap(d.onNotify))
	r.HandleString("notify/clear", d.wrap(d.onNotifyClear))
	r.HandleString("ping", d.wrap(func(m *bus.Message) error {
		return d.host.Publish(TopicPong, m.Payload)
	}))
	r.NotFound(func(m *bus.Message) {
		d.unknownTop++
		println("[ctl] unknown topic:", m.Topic.String())
	})
}

// wrap logs and counts handler errors; nothing a handler returns stops the
// loop.
func (d *Device) wrap(h func(*bus.Message) error) bus.Handler {
	return func(m *bus.Message) {
		if err := h(m); err != nil {
			d.handlerErrs++
			println("[ctl]", m.Topic.String(), "failed:", err.Error())
		}
	}
}

func (d *Device) onMenuSet(m *bus.Message) error {
	n, ok := conv.Atoi(strings.TrimSpace(m.Payload))
	if !ok {
		return errcode.New(errcode.InvalidPayload, "menu/set", m.Payload)
	}
	return d.menu.SetFromHost(m.Topic.At(2), n)
}

func (d *Device) onFanSet(m *bus.Message) error {
	n, ok := conv.Atoi(strings.TrimSpace(m.Payload))
	if !ok {
		return d.fanError(errcode.New(errcode.InvalidPayload, "fan/set", m.Payload))
	}
	err := d.fan.SetManual(n)
	d.publishJSON(TopicFanStatus, d.fan.Status())
	return err
}

func (d *Device) onFanAuto(m *bus.Message) error {
	switch strings.TrimSpace(m.Payload) {
	case "1", "true", "on":
		d.fan.SetAutoMode(true)
		if r, ok := d.env.Latest(); ok {
			_ = d.fan.Update(r.TempC, r.RH)
		}
	case "0", "false", "off":
		d.fan.SetAutoMode(false)
	default:
		return d.fanError(errcode.New(errcode.InvalidPayload, "fan/auto", m.Payload))
	}
	d.publishJSON(TopicFanStatus, d.fan.Status())
	return nil
}

func (d *Device) onFanConfigSet(m *bus.Message) error {
	if err := d.fan.SetConfig([]byte(m.Payload)); err != nil {
		return d.fanError(err)
	}
	d.publishFanConfig()
	d.publishJSON(TopicFanStatus, d.fan.Status())
	return nil
}

func (d *Device) fanError(err error) error {
	d.publishJSON(TopicFanError, types.FanError{Error: err.Error()})
	return err
}

func (d *Device) onNotify(m *bus.Message) error {
	var n types.Notification
	if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
		return &errcode.E{C: errcode.InvalidPayload, Op: "notify", Err: err}
	}
	if n.Title == "" && n.Message == "" {
		return errcode.New(errcode.InvalidPayload, "notify", "empty notification")
	}
	d.notice.Show(n.Title, n.Message, d.nowMs)
	d.refreshDisplay()
	return nil
}

func (d *Device) onNotifyClear(*bus.Message) error {
	d.notice.Clear()
	d.refreshDisplay()
	return nil
}
