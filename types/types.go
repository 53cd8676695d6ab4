package types

// ---- Menu parameters (host-facing) ----

// ParamStatus is published on menu/status/<name>.
type ParamStatus struct {
	Value uint8  `json:"value"`
	Label string `json:"label,omitempty"`
}

// Schema entry types.
const (
	SchemaToggle = "toggle"
	SchemaSelect = "select"
	SchemaRange  = "range"
)

// SchemaEntry describes one parameter; the schema document is keyed by
// host parameter name.
type SchemaEntry struct {
	Min     uint8    `json:"min"`
	Max     uint8    `json:"max"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// DeviceError forwards an ERR line from the menu device.
type DeviceError struct {
	Error string `json:"error"`
}

// OverrideStatus is published on face/override.
type OverrideStatus struct {
	Value  uint8  `json:"value"`
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active"`
}

// ---- Link / system ----

type LinkStats struct {
	Frames         uint32 `json:"frames"`
	FrameErrors    uint32 `json:"frame_errors"`
	Overflows      uint32 `json:"overflows"`
	WrongDirection uint32 `json:"wrong_direction"`
	Dropped        uint32 `json:"rx_dropped"`
	LastError      string `json:"last_error,omitempty"`
}

// Heartbeat is published once a second with the device's error counters.
type Heartbeat struct {
	UptimeMs        int64  `json:"uptime_ms"`
	HostAlive       bool   `json:"host_alive"`
	HandlerErrors   uint32 `json:"handler_errors"`
	UnknownTopics   uint32 `json:"unknown_topics"`
	PublishErrors   uint32 `json:"publish_errors"`
	LEDWriteErrors  uint32 `json:"led_write_errors"`
	FanOutputErrors uint32 `json:"fan_output_errors"`
	SensorErrors    uint32 `json:"sensor_errors"`
	DisplayErrors   uint32 `json:"display_errors"`
}

// Notification is the payload of the inbound notify topic.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
