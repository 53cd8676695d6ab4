package bridge

import "costume-go/types"

// Index identifies a menu parameter. The order matches the descriptor table.
type Index uint8

const (
	ColorMode Index = iota
	HueFront
	HueBack
	Brightness
	Face
	Blink
	MouthSync
	DisplayLevel
	BoopSensor

	NumParams
)

// Trigger flags select which components react to a parameter change.
type Trigger uint8

const (
	TriggerLED Trigger = 1 << iota
	TriggerDisplay
)

// Descriptor maps one host-facing parameter to its menu-device name.
type Descriptor struct {
	HostName   string
	DeviceName string
	Max        uint8
	Labels     []string
	Triggers   Trigger
}

var offOn = []string{"Off", "On"}

var descriptors = [NumParams]Descriptor{
	ColorMode: {
		HostName: "color_mode", DeviceName: "COLOR", Max: 12,
		Labels: []string{"Base", "Rainbow", "Spectrum", "Red", "Orange", "Yellow",
			"Green", "Cyan", "Blue", "Purple", "Pink", "White", "Off"},
		Triggers: TriggerLED,
	},
	HueFront:   {HostName: "hue_front", DeviceName: "HUEF", Max: 255, Triggers: TriggerLED},
	HueBack:    {HostName: "hue_back", DeviceName: "HUEB", Max: 255, Triggers: TriggerLED},
	Brightness: {HostName: "brightness", DeviceName: "BRIGHT", Max: 255, Triggers: TriggerLED},
	Face: {
		HostName: "face", DeviceName: "FACE", Max: 7,
		Labels:   []string{"Default", "Happy", "Blush", "Wink", "Angry", "Sad", "Heart", "Dizzy"},
		Triggers: TriggerLED | TriggerDisplay,
	},
	Blink:        {HostName: "blink", DeviceName: "BLINK", Max: 1, Labels: offOn},
	MouthSync:    {HostName: "mouth_sync", DeviceName: "MOUTH", Max: 2, Labels: []string{"Off", "Mic", "Auto"}},
	DisplayLevel: {HostName: "display_level", DeviceName: "DISPL", Max: 15},
	BoopSensor:   {HostName: "boop_sensor", DeviceName: "BOOPEN", Max: 1, Labels: offOn},
}

// Descriptors returns the table in Index order. Callers must not modify it.
func Descriptors() []Descriptor { return descriptors[:] }

// Desc returns the descriptor for i; i must be < NumParams.
func (i Index) Desc() *Descriptor { return &descriptors[i] }

func (i Index) Valid() bool { return i < NumParams }

func (i Index) String() string {
	if !i.Valid() {
		return "?"
	}
	return descriptors[i].HostName
}

// ByHostName finds a parameter by its host-facing name.
func ByHostName(name string) (Index, bool) {
	for i := range descriptors {
		if descriptors[i].HostName == name {
			return Index(i), true
		}
	}
	return NumParams, false
}

// ByDeviceName finds a parameter by its menu-device name.
func ByDeviceName(name string) (Index, bool) {
	for i := range descriptors {
		if descriptors[i].DeviceName == name {
			return Index(i), true
		}
	}
	return NumParams, false
}

// Clamp limits v to [0, Max].
func (d *Descriptor) Clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > int(d.Max):
		return d.Max
	}
	return uint8(v)
}

// Label returns the option name for v, or "" for unlabelled parameters and
// out-of-range values.
func (d *Descriptor) Label(v uint8) string {
	if int(v) < len(d.Labels) {
		return d.Labels[v]
	}
	return ""
}

// SchemaType is toggle for labelled 0..1 parameters, select for other
// labelled ones and range otherwise.
func (d *Descriptor) SchemaType() string {
	switch {
	case len(d.Labels) == 0:
		return types.SchemaRange
	case d.Max == 1:
		return types.SchemaToggle
	default:
		return types.SchemaSelect
	}
}

// Schema builds the host-facing schema entry.
func (d *Descriptor) Schema() types.SchemaEntry {
	return types.SchemaEntry{Min: 0, Max: d.Max, Type: d.SchemaType(), Options: d.Labels}
}
