package types

// ------------------------
// Temperature & humidity
// ------------------------

// EnvStatus is published on env/status once per second.
type EnvStatus struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16 `json:"deci_c"`
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100  uint16 `json:"rh_x100"`
	Sensor  string `json:"sensor"`
	Warning bool   `json:"warning"`
	Error   string `json:"error,omitempty"`
}

// ------------------------
// Fan
// ------------------------

type FanStatus struct {
	AutoMode bool   `json:"autoMode"`
	Percent  uint8  `json:"percent"`
	RPM      uint32 `json:"rpm"`
}

type FanError struct {
	Error string `json:"error"`
}
