package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name passed to Embedded.
// Val: raw JSON for that board; omitted fields take defaults.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "board": "pico",
  "link": {
    "baud": 115200,
    "host_uart": {"id": 0, "tx": 0, "rx": 1},
    "menu_uart": {"id": 1, "tx": 4, "rx": 5}
  },
  "leds": {
    "pins": [16, 17, 18],
    "crossfade_ms": 350
  },
  "fan": {
    "pwm_pin": 14,
    "tach_pin": 15,
    "pwm_freq_hz": 25000,
    "pulses_per_rev": 2,
    "kick_ms": 1500
  },
  "sensor": {"kind": "shtc3", "sda": 20, "scl": 21, "warn_c": 38, "warn_rh": 85},
  "heartbeat": {"timeout_ms": 5000, "notify_ttl_ms": 4000},
  "scheduler": {"startup_delay_ms": 3000, "settle_ms": 500}
}`

const cfgSim = `{
  "board": "sim",
  "sensor": {"kind": "sim"}
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"sim":  []byte(cfgSim),
}
