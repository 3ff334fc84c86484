// Package hal manages configured GPIO devices on top of the chip layer and
// exposes them over the bus.
package hal

import "tinygo.org/x/drivers"

// Pull selects the internal resistor for an input pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is the control surface of one digital pin. Backends reject pulls
// they cannot provide with errcode.InvalidParams; the on-chip factory only
// supports PullUp, so the advertised "pull" capability is "up" or "none".
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// PinFactory supplies pins by abstract pin number.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// SPIBusFactory injects configured SPI instances by id for devices that sit
// on a shared bus.
type SPIBusFactory interface {
	ByID(id string) (drivers.SPI, bool)
}

// CapInfo describes one capability's retained info document.
type CapInfo struct {
	Kind string         // capability kind
	Info map[string]any // small JSONable map
}

// Adaptor owns a concrete device and exposes generic hooks. Adaptors must
// NOT touch the bus or spawn goroutines.
type Adaptor interface {
	ID() string
	// Static capability descriptions (published as retained).
	Capabilities() []CapInfo
	// Pass-through control for device methods. Returns
	// (nil, errcode.Unsupported) for an unknown method/kind.
	Control(kind, method string, payload any) (result any, err error)
}

// State is the retained service state document.
type State struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
}

// GPIOParams is the config shape shared by the GPIO device types. Pin is a
// pin-spec string; its ^/~ and ! prefixes merge with the explicit Pull and
// Invert fields, the explicit field winning.
type GPIOParams struct {
	Pin     string `json:"pin"`               // e.g. "PA5", "^PB3", "!PA17"
	Mode    string `json:"mode"`              // "input" | "output"
	Pull    string `json:"pull,omitempty"`    // "up" | "down" | "none"
	Initial *bool  `json:"initial,omitempty"` // for outputs
	Invert  bool   `json:"invert,omitempty"`
}
