package hal

// Config is supplied on the "config/hal" bus topic.
type Config struct {
	Devices []Device `json:"devices"`
}

// Device describes one device to be managed by the service.
type Device struct {
	ID     string `json:"id"`
	Type   string `json:"type"` // e.g. "gpio_dout"
	Params any    `json:"params,omitempty"`
}
