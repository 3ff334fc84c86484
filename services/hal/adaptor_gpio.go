package hal

import "pincore-go/errcode"

type gpioAdaptor struct {
	id     string
	pin    GPIOPin
	params GPIOParams
}

// NewGPIOAdaptor wraps a pin as a controllable device.
func NewGPIOAdaptor(id string, pin GPIOPin, p GPIOParams) Adaptor {
	return &gpioAdaptor{id: id, pin: pin, params: p}
}

func (a *gpioAdaptor) ID() string { return a.id }

func (a *gpioAdaptor) Capabilities() []CapInfo {
	mode := a.params.Mode
	if mode != "input" && mode != "output" {
		mode = "output"
	}
	info := map[string]any{
		"pin":            a.pin.Number(),
		"mode":           mode,
		"invert":         a.params.Invert,
		"pull":           a.params.Pull,
		"schema_version": 1,
	}
	return []CapInfo{{Kind: "gpio", Info: info}}
}

func (a *gpioAdaptor) Control(kind, method string, payload any) (any, error) {
	if kind != "gpio" {
		return nil, errcode.Unsupported
	}
	switch method {
	case "configure_input":
		return a.confInput(payload)
	case "configure_output":
		return a.confOutput(payload)
	case "set":
		lvl := wantBool(payload, "level")
		if a.params.Invert {
			lvl = !lvl
		}
		a.pin.Set(lvl)
		return map[string]any{"ok": true}, nil
	case "get":
		lvl := a.pin.Get()
		if a.params.Invert {
			lvl = !lvl
		}
		return map[string]any{"level": boolToInt(lvl)}, nil
	case "toggle":
		a.pin.Toggle()
		return map[string]any{"ok": true}, nil
	default:
		return nil, errcode.Unsupported
	}
}

func (a *gpioAdaptor) confInput(p any) (any, error) {
	pl, _ := p.(map[string]any)
	pull := parsePull(pl["pull"])
	if err := a.pin.ConfigureInput(pull); err != nil {
		return nil, err
	}
	a.params.Mode = "input"
	a.params.Pull = toPullString(pull)
	return map[string]any{"mode": "input", "pull": a.params.Pull}, nil
}

func (a *gpioAdaptor) confOutput(p any) (any, error) {
	init := wantBool(p, "initial")
	if a.params.Invert {
		init = !init
	}
	if err := a.pin.ConfigureOutput(init); err != nil {
		return nil, err
	}
	a.params.Mode = "output"
	a.params.Initial = &init
	return map[string]any{"mode": "output"}, nil
}
