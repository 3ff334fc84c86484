package hal

import (
	"pincore-go/errcode"
	"pincore-go/pins"
)

// GPIO device builders. Pin specs use the board syntax: an optional ^ or ~
// prefix requests a pull, ! inverts the logic sense.

func init() {
	RegisterBuilder("gpio_dout", gpioBuilder{mode: "output"})
	RegisterBuilder("gpio_din", gpioBuilder{mode: "input"})
	// An LED is a gpio_dout that defaults to off.
	RegisterBuilder("led", gpioBuilder{mode: "output"})
}

type gpioBuilder struct {
	mode string
}

func (b gpioBuilder) Build(in BuildInput) (Adaptor, error) {
	p := decodeGPIOParams(in.Params)
	if p.Pin == "" {
		return nil, errcode.InvalidParams
	}

	num, spec, err := pins.Resolve(p.Pin, pins.Options{CanInvert: true, CanPullup: true})
	if err != nil {
		return nil, errcode.UnknownPin
	}

	// Merge prefix requests into the explicit fields.
	if spec.Invert {
		p.Invert = true
	}
	if p.Pull == "" {
		switch spec.Pull {
		case 1:
			p.Pull = "up"
		case -1:
			p.Pull = "down"
		}
	}
	p.Mode = b.mode

	if err := in.Claims.Claim(int(num), in.DeviceID); err != nil {
		return nil, err
	}

	pin, ok := in.Pins.ByNumber(int(num))
	if !ok {
		in.Claims.Release(int(num))
		return nil, errcode.UnknownPin
	}

	switch b.mode {
	case "output":
		initial := false
		if p.Initial != nil {
			initial = *p.Initial
		}
		if p.Invert {
			initial = !initial
		}
		if err := pin.ConfigureOutput(initial); err != nil {
			in.Claims.Release(int(num))
			return nil, err
		}
	case "input":
		if err := pin.ConfigureInput(parsePull(p.Pull)); err != nil {
			in.Claims.Release(int(num))
			return nil, err
		}
	default:
		in.Claims.Release(int(num))
		return nil, errcode.InvalidMode
	}

	return NewGPIOAdaptor(in.DeviceID, pin, p), nil
}
