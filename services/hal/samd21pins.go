package hal

import (
	samd21 "pincore-go/chip/samd21"
	"pincore-go/errcode"
)

// PinFactory over the SAMD21 port groups. ByNumber bounds-checks the pin
// so handle construction below never hits the chip layer's fatal path; the
// shutdown there is reserved for unvalidated compile-time tables.

const (
	modeNone = iota
	modeInput
	modeOutput
)

type samdPin struct {
	pin  samd21.Pin
	out  samd21.Output
	in   samd21.Input
	mode int
}

type samdPinFactory struct{}

// NewSAMD21PinFactory returns the pin factory for the on-chip port groups.
func NewSAMD21PinFactory() PinFactory { return samdPinFactory{} }

func (samdPinFactory) ByNumber(n int) (GPIOPin, bool) {
	if n < 0 || n >= samd21.NumPorts*samd21.PinsPerPort {
		return nil, false
	}
	return &samdPin{pin: samd21.Pin(n)}, true
}

func (p *samdPin) ConfigureInput(pull Pull) error {
	var pm int8
	switch pull {
	case PullUp:
		pm = 1
	case PullDown:
		// The pad's pull direction follows the OUT bit, which the input
		// path never writes. Rather than enable a pull whose direction is
		// whatever OUT last held, refuse the request.
		return errcode.InvalidParams
	}
	p.in = samd21.InputSetup(p.pin, pm)
	p.mode = modeInput
	return nil
}

func (p *samdPin) ConfigureOutput(initial bool) error {
	p.out = samd21.OutputSetup(p.pin, initial)
	p.mode = modeOutput
	return nil
}

func (p *samdPin) Set(level bool) {
	if p.mode == modeOutput {
		p.out.Write(level)
	}
}

func (p *samdPin) Get() bool {
	switch p.mode {
	case modeOutput:
		return p.out.Level()
	case modeInput:
		return p.in.Read()
	default:
		return false
	}
}

func (p *samdPin) Toggle() {
	if p.mode == modeOutput {
		p.out.Toggle()
	}
}

func (p *samdPin) Number() int { return int(p.pin) }
