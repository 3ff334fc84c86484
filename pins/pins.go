// Package pins maps board-level pin names and pin-spec strings onto the
// abstract pin numbers the chip layer consumes.
package pins

import (
	"errors"
	"strings"

	samd21 "pincore-go/chip/samd21"
)

var (
	ErrEmptySpec  = errors.New("empty pin specification")
	ErrBadSpec    = errors.New("invalid characters in pin name")
	ErrUnknownPin = errors.New("unknown pin name")
)

// Spec is a parsed pin specification.
type Spec struct {
	Name   string // pin name, e.g. "PA5"
	Chip   string // controller name, default "mcu"
	Invert bool   // inverted logic (! prefix)
	Pull   int8   // 1 = pull-up (^), -1 = pull-down (~), 0 = none
}

// Options controls which prefixes a pin spec may carry.
type Options struct {
	CanInvert bool // allow ! prefix
	CanPullup bool // allow ^ and ~ prefixes
}

// Parse parses a pin specification of the form [chip:][^|~][!]name.
func Parse(desc string, opts Options) (Spec, error) {
	d := strings.TrimSpace(desc)
	if d == "" {
		return Spec{}, ErrEmptySpec
	}

	s := Spec{Chip: "mcu"}

	if opts.CanPullup && len(d) > 0 {
		switch d[0] {
		case '^':
			s.Pull = 1
			d = strings.TrimSpace(d[1:])
		case '~':
			s.Pull = -1
			d = strings.TrimSpace(d[1:])
		}
	}

	if opts.CanInvert && len(d) > 0 && d[0] == '!' {
		s.Invert = true
		d = strings.TrimSpace(d[1:])
	}

	if idx := strings.Index(d, ":"); idx >= 0 {
		s.Chip = strings.TrimSpace(d[:idx])
		d = strings.TrimSpace(d[idx+1:])
	}

	if d == "" {
		return Spec{}, ErrEmptySpec
	}
	if strings.ContainsAny(d, "^~!:") {
		return Spec{}, ErrBadSpec
	}

	s.Name = d
	return s, nil
}

// Lookup resolves a port-style pin name ("PA5", "PB17") to its pin number.
func Lookup(name string) (samd21.Pin, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if len(n) < 3 || n[0] != 'P' {
		return 0, ErrUnknownPin
	}
	bank := n[1]
	if bank < 'A' || bank >= 'A'+samd21.NumPorts {
		return 0, ErrUnknownPin
	}
	num := 0
	for _, c := range n[2:] {
		if c < '0' || c > '9' {
			return 0, ErrUnknownPin
		}
		num = num*10 + int(c-'0')
		if num >= samd21.PinsPerPort {
			return 0, ErrUnknownPin
		}
	}
	return samd21.GPIO(bank, uint8(num)), nil
}

// Resolve parses and resolves a spec in one step.
func Resolve(desc string, opts Options) (samd21.Pin, Spec, error) {
	s, err := Parse(desc, opts)
	if err != nil {
		return 0, Spec{}, err
	}
	p, err := Lookup(s.Name)
	if err != nil {
		return 0, Spec{}, err
	}
	return p, s, nil
}
