//go:build !tinygo

package samd21

import (
	"math/bits"

	"pincore-go/sched"
)

// Host backend: a simulated port group with silicon-faithful strobe
// semantics. Tests and host demos run against this; the method set is
// identical to the memory-mapped backend in port_hw.go.

// RegWrite is one journalled register store. For the 32-bit strobe
// registers Operand is the written mask; for PINCFG it is the pin mask and
// for PMUX the pin-pair byte index.
type RegWrite struct {
	Reg      string
	Operand  uint32
	IrqDepth int
}

// PortGroup is one simulated port bank.
type PortGroup struct {
	dir  uint32
	out  uint32
	pmux [PinsPerPort / 2]uint8
	pcfg [PinsPerPort]uint8

	// External stimulus for input pins.
	extMask  uint32
	extLevel uint32

	journal []RegWrite
}

var groups [NumPorts]PortGroup

// Port returns the register group for a port index.
func Port(n uint32) *PortGroup { return &groups[n] }

// ResetPorts clears all simulated port state, including journals.
func ResetPorts() {
	for i := range groups {
		groups[i] = PortGroup{}
	}
}

func (pg *PortGroup) record(reg string, operand uint32) {
	pg.journal = append(pg.journal, RegWrite{Reg: reg, Operand: operand, IrqDepth: sched.IrqDepth()})
}

func (pg *PortGroup) OutSet(mask uint32) { pg.record("OUTSET", mask); pg.out |= mask }
func (pg *PortGroup) OutClr(mask uint32) { pg.record("OUTCLR", mask); pg.out &^= mask }
func (pg *PortGroup) OutTgl(mask uint32) { pg.record("OUTTGL", mask); pg.out ^= mask }
func (pg *PortGroup) DirSet(mask uint32) { pg.record("DIRSET", mask); pg.dir |= mask }
func (pg *PortGroup) DirClr(mask uint32) { pg.record("DIRCLR", mask); pg.dir &^= mask }

// Out returns the output-value register.
func (pg *PortGroup) Out() uint32 { return pg.out }

// Dir returns the direction register.
func (pg *PortGroup) Dir() uint32 { return pg.dir }

// In samples the pad level per pin: driven outputs read back their output
// level; inputs read the external drive if one is applied, else the pull
// level (the pull follows the OUT bit on this part), else low.
func (pg *PortGroup) In() uint32 {
	var in uint32
	for bit := uint32(0); bit < PinsPerPort; bit++ {
		m := uint32(1) << bit
		switch {
		case pg.dir&m != 0:
			in |= pg.out & m
		case pg.extMask&m != 0:
			in |= pg.extLevel & m
		case pg.pcfg[bit]&PinCfgPullEn != 0:
			in |= pg.out & m
		}
	}
	return in
}

// SetPinCfg writes the whole PINCFG byte for the pin selected by mask.
func (pg *PortGroup) SetPinCfg(mask uint32, cfg uint8) {
	pg.record("PINCFG", mask)
	pg.pcfg[bits.TrailingZeros32(mask)] = cfg
}

// PinCfg returns the PINCFG byte for the pin selected by mask.
func (pg *PortGroup) PinCfg(mask uint32) uint8 {
	return pg.pcfg[bits.TrailingZeros32(mask)]
}

// PMux returns the multiplexer byte shared by the pin pair containing bit.
func (pg *PortGroup) PMux(bit uint32) uint8 { return pg.pmux[bit/2] }

// SetPMux writes the multiplexer byte shared by the pin pair containing bit.
func (pg *PortGroup) SetPMux(bit uint32, v uint8) {
	pg.record("PMUX", bit/2)
	pg.pmux[bit/2] = v
}

// Drive applies an external level to the pins in mask, as if a wire drove
// the pads.
func (pg *PortGroup) Drive(mask, level uint32) {
	pg.extMask |= mask
	pg.extLevel = pg.extLevel&^mask | level&mask
}

// Release removes the external drive from the pins in mask.
func (pg *PortGroup) Release(mask uint32) { pg.extMask &^= mask }

// Journal returns the register writes recorded so far.
func (pg *PortGroup) Journal() []RegWrite { return pg.journal }

// ClearJournal discards the recorded writes.
func (pg *PortGroup) ClearJournal() { pg.journal = nil }
