//go:build tinygo

package samd21

import (
	"math/bits"
	"runtime/volatile"
	"unsafe"
)

// Target backend: PortGroup is laid out over one memory-mapped PORT group.

// PortGroup is one hardware port bank register group.
type PortGroup struct {
	dir      volatile.Register32
	dirclr   volatile.Register32
	dirset   volatile.Register32
	dirtgl   volatile.Register32
	out      volatile.Register32
	outclr   volatile.Register32
	outset   volatile.Register32
	outtgl   volatile.Register32
	in       volatile.Register32
	ctrl     volatile.Register32
	wrconfig volatile.Register32
	_        volatile.Register32
	pmux     [PinsPerPort / 2]volatile.Register8
	pcfg     [PinsPerPort]volatile.Register8
	_        [32]uint8
}

const (
	portBase   uintptr = 0x41004400
	portStride uintptr = 0x80
)

// Port returns the register group for a port index.
func Port(n uint32) *PortGroup {
	return (*PortGroup)(unsafe.Pointer(portBase + uintptr(n)*portStride))
}

func (pg *PortGroup) OutSet(mask uint32) { pg.outset.Set(mask) }
func (pg *PortGroup) OutClr(mask uint32) { pg.outclr.Set(mask) }
func (pg *PortGroup) OutTgl(mask uint32) { pg.outtgl.Set(mask) }
func (pg *PortGroup) DirSet(mask uint32) { pg.dirset.Set(mask) }
func (pg *PortGroup) DirClr(mask uint32) { pg.dirclr.Set(mask) }

// Out returns the output-value register.
func (pg *PortGroup) Out() uint32 { return pg.out.Get() }

// Dir returns the direction register.
func (pg *PortGroup) Dir() uint32 { return pg.dir.Get() }

// In returns the input-value register.
func (pg *PortGroup) In() uint32 { return pg.in.Get() }

// SetPinCfg writes the whole PINCFG byte for the pin selected by mask.
func (pg *PortGroup) SetPinCfg(mask uint32, cfg uint8) {
	pg.pcfg[bits.TrailingZeros32(mask)].Set(cfg)
}

// PinCfg returns the PINCFG byte for the pin selected by mask.
func (pg *PortGroup) PinCfg(mask uint32) uint8 {
	return pg.pcfg[bits.TrailingZeros32(mask)].Get()
}

// PMux returns the multiplexer byte shared by the pin pair containing bit.
func (pg *PortGroup) PMux(bit uint32) uint8 { return pg.pmux[bit/2].Get() }

// SetPMux writes the multiplexer byte shared by the pin pair containing bit.
func (pg *PortGroup) SetPMux(bit uint32, v uint8) { pg.pmux[bit/2].Set(v) }
