package samd21

import "pincore-go/sched"

// Pin names one physical pin across all port groups: port index times
// PinsPerPort plus the bit index within the group.
type Pin uint8

// GPIO returns the pin number for a bank letter and bit index, so
// GPIO('B', 5) is bit 5 of the second port group.
func GPIO(bank byte, num uint8) Pin {
	return Pin((bank-'A')*PinsPerPort + num)
}

func (p Pin) port() uint32 { return uint32(p) / PinsPerPort }
func (p Pin) mask() uint32 { return 1 << (uint32(p) % PinsPerPort) }

// Peripheral routes a pin to an internal peripheral function. ptype selects
// the multiplexer function letter ('A'..'H'); zero leaves the multiplexer
// register untouched and configures the pin as plain GPIO. pullUp requests
// the internal pull resistor.
//
// The caller is expected to have validated bank and bit; this is a
// low-level primitive with no error return. Exactly one multiplexer byte
// and one PINCFG byte are written, leaving every other pin's assignment
// intact.
func Peripheral(bank byte, bit uint32, ptype byte, pullUp bool) {
	pg := Port(uint32(bank - 'A'))
	flag := sched.IrqSave()
	if ptype != 0 {
		pg.SetPMux(bit, pmuxMerge(pg.PMux(bit), bit, ptype-'A'))
	}
	pg.SetPinCfg(1<<bit, pinCfg(ptype != 0, pullUp))
	sched.IrqRestore(flag)
}

// Output is a push-pull output handle: a port group reference and a
// single-bit mask. Handles are cheap values; constructing two handles for
// the same pin with conflicting intents is a caller error the hardware
// cannot detect.
type Output struct {
	regs *PortGroup
	bit  uint32
}

// OutputSetup configures a pin as a digital output driving val and returns
// its handle. An unmapped pin number is a configuration bug and shuts the
// system down.
func OutputSetup(pin Pin, val bool) Output {
	if pin.port() >= NumPorts {
		sched.Shutdown("Not an output pin")
	}
	g := Output{regs: Port(pin.port()), bit: pin.mask()}
	g.Reset(val)
	return g
}

// Reset re-initialises direction and value as one unit. The output level is
// staged through OUTSET/OUTCLR before the direction bit is asserted, so the
// pin never glitches through the opposite level while it transitions from
// input or peripheral duty. The PINCFG byte is cleared last, dropping any
// multiplexer or pull setting.
func (g Output) Reset(val bool) {
	flag := sched.IrqSave()
	if val {
		g.regs.OutSet(g.bit)
	} else {
		g.regs.OutClr(g.bit)
	}
	g.regs.DirSet(g.bit)
	g.regs.SetPinCfg(g.bit, 0)
	sched.IrqRestore(flag)
}

// Write drives the pin high or low through the dedicated set/clear
// registers. Those have per-bit effect, so no interrupt guard is needed
// even against concurrent writers of other pins in the group.
func (g Output) Write(val bool) {
	if val {
		g.regs.OutSet(g.bit)
	} else {
		g.regs.OutClr(g.bit)
	}
}

// Toggle flips the output level. OUTTGL is per-bit atomic in hardware, so
// the default form needs no interrupt guard either.
func (g Output) Toggle() {
	g.ToggleNoIRQ()
}

// ToggleNoIRQ flips the output level; for callers already inside a
// critical section.
func (g Output) ToggleNoIRQ() {
	g.regs.OutTgl(g.bit)
}

// Level reports the currently asserted output value.
func (g Output) Level() bool {
	return g.regs.Out()&g.bit != 0
}

// Input is a read-only input handle: a port group reference and a
// single-bit mask.
type Input struct {
	regs *PortGroup
	bit  uint32
}

// InputSetup configures a pin as a high-impedance input and returns its
// handle. pull is tri-state: only a strictly positive value enables the
// internal pull resistor. An unmapped pin number shuts the system down.
func InputSetup(pin Pin, pull int8) Input {
	if pin.port() >= NumPorts {
		sched.Shutdown("Not an input pin")
	}
	g := Input{regs: Port(pin.port()), bit: pin.mask()}
	g.Reset(pull)
	return g
}

// Reset re-establishes the pin as an input: the PINCFG byte is written
// (pull per the sign convention, multiplexing off) and the direction bit
// cleared, inside one critical section.
func (g Input) Reset(pull int8) {
	flag := sched.IrqSave()
	g.regs.SetPinCfg(g.bit, pinCfg(false, pull > 0))
	g.regs.DirClr(g.bit)
	sched.IrqRestore(flag)
}

// Read samples the pin. It has no side effects and is safe from any
// context, including interrupt handlers.
func (g Input) Read() bool {
	return g.regs.In()&g.bit != 0
}
