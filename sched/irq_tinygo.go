//go:build tinygo

package sched

import "device/arm"

// IrqSave disables interrupts and returns the previous PRIMASK state.
func IrqSave() IrqState {
	return IrqState(arm.DisableInterrupts())
}

// IrqRestore restores the PRIMASK state saved by the matching IrqSave.
func IrqRestore(s IrqState) {
	arm.EnableInterrupts(uintptr(s))
}

// Shutdown halts the system with a diagnostic. Interrupts stay masked and
// the CPU parks until a watchdog or external reset takes over.
func Shutdown(msg string) {
	arm.DisableInterrupts()
	println("shutdown:", msg)
	for {
		arm.Asm("wfi")
	}
}
