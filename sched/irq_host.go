//go:build !tinygo

package sched

// Host builds model the interrupt mask as a nesting depth so tests can check
// that multi-register sequences really run inside a critical section. The
// concurrency model is a single execution context preempted by interrupts;
// there are no goroutines touching this state.

var irqDepth int

// IrqSave disables interrupts and returns the previous state.
func IrqSave() IrqState {
	prev := IrqState(irqDepth)
	irqDepth++
	return prev
}

// IrqRestore restores the interrupt state saved by the matching IrqSave.
func IrqRestore(s IrqState) {
	irqDepth = int(s)
}

// IrqDepth reports the current critical-section nesting depth.
func IrqDepth() int { return irqDepth }

// Shutdown halts the system with a diagnostic. It never returns control to
// the caller; on host builds that is a typed panic test code can recover.
func Shutdown(msg string) {
	panic(&ShutdownError{Msg: msg})
}
