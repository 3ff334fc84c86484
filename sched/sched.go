// Package sched provides the two collaborators every register-level driver
// in this tree leans on: nest-safe critical sections and a fatal shutdown
// that never returns.
package sched

// IrqState is the opaque interrupt state returned by IrqSave. It must be
// handed back to IrqRestore unmodified so that nested critical sections
// restore the outer state rather than unconditionally re-enabling.
type IrqState uintptr

// ShutdownError is the value a fatal shutdown carries on host builds, where
// Shutdown panics instead of parking the CPU. Target builds never unwind.
type ShutdownError struct {
	Msg string
}

func (e *ShutdownError) Error() string { return "shutdown: " + e.Msg }

// IsShutdown reports whether a recovered panic value came from Shutdown.
func IsShutdown(v any) (*ShutdownError, bool) {
	e, ok := v.(*ShutdownError)
	return e, ok
}
