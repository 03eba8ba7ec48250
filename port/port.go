// Package port is the machine-specific collaborator the kernel swaps in at
// build time (spec §4.1, §9 "Port abstraction"): critical sections, the
// context switch, idle wait, the tick source and per-thread CPU accounting.
// The kernel is handed one Port when its System is built and keeps it for
// the life of the process; every kernel call into the port goes through the
// Port interface and is dispatched dynamically.
package port

// Context is the opaque per-thread port state the kernel stores at arm's
// length inside its TCB (spec's "Port state: opaque block holding saved
// registers / native stack pointer"). On bare metal that block is the saved
// register file and stack pointer; hosted on a Go runtime there is no
// native stack pointer for the kernel to save, so the simulator substitutes
// a parking channel that stands in for "this thread's point of execution".
type Context struct {
	resume chan struct{}
	cpu    cpuAccount
}

// NewContext allocates a fresh, unparked port context.
func NewContext() *Context {
	return &Context{resume: make(chan struct{}, 1), cpu: newCPUAccount()}
}

// Port is the full set of primitives the kernel requires from the
// machine-specific layer, see spec §4.1.
type Port interface {
	// Lock and Unlock implement the thread-context critical section.
	// Package kernel never calls Lock while already holding it. Simulator's
	// critical section is not nestable: a second Lock by the holder blocks.
	Lock()
	Unlock()

	// LockISR and UnlockISR are the ISR-context equivalents, used by the
	// tick source when it calls into the kernel.
	LockISR()
	UnlockISR()

	// Swap saves the caller's state into out and restores in, transferring
	// control to in. Must be called with the critical section held. It
	// returns only once some later Swap names the caller as "in" again.
	Swap(in, out *Context)

	// SpawnInit prepares ctx so that the first Swap naming it as "in"
	// begins running entry, and so that entry returning is equivalent to
	// the thread terminating.
	SpawnInit(ctx *Context, entry func()) error

	// IdleWait blocks the calling goroutine (the Idle thread) until the
	// next tick or external event, standing in for a WFI-class instruction.
	IdleWait()

	// StartTickSource launches the periodic tick driver at freqHz,
	// invoking onTick under the ISR critical section on every period.
	// Returns a stop function.
	StartTickSource(freqHz int, onTick func()) (stop func())

	// CPUUsageStart and CPUUsageStop bracket a run of ctx on the logical
	// CPU; CPUUsageGet reports the fraction of wall-clock time spent
	// running since the last CPUUsageReset.
	CPUUsageStart(ctx *Context)
	CPUUsageStop(ctx *Context)
	CPUUsageGet(ctx *Context) float64
	CPUUsageReset(ctx *Context)

	// InterruptCPUUsageGet and InterruptCPUUsageReset report and clear the
	// aggregate time spent in tick/ISR context, symmetrical to the
	// per-thread accounting above.
	InterruptCPUUsageGet() float64
	InterruptCPUUsageReset()
}
