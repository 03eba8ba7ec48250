package kernel

// scheduler is the process-wide singleton of spec §3: it owns the ready
// queue and the current-thread reference. Every field here is written only
// by the tick handler or by a thread holding the critical section, per the
// kernel's concurrency model (spec §5).
type scheduler struct {
	current *Thread
	ready   readyQueue
}

// reschedule selects the highest-priority ready thread and swaps it in,
// spec §4.3. Preconditions: the critical section is held, and the caller
// has already set its own state to something other than Ready if it means
// to yield the CPU.
func (sys *System) reschedule() {
	out := sys.sched.current

	if !sys.cfg.DisableAssert && !canaryOK(out.stack) {
		sys.fatal(ErrStack)
		return
	}

	in := sys.sched.ready.pop()
	if in == nil {
		// The Idle thread is always ready; reaching here is a bookkeeping
		// bug elsewhere in the kernel, not a recoverable runtime state.
		sys.fatal(ErrStack)
		return
	}
	in.state = StateCurrent

	if in != out {
		sys.sched.current = in
		sys.port.CPUUsageStop(out.portCtx)
		sys.port.Swap(in.portCtx, out.portCtx)
		sys.port.CPUUsageStart(out.portCtx)
	}
}
