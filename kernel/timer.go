package kernel

// timerEntry is a one-shot suspend-timeout armed against the tick counter,
// the minimal stand-in for the "timer" collaborator spec.md treats as an
// external module: the kernel core only needs single-shot, tick-driven
// expiry to implement suspend(timeout).
type timerEntry struct {
	thread   *Thread
	deadline uint64
	canceled bool
}

func (sys *System) ticksFor(seconds float64) uint64 {
	ticks := uint64(seconds * float64(sys.cfg.TickFrequencyHz))
	if ticks == 0 {
		ticks = 1
	}
	return ticks
}

// armTimer arms a one-shot suspend timeout for t, due in seconds from now.
// Must be called with the critical section held.
func (sys *System) armTimer(t *Thread, seconds float64) {
	te := &timerEntry{thread: t, deadline: sys.tickCount + sys.ticksFor(seconds)}
	t.timer = te
	sys.timers = append(sys.timers, te)
}

// cancelTimer invalidates any timer armed against t. Must be called with
// the critical section held.
func (sys *System) cancelTimer(t *Thread) {
	if t.timer != nil {
		t.timer.canceled = true
		t.timer = nil
	}
}

// fireTimers services every timer due at or before now, resuming their
// thread with ErrTimedOut. Must be called with the critical section held.
func (sys *System) fireTimers(now uint64) {
	if len(sys.timers) == 0 {
		return
	}
	remaining := sys.timers[:0]
	for _, te := range sys.timers {
		if te.canceled {
			continue
		}
		if now >= te.deadline {
			te.thread.timer = nil
			sys.resumeLocked(te.thread, ErrTimedOut)
		} else {
			remaining = append(remaining, te)
		}
	}
	sys.timers = remaining
}
