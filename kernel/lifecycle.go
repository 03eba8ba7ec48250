// Copyright 2014-2015, Erik Moqvist
//
// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

package kernel

import (
	"time"

	"github.com/erikmoqvist/rtkernel/klog"
	"github.com/erikmoqvist/rtkernel/port"
)

// MinStackSize is the smallest stack buffer Spawn accepts: enough for the
// canary word plus a minimal fill region.
const MinStackSize = canarySize + 32

// EntryFunc is a thread body. It receives the argument passed to Spawn and
// runs to completion exactly once; returning terminates the thread.
type EntryFunc func(arg any)

// Spawn creates a new thread, spec §4.4. The stack buffer is sized by
// stackSize; the TCB itself is a Go heap value (see tcb.go) rather than
// living at the buffer's base, but the buffer is still fully accounted for
// by the fill-pattern/canary/watermark machinery of spec §4.7.
func (sys *System) Spawn(name string, entry EntryFunc, arg any, prio int8, stackSize int) (*Thread, Errno) {
	if stackSize < MinStackSize {
		return nil, ErrInval
	}
	return sys.spawnLocked(name, entry, arg, prio, stackSize)
}

func (sys *System) spawnLocked(name string, entry EntryFunc, arg any, prio int8, stackSize int) (*Thread, Errno) {
	stack := make([]byte, stackSize)
	if !sys.cfg.DisableAssert {
		setCanary(stack)
	}
	if !sys.cfg.DisableStackProfile {
		fillStack(stack)
	}

	t := &Thread{
		name:      name,
		prio:      prio,
		state:     StateReady,
		log:       klog.NewLogger(sys.logger, name, klog.Default),
		stack:     stack,
		stackSize: stackSize,
		portCtx:   port.NewContext(),
	}

	parent := sys.sched.current
	if parent != nil {
		t.parent = parent
		parent.children = append(parent.children, t)
	}

	if err := sys.port.SpawnInit(t.portCtx, func() {
		entry(arg)
		sys.terminate()
	}); err != nil {
		return nil, ErrInval
	}

	sys.Lock()
	sys.sched.ready.push(t)
	sys.Unlock()

	return t, OK
}

// terminate marks the calling thread Terminated and reschedules. It never
// returns: a terminated thread's goroutine simply parks forever, since
// terminated threads are not reaped (spec §4.4).
func (sys *System) terminate() {
	sys.Lock()
	sys.sched.current.state = StateTerminated
	sys.reschedule()
	sys.Unlock()
}

// Self returns the calling thread. Valid only when called from kernel-
// scheduled thread code.
func (sys *System) Self() *Thread {
	return sys.sched.current
}

// SetName renames the calling thread.
func (sys *System) SetName(name string) {
	t := sys.sched.current
	t.name = name
	t.log = klog.NewLogger(sys.logger, name, t.log.Mask())
}

// GetLogMask returns the calling thread's log mask.
func (sys *System) GetLogMask() klog.Mask {
	return sys.sched.current.log.Mask()
}

// SetLogMask installs t's log mask, returning the previous value.
func (sys *System) SetLogMask(t *Thread, mask klog.Mask) klog.Mask {
	return t.SetLogMask(mask)
}

// Suspend deschedules the calling thread, optionally with a timeout. A nil
// timeout blocks until resumed; a zero timeout polls non-blockingly,
// returning ErrTimedOut immediately without descheduling (spec §4.4,
// resolving the original's state-consistency quirk for the zero-timeout
// case, see DESIGN.md). A resume that arrived before the call is consumed
// first, whatever the timeout: the thread re-joins the ready queue,
// reschedules and returns that resume's code. Returns the error code
// latched by the resume that woke the thread.
func (sys *System) Suspend(timeout *time.Duration) Errno {
	sys.Lock()
	defer sys.Unlock()
	return sys.suspendLocked(timeout)
}

func (sys *System) suspendLocked(timeout *time.Duration) Errno {
	t := sys.sched.current

	if t.state == StateResumed {
		t.state = StateReady
		sys.sched.ready.push(t)
	} else {
		if timeout != nil && *timeout <= 0 {
			// Immediate non-blocking poll: do not deschedule.
			return ErrTimedOut
		}
		t.state = StateSuspended
		if timeout != nil {
			sys.armTimer(t, timeout.Seconds())
		}
	}

	sys.reschedule()
	return t.err
}

// Resume arms t to run again, latching err as the value its suspend call
// will return, spec §4.4.
func (sys *System) Resume(t *Thread, err Errno) {
	sys.Lock()
	defer sys.Unlock()
	sys.resumeLocked(t, err)
}

// ResumeIsr is Resume's ISR-context counterpart: the caller must already
// hold the critical section (e.g. from within a tick callback).
func (sys *System) ResumeIsr(t *Thread, err Errno) {
	sys.resumeLocked(t, err)
}

func (sys *System) resumeLocked(t *Thread, err Errno) {
	t.err = err

	switch t.state {
	case StateSuspended:
		sys.cancelTimer(t)
		t.state = StateReady
		sys.sched.ready.push(t)
	case StateCurrent, StateReady:
		t.state = StateResumed
	case StateTerminated:
		// No-op: a terminated thread cannot be resumed.
	}
}

// Yield voluntarily gives up the CPU, re-entering the ready queue at the
// calling thread's own priority and immediately rescheduling. Real
// hardware returns from the idle-wait instruction straight into the
// scheduler on every interrupt; a hosted goroutine has no such return
// path, so the Idle thread (builtin.go's idleEntry) calls Yield after
// every port-level idle wait to give the scheduler a chance to pick up
// whatever the tick just made ready (see DESIGN.md).
func (sys *System) Yield() {
	sys.Lock()
	defer sys.Unlock()
	t := sys.sched.current
	t.state = StateReady
	sys.sched.ready.push(t)
	sys.reschedule()
}

// Wait polls t until it terminates, sleeping 50ms between checks. This is
// a deliberately simple, documented choice over an event-driven wait (the
// parent being resumed by child termination) — see spec §9's Open
// Questions and DESIGN.md.
func (sys *System) Wait(t *Thread) Errno {
	for {
		sys.Lock()
		done := t.state == StateTerminated
		sys.Unlock()
		if done {
			return OK
		}
		sys.USleep(50 * time.Millisecond)
	}
}

// USleep suspends the calling thread for d, treating a timer-driven wakeup
// as success. Unlike the original thrd_usleep, which collapses any other
// wakeup reason to a fixed -1, USleep returns the real resume error code so
// a caller can tell a timeout from a deliberate early wakeup.
func (sys *System) USleep(d time.Duration) Errno {
	err := sys.Suspend(&d)
	if err == ErrTimedOut {
		return OK
	}
	return err
}
