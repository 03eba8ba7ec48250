// Copyright 2014-2015, Erik Moqvist
//
// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

package kernel

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/erikmoqvist/rtkernel/kconfig"
	"github.com/erikmoqvist/rtkernel/klog"
	"github.com/erikmoqvist/rtkernel/port"
)

// System is the process-wide facade of spec §4.1 item 2: it owns the tick
// counter, the stdout channel, the fatal-error hook, and the module
// init/start order. There is exactly one per process.
type System struct {
	cfg    kconfig.Config
	port   port.Port
	logger *logrus.Logger

	sched scheduler

	tickCount uint64
	timers    []*timerEntry

	stdoutMu sync.Mutex
	stdout   io.Writer

	onFatalMu sync.Mutex
	onFatal   func(Errno)

	root *Thread

	monitor monitorSettings

	startOnce sync.Once
	stopTick  func()
}

type monitorSettings struct {
	mu        sync.Mutex
	periodMS  int64
	print     bool
	rateLimit *rateLimiter
}

// New builds a System with the given configuration and port. Pass
// port.NewSimulator() for the hosted default; a bare-metal build would
// supply its own Port implementation here instead.
func New(cfg kconfig.Config, p port.Port) *System {
	sys := &System{
		cfg:    cfg,
		port:   p,
		logger: logrus.New(),
		stdout: os.Stdout,
	}
	sys.onFatal = sys.defaultFatal
	sys.monitor.periodMS = cfg.MonitorPeriodMS
	sys.monitor.print = cfg.MonitorPrint
	sys.monitor.rateLimit = newRateLimiter()
	return sys
}

// Lock and Unlock expose the thread-context critical section to
// application code laying semaphores/channels over the kernel (spec §6).
func (sys *System) Lock()   { sys.port.Lock() }
func (sys *System) Unlock() { sys.port.Unlock() }

// SetOnFatalCallback installs the hook invoked on a non-recoverable error
// (a stack-canary breach, or reschedule finding the ready queue empty; both
// are reported as ErrStack). The default hook logs and calls
// os.Exit; a test harness will usually replace it.
func (sys *System) SetOnFatalCallback(cb func(Errno)) {
	sys.onFatalMu.Lock()
	defer sys.onFatalMu.Unlock()
	sys.onFatal = cb
}

func (sys *System) defaultFatal(err Errno) {
	sys.logger.WithField("thread", sys.sched.current.name).Fatalf("fatal kernel error: %v", err)
}

func (sys *System) fatal(err Errno) {
	sys.onFatalMu.Lock()
	cb := sys.onFatal
	sys.onFatalMu.Unlock()
	cb(err)
}

// SetStdout installs the channel application code and the Monitor thread
// write reports to.
func (sys *System) SetStdout(w io.Writer) {
	sys.stdoutMu.Lock()
	defer sys.stdoutMu.Unlock()
	sys.stdout = w
}

// Stdout returns the currently installed stdout writer.
func (sys *System) Stdout() io.Writer {
	sys.stdoutMu.Lock()
	defer sys.stdoutMu.Unlock()
	return sys.stdout
}

// TickCount returns the monotonic tick counter.
func (sys *System) TickCount() uint64 {
	return atomic.LoadUint64(&sys.tickCount)
}

// InterruptCPUUsageGet and InterruptCPUUsageReset report and clear the
// aggregate time spent servicing ticks.
func (sys *System) InterruptCPUUsageGet() float64 { return sys.port.InterruptCPUUsageGet() }
func (sys *System) InterruptCPUUsageReset()       { sys.port.InterruptCPUUsageReset() }

// Root returns the main thread, the root of the parent/child tree.
func (sys *System) Root() *Thread { return sys.root }

// Logger returns the kernel-wide structured logger.
func (sys *System) Logger() *logrus.Logger { return sys.logger }

// Start initializes sub-modules in order and brings up the built-in
// threads, mirroring sys_start's {settings, std, log, sem, chan, thrd,
// port} sequence (spec §6). settings/std/log are folded into New and
// SetStdout; sem/chan are out of this spec's scope (§1) and are no-ops
// here; thrd materializes the main thread and spawns Idle/Monitor; port
// starts the tick source last, idempotently (spec §9's sys_port_module_init
// double-call is resolved by making this safe to call more than once).
func (sys *System) Start() error {
	var startErr error
	sys.startOnce.Do(func() {
		sys.root = sys.materializeMainThread()
		sys.sched.current = sys.root

		if _, err := sys.spawnLocked("idle", idleEntry, sys, 127, sys.cfg.IdleStackSize); err != OK {
			startErr = err
			return
		}
		if _, err := sys.spawnLocked("monitor", monitorEntry, sys, sys.cfg.MonitorPriority, sys.cfg.MonitorStackSize); err != OK {
			startErr = err
			return
		}

		sys.stopTick = sys.port.StartTickSource(sys.cfg.TickFrequencyHz, sys.onTick)
	})
	return startErr
}

// Stop halts the tick source. It does not reap any thread.
func (sys *System) Stop() {
	if sys.stopTick != nil {
		sys.stopTick()
	}
}

func (sys *System) materializeMainThread() *Thread {
	stack := make([]byte, sys.cfg.MainStackSize)
	if !sys.cfg.DisableAssert {
		setCanary(stack)
	}
	if !sys.cfg.DisableStackProfile {
		fillStack(stack)
	}
	return &Thread{
		name:      "main",
		prio:      0,
		state:     StateCurrent,
		log:       klog.NewLogger(sys.logger, "main", klog.Default),
		stack:     stack,
		stackSize: sys.cfg.MainStackSize,
		portCtx:   port.NewContext(),
	}
}
