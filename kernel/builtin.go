// Copyright 2014-2015, Erik Moqvist
//
// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

package kernel

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"golang.org/x/time/rate"
)

// idleEntry is the Idle thread's body, spec §4.6: lowest priority, loops
// forever on the port's idle wait. Its existence guarantees ready_pop()
// always finds a runnable thread.
func idleEntry(arg any) {
	sys := arg.(*System)
	for {
		sys.port.IdleWait()
		sys.Yield()
	}
}

// monitorEntry is the Monitor thread's body, spec §4.6, supplemented by
// original_source/src/kernel/thrd.c's monitor_thrd: wake every configured
// period, optionally print the interrupt CPU-usage aggregate and a
// per-thread report, then reset the aggregate for the next cycle.
func monitorEntry(arg any) {
	sys := arg.(*System)
	for {
		sys.USleep(sys.monitorPeriod())

		irqUsage := sys.InterruptCPUUsageGet()
		sys.InterruptCPUUsageReset()

		if !sys.monitorShouldPrint() {
			sys.updateCPUUsage(sys.root, false)
			continue
		}

		if err := sys.monitor.rateLimit.wait(); err != nil {
			sys.updateCPUUsage(sys.root, false)
			continue
		}

		sys.printMonitorHeader(irqUsage)
		sys.updateCPUUsage(sys.root, true)
	}
}

func (sys *System) monitorPeriod() time.Duration {
	sys.monitor.mu.Lock()
	defer sys.monitor.mu.Unlock()
	return time.Duration(sys.monitor.periodMS) * time.Millisecond
}

func (sys *System) monitorShouldPrint() bool {
	sys.monitor.mu.Lock()
	defer sys.monitor.mu.Unlock()
	return sys.monitor.print
}

// setMonitorPeriodMS implements /kernel/thrd/monitor/set_period_ms.
func (sys *System) setMonitorPeriodMS(ms int64) {
	sys.monitor.mu.Lock()
	defer sys.monitor.mu.Unlock()
	sys.monitor.periodMS = ms
}

// setMonitorPrint implements /kernel/thrd/monitor/set_print.
func (sys *System) setMonitorPrint(on bool) {
	sys.monitor.mu.Lock()
	defer sys.monitor.mu.Unlock()
	sys.monitor.print = on
}

func (sys *System) printMonitorHeader(irqUsage float64) {
	sys.writeStdout(fmt.Sprintf("\r\n                NAME         CPU\r\n"+
		"                 irq %9.2f%%\r\n", irqUsage*100))
}

// updateCPUUsage walks the tree from t, sampling and resetting each
// thread's CPU usage and, if print is set, writing one report line per
// thread, mirroring update_cpu_usage in the original kernel.
func (sys *System) updateCPUUsage(t *Thread, print bool) {
	sys.walk(t, func(th *Thread) bool {
		usage := sys.port.CPUUsageGet(th.portCtx)
		sys.port.CPUUsageReset(th.portCtx)
		if print {
			sys.writeStdout(fmt.Sprintf("%20s %9.2f%%\r\n", th.name, usage*100))
		}
		return true
	})
}

func (sys *System) writeStdout(s string) {
	op := func() error {
		w := sys.Stdout()
		if w == nil {
			return nil
		}
		_, err := w.Write([]byte(s))
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 200 * time.Millisecond
	_ = backoff.Retry(op, b)
}

// rateLimiter bounds how often the Monitor's printed report may flush,
// protecting the configured stdout channel from a misconfigured short
// monitor period.
type rateLimiter struct {
	l *rate.Limiter
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{l: rate.NewLimiter(rate.Every(200*time.Millisecond), 1)}
}

func (r *rateLimiter) wait() error {
	if r.l.Allow() {
		return nil
	}
	return errRateLimited
}

var errRateLimited = fmt.Errorf("monitor report rate-limited")
