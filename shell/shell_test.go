package shell

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/erikmoqvist/rtkernel/kconfig"
	"github.com/erikmoqvist/rtkernel/kernel"
	"github.com/erikmoqvist/rtkernel/port"
)

func newTestSystem(t *testing.T) *kernel.System {
	t.Helper()
	cfg := kconfig.Default()
	cfg.TickFrequencyHz = 1000
	cfg.MonitorPeriodMS = 60000
	cfg.BuildInfo = "rtkernel-test-build"
	sys := kernel.New(cfg, port.NewSimulator())
	if err := sys.Start(); err != nil {
		t.Fatalf("Start() = %v, want OK", err)
	}
	t.Cleanup(sys.Stop)
	return sys
}

// flagSetWithArgs builds a bare flag.FlagSet whose positional Args() are
// exactly args, the shape every Execute method here expects.
func flagSetWithArgs(args ...string) *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = fs.Parse(args)
	return fs
}

func TestThrdListIncludesSpawnedThread(t *testing.T) {
	sys := newTestSystem(t)
	if _, errno := sys.Spawn("worker", func(arg any) {
		sys.Suspend(nil)
	}, nil, 10, 4096); errno != kernel.OK {
		t.Fatalf("Spawn() = %v, want OK", errno)
	}

	var out bytes.Buffer
	cmd := &thrdList{sys: sys, out: &out}
	status := cmd.Execute(context.Background(), flagSetWithArgs())

	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want ExitSuccess", status)
	}
	if !strings.Contains(out.String(), "worker") {
		t.Fatalf("output %q does not mention spawned thread %q", out.String(), "worker")
	}
	if !strings.Contains(out.String(), "NAME") {
		t.Fatalf("output %q missing header row", out.String())
	}
}

func TestThrdSetLogMaskSuccess(t *testing.T) {
	sys := newTestSystem(t)
	if _, errno := sys.Spawn("loggy", func(arg any) {
		sys.Suspend(nil)
	}, nil, 10, 4096); errno != kernel.OK {
		t.Fatalf("Spawn() = %v, want OK", errno)
	}

	var out bytes.Buffer
	cmd := &thrdSetLogMask{sys: sys, out: &out}
	status := cmd.Execute(context.Background(), flagSetWithArgs("loggy", "0x3"))

	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want ExitSuccess", status)
	}

	var found bool
	for _, info := range sys.Snapshot() {
		if info.Name == "loggy" {
			found = true
			if info.LogMask != 0x3 {
				t.Fatalf("thread log mask = %#x, want 0x3", info.LogMask)
			}
		}
	}
	if !found {
		t.Fatal("Snapshot() did not report the spawned thread")
	}
}

func TestThrdSetLogMaskUnknownThread(t *testing.T) {
	sys := newTestSystem(t)

	var out bytes.Buffer
	cmd := &thrdSetLogMask{sys: sys, out: &out}
	status := cmd.Execute(context.Background(), flagSetWithArgs("nobody", "0x1"))

	if status == subcommands.ExitSuccess {
		t.Fatal("Execute() on an unknown thread name = ExitSuccess, want failure")
	}
}

func TestThrdSetLogMaskBadArgCount(t *testing.T) {
	sys := newTestSystem(t)

	var out bytes.Buffer
	cmd := &thrdSetLogMask{sys: sys, out: &out}
	status := cmd.Execute(context.Background(), flagSetWithArgs("onlyname"))

	if status == subcommands.ExitSuccess {
		t.Fatal("Execute() with one argument = ExitSuccess, want failure")
	}
	if !strings.Contains(out.String(), "Usage") && !strings.Contains(out.String(), "set_log_mask") {
		t.Fatalf("output %q should print usage on argument-count error", out.String())
	}
}

func TestMonitorSetPeriodMS(t *testing.T) {
	sys := newTestSystem(t)

	var out bytes.Buffer
	cmd := &monitorSetPeriodMS{sys: sys, out: &out}

	if status := cmd.Execute(context.Background(), flagSetWithArgs("500")); status != subcommands.ExitSuccess {
		t.Fatalf("Execute(500) = %v, want ExitSuccess", status)
	}
	// "--" keeps "-1" a positional argument instead of an undefined flag.
	if status := cmd.Execute(context.Background(), flagSetWithArgs("--", "-1")); status == subcommands.ExitSuccess {
		t.Fatal("Execute(-1) = ExitSuccess, want failure (non-positive period)")
	}
	if status := cmd.Execute(context.Background(), flagSetWithArgs("not-a-number")); status == subcommands.ExitSuccess {
		t.Fatal("Execute(not-a-number) = ExitSuccess, want failure")
	}
}

func TestMonitorSetPrint(t *testing.T) {
	sys := newTestSystem(t)

	var out bytes.Buffer
	cmd := &monitorSetPrint{sys: sys, out: &out}

	if status := cmd.Execute(context.Background(), flagSetWithArgs("1")); status != subcommands.ExitSuccess {
		t.Fatalf("Execute(1) = %v, want ExitSuccess", status)
	}
	if status := cmd.Execute(context.Background(), flagSetWithArgs("0")); status != subcommands.ExitSuccess {
		t.Fatalf("Execute(0) = %v, want ExitSuccess", status)
	}
	if status := cmd.Execute(context.Background(), flagSetWithArgs("maybe")); status == subcommands.ExitSuccess {
		t.Fatal("Execute(maybe) = ExitSuccess, want failure")
	}
}

func TestSysInfo(t *testing.T) {
	sys := newTestSystem(t)

	var out bytes.Buffer
	cmd := &sysInfo{sys: sys, out: &out}
	status := cmd.Execute(context.Background(), flagSetWithArgs())

	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want ExitSuccess", status)
	}
	if out.String() != "rtkernel-test-build" {
		t.Fatalf("output = %q, want %q", out.String(), "rtkernel-test-build")
	}
}
