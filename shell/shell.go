// Package shell exposes the kernel's debug-file-system command surface
// (spec §6) as github.com/google/subcommands commands, one per
// /kernel/... path, following the teacher's own runsc/cmd subcommand
// registration pattern. Command names and argument shapes are preserved
// for compatibility with the original firmware's shell.
package shell

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/google/subcommands"

	"github.com/erikmoqvist/rtkernel/kernel"
	"github.com/erikmoqvist/rtkernel/klog"
)

// Register adds every /kernel/... command to cmdr, writing output to out.
func Register(cmdr *subcommands.Commander, sys *kernel.System, out io.Writer) {
	cmdr.Register(&thrdList{sys: sys, out: out}, "kernel")
	cmdr.Register(&thrdSetLogMask{sys: sys, out: out}, "kernel")
	cmdr.Register(&monitorSetPeriodMS{sys: sys, out: out}, "kernel")
	cmdr.Register(&monitorSetPrint{sys: sys, out: out}, "kernel")
	cmdr.Register(&sysInfo{sys: sys, out: out}, "kernel")
}

// thrdList implements /kernel/thrd/list.
type thrdList struct {
	sys *kernel.System
	out io.Writer
}

func (*thrdList) Name() string     { return "/kernel/thrd/list" }
func (*thrdList) Synopsis() string { return "print the thread tree" }
func (*thrdList) Usage() string    { return "/kernel/thrd/list\n" }
func (*thrdList) SetFlags(*flag.FlagSet) {}

func (c *thrdList) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	fmt.Fprintf(c.out, "            NAME           PARENT        STATE  PRIO   CPU  MAX-STACK-USAGE  LOGMASK\r\n")
	for _, info := range c.sys.Snapshot() {
		fmt.Fprintf(c.out, "%16s %16s %12s %5d %4.0f%%    %6d/%6d     0x%02x\r\n",
			info.Name, info.ParentName, info.State, info.Priority, info.CPUUsage*100,
			info.StackUsed, info.StackSize, info.LogMask)
	}
	return subcommands.ExitSuccess
}

// thrdSetLogMask implements /kernel/thrd/set_log_mask <name> <mask>.
type thrdSetLogMask struct {
	sys *kernel.System
	out io.Writer
}

func (*thrdSetLogMask) Name() string     { return "/kernel/thrd/set_log_mask" }
func (*thrdSetLogMask) Synopsis() string { return "set a thread's log mask" }
func (*thrdSetLogMask) Usage() string    { return "/kernel/thrd/set_log_mask <thread name> <log mask>\r\n" }
func (*thrdSetLogMask) SetFlags(*flag.FlagSet) {}

func (c *thrdSetLogMask) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 2 {
		fmt.Fprint(c.out, (*thrdSetLogMask)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}

	mask, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		fmt.Fprint(c.out, (*thrdSetLogMask)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}

	return exitStatus(c.sys.SetLogMaskByName(args[0], klog.Mask(mask)))
}

// monitorSetPeriodMS implements /kernel/thrd/monitor/set_period_ms <ms>.
type monitorSetPeriodMS struct {
	sys *kernel.System
	out io.Writer
}

func (*monitorSetPeriodMS) Name() string     { return "/kernel/thrd/monitor/set_period_ms" }
func (*monitorSetPeriodMS) Synopsis() string { return "set the monitor thread's report period" }
func (*monitorSetPeriodMS) Usage() string    { return "/kernel/thrd/monitor/set_period_ms <milliseconds>\r\n" }
func (*monitorSetPeriodMS) SetFlags(*flag.FlagSet) {}

func (c *monitorSetPeriodMS) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprint(c.out, (*monitorSetPeriodMS)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}

	ms, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprint(c.out, (*monitorSetPeriodMS)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}

	return exitStatus(c.sys.SetMonitorPeriodMS(ms))
}

// monitorSetPrint implements /kernel/thrd/monitor/set_print <0|1>.
type monitorSetPrint struct {
	sys *kernel.System
	out io.Writer
}

func (*monitorSetPrint) Name() string     { return "/kernel/thrd/monitor/set_print" }
func (*monitorSetPrint) Synopsis() string { return "toggle the monitor's periodic report" }
func (*monitorSetPrint) Usage() string    { return "/kernel/thrd/monitor/set_print <1/0>\r\n" }
func (*monitorSetPrint) SetFlags(*flag.FlagSet) {}

func (c *monitorSetPrint) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprint(c.out, (*monitorSetPrint)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}

	switch args[0] {
	case "0":
		return exitStatus(c.sys.SetMonitorPrint(false))
	case "1":
		return exitStatus(c.sys.SetMonitorPrint(true))
	default:
		fmt.Fprint(c.out, (*monitorSetPrint)(nil).Usage())
		return exitStatus(kernel.ErrInval)
	}
}

// sysInfo implements /kernel/sys/info.
type sysInfo struct {
	sys *kernel.System
	out io.Writer
}

func (*sysInfo) Name() string     { return "/kernel/sys/info" }
func (*sysInfo) Synopsis() string { return "print the build's info blob" }
func (*sysInfo) Usage() string    { return "/kernel/sys/info\n" }
func (*sysInfo) SetFlags(*flag.FlagSet) {}

func (c *sysInfo) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	fmt.Fprint(c.out, c.sys.BuildInfo())
	return subcommands.ExitSuccess
}

// exitStatus maps a kernel.Errno onto the shell's success/failure
// vocabulary: every code other than OK becomes ExitFailure. The numeric
// code itself is neither returned nor written to the command's output.
func exitStatus(err kernel.Errno) subcommands.ExitStatus {
	if err == kernel.OK {
		return subcommands.ExitSuccess
	}
	return subcommands.ExitFailure
}
