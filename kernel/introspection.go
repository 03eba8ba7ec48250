package kernel

import "github.com/erikmoqvist/rtkernel/klog"

// ThreadInfo is one row of the introspection surface exposed to the
// debug-file-system collaborator (spec §6): name, parent-name, state,
// priority, cpu-usage, stack-used/size, log-mask.
type ThreadInfo struct {
	Name       string
	ParentName string
	State      State
	Priority   int8
	CPUUsage   float64
	StackUsed  int
	StackSize  int
	LogMask    klog.Mask
}

// Snapshot walks the parent/child tree from the main thread in pre-order
// and reports each thread's introspection row, backing
// /kernel/thrd/list.
func (sys *System) Snapshot() []ThreadInfo {
	sys.Lock()
	defer sys.Unlock()

	var out []ThreadInfo
	sys.walk(sys.root, func(t *Thread) bool {
		parentName := ""
		if t.parent != nil {
			parentName = t.parent.name
		}
		out = append(out, ThreadInfo{
			Name:       t.name,
			ParentName: parentName,
			State:      t.state,
			Priority:   t.prio,
			CPUUsage:   sys.port.CPUUsageGet(t.portCtx),
			StackUsed:  t.StackUsed(),
			StackSize:  t.stackSize,
			LogMask:    t.log.Mask(),
		})
		return true
	})
	return out
}

// SetLogMaskByName implements /kernel/thrd/set_log_mask: looks up a thread
// by name and installs mask, returning ErrSrch if no such thread exists.
func (sys *System) SetLogMaskByName(name string, mask klog.Mask) Errno {
	sys.Lock()
	t := sys.getByName(name)
	sys.Unlock()

	if t == nil {
		return ErrSrch
	}
	t.SetLogMask(mask)
	return OK
}

// SetMonitorPeriodMS implements /kernel/thrd/monitor/set_period_ms.
func (sys *System) SetMonitorPeriodMS(ms int64) Errno {
	if ms <= 0 {
		return ErrInval
	}
	sys.setMonitorPeriodMS(ms)
	return OK
}

// SetMonitorPrint implements /kernel/thrd/monitor/set_print.
func (sys *System) SetMonitorPrint(on bool) Errno {
	sys.setMonitorPrint(on)
	return OK
}

// BuildInfo implements /kernel/sys/info.
func (sys *System) BuildInfo() string {
	return sys.cfg.BuildInfo
}
