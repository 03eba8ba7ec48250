// Package klog adapts the kernel's per-thread log mask onto logrus, the
// way the rest of the pack wires a single structured logger through every
// subsystem instead of hand-rolling one.
package klog

import "github.com/sirupsen/logrus"

// Mask is a bit-set of enabled severity levels, mirroring the original
// kernel's LOG_UPTO(level) convention (each bit gates one severity).
type Mask uint8

// Severities, ordered from most to least severe, matching the eight
// syslog-style levels the original kernel exposes through its log module.
const (
	Emergency Mask = 1 << iota
	Alert
	Critical
	Error
	Warning
	Notice
	Info
	Debug
)

// UpTo builds the mask that enables every severity at least as important
// as level, replicating LOG_UPTO() from the original kernel.
func UpTo(level Mask) Mask {
	var m Mask
	for bit := Emergency; bit != 0; bit <<= 1 {
		m |= bit
		if bit == level {
			break
		}
	}
	return m
}

// Default is the mask new threads start with: everything down to Notice,
// matching LOG_UPTO(NOTICE) in thrd_module_init / thrd_spawn.
const Default = Emergency | Alert | Critical | Error | Warning | Notice

func (m Mask) level(bit Mask) logrus.Level {
	switch bit {
	case Emergency:
		return logrus.PanicLevel
	case Alert, Critical:
		return logrus.FatalLevel
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Notice, Info:
		return logrus.InfoLevel
	default:
		return logrus.TraceLevel
	}
}

// Enabled reports whether bit is set in m.
func (m Mask) Enabled(bit Mask) bool {
	return m&bit != 0
}

// Logger is a per-thread contextual logger: each Log call builds a
// logrus.Entry tagged with the owning thread's name, filtered by that
// thread's log mask.
type Logger struct {
	base *logrus.Logger
	mask Mask
	name string
}

// NewLogger builds a Logger bound to the kernel-wide logrus.Logger.
func NewLogger(base *logrus.Logger, name string, mask Mask) *Logger {
	return &Logger{base: base, mask: mask, name: name}
}

// SetMask updates which severities this logger emits, returning the
// previous mask (mirrors thrd_set_log_mask's return of the old value).
func (l *Logger) SetMask(mask Mask) Mask {
	old := l.mask
	l.mask = mask
	return old
}

// Mask returns the currently configured mask.
func (l *Logger) Mask() Mask {
	return l.mask
}

// Log emits msg at bit's severity if bit is enabled in the current mask.
func (l *Logger) Log(bit Mask, msg string, fields logrus.Fields) {
	if !l.mask.Enabled(bit) {
		return
	}
	entry := l.base.WithField("thread", l.name)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Log(l.mask.level(bit), msg)
}
