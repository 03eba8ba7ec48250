package klog

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestUpTo(t *testing.T) {
	got := UpTo(Warning)
	want := Emergency | Alert | Critical | Error | Warning
	if got != want {
		t.Fatalf("UpTo(Warning) = %08b, want %08b", got, want)
	}
}

func TestUpToEmergencyOnly(t *testing.T) {
	if got := UpTo(Emergency); got != Emergency {
		t.Fatalf("UpTo(Emergency) = %08b, want %08b", got, Emergency)
	}
}

func TestDefaultMatchesUpToNotice(t *testing.T) {
	if Default != UpTo(Notice) {
		t.Fatalf("Default = %08b, want UpTo(Notice) = %08b", Default, UpTo(Notice))
	}
}

func TestEnabled(t *testing.T) {
	m := UpTo(Warning)
	if !m.Enabled(Error) {
		t.Fatal("Enabled(Error) = false, want true within UpTo(Warning)")
	}
	if m.Enabled(Info) {
		t.Fatal("Enabled(Info) = true, want false within UpTo(Warning)")
	}
}

func TestSetMaskReturnsPrevious(t *testing.T) {
	l := NewLogger(logrus.New(), "t", Default)
	old := l.SetMask(UpTo(Error))
	if old != Default {
		t.Fatalf("SetMask() returned %08b, want previous mask %08b", old, Default)
	}
	if l.Mask() != UpTo(Error) {
		t.Fatalf("Mask() = %08b, want %08b", l.Mask(), UpTo(Error))
	}
}

func TestLogGatedByMask(t *testing.T) {
	base := logrus.New()
	base.SetLevel(logrus.TraceLevel)
	base.SetOutput(io.Discard)
	hook := test.NewLocal(base)

	l := NewLogger(base, "worker", UpTo(Warning))

	l.Log(Info, "should be suppressed", nil)
	if len(hook.Entries) != 0 {
		t.Fatalf("got %d entries after a below-mask Log, want 0", len(hook.Entries))
	}

	l.Log(Error, "should be emitted", logrus.Fields{"code": 7})
	if len(hook.Entries) != 1 {
		t.Fatalf("got %d entries after an enabled Log, want 1", len(hook.Entries))
	}

	entry := hook.LastEntry()
	if entry.Level != logrus.ErrorLevel {
		t.Fatalf("entry level = %v, want %v", entry.Level, logrus.ErrorLevel)
	}
	if entry.Data["thread"] != "worker" {
		t.Fatalf("entry thread field = %v, want %q", entry.Data["thread"], "worker")
	}
	if entry.Data["code"] != 7 {
		t.Fatalf("entry code field = %v, want 7", entry.Data["code"])
	}
}
