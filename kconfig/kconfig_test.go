package kconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TickFrequencyHz != 100 {
		t.Errorf("TickFrequencyHz = %d, want 100", cfg.TickFrequencyHz)
	}
	if cfg.MonitorPeriodMS != 2000 {
		t.Errorf("MonitorPeriodMS = %d, want 2000", cfg.MonitorPeriodMS)
	}
	if cfg.MonitorPrint {
		t.Error("MonitorPrint = true, want false (printing disabled by default)")
	}
	if cfg.DisableStackProfile {
		t.Error("DisableStackProfile = true, want false (profiling enabled by default)")
	}
	if cfg.DisableAssert {
		t.Error("DisableAssert = true, want false (canary checks enabled by default)")
	}
	if cfg.BuildInfo != "rtkernel" {
		t.Errorf("BuildInfo = %q, want %q", cfg.BuildInfo, "rtkernel")
	}
}

func TestLoadOverridesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.toml")
	doc := `
tick_frequency_hz = 1000
monitor_print = true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.TickFrequencyHz != 1000 {
		t.Errorf("TickFrequencyHz = %d, want 1000 (overridden)", cfg.TickFrequencyHz)
	}
	if !cfg.MonitorPrint {
		t.Error("MonitorPrint = false, want true (overridden)")
	}
	// Keys the document omits must retain their Default() value.
	if cfg.MainStackSize != Default().MainStackSize {
		t.Errorf("MainStackSize = %d, want untouched default %d", cfg.MainStackSize, Default().MainStackSize)
	}
	if cfg.MonitorPriority != Default().MonitorPriority {
		t.Errorf("MonitorPriority = %d, want untouched default %d", cfg.MonitorPriority, Default().MonitorPriority)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("Load() on a missing file = nil error, want non-nil")
	}
}
