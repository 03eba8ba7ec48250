// Package kconfig holds the kernel's compile-time configuration (spec §6
// "Compile-time configuration"). Unlike the original firmware, where these
// are preprocessor defines baked in at build time, this module loads them
// from an optional TOML document at process start — the closest hosted
// equivalent — using the same toml library the teacher repo depends on.
package kconfig

import "github.com/BurntSushi/toml"

// Config mirrors the original kernel's build-time knobs.
type Config struct {
	// TickFrequencyHz is the system tick rate. Default 100, per spec §4.1.
	TickFrequencyHz int `toml:"tick_frequency_hz"`

	// MainStackSize sizes the synthetic stack buffer given to the
	// materialized main thread.
	MainStackSize int `toml:"main_stack_size"`

	// IdleStackSize and MonitorStackSize size the two built-in threads.
	IdleStackSize    int `toml:"idle_stack_size"`
	MonitorStackSize int `toml:"monitor_stack_size"`

	// MonitorPriority is the Monitor thread's starting priority. Negative
	// by convention, ahead of ordinary user threads (spec §9).
	MonitorPriority int8 `toml:"monitor_priority"`

	// MonitorPeriodMS is the Monitor thread's report interval in
	// milliseconds, matching the unit used by the
	// /kernel/thrd/monitor/set_period_ms shell command.
	MonitorPeriodMS int64 `toml:"monitor_period_ms"`

	// MonitorPrint toggles the periodic CPU-usage report.
	MonitorPrint bool `toml:"monitor_print"`

	// DisableAssert skips stack-canary checks when true.
	DisableAssert bool `toml:"disable_assert"`

	// DisableStackProfile skips the fill-pattern/watermark bookkeeping
	// when true.
	DisableStackProfile bool `toml:"disable_stack_profile"`

	// BuildInfo is printed verbatim by /kernel/sys/info.
	BuildInfo string `toml:"build_info"`
}

// Default returns the configuration the original kernel ships with:
// 100 Hz tick, 2 s monitor period, printing disabled, profiling enabled.
func Default() Config {
	return Config{
		TickFrequencyHz:  100,
		MainStackSize:    4096,
		IdleStackSize:    256,
		MonitorStackSize: 1024,
		MonitorPriority:  -80,
		MonitorPeriodMS:  2000,
		MonitorPrint:     false,
		BuildInfo:        "rtkernel",
	}
}

// Load reads a TOML document at path over the defaults, leaving any key
// the file omits untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
