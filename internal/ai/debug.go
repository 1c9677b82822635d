package ai

import "sync/atomic"

// debugEnabled gates verbose logging on the targeting and combat hot paths,
// so per-agent slog.Debug calls cost one atomic load when disabled.
var debugEnabled atomic.Bool

// EnableDebugLogging turns hot-path debug logging on or off.
// Called once by the runner after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugEnabled.Store(enabled)
}

// IsDebugEnabled reports whether hot-path debug logging is on:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("attack committed", "agent", h)
//	}
func IsDebugEnabled() bool {
	return debugEnabled.Load()
}
