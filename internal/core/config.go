package core

import "time"

// RuntimeConfig contains configuration passed to the engine at initialization.
// The engine uses this for deterministic simulation and tick pacing.
type RuntimeConfig struct {
	TickInterval time.Duration // Wall-clock time represented by one tick
	Seed         int64         // RNG seed for deterministic simulation
	ScreenW      int           // Host screen width in characters (TUI only)
	ScreenH      int           // Host screen height in characters (TUI only)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickInterval: time.Second,
		Seed:         0, // 0 means use current time in platform layer
		ScreenW:      80,
		ScreenH:      24,
	}
}
