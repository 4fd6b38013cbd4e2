package core

// RuntimeConfig contains configuration passed to the local simulator and the
// terminal front-ends. The stdin/stdout agent does not use it.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Displayed game turns per second
	Seed     int64 // RNG seed for the planner's random policy
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0, // 0 means use current time
	}
}
