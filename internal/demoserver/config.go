package demoserver

// Config holds configuration for the demo target server.
type Config struct {
	// Port is the port on which the demo server listens.
	Port int

	// Hardened serves the same site with the weaknesses fixed, useful
	// for before/after scan comparisons.
	Hardened bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port: 9999,
	}
}
