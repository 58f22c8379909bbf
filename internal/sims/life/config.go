package life

import "strconv"

// Config holds construction parameters for the life engine.
type Config struct {
	Width  int
	Height int
	// Seed feeds the xorshift32 seeder; 0 leaves the grid empty.
	Seed uint32
	// Workers sets the counting-pass parallelism; values <= 1 run the
	// step serially.
	Workers int
	// StartPaused creates the engine in the paused state.
	StartPaused bool
	// UseFFT swaps the counting pass for the convolution backend.
	UseFFT bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Width: 256, Height: 256, Seed: 42, Workers: 1}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.Seed = uint32(parsed)
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["paused"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.StartPaused = parsed
		}
	}
	if v, ok := cfg["fft"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.UseFFT = parsed
		}
	}
	return c
}
