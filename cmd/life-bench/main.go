// Command life-bench runs the direct and FFT-convolution counting passes
// side by side from the same seed, times both, and verifies every
// generation that the two grids agree.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"gridlife/internal/sims/life"
)

func main() {
	size := flag.Int("size", 512, "grid edge length")
	steps := flag.Int("steps", 50, "generations to simulate")
	seed := flag.Uint("seed", 1337, "xorshift32 seed shared by both worlds")
	workers := flag.Int("workers", 1, "worker goroutines for the direct pass")
	flag.Parse()

	cfg := life.DefaultConfig()
	cfg.Width = *size
	cfg.Height = *size
	cfg.Seed = uint32(*seed)
	cfg.Workers = *workers

	direct, err := life.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("direct world: %v", err)
	}

	cfg.UseFFT = true
	cfg.Workers = 1
	fft, err := life.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("fft world: %v", err)
	}

	fmt.Printf("Grid: %dx%d, running %d iterations...\n\n", *size, *size, *steps)

	var directDur, fftDur time.Duration
	match := true
	for i := 0; i < *steps; i++ {
		start := time.Now()
		direct.Step()
		directDur += time.Since(start)

		start = time.Now()
		fft.Step()
		fftDur += time.Since(start)

		if n := mismatches(direct, fft); n > 0 {
			fmt.Printf("  iter %d: %d mismatched cells\n", i, n)
			match = false
		}
	}

	perIter := func(d time.Duration) float64 {
		return float64(d.Nanoseconds()) / float64(*steps) / 1e6
	}
	fmt.Printf("  Direct:   %v  (%.3f ms/iter, %d workers)\n", directDur, perIter(directDur), *workers)
	fmt.Printf("  FFT conv: %v  (%.3f ms/iter)\n", fftDur, perIter(fftDur))

	verdict := "MATCH"
	if !match {
		verdict = "MISMATCH"
	}
	fmt.Printf("\n  Result after %d iterations: %s (population %d)\n",
		*steps, verdict, direct.Population())
}

func mismatches(a, b *life.World) int {
	ac, bc := a.Grid().Cells(), b.Grid().Cells()
	n := 0
	for i := range ac {
		if ac[i].Alive != bc[i].Alive {
			n++
		}
	}
	return n
}
