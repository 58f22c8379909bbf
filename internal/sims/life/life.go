// Package life implements Conway's Game of Life on a hard-edged grid with
// pause/paint controls and an optionally row-parallel update pass.
package life

import (
	"sync"

	"gridlife/internal/core"
	"gridlife/internal/rle"
)

// World is the simulation engine. It is the sole mutator of its grid
// during a step; drivers read the grid only between steps.
type World struct {
	cfg  Config
	grid *core.Grid

	population int
	generation int
	paused     bool

	fft     *convCounter
	display []uint8
}

// New returns an engine with the given dimensions and default settings.
func New(w, h int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Seed = 0
	return NewWithConfig(cfg)
}

// NewWithConfig returns an engine configured from the provided options,
// seeded when the config carries a non-zero seed.
func NewWithConfig(cfg Config) (*World, error) {
	grid, err := core.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	core.SeedGrid(grid, cfg.Seed)
	w := &World{
		cfg:    cfg,
		grid:   grid,
		paused: cfg.StartPaused,
	}
	if cfg.UseFFT {
		w.fft = newConvCounter(cfg.Width, cfg.Height)
	}
	w.population = w.countAlive()
	return w, nil
}

// FromPattern constructs an engine from RLE pattern text; the grid
// dimensions come from the pattern header.
func FromPattern(data []byte) (*World, error) {
	grid, err := rle.Decode(data)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Width = grid.W
	cfg.Height = grid.H
	cfg.Seed = 0
	w := &World{cfg: cfg, grid: grid}
	w.population = w.countAlive()
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "life" }

// Size returns the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Grid exposes the underlying grid for readback between steps.
func (w *World) Grid() *core.Grid { return w.grid }

// Population returns the alive-cell count as of the last step.
func (w *World) Population() int { return w.population }

// Generation returns the number of completed steps.
func (w *World) Generation() int { return w.generation }

// SetWorkers changes the counting-pass parallelism. Must not be called
// while a step is in flight.
func (w *World) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	w.cfg.Workers = n
}

// Pause suspends stepping. Idempotent.
func (w *World) Pause() { w.paused = true }

// Resume clears the paused state. Idempotent.
func (w *World) Resume() { w.paused = false }

// Paused reports whether the engine is paused.
func (w *World) Paused() bool { return w.paused }

// ToggleAlive paints the target cell alive and zeroes its age. Painting
// is honored only while paused so user input can never race a step, and
// out-of-range coordinates are ignored. A painted cell cannot be killed;
// the operation is one-directional.
func (w *World) ToggleAlive(row, col int) {
	if !w.paused {
		return
	}
	w.grid.Set(row, col, true)
}

// Reset clears the grid, reseeds it from the low 32 bits of seed (0 keeps
// it empty), and rewinds the generation and pause state.
func (w *World) Reset(seed int64) {
	w.grid.Clear()
	core.SeedGrid(w.grid, uint32(seed))
	w.generation = 0
	w.paused = w.cfg.StartPaused
	w.population = w.countAlive()
}

// Cells returns the packed render buffer: bit 7 alive, low bits age.
func (w *World) Cells() []uint8 {
	if w.display == nil {
		w.display = make([]uint8, w.grid.Len())
	}
	for i, c := range w.grid.Cells() {
		v := c.Age
		if c.Alive {
			v |= 0x80
		}
		w.display[i] = v
	}
	return w.display
}

// Step advances the simulation one generation: a neighbor-counting pass
// over every alive cell, a barrier, then a rule-application pass that
// rewrites alive flags, ages, and the population count and leaves every
// neighbor accumulator at zero. While paused it does nothing.
func (w *World) Step() {
	if w.paused {
		return
	}

	switch {
	case w.fft != nil:
		w.fft.count(w.grid)
	case w.cfg.Workers > 1:
		w.countParallel()
	default:
		w.countRows(0, w.grid.H)
	}

	if w.cfg.Workers > 1 {
		w.population = w.applyParallel()
	} else {
		w.population = w.applyRows(0, w.grid.H)
	}
	w.generation++
}

// countRows accumulates neighbor counts for alive cells in rows [lo, hi).
// Only the Neighbors field is written, so the alive snapshot stays intact
// for the whole pass.
func (w *World) countRows(lo, hi int) {
	g := w.grid
	cells := g.Cells()
	for row := lo; row < hi; row++ {
		base := row * g.W
		for col := 0; col < g.W; col++ {
			if !cells[base+col].Alive {
				continue
			}
			for dr := -1; dr <= 1; dr++ {
				r := row + dr
				if r < 0 || r >= g.H {
					continue
				}
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					c := col + dc
					if c < 0 || c >= g.W {
						continue
					}
					cells[r*g.W+c].Neighbors++
				}
			}
		}
	}
}

// countParallel partitions rows across workers. A worker processing row r
// writes into rows r-1..r+1, so it holds those row locks (ascending, to
// stay deadlock-free) for the duration of that row.
func (w *World) countParallel() {
	g := w.grid
	var wg sync.WaitGroup
	for _, band := range rowBands(g.H, w.cfg.Workers) {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for row := lo; row < hi; row++ {
				g.LockRows(row-1, row+1)
				w.countRows(row, row+1)
				g.UnlockRows(row-1, row+1)
			}
		}(band[0], band[1])
	}
	wg.Wait()
}

// applyRows applies the update rule to rows [lo, hi) and returns how many
// of their cells end the step alive. Cells whose alive flag flips get age
// zero; all others age by one, saturating.
func (w *World) applyRows(lo, hi int) int {
	g := w.grid
	cells := g.Cells()
	pop := 0
	for i := lo * g.W; i < hi*g.W; i++ {
		c := &cells[i]
		alive := c.Alive
		switch {
		case !alive && c.Neighbors == 3:
			alive = true
		case alive && (c.Neighbors < 2 || c.Neighbors > 3):
			alive = false
		}
		if alive != c.Alive {
			c.Alive = alive
			c.Age = 0
		} else if c.Age < core.MaxAge {
			c.Age++
		}
		c.Neighbors = 0
		if alive {
			pop++
		}
	}
	return pop
}

// applyParallel runs the rule pass across the same row bands. There is no
// cross-row dependency once counting has finished, so no locks are needed.
func (w *World) applyParallel() int {
	bands := rowBands(w.grid.H, w.cfg.Workers)
	partial := make([]int, len(bands))
	var wg sync.WaitGroup
	for i, band := range bands {
		wg.Add(1)
		go func(i, lo, hi int) {
			defer wg.Done()
			partial[i] = w.applyRows(lo, hi)
		}(i, band[0], band[1])
	}
	wg.Wait()
	pop := 0
	for _, p := range partial {
		pop += p
	}
	return pop
}

func (w *World) countAlive() int {
	n := 0
	for _, c := range w.grid.Cells() {
		if c.Alive {
			n++
		}
	}
	return n
}

// rowBands splits h rows into at most n contiguous [lo, hi) bands.
func rowBands(h, n int) [][2]int {
	if n > h {
		n = h
	}
	chunk := (h + n - 1) / n
	var bands [][2]int
	for lo := 0; lo < h; lo += chunk {
		hi := lo + chunk
		if hi > h {
			hi = h
		}
		bands = append(bands, [2]int{lo, hi})
	}
	return bands
}

func init() {
	core.Register("life", func(cfg map[string]string) core.Sim {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			return nil
		}
		return w
	})
}
