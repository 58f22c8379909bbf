package life

import (
	"slices"
	"testing"

	"gridlife/internal/core"
)

func newWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return w
}

func emptyWorld(t *testing.T, width, height int) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.Seed = 0
	return newWorld(t, cfg)
}

func expectAlive(t *testing.T, w *World, want map[[2]int]bool) {
	t.Helper()
	w.Grid().ForEachCell(func(row, col int, c *core.Cell) {
		if c.Alive != want[[2]int{row, col}] {
			t.Errorf("cell (%d,%d) alive=%v, want %v", row, col, c.Alive, want[[2]int{row, col}])
		}
	})
}

func TestIsolatedCellDies(t *testing.T) {
	w := emptyWorld(t, 5, 5)
	w.Grid().Set(2, 2, true)

	w.Step()

	expectAlive(t, w, nil)
	if w.Population() != 0 {
		t.Fatalf("population = %d, want 0", w.Population())
	}
	if w.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", w.Generation())
	}
}

func TestBirthRuleResetsAge(t *testing.T) {
	w := emptyWorld(t, 3, 3)
	// L-shaped triple around the dead cell at (1,1).
	w.Grid().Set(0, 0, true)
	w.Grid().Set(0, 1, true)
	w.Grid().Set(1, 0, true)

	w.Step()

	born, _ := w.Grid().Get(1, 1)
	if !born.Alive {
		t.Fatal("cell (1,1) with 3 neighbors was not born")
	}
	if born.Age != 0 {
		t.Fatalf("born cell age = %d, want 0", born.Age)
	}
}

func TestCornerCellClampsNeighbors(t *testing.T) {
	// A block in the corner: every member has 3 neighbors, all inside the
	// grid, so it is stable and nothing writes out of range.
	w := emptyWorld(t, 4, 3)
	for _, pos := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		w.Grid().Set(pos[0], pos[1], true)
	}

	w.Step()

	expectAlive(t, w, map[[2]int]bool{
		{0, 0}: true, {0, 1}: true,
		{1, 0}: true, {1, 1}: true,
	})
}

func TestBlinkerOscillation(t *testing.T) {
	w := emptyWorld(t, 5, 5)
	w.Grid().Set(1, 2, true)
	w.Grid().Set(2, 2, true)
	w.Grid().Set(3, 2, true)

	w.Step()
	expectAlive(t, w, map[[2]int]bool{
		{2, 1}: true, {2, 2}: true, {2, 3}: true,
	})

	w.Step()
	expectAlive(t, w, map[[2]int]bool{
		{1, 2}: true, {2, 2}: true, {3, 2}: true,
	})
}

func TestStepLeavesNeighborsZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 16
	cfg.Seed = 99
	w := newWorld(t, cfg)

	for i := 0; i < 3; i++ {
		w.Step()
		w.Grid().ForEachCell(func(row, col int, c *core.Cell) {
			if c.Neighbors != 0 {
				t.Fatalf("gen %d: cell (%d,%d) neighbor accumulator = %d", w.Generation(), row, col, c.Neighbors)
			}
		})
	}
}

func TestPopulationMatchesAliveCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 32
	cfg.Height = 32
	cfg.Seed = 7
	w := newWorld(t, cfg)

	for i := 0; i < 5; i++ {
		w.Step()
		alive := 0
		for _, c := range w.Grid().Cells() {
			if c.Alive {
				alive++
			}
		}
		if w.Population() != alive {
			t.Fatalf("gen %d: population = %d, counted %d", w.Generation(), w.Population(), alive)
		}
	}
}

func TestPauseIsIdempotentAndStopsStepping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	cfg.Seed = 3
	w := newWorld(t, cfg)

	w.Pause()
	w.Pause()
	before := slices.Clone(w.Grid().Cells())
	gen := w.Generation()

	w.Step()

	if !slices.Equal(before, w.Grid().Cells()) {
		t.Fatal("paused step mutated the grid")
	}
	if w.Generation() != gen {
		t.Fatalf("paused step advanced generation to %d", w.Generation())
	}

	w.Resume()
	w.Resume()
	w.Step()
	if w.Generation() != gen+1 {
		t.Fatalf("resumed step did not advance generation: %d", w.Generation())
	}
}

func TestToggleAlive(t *testing.T) {
	w := emptyWorld(t, 4, 4)

	// Running: toggling is silently ignored.
	w.ToggleAlive(1, 1)
	if c, _ := w.Grid().Get(1, 1); c.Alive {
		t.Fatal("toggle while running painted a cell")
	}

	w.Pause()
	w.ToggleAlive(1, 1)
	c, _ := w.Grid().Get(1, 1)
	if !c.Alive || c.Age != 0 {
		t.Fatalf("toggle while paused = %+v, want alive with age 0", c)
	}

	// Toggling an alive cell keeps it alive (one-way paint) but still
	// resets its age.
	w.Grid().Cells()[w.Grid().Index(1, 1)].Age = 4
	w.ToggleAlive(1, 1)
	c, _ = w.Grid().Get(1, 1)
	if !c.Alive || c.Age != 0 {
		t.Fatalf("repeat toggle = %+v, want alive with age 0", c)
	}

	// Out of range: no panic, no effect.
	w.ToggleAlive(-1, 0)
	w.ToggleAlive(0, 99)
}

func TestAgeBookkeeping(t *testing.T) {
	w := emptyWorld(t, 5, 5)
	w.Grid().Set(1, 2, true)
	w.Grid().Set(2, 2, true)
	w.Grid().Set(3, 2, true)

	// The blinker's center survives both phases; its age keeps climbing
	// while the flipping arms reset to zero each step.
	w.Step()
	w.Step()
	center, _ := w.Grid().Get(2, 2)
	if center.Age != 2 {
		t.Fatalf("surviving cell age = %d, want 2", center.Age)
	}
	arm, _ := w.Grid().Get(1, 2)
	if !arm.Alive || arm.Age != 0 {
		t.Fatalf("reborn arm = %+v, want alive with age 0", arm)
	}

	for i := 0; i < core.MaxAge+3; i++ {
		w.Step()
	}
	center, _ = w.Grid().Get(2, 2)
	if center.Age != core.MaxAge {
		t.Fatalf("age = %d, want saturation at %d", center.Age, core.MaxAge)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	mk := func(workers int) *World {
		cfg := DefaultConfig()
		cfg.Width = 64
		cfg.Height = 48
		cfg.Seed = 2024
		cfg.Workers = workers
		return newWorld(t, cfg)
	}
	serial := mk(1)
	parallel := mk(4)

	for i := 0; i < 8; i++ {
		serial.Step()
		parallel.Step()
		if !slices.Equal(serial.Grid().Cells(), parallel.Grid().Cells()) {
			t.Fatalf("gen %d: parallel grid diverged from serial", serial.Generation())
		}
		if serial.Population() != parallel.Population() {
			t.Fatalf("gen %d: population %d vs %d", serial.Generation(), serial.Population(), parallel.Population())
		}
	}
}

func TestResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 20
	cfg.Height = 20
	cfg.Seed = 0
	w := newWorld(t, cfg)

	w.Reset(777)
	first := slices.Clone(w.Grid().Cells())
	w.Step()
	w.Reset(777)

	if !slices.Equal(first, w.Grid().Cells()) {
		t.Fatal("Reset with the same seed produced a different layout")
	}
	if w.Generation() != 0 {
		t.Fatalf("Reset kept generation %d", w.Generation())
	}

	w.Reset(0)
	for i, c := range w.Grid().Cells() {
		if c.Alive {
			t.Fatalf("Reset(0) left cell %d alive", i)
		}
	}
}

func TestFromPattern(t *testing.T) {
	w, err := FromPattern([]byte("x = 3, y = 3\nbo$2bo$3o!"))
	if err != nil {
		t.Fatalf("FromPattern: %v", err)
	}
	if s := w.Size(); s.W != 3 || s.H != 3 {
		t.Fatalf("size %dx%d, want 3x3", s.W, s.H)
	}
	if w.Population() != 5 {
		t.Fatalf("population = %d, want 5", w.Population())
	}

	if _, err := FromPattern([]byte("no header here")); err == nil {
		t.Fatal("FromPattern accepted garbage")
	}
}

func TestPackedCellsBuffer(t *testing.T) {
	w := emptyWorld(t, 2, 2)
	w.Pause()
	w.ToggleAlive(0, 1)
	w.Grid().Cells()[w.Grid().Index(1, 0)].Age = 3

	cells := w.Cells()
	if cells[1]&0x80 == 0 {
		t.Fatal("alive cell missing bit 7 in packed buffer")
	}
	if cells[2] != 3 {
		t.Fatalf("packed age = %d, want 3", cells[2])
	}
	if cells[0] != 0 || cells[3] != 0 {
		t.Fatal("dead fresh cells must pack to zero")
	}
}

func TestRegistryFactory(t *testing.T) {
	factory, ok := core.Sims()["life"]
	if !ok {
		t.Fatal("life is not registered")
	}
	sim := factory(map[string]string{"w": "8", "h": "8", "seed": "5"})
	if sim == nil {
		t.Fatal("factory returned nil for a valid config")
	}
	if sim.Name() != "life" {
		t.Fatalf("Name() = %q", sim.Name())
	}
	if _, ok := sim.(core.Pauser); !ok {
		t.Fatal("sim does not expose pause control")
	}
	if _, ok := sim.(core.CellToggler); !ok {
		t.Fatal("sim does not expose cell painting")
	}
	if _, ok := sim.(core.GridSource); !ok {
		t.Fatal("sim does not expose its grid")
	}
}
