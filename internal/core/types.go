package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a cellular automaton must implement.
// Cells returns a packed render buffer: bit 7 is the alive flag and the
// low bits carry the age counter for fade effects.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Pauser is implemented by simulations that can suspend stepping. Pause
// and Resume are idempotent; while paused, Step is a no-op.
type Pauser interface {
	Pause()
	Resume()
	Paused() bool
}

// CellToggler is implemented by simulations that accept manual painting.
// Toggling is honored only while the simulation is paused and only ever
// turns a cell alive.
type CellToggler interface {
	ToggleAlive(row, col int)
}

// GridSource exposes the underlying grid for structured readback between
// steps.
type GridSource interface {
	Grid() *Grid
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
