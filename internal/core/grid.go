package core

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"
)

// ErrAllocation reports that a grid could not be allocated, either because
// the requested dimensions are not positive or because the cell storage
// size would overflow.
var ErrAllocation = errors.New("grid allocation failed")

// MaxAge is the saturation ceiling of a cell's age counter.
const MaxAge = 7

// Cell is the per-coordinate simulation state. Neighbors is a transient
// accumulator that is only meaningful inside a step; it is zero before and
// after every step. Age counts ticks since Alive last changed, saturating
// at MaxAge, and exists purely for presentation fades.
type Cell struct {
	Alive     bool
	Neighbors uint8
	Age       uint8
}

// Grid stores a fixed-size 2D field of cells in row-major order, with one
// mutex per row for the engine's parallel counting pass.
type Grid struct {
	W, H  int
	cells []Cell
	locks []sync.Mutex
}

// NewGrid allocates a w×h grid of dead cells.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrAllocation, w, h)
	}
	cellSize := int(unsafe.Sizeof(Cell{}))
	if w > math.MaxInt/h || w*h > math.MaxInt/cellSize {
		return nil, fmt.Errorf("%w: %dx%d cells exceed addressable memory", ErrAllocation, w, h)
	}
	return &Grid{
		W:     w,
		H:     h,
		cells: make([]Cell, w*h),
		locks: make([]sync.Mutex, h),
	}, nil
}

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.W + col }

// Len returns the total cell count.
func (g *Grid) Len() int { return len(g.cells) }

// Cells exposes the backing slice. The engine owns it during a step;
// everyone else reads it between steps.
func (g *Grid) Cells() []Cell { return g.cells }

// Get returns the cell at (row, col) and whether the coordinate is in
// range. Out-of-range coordinates are expected during neighbor-offset
// arithmetic and input mapping, so they report absence rather than fail.
func (g *Grid) Get(row, col int) (Cell, bool) {
	if row < 0 || row >= g.H || col < 0 || col >= g.W {
		return Cell{}, false
	}
	return g.cells[g.Index(row, col)], true
}

// Set writes the alive flag at (row, col) and zeroes the cell's age, even
// when the flag did not change. Out-of-range coordinates are ignored.
func (g *Grid) Set(row, col int, alive bool) {
	if row < 0 || row >= g.H || col < 0 || col >= g.W {
		return
	}
	c := &g.cells[g.Index(row, col)]
	c.Alive = alive
	c.Age = 0
}

// ForEachCell visits every cell in row-major order (increasing row, then
// column). The traversal order is a contract: the RLE decoder's cursor and
// the seeder's output stream both depend on it.
func (g *Grid) ForEachCell(visit func(row, col int, c *Cell)) {
	for row := 0; row < g.H; row++ {
		base := row * g.W
		for col := 0; col < g.W; col++ {
			visit(row, col, &g.cells[base+col])
		}
	}
}

// LockRows acquires the row locks in [lo, hi] in ascending order, clamping
// the range to the grid. Ascending acquisition keeps concurrent workers
// deadlock-free.
func (g *Grid) LockRows(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > g.H-1 {
		hi = g.H - 1
	}
	for r := lo; r <= hi; r++ {
		g.locks[r].Lock()
	}
}

// UnlockRows releases the row locks acquired by LockRows.
func (g *Grid) UnlockRows(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > g.H-1 {
		hi = g.H - 1
	}
	for r := lo; r <= hi; r++ {
		g.locks[r].Unlock()
	}
}

// Clear kills every cell and zeroes all bookkeeping fields.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{}
	}
}
