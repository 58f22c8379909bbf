package core

import "time"

// maxCatchUp caps how many owed ticks a single poll can report, so a
// stalled process resumes smoothly instead of bursting.
const maxCatchUp = 8

// StepClock meters simulation ticks against wall time. The engine never
// schedules itself; a driver polls Ticks once per loop iteration and steps
// that many times.
type StepClock struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewStepClock constructs a clock targeting the given ticks per second.
func NewStepClock(tps int) *StepClock {
	c := &StepClock{}
	c.SetTPS(tps)
	c.accumulator = c.step
	return c
}

// SetTPS changes the tick rate. Non-positive rates fall back to 60.
func (c *StepClock) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	c.step = time.Second / time.Duration(tps)
}

// Ticks returns how many ticks are owed since the last call, at most
// maxCatchUp. Excess backlog beyond the cap is discarded.
func (c *StepClock) Ticks() int {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
	}
	c.accumulator += now.Sub(c.last)
	c.last = now

	n := 0
	for c.accumulator >= c.step && n < maxCatchUp {
		c.accumulator -= c.step
		n++
	}
	if c.accumulator >= c.step {
		c.accumulator = 0
	}
	return n
}
