// Package clock tracks simulated animation time.
//
// A Clock only counts; it never sleeps. Frame pacing belongs to the host
// loop that calls Advance.
package clock

import "math"

// Clock accumulates elapsed seconds, optionally faster or slower than the
// host's wall time. It is not safe for concurrent use.
type Clock struct {
	elapsed float64
	speed   float64
}

// New creates a clock. speed scales every dt passed to Advance; values <= 0
// mean normal speed.
func New(speed float64) *Clock {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 1
	}
	return &Clock{speed: speed}
}

// Advance moves time forward by dt (scaled by speed) and returns the new
// elapsed time. Negative or non-finite dt leaves the clock unchanged.
func (c *Clock) Advance(dt float64) float64 {
	if dt > 0 && !math.IsInf(dt, 1) {
		c.elapsed += dt * c.speed
	}
	return c.elapsed
}

// Elapsed returns the accumulated time in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Speed returns the time scale.
func (c *Clock) Speed() float64 {
	return c.speed
}

// Phase returns elapsed modulo period, or 0 for a non-positive period.
func (c *Clock) Phase(period float64) float64 {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return 0
	}
	return math.Mod(c.elapsed, period)
}

// Cycle returns how many whole periods have elapsed.
func (c *Clock) Cycle(period float64) int {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return 0
	}
	return int(math.Floor(c.elapsed / period))
}

// Reset rewinds the clock to zero.
func (c *Clock) Reset() {
	c.elapsed = 0
}
