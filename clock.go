package pinewood

import "github.com/hajimehoshi/ebiten/v2"

// Clock tracks frame count and game time. The App ticks it once per update
// with the fixed step 1/TPS scaled by TimeScale.
type Clock struct {
	// TimeScale multiplies every tick. 1 is real time, 0 pauses.
	TimeScale float64

	frame    uint64
	total    float64
	delta    float64
	unscaled float64
}

// NewClock returns a clock running at real time.
func NewClock() *Clock {
	return &Clock{TimeScale: 1}
}

// Tick advances the clock by dt seconds of real time.
func (c *Clock) Tick(dt float64) {
	c.frame++
	c.unscaled = dt
	c.delta = dt * c.TimeScale
	c.total += c.delta
}

// fixedStep returns the duration of one update at the current TPS.
func fixedStep() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		return 1.0 / ebiten.DefaultTPS
	}
	return 1 / float64(tps)
}

// Frame returns the number of ticks so far.
func (c *Clock) Frame() uint64 { return c.frame }

// Delta returns the scaled seconds elapsed during the last tick.
func (c *Clock) Delta() float64 { return c.delta }

// Total returns the scaled seconds elapsed since the clock started.
func (c *Clock) Total() float64 { return c.total }

// Unscaled returns the real seconds of the last tick, ignoring TimeScale.
func (c *Clock) Unscaled() float64 { return c.unscaled }

// DeltaF32 is Delta as float32, for gween and vector APIs.
func (c *Clock) DeltaF32() float32 { return float32(c.delta) }

// TotalF32 is Total as float32.
func (c *Clock) TotalF32() float32 { return float32(c.total) }
