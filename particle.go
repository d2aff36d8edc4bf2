package pinewood

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// RangeMode selects how a value range produces a value.
type RangeMode uint8

const (
	RangeValue  RangeMode = iota // always Min
	RangeRandom                  // Min or Max, picked by the sample
	RangeRange                   // interpolated between Min and Max
)

func evaluateRange[T any](mode RangeMode, lo, hi T, t float64, mix func(a, b T, t float64) T) T {
	switch mode {
	case RangeRandom:
		if t < 0.5 {
			return lo
		}
		return hi
	case RangeRange:
		return mix(lo, hi, t)
	}
	return lo
}

// FloatRange is a float parameter sampled at spawn or over a particle's
// lifetime.
type FloatRange struct {
	Mode     RangeMode
	Min, Max float64
}

// FloatValue returns a range that always yields v.
func FloatValue(v float64) FloatRange { return FloatRange{RangeValue, v, v} }

// FloatBetween returns a range interpolated between lo and hi.
func FloatBetween(lo, hi float64) FloatRange { return FloatRange{RangeRange, lo, hi} }

// FloatEither returns a range that yields lo or hi.
func FloatEither(lo, hi float64) FloatRange { return FloatRange{RangeRandom, lo, hi} }

// Evaluate samples the range at t in [0, 1].
func (r FloatRange) Evaluate(t float64) float64 {
	return evaluateRange(r.Mode, r.Min, r.Max, t, lerp)
}

// Vec2Range is the Vec2 counterpart of FloatRange.
type Vec2Range struct {
	Mode     RangeMode
	Min, Max Vec2
}

// Vec2Value returns a range that always yields v.
func Vec2Value(v Vec2) Vec2Range { return Vec2Range{RangeValue, v, v} }

// Vec2Between returns a range interpolated between lo and hi.
func Vec2Between(lo, hi Vec2) Vec2Range { return Vec2Range{RangeRange, lo, hi} }

// Evaluate samples the range at t in [0, 1].
func (r Vec2Range) Evaluate(t float64) Vec2 {
	return evaluateRange(r.Mode, r.Min, r.Max, t, Vec2.Lerp)
}

// ColorRange is the Color counterpart of FloatRange.
type ColorRange struct {
	Mode     RangeMode
	Min, Max Color
}

// ColorValue returns a range that always yields c.
func ColorValue(c Color) ColorRange { return ColorRange{RangeValue, c, c} }

// ColorBetween returns a range interpolated between lo and hi.
func ColorBetween(lo, hi Color) ColorRange { return ColorRange{RangeRange, lo, hi} }

// Evaluate samples the range at t in [0, 1].
func (r ColorRange) Evaluate(t float64) Color {
	return evaluateRange(r.Mode, r.Min, r.Max, t, Color.Lerp)
}

// particle holds per-particle simulation state.
type particle struct {
	lifetime  float64
	timeAlive float64
	origin    Vec2 // emitter location at spawn
	direction Vec2
	position  Vec2
	fall      Vec2 // velocity gained from gravity

	startVelocity float64
	startRotation float64
	startColor    Color
	startSize     Vec2
}

func (p *particle) progress() float64 {
	return p.timeAlive / p.lifetime
}

// ParticleSystem spawns particles from Location in a cone around Angle and
// moves them along straight lines, optionally pulled by Gravity. Dead
// particles are swap-removed so the live ones stay packed.
type ParticleSystem struct {
	// Limit caps the number of live particles.
	Limit int
	// Angle is the emission direction in degrees. -90 points up.
	Angle float64
	// Interval is the time in seconds between bursts, or the time over which
	// Rate particles are spread when not bursting.
	Interval float64
	// Emit enables spawning. Existing particles keep moving either way.
	Emit bool
	// Burst spawns Rate particles at once every Interval.
	Burst bool
	// Local makes live particles follow Location instead of staying where
	// they were spawned.
	Local bool
	// Location is the emitter position.
	Location Vec2
	// Bounds is the spawn area relative to Location.
	Bounds Rect
	// Gravity is a constant acceleration in pixels per second squared.
	Gravity Vec2
	// Debug draws the emitter shape and live-particle bounds.
	Debug bool

	StartLifetime        FloatRange
	StartColor           ColorRange
	ColorOverLifetime    ColorRange
	StartSize            Vec2Range
	SizeOverLifetime     Vec2Range
	StartVelocity        FloatRange
	VelocityOverLifetime FloatRange
	StartRotation        FloatRange
	RotationOverLifetime FloatRange

	rate   int
	spread float64

	image    *ebiten.Image
	duration float64
	loop     bool
	rng      *rand.Rand

	particles []particle
	alive     int
	runtime   float64
	nextEmit  float64
}

// NewParticleSystem creates an emitting system drawing img for each
// particle. A negative duration emits forever; otherwise emission stops after
// duration seconds unless loop is set.
func NewParticleSystem(img *ebiten.Image, duration float64, loop bool) *ParticleSystem {
	return &ParticleSystem{
		Limit:    100,
		Angle:    -90,
		Interval: 1,
		Emit:     true,

		StartLifetime:        FloatBetween(0.4, 2),
		StartColor:           ColorValue(ColorWhite),
		ColorOverLifetime:    ColorBetween(ColorWhite, ColorWhite.WithA(0)),
		StartSize:            Vec2Value(Vec2{1, 1}),
		SizeOverLifetime:     Vec2Value(Vec2{1, 1}),
		StartVelocity:        FloatBetween(100, 200),
		VelocityOverLifetime: FloatValue(1),
		StartRotation:        FloatValue(0),
		RotationOverLifetime: FloatValue(0),

		rate:     25,
		spread:   180,
		image:    img,
		duration: duration,
		loop:     loop,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Seed makes spawning deterministic.
func (s *ParticleSystem) Seed(seed uint64) {
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Rate returns the number of particles spawned per Interval.
func (s *ParticleSystem) Rate() int { return s.rate }

// SetRate sets the spawn rate. Negative values become zero.
func (s *ParticleSystem) SetRate(rate int) { s.rate = max(rate, 0) }

// Spread returns the half-angle of the emission cone in degrees.
func (s *ParticleSystem) Spread() float64 { return s.spread }

// SetSpread sets the half-angle of the emission cone, clamped to [0, 180].
func (s *ParticleSystem) SetSpread(deg float64) { s.spread = clamp(deg, 0, 180) }

// Count returns the number of live particles.
func (s *ParticleSystem) Count() int { return s.alive }

// Runtime returns the seconds spent emitting.
func (s *ParticleSystem) Runtime() float64 { return s.runtime }

// Reset kills every particle and restarts the emission clock.
func (s *ParticleSystem) Reset() {
	s.alive = 0
	s.runtime = 0
	s.nextEmit = 0
}

func angleToVec(deg float64) Vec2 {
	r := degToRad(deg)
	return Vec2{math.Cos(r), math.Sin(r)}
}

// Update spawns due particles and advances every live one by dt seconds.
func (s *ParticleSystem) Update(dt float64) {
	s.updateEmitter(dt)
	s.updateParticles(dt)
}

func (s *ParticleSystem) updateEmitter(dt float64) {
	if !s.Emit || s.rate < 1 {
		return
	}
	s.runtime += dt
	if !s.loop && s.duration >= 0 && s.runtime > s.duration {
		return
	}

	s.nextEmit -= dt
	if s.nextEmit > 0 {
		return
	}
	n := s.rate
	if s.Burst {
		s.nextEmit = s.Interval
	} else {
		s.nextEmit = s.Interval / float64(s.rate)
		if s.nextEmit > 0 {
			n = int(math.Ceil(dt / s.nextEmit))
		}
	}
	for i := 0; i < n && s.alive < s.Limit; i++ {
		s.spawn()
	}
}

func (s *ParticleSystem) spawn() {
	if s.alive == len(s.particles) {
		s.particles = append(s.particles, particle{})
	}
	p := &s.particles[s.alive]
	s.alive++

	spawnAt := Vec2{s.Bounds.X + s.rng.Float64()*s.Bounds.Width, s.Bounds.Y + s.rng.Float64()*s.Bounds.Height}
	angle := s.Angle + (s.rng.Float64()-0.5)*s.spread*2

	*p = particle{
		lifetime:      s.StartLifetime.Evaluate(s.rng.Float64()),
		origin:        s.Location,
		direction:     angleToVec(angle),
		position:      spawnAt,
		startRotation: s.StartRotation.Evaluate(s.rng.Float64()),
		startVelocity: s.StartVelocity.Evaluate(s.rng.Float64()),
		startColor:    s.StartColor.Evaluate(s.rng.Float64()),
		startSize:     s.StartSize.Evaluate(s.rng.Float64()),
	}
	if p.lifetime <= 0 {
		p.lifetime = 1
	}
}

func (s *ParticleSystem) updateParticles(dt float64) {
	gravity := s.Gravity.Scale(dt)
	i := 0
	for i < s.alive {
		p := &s.particles[i]
		p.timeAlive += dt
		if p.timeAlive >= p.lifetime {
			s.alive--
			s.particles[i] = s.particles[s.alive]
			continue
		}
		v := p.startVelocity * s.VelocityOverLifetime.Evaluate(p.progress())
		p.fall = p.fall.Add(gravity)
		p.position = p.position.Add(p.direction.Scale(v * dt)).Add(p.fall.Scale(dt))
		i++
	}
}

// worldPosition returns where p is drawn.
func (s *ParticleSystem) worldPosition(p *particle) Vec2 {
	if s.Local {
		return s.Location.Add(p.position)
	}
	return p.origin.Add(p.position)
}

// Draw renders every live particle onto dst.
func (s *ParticleSystem) Draw(dst *ebiten.Image) {
	s.DrawWithView(dst, ebiten.GeoM{})
}

// DrawWithView renders every live particle transformed by view, typically a
// Camera's View.
func (s *ParticleSystem) DrawWithView(dst *ebiten.Image, view ebiten.GeoM) {
	if s.Debug {
		s.drawDebug(dst, view)
	}
	if s.image == nil {
		return
	}
	b := s.image.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	op := &ebiten.DrawImageOptions{}
	for i := 0; i < s.alive; i++ {
		p := &s.particles[i]
		t := p.progress()
		pos := s.worldPosition(p)
		size := p.startSize.Mul(s.SizeOverLifetime.Evaluate(t))
		rot := p.startRotation + s.RotationOverLifetime.Evaluate(t)
		clr := p.startColor.Mul(s.ColorOverLifetime.Evaluate(t))

		op.GeoM.Reset()
		op.GeoM.Translate(-cx, -cy)
		op.GeoM.Scale(size.X, size.Y)
		op.GeoM.Rotate(rot)
		op.GeoM.Translate(pos.X, pos.Y)
		op.GeoM.Concat(view)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(clr)
		dst.DrawImage(s.image, op)
	}
}

// LiveBounds returns the bounding box of every live particle position.
func (s *ParticleSystem) LiveBounds() (Rect, bool) {
	if s.alive == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < s.alive; i++ {
		p := s.worldPosition(&s.particles[i])
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

var (
	debugRed    = color.RGBA{R: 0xff, A: 0xff}
	debugBlue   = color.RGBA{B: 0xff, A: 0xff}
	debugYellow = color.RGBA{R: 0x55, G: 0x55, A: 0x55}
)

func (s *ParticleSystem) drawDebug(dst *ebiten.Image, view ebiten.GeoM) {
	at := func(p Vec2) Vec2 { return applyGeoM(view, p) }
	loc := s.Location

	b := s.Bounds
	corners := []Vec2{
		at(loc.Add(Vec2{b.X, b.Y})),
		at(loc.Add(Vec2{b.X + b.Width, b.Y})),
		at(loc.Add(Vec2{b.X + b.Width, b.Y + b.Height})),
		at(loc.Add(Vec2{b.X, b.Y + b.Height})),
	}
	DrawLines(dst, corners, true, debugRed, 1)

	DrawLine(dst, at(loc), at(loc.Add(angleToVec(s.Angle).Scale(50))), debugBlue, 1)
	DrawLine(dst, at(loc), at(loc.Add(angleToVec(s.Angle-s.spread).Scale(25))), debugBlue, 1)
	DrawLine(dst, at(loc), at(loc.Add(angleToVec(s.Angle+s.spread).Scale(25))), debugBlue, 1)
	o := at(loc)
	DrawFilledRect(dst, Rect{X: o.X - 2.5, Y: o.Y - 2.5, Width: 5, Height: 5}, debugRed)

	if r, ok := s.LiveBounds(); ok {
		DrawLines(dst, []Vec2{
			at(Vec2{r.X, r.Y}),
			at(Vec2{r.X + r.Width, r.Y}),
			at(Vec2{r.X + r.Width, r.Y + r.Height}),
			at(Vec2{r.X, r.Y + r.Height}),
		}, true, debugYellow, 1)
	}
}
