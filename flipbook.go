package pinewood

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sequence controls what a Flipbook does when it runs past either end.
type Sequence uint8

const (
	SequenceForward  Sequence = iota // play once and pause on the last frame
	SequenceLoop                     // wrap around
	SequencePingPong                 // bounce between the ends
)

func (s Sequence) String() string {
	switch s {
	case SequenceForward:
		return "Forward"
	case SequenceLoop:
		return "Loop"
	case SequencePingPong:
		return "PingPong"
	}
	return "Sequence(?)"
}

// Flipbook steps through the cells of a sprite sheet laid out as columns x
// rows, left to right then top to bottom.
type Flipbook struct {
	// Velocity scales playback speed. A negative value plays backwards.
	Velocity float64

	sheet         *ebiten.Image
	columns, rows int
	total         int
	fps           float64
	frameDuration float64
	sequence      Sequence

	step      int
	frame     int
	frameTime float64
	paused    bool
	bounds    image.Rectangle
}

// NewFlipbook creates a flipbook over sheet. frames limits the number of used
// cells; zero or less uses the whole sheet. A Forward flipbook starts paused
// and plays once Play is called; Loop and PingPong start playing.
func NewFlipbook(sheet *ebiten.Image, columns, rows int, fps float64, frames int, seq Sequence) *Flipbook {
	columns = max(columns, 1)
	rows = max(rows, 1)
	if frames <= 0 || frames > columns*rows {
		frames = columns * rows
	}
	if fps <= 0 {
		fps = 1
	}
	f := &Flipbook{
		Velocity:      1,
		sheet:         sheet,
		columns:       columns,
		rows:          rows,
		total:         frames,
		fps:           fps,
		frameDuration: 1 / fps,
		sequence:      seq,
		paused:        seq == SequenceForward,
	}
	f.updateBounds()
	return f
}

func (f *Flipbook) updateBounds() {
	w := f.sheet.Bounds().Dx() / f.columns
	h := f.sheet.Bounds().Dy() / f.rows
	x := f.frame % f.columns
	y := f.frame / f.columns
	o := f.sheet.Bounds().Min
	f.bounds = image.Rect(o.X+x*w, o.Y+y*h, o.X+(x+1)*w, o.Y+(y+1)*h)
}

// Update advances playback by dt seconds. At most one frame is stepped per
// call.
func (f *Flipbook) Update(dt float64) {
	if f.paused {
		return
	}
	f.frameTime += dt * math.Abs(f.Velocity)
	if f.frameTime < f.frameDuration {
		return
	}
	f.frameTime = 0
	if f.Velocity < 0 {
		f.step--
	} else {
		f.step++
	}

	last := f.total - 1
	switch f.sequence {
	case SequenceForward:
		f.frame = clampInt(f.step, 0, last)
		f.step = f.frame
		f.paused = f.frame == 0 || f.frame == last
	case SequenceLoop:
		f.frame = int(repeat(float64(f.step), float64(f.total)))
	case SequencePingPong:
		if last == 0 {
			f.frame = 0
		} else {
			f.frame = int(pingPong(float64(f.step), float64(last)))
		}
	}
	// Keep the step counter bounded on long runs.
	if f.frame == 0 && (f.step < 0 || f.step > f.total) {
		f.step = 0
	}
	f.updateBounds()
}

// Play resumes playback.
func (f *Flipbook) Play() { f.paused = false }

// Pause stops playback on the current frame.
func (f *Flipbook) Pause() { f.paused = true }

// Paused reports whether playback is stopped.
func (f *Flipbook) Paused() bool { return f.paused }

// Reset rewinds to the first frame without changing the paused state.
func (f *Flipbook) Reset() {
	f.frameTime = 0
	f.step, f.frame = 0, 0
	f.updateBounds()
}

// Frame returns the current frame index.
func (f *Flipbook) Frame() int { return f.frame }

// TotalFrames returns the number of frames in use.
func (f *Flipbook) TotalFrames() int { return f.total }

// FPS returns the frame rate at Velocity 1.
func (f *Flipbook) FPS() float64 { return f.fps }

// Sequence returns the playback mode.
func (f *Flipbook) Sequence() Sequence { return f.sequence }

// Bounds returns the current frame's rectangle on the sheet.
func (f *Flipbook) Bounds() image.Rectangle { return f.bounds }

// Sheet returns the whole sprite sheet.
func (f *Flipbook) Sheet() *ebiten.Image { return f.sheet }

// Image returns the current frame as a sub-image of the sheet.
func (f *Flipbook) Image() *ebiten.Image {
	return f.sheet.SubImage(f.bounds).(*ebiten.Image)
}

// Draw draws the current frame onto dst with op.
func (f *Flipbook) Draw(dst *ebiten.Image, op *ebiten.DrawImageOptions) {
	dst.DrawImage(f.Image(), op)
}
