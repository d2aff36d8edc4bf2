package pinewood

import (
	"image"
	"image/gif"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// defaultGIFDelay is used for frames that declare no delay.
const defaultGIFDelay = 0.1

// GIFAnimation plays the frames of an animated GIF with their own delays.
// Frames are composed onto a full canvas at load time, so each one can be
// drawn on its own.
type GIFAnimation struct {
	frames []*ebiten.Image
	delays []float64

	frame  int
	timer  float64
	paused bool
}

// NewGIFAnimation wraps pre-built frames. delays are in seconds and must be
// as long as frames.
func NewGIFAnimation(frames []*ebiten.Image, delays []float64) *GIFAnimation {
	return &GIFAnimation{frames: frames, delays: delays}
}

func newGIFAnimation(g *gif.GIF) *GIFAnimation {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		for _, p := range g.Image {
			w = max(w, p.Bounds().Max.X)
			h = max(h, p.Bounds().Max.Y)
		}
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	var previous *image.RGBA

	anim := &GIFAnimation{
		frames: make([]*ebiten.Image, len(g.Image)),
		delays: make([]float64, len(g.Image)),
	}
	for i, p := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(canvas.Bounds())
			draw.Draw(previous, previous.Bounds(), canvas, image.Point{}, draw.Src)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		anim.frames[i] = ebiten.NewImageFromImage(canvas)

		delay := defaultGIFDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = float64(g.Delay[i]) / 100
		}
		anim.delays[i] = delay

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, canvas.Bounds(), previous, image.Point{}, draw.Src)
		}
	}
	return anim
}

// Update advances the animation by dt seconds, looping at the end.
func (a *GIFAnimation) Update(dt float64) {
	if a.paused || len(a.frames) == 0 {
		return
	}
	a.timer += dt
	for {
		d := a.delays[a.frame]
		if d <= 0 {
			d = defaultGIFDelay
		}
		if a.timer < d {
			return
		}
		a.timer -= d
		a.frame = (a.frame + 1) % len(a.frames)
	}
}

// Play resumes playback.
func (a *GIFAnimation) Play() { a.paused = false }

// Pause stops playback on the current frame.
func (a *GIFAnimation) Pause() { a.paused = true }

// Reset rewinds to the first frame.
func (a *GIFAnimation) Reset() {
	a.frame = 0
	a.timer = 0
}

// Frame returns the current frame index.
func (a *GIFAnimation) Frame() int { return a.frame }

// Frames returns the number of frames.
func (a *GIFAnimation) Frames() int { return len(a.frames) }

// Duration returns the length of one loop in seconds.
func (a *GIFAnimation) Duration() float64 {
	var d float64
	for _, v := range a.delays {
		d += v
	}
	return d
}

// Image returns the current frame, or nil for an empty animation.
func (a *GIFAnimation) Image() *ebiten.Image {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[a.frame]
}

// Draw draws the current frame onto dst with op.
func (a *GIFAnimation) Draw(dst *ebiten.Image, op *ebiten.DrawImageOptions) {
	if img := a.Image(); img != nil {
		dst.DrawImage(img, op)
	}
}

func (a *GIFAnimation) deallocate() {
	for _, f := range a.frames {
		f.Deallocate()
	}
}
