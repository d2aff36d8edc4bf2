package pinewood

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
)

// Font pairs an Ebitengine text face with its line height.
type Font struct {
	face text.Face
	lh   float64 // cached line height
}

var (
	defaultFontOnce sync.Once
	defaultFont     *Font
)

// DefaultFont returns the built-in 7x13 bitmap font.
func DefaultFont() *Font {
	defaultFontOnce.Do(func() {
		defaultFont = NewFont(text.NewGoXFace(basicfont.Face7x13))
	})
	return defaultFont
}

// NewFont wraps any text/v2 face.
func NewFont(face text.Face) *Font {
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// LoadTTFFont loads a TrueType or OpenType font from raw data at the given
// size in pixels.
func LoadTTFFont(data []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "pinewood: parse font")
	}
	return NewFont(&text.GoTextFace{Source: source, Size: size}), nil
}

// Face returns the underlying face for direct text/v2 rendering.
func (f *Font) Face() text.Face { return f.face }

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// MeasureString returns the width and height of s rendered with f. Lines
// are separated by '\n'.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// Draw renders s with its top-left corner at pos.
func (f *Font) Draw(dst *ebiten.Image, s string, pos Vec2, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

// DrawText renders s with the default font.
func DrawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	DefaultFont().Draw(dst, s, Vec2{x, y}, clr)
}

// MeasureText measures s with the default font.
func MeasureText(s string) (width, height float64) {
	return DefaultFont().MeasureString(s)
}
