package pinewood

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// BoxFit decides how an image of one size is placed into a box of another.
type BoxFit uint8

const (
	FitNone      BoxFit = iota // natural size, centered
	FitFill                    // stretch to the box, ignoring aspect ratio
	FitCover                   // scale to cover the box, cropping overflow
	FitContain                 // scale to fit inside the box
	FitWidth                   // match the box width
	FitHeight                  // match the box height
	FitScaleDown               // like FitContain, but never enlarge
)

var boxFitNames = [...]string{"None", "Fill", "Cover", "Contain", "FitWidth", "FitHeight", "ScaleDown"}

func (f BoxFit) String() string {
	if int(f) < len(boxFitNames) {
		return boxFitNames[f]
	}
	return "BoxFit(?)"
}

// FitRect returns where an image of size lands when fitted into bounds. The
// result is centered on bounds and may extend past it.
func FitRect(bounds Rect, size Vec2, fit BoxFit) Rect {
	if size.X <= 0 || size.Y <= 0 {
		return Rect{}
	}
	ratio := Vec2{bounds.Width / size.X, bounds.Height / size.Y}
	var scaled Vec2
	switch fit {
	case FitNone:
		scaled = size
	case FitFill:
		scaled = size.Mul(ratio)
	case FitCover:
		scaled = size.Scale(math.Max(ratio.X, ratio.Y))
	case FitContain:
		scaled = size.Scale(math.Min(ratio.X, ratio.Y))
	case FitWidth:
		scaled = size.Scale(ratio.X)
	case FitHeight:
		scaled = size.Scale(ratio.Y)
	case FitScaleDown:
		scaled = size.Scale(math.Min(math.Min(ratio.X, ratio.Y), 1))
	default:
		return Rect{}
	}
	c := bounds.Center()
	return Rect{
		X:      math.Floor(c.X - scaled.X/2),
		Y:      math.Floor(c.Y - scaled.Y/2),
		Width:  scaled.X,
		Height: scaled.Y,
	}
}

// fitSource returns the part of an image of size that stays visible once
// fitted rect is cropped to bounds.
func fitSource(size Vec2, fitted, bounds Rect) image.Rectangle {
	dx := math.Max(fitted.Width-bounds.Width, 0)
	dy := math.Max(fitted.Height-bounds.Height, 0)
	tx := size.X * dx / fitted.Width
	ty := size.Y * dy / fitted.Height
	return image.Rect(int(tx/2), int(ty/2), int(size.X-tx/2), int(size.Y-ty/2))
}

// DrawFit draws img into bounds according to fit. Overflow is cropped from
// the source so nothing is drawn outside bounds. clr tints the image.
func DrawFit(dst, img *ebiten.Image, fit BoxFit, bounds Rect, clr Color) {
	b := img.Bounds()
	size := Vec2{float64(b.Dx()), float64(b.Dy())}
	fitted := FitRect(bounds, size, fit)
	if fitted.Width <= 0 || fitted.Height <= 0 {
		return
	}
	src := fitSource(size, fitted, bounds).Add(b.Min)
	target := fitted.Intersect(bounds)
	if src.Empty() || target.Width <= 0 || target.Height <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(target.Width/float64(src.Dx()), target.Height/float64(src.Dy()))
	op.GeoM.Translate(target.X, target.Y)
	op.ColorScale.ScaleWithColor(clr)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img.SubImage(src).(*ebiten.Image), op)
}
