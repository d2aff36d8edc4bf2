package pinewood

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Borders are the fixed-size edges of a nine-patch image, in pixels.
type Borders struct {
	Left, Top, Right, Bottom int
}

// BordersAll returns equal borders on every side.
func BordersAll(n int) Borders {
	return Borders{n, n, n, n}
}

// ninePatchSlices returns the nine source and destination rectangles, row by
// row. Corners keep their size, edges stretch along one axis and the center
// stretches along both.
func ninePatchSlices(src, dst image.Rectangle, b Borders) (srcs, dsts [9]image.Rectangle) {
	sx := [4]int{src.Min.X, src.Min.X + b.Left, src.Max.X - b.Right, src.Max.X}
	sy := [4]int{src.Min.Y, src.Min.Y + b.Top, src.Max.Y - b.Bottom, src.Max.Y}
	dx := [4]int{dst.Min.X, dst.Min.X + b.Left, dst.Max.X - b.Right, dst.Max.X}
	dy := [4]int{dst.Min.Y, dst.Min.Y + b.Top, dst.Max.Y - b.Bottom, dst.Max.Y}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			i := row*3 + col
			srcs[i] = image.Rect(sx[col], sy[row], sx[col+1], sy[row+1])
			dsts[i] = image.Rect(dx[col], dy[row], dx[col+1], dy[row+1])
		}
	}
	return srcs, dsts
}

// DrawNinePatch stretches src over r on dst, keeping borders unscaled. clr
// tints the result.
func DrawNinePatch(dst, src *ebiten.Image, r Rect, borders Borders, clr Color) {
	srcs, dsts := ninePatchSlices(src.Bounds(), r.Image(), borders)
	for i := range srcs {
		s, d := srcs[i], dsts[i]
		if s.Dx() <= 0 || s.Dy() <= 0 || d.Dx() <= 0 || d.Dy() <= 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(d.Dx())/float64(s.Dx()), float64(d.Dy())/float64(s.Dy()))
		op.GeoM.Translate(float64(d.Min.X), float64(d.Min.Y))
		op.ColorScale.ScaleWithColor(clr)
		dst.DrawImage(src.SubImage(s).(*ebiten.Image), op)
	}
}
