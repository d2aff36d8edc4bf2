package pinewood

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GizmoAntialias controls antialiasing for every gizmo helper.
var GizmoAntialias = true

// DrawPoint draws a single filled pixel at p.
func DrawPoint(dst *ebiten.Image, p Vec2, clr color.Color) {
	vector.DrawFilledRect(dst, float32(p.X), float32(p.Y), 1, 1, clr, false)
}

// DrawLine draws a line from a to b. Widths below 1 draw one pixel wide.
func DrawLine(dst *ebiten.Image, a, b Vec2, clr color.Color, width float64) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
		float32(math.Max(width, 1)), clr, GizmoAntialias)
}

// DrawLines draws a polyline through points, joining the last point to the
// first when closed is set.
func DrawLines(dst *ebiten.Image, points []Vec2, closed bool, clr color.Color, width float64) {
	if len(points) < 2 {
		if len(points) == 1 {
			DrawPoint(dst, points[0], clr)
		}
		return
	}
	for i := 1; i < len(points); i++ {
		DrawLine(dst, points[i-1], points[i], clr, width)
	}
	if closed && len(points) > 2 {
		DrawLine(dst, points[len(points)-1], points[0], clr, width)
	}
}

// DrawRect outlines r with lines of the given width. A width below 1, or one
// thick enough to cover the whole rectangle, fills it instead.
func DrawRect(dst *ebiten.Image, r Rect, clr color.Color, width float64) {
	if width < 1 || width*2 >= math.Min(r.Width, r.Height) {
		DrawFilledRect(dst, r, clr)
		return
	}
	// Stroke runs along the center line, so inset by half the width.
	h := width / 2
	vector.StrokeRect(dst, float32(r.X+h), float32(r.Y+h), float32(r.Width-width), float32(r.Height-width),
		float32(width), clr, GizmoAntialias)
}

// DrawFilledRect fills r.
func DrawFilledRect(dst *ebiten.Image, r Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, GizmoAntialias)
}

// DrawCircle outlines a circle of the given radius.
func DrawCircle(dst *ebiten.Image, center Vec2, radius float64, clr color.Color, width float64) {
	vector.StrokeCircle(dst, float32(center.X), float32(center.Y), float32(radius),
		float32(math.Max(width, 1)), clr, GizmoAntialias)
}

// DrawFilledCircle fills a circle of the given radius.
func DrawFilledCircle(dst *ebiten.Image, center Vec2, radius float64, clr color.Color) {
	vector.DrawFilledCircle(dst, float32(center.X), float32(center.Y), float32(radius), clr, GizmoAntialias)
}

// DrawCross draws a small plus sign centered on p, useful for marking
// transform origins.
func DrawCross(dst *ebiten.Image, p Vec2, size float64, clr color.Color) {
	DrawLine(dst, Vec2{p.X - size, p.Y}, Vec2{p.X + size, p.Y}, clr, 1)
	DrawLine(dst, Vec2{p.X, p.Y - size}, Vec2{p.X, p.Y + size}, clr, 1)
}

// DrawTransform draws the axes of id's world transform: red for +X, green
// for +Y, each length pixels long before scaling.
func DrawTransform(dst *ebiten.Image, tree *TransformTree, id TransformID, length float64) {
	origin := tree.ToWorld(id, Vec2{})
	DrawLine(dst, origin, tree.ToWorld(id, Vec2{length, 0}), color.RGBA{R: 0xff, A: 0xff}, 1)
	DrawLine(dst, origin, tree.ToWorld(id, Vec2{0, length}), color.RGBA{G: 0xff, A: 0xff}, 1)
}
