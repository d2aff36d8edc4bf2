package pinewood

import (
	"github.com/tanema/gween"
)

// TweenGroup animates up to 4 float64 values at once. Create one via the
// convenience constructors (TweenPosition, TweenScale, TweenRotation,
// TweenValue) and call Update(dt) each frame. Transform tweens write through
// the tree's setters, so dirty propagation happens as usual. If the target
// transform is destroyed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(v *[4]float64)

	tree   *TransformTree
	target TransformID

	Done bool
}

// Update advances all tweens by dt seconds and applies the new values. If the
// target transform has been destroyed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.tree != nil && !g.tree.Valid(g.target) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(&g.values)
}

// Reset rewinds every tween to its start value.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

func newTweenGroup(from, to []float64, duration float64, curve Curve) *TweenGroup {
	g := &TweenGroup{count: len(from)}
	fn := curve.TweenFunc()
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), float32(duration), fn)
		g.values[i] = from[i]
	}
	return g
}

// TweenPosition animates the local position of id to `to`.
func TweenPosition(tree *TransformTree, id TransformID, to Vec2, duration float64, curve Curve) *TweenGroup {
	from := tree.Position(id)
	g := newTweenGroup([]float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, curve)
	g.tree, g.target = tree, id
	g.apply = func(v *[4]float64) { tree.SetPosition(id, Vec2{v[0], v[1]}) }
	return g
}

// TweenScale animates the local scale of id to `to`.
func TweenScale(tree *TransformTree, id TransformID, to Vec2, duration float64, curve Curve) *TweenGroup {
	from := tree.Scale(id)
	g := newTweenGroup([]float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, curve)
	g.tree, g.target = tree, id
	g.apply = func(v *[4]float64) { tree.SetScale(id, Vec2{v[0], v[1]}) }
	return g
}

// TweenRotation animates the local rotation of id to `to` radians.
func TweenRotation(tree *TransformTree, id TransformID, to, duration float64, curve Curve) *TweenGroup {
	g := newTweenGroup([]float64{tree.Rotation(id)}, []float64{to}, duration, curve)
	g.tree, g.target = tree, id
	g.apply = func(v *[4]float64) { tree.SetRotation(id, v[0]) }
	return g
}

// TweenValue animates *ptr from its current value to `to`.
func TweenValue(ptr *float64, to, duration float64, curve Curve) *TweenGroup {
	g := newTweenGroup([]float64{*ptr}, []float64{to}, duration, curve)
	g.apply = func(v *[4]float64) { *ptr = v[0] }
	return g
}

// TweenColor animates all four components of *c to `to`.
func TweenColor(c *Color, to Color, duration float64, curve Curve) *TweenGroup {
	g := newTweenGroup([]float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A}, duration, curve)
	g.apply = func(v *[4]float64) { *c = Color{v[0], v[1], v[2], v[3]} }
	return g
}
