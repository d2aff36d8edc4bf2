package pinewood

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is a 2D view into the world: a position the viewport centers on,
// a rotation and a per-axis zoom. The view matrix is cached and rebuilt only
// after something it depends on changes, viewport size included.
type Camera struct {
	position Vec2
	rotation float64
	zoom     Vec2
	viewport Vec2

	followTree   *TransformTree
	followTarget TransformID
	followOffset Vec2
	followLerp   float64

	boundsEnabled bool
	bounds        Rect

	view    ebiten.GeoM
	invView ebiten.GeoM
	dirty   bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera at the origin with zoom 1 for a viewport of
// the given size.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		zoom:     Vec2{1, 1},
		viewport: Vec2{width, height},
		dirty:    true,
	}
}

// Position returns the world point the camera centers on.
func (c *Camera) Position() Vec2 { return c.position }

// SetPosition moves the camera.
func (c *Camera) SetPosition(p Vec2) {
	if c.position != p {
		c.position = p
		c.dirty = true
	}
}

// Rotation returns the camera rotation in radians.
func (c *Camera) Rotation() float64 { return c.rotation }

// SetRotation sets the camera rotation in radians.
func (c *Camera) SetRotation(r float64) {
	if c.rotation != r {
		c.rotation = r
		c.dirty = true
	}
}

// Zoom returns the per-axis zoom. (2, 2) shows the world twice as large.
func (c *Camera) Zoom() Vec2 { return c.zoom }

// SetZoom sets the per-axis zoom.
func (c *Camera) SetZoom(z Vec2) {
	if c.zoom != z {
		c.zoom = z
		c.dirty = true
	}
}

// Viewport returns the screen size the camera renders into.
func (c *Camera) Viewport() Vec2 { return c.viewport }

// SetViewport resizes the viewport. App calls it from Layout.
func (c *Camera) SetViewport(width, height float64) {
	v := Vec2{width, height}
	if c.viewport != v {
		c.viewport = v
		c.dirty = true
	}
}

// Follow makes the camera track the world position of id in tree, plus
// offset. A lerp of 1 snaps; lower values trail behind.
func (c *Camera) Follow(tree *TransformTree, id TransformID, offset Vec2, lerp float64) {
	c.followTree = tree
	c.followTarget = id
	c.followOffset = offset
	c.followLerp = clamp01(lerp)
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() {
	c.followTree = nil
	c.followTarget = NoTransform
}

// ScrollTo animates the camera to pos over duration seconds.
func (c *Camera) ScrollTo(pos Vec2, duration float64, curve Curve) {
	fn := curve.TweenFunc()
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.position.X), float32(pos.X), float32(duration), fn),
		tweenY: gween.New(float32(c.position.Y), float32(pos.Y), float32(duration), fn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds keeps the visible area inside bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.boundsEnabled = true
	c.bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.boundsEnabled = false
}

// Update advances follow, scroll and bounds clamping by dt seconds.
func (c *Camera) Update(dt float64) {
	pos := c.position

	if c.followTree != nil {
		if c.followTree.Valid(c.followTarget) {
			target := c.followTree.WorldPosition(c.followTarget).Add(c.followOffset)
			pos = pos.Lerp(target, c.followLerp)
		} else {
			c.Unfollow()
		}
	}

	if s := c.scrollTween; s != nil {
		if !s.doneX {
			v, done := s.tweenX.Update(float32(dt))
			pos.X = float64(v)
			s.doneX = done
		}
		if !s.doneY {
			v, done := s.tweenY.Update(float32(dt))
			pos.Y = float64(v)
			s.doneY = done
		}
		if s.doneX && s.doneY {
			c.scrollTween = nil
		}
	}

	c.SetPosition(pos)
	if c.boundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts the position so the visible area stays within
// bounds, centering on an axis where bounds are smaller than the view.
func (c *Camera) clampToBounds() {
	halfW := c.viewport.X / (2 * c.zoom.X)
	halfH := c.viewport.Y / (2 * c.zoom.Y)

	minX := c.bounds.X + halfW
	maxX := c.bounds.X + c.bounds.Width - halfW
	minY := c.bounds.Y + halfH
	maxY := c.bounds.Y + c.bounds.Height - halfH

	p := c.position
	if minX > maxX {
		p.X = c.bounds.X + c.bounds.Width/2
	} else {
		p.X = clamp(p.X, minX, maxX)
	}
	if minY > maxY {
		p.Y = c.bounds.Y + c.bounds.Height/2
	} else {
		p.Y = clamp(p.Y, minY, maxY)
	}
	c.SetPosition(p)
}

func (c *Camera) updateView() {
	if !c.dirty {
		return
	}
	c.dirty = false
	var m ebiten.GeoM
	m.Translate(-c.position.X, -c.position.Y)
	m.Rotate(c.rotation)
	m.Scale(c.zoom.X, c.zoom.Y)
	m.Translate(c.viewport.X/2, c.viewport.Y/2)
	c.view = m
	c.invView = invertGeoM(m)
}

// View returns the world-to-screen matrix.
func (c *Camera) View() ebiten.GeoM {
	c.updateView()
	return c.view
}

// Dirty reports whether the view matrix will be rebuilt on next access.
func (c *Camera) Dirty() bool { return c.dirty }

// Apply appends the view to op so an image drawn at a world transform lands
// in the right place on screen.
func (c *Camera) Apply(op *ebiten.DrawImageOptions) {
	c.updateView()
	op.GeoM.Concat(c.view)
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	c.updateView()
	return applyGeoM(c.view, p)
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	c.updateView()
	return applyGeoM(c.invView, p)
}

// VisibleBounds returns the world-space bounding box of the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.updateView()
	corners := [4]Vec2{
		applyGeoM(c.invView, Vec2{0, 0}),
		applyGeoM(c.invView, Vec2{c.viewport.X, 0}),
		applyGeoM(c.invView, Vec2{c.viewport.X, c.viewport.Y}),
		applyGeoM(c.invView, Vec2{0, c.viewport.Y}),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
