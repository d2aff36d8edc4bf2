package pinewood

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// CacheState is the state of a lazily recomputed cached value.
type CacheState uint8

const (
	CacheDirty CacheState = iota // must be recomputed before the next read
	CacheClean                   // consistent with the values it derives from
)

// String returns "clean" or "dirty".
func (s CacheState) String() string {
	if s == CacheClean {
		return "clean"
	}
	return "dirty"
}

// computeLocalTransform builds the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *transformNode) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(n.scale.X, n.scale.Y)
	m.Rotate(n.rotation)
	m.Translate(n.position.X, n.position.Y)
	return m
}

// invertGeoM returns the inverse of m, or the identity matrix if m is
// singular.
func invertGeoM(m ebiten.GeoM) ebiten.GeoM {
	if !m.IsInvertible() {
		return ebiten.GeoM{}
	}
	m.Invert()
	return m
}

// applyGeoM transforms a point by m.
func applyGeoM(m ebiten.GeoM, p Vec2) Vec2 {
	x, y := m.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// updateLocal recomputes the local matrix if it is stale.
func (t *TransformTree) updateLocal(n *transformNode) {
	if n.localState == CacheClean {
		return
	}
	n.local = computeLocalTransform(n)
	n.localState = CacheClean
}

// updateWorld recomputes the world matrix, its inverse, and the decomposed
// world fields if they are stale. Ancestors are brought up to date first.
func (t *TransformTree) updateWorld(n *transformNode) {
	t.updateLocal(n)
	if n.worldState == CacheClean {
		return
	}

	if n.parent == NoTransform {
		n.world = n.local
		n.worldPosition = n.position
		n.worldRotation = n.rotation
		n.worldScale = n.scale
	} else {
		p := t.node(n.parent)
		t.updateWorld(p)

		// Child transform first, then the parent's.
		n.world = n.local
		n.world.Concat(p.world)
		n.worldScale = p.worldScale.Mul(n.scale)
		n.worldRotation = p.worldRotation + n.rotation
		n.worldPosition = applyGeoM(n.world, Vec2{})
	}
	n.worldInverse = invertGeoM(n.world)
	n.worldState = CacheClean
}

// markLocalDirty invalidates the local matrix and everything derived from it.
func (t *TransformTree) markLocalDirty(n *transformNode) {
	n.localState = CacheDirty
	t.markWorldDirty(n)
}

// markWorldDirty invalidates the world cache of n and all its descendants.
// A world-clean node always has world-clean ancestors, so once a dirty node
// is reached its subtree is already dirty and the walk can stop there.
func (t *TransformTree) markWorldDirty(n *transformNode) {
	if n.worldState == CacheDirty {
		return
	}
	n.worldState = CacheDirty
	for _, c := range n.children {
		t.markWorldDirty(t.node(c))
	}
}

// --- Transform property accessors ---

// Position returns the node's position relative to its parent (absolute if
// it has no parent).
func (t *TransformTree) Position(id TransformID) Vec2 {
	return t.node(id).position
}

// SetPosition sets the node's local position and marks it dirty.
func (t *TransformTree) SetPosition(id TransformID, p Vec2) {
	n := t.node(id)
	if n.position == p {
		return
	}
	n.position = p
	t.markLocalDirty(n)
}

// Rotation returns the node's local rotation in radians.
func (t *TransformTree) Rotation(id TransformID) float64 {
	return t.node(id).rotation
}

// SetRotation sets the node's local rotation (in radians) and marks it dirty.
func (t *TransformTree) SetRotation(id TransformID, r float64) {
	n := t.node(id)
	if n.rotation == r {
		return
	}
	n.rotation = r
	t.markLocalDirty(n)
}

// Scale returns the node's local scale.
func (t *TransformTree) Scale(id TransformID) Vec2 {
	return t.node(id).scale
}

// SetScale sets the node's local scale and marks it dirty.
func (t *TransformTree) SetScale(id TransformID, s Vec2) {
	n := t.node(id)
	if n.scale == s {
		return
	}
	n.scale = s
	t.markLocalDirty(n)
}

// WorldPosition returns the node's position in world space.
func (t *TransformTree) WorldPosition(id TransformID) Vec2 {
	n := t.node(id)
	t.updateWorld(n)
	return n.worldPosition
}

// SetWorldPosition moves the node so that its world position equals p.
func (t *TransformTree) SetWorldPosition(id TransformID, p Vec2) {
	n := t.node(id)
	if n.parent == NoTransform {
		t.SetPosition(id, p)
		return
	}
	t.SetPosition(id, t.ToLocal(n.parent, p))
}

// WorldRotation returns the sum of the node's rotation and all ancestor
// rotations.
func (t *TransformTree) WorldRotation(id TransformID) float64 {
	n := t.node(id)
	t.updateWorld(n)
	return n.worldRotation
}

// SetWorldRotation rotates the node so that its world rotation equals r.
func (t *TransformTree) SetWorldRotation(id TransformID, r float64) {
	n := t.node(id)
	if n.parent == NoTransform {
		t.SetRotation(id, r)
		return
	}
	t.SetRotation(id, r-t.WorldRotation(n.parent))
}

// WorldScale returns the component-wise product of the node's scale and all
// ancestor scales.
func (t *TransformTree) WorldScale(id TransformID) Vec2 {
	n := t.node(id)
	t.updateWorld(n)
	return n.worldScale
}

// SetWorldScale scales the node so that its world scale equals s. A zero
// component in the parent's world scale leaves that local component as is.
func (t *TransformTree) SetWorldScale(id TransformID, s Vec2) {
	n := t.node(id)
	if n.parent == NoTransform {
		t.SetScale(id, s)
		return
	}
	ps := t.WorldScale(n.parent)
	local := n.scale
	if ps.X != 0 {
		local.X = s.X / ps.X
	}
	if ps.Y != 0 {
		local.Y = s.Y / ps.Y
	}
	t.SetScale(id, local)
}

// Local returns the node's local matrix.
func (t *TransformTree) Local(id TransformID) ebiten.GeoM {
	n := t.node(id)
	t.updateLocal(n)
	return n.local
}

// World returns the node's world matrix.
func (t *TransformTree) World(id TransformID) ebiten.GeoM {
	n := t.node(id)
	t.updateWorld(n)
	return n.world
}

// WorldInverse returns the inverse of the node's world matrix.
func (t *TransformTree) WorldInverse(id TransformID) ebiten.GeoM {
	n := t.node(id)
	t.updateWorld(n)
	return n.worldInverse
}

// LocalState reports whether the node's local matrix is up to date.
func (t *TransformTree) LocalState(id TransformID) CacheState {
	return t.node(id).localState
}

// WorldState reports whether the node's world matrix is up to date.
func (t *TransformTree) WorldState(id TransformID) CacheState {
	return t.node(id).worldState
}

// --- Coordinate conversion ---

// ToLocal converts a world-space point to this node's local coordinate space.
func (t *TransformTree) ToLocal(id TransformID, world Vec2) Vec2 {
	return applyGeoM(t.WorldInverse(id), world)
}

// ToWorld converts a local-space point to world space.
func (t *TransformTree) ToWorld(id TransformID, local Vec2) Vec2 {
	return applyGeoM(t.World(id), local)
}
