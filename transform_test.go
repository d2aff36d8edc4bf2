package pinewood

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// geoMElems returns the six affine elements as [a, b, tx, c, d, ty].
func geoMElems(m ebiten.GeoM) [6]float64 {
	return [6]float64{
		m.Element(0, 0), m.Element(0, 1), m.Element(0, 2),
		m.Element(1, 0), m.Element(1, 1), m.Element(1, 2),
	}
}

func assertGeoM(t *testing.T, name string, got ebiten.GeoM, want [6]float64) {
	t.Helper()
	g := geoMElems(got)
	for i := range g {
		if math.Abs(g[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, g[i], want[i], g, want)
		}
	}
}

var identityElems = [6]float64{1, 0, 0, 0, 1, 0}

// --- Local matrix ---

func TestLocalTransformIdentity(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	assertGeoM(t, "identity", tree.Local(id), identityElems)
}

func TestLocalTransformTranslation(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetPosition(id, Vec2{10, 20})
	assertGeoM(t, "translation", tree.Local(id), [6]float64{1, 0, 10, 0, 1, 20})
}

func TestLocalTransformScale(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetScale(id, Vec2{2, 3})
	assertGeoM(t, "scale", tree.Local(id), [6]float64{2, 0, 0, 0, 3, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetRotation(id, math.Pi/2)
	// cos=0, sin=1: x' = -y, y' = x
	assertGeoM(t, "rot90", tree.Local(id), [6]float64{0, -1, 0, 1, 0, 0})
}

func TestLocalTransformCombined(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetPosition(id, Vec2{50, 100})
	tree.SetScale(id, Vec2{2, 2})
	tree.SetRotation(id, math.Pi/2)
	// Scale(2,2) then Rotate(90) then Translate(50,100).
	assertGeoM(t, "combined", tree.Local(id), [6]float64{0, -2, 50, 2, 0, 100})
}

func TestInvertGeoMSingular(t *testing.T) {
	var m ebiten.GeoM
	m.Scale(0, 1)
	assertGeoM(t, "singular inverse", invertGeoM(m), identityElems)
}

func TestWorldInverseSingularScale(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetScale(id, Vec2{0, 0})
	assertGeoM(t, "inverse", tree.WorldInverse(id), identityElems)
}

// --- Root node: World == Local ---

func TestRootWorldEqualsLocal(t *testing.T) {
	cases := []struct {
		name string
		pos  Vec2
		rot  float64
		sc   Vec2
	}{
		{"identity", Vec2{}, 0, Vec2{1, 1}},
		{"translated", Vec2{-3, 7}, 0, Vec2{1, 1}},
		{"rotated", Vec2{}, 1.1, Vec2{1, 1}},
		{"scaled", Vec2{}, 0, Vec2{0.5, 4}},
		{"everything", Vec2{12, -40}, -2.3, Vec2{3, 0.25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := NewTransformTree()
			id := tree.New()
			tree.SetPosition(id, tc.pos)
			tree.SetRotation(id, tc.rot)
			tree.SetScale(id, tc.sc)

			local := tree.Local(id)
			assertGeoM(t, "world", tree.World(id), geoMElems(local))

			prod := tree.World(id)
			prod.Concat(tree.WorldInverse(id))
			assertGeoM(t, "world*inverse", prod, identityElems)

			assertVec(t, "world position", tree.WorldPosition(id), tc.pos)
			assertNear(t, "world rotation", tree.WorldRotation(id), tc.rot)
			assertVec(t, "world scale", tree.WorldScale(id), tc.sc)
		})
	}
}

// --- Parent / child ---

func TestParentMoveKeepsChildLocal(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	if err := tree.SetParent(child, parent); err != nil {
		t.Fatal(err)
	}
	tree.SetRotation(parent, math.Pi/2)
	tree.SetScale(parent, Vec2{2, 2})
	tree.SetPosition(child, Vec2{3, 0})
	_ = tree.WorldPosition(child)

	tree.SetPosition(parent, Vec2{100, 50})

	assertVec(t, "child local", tree.Position(child), Vec2{3, 0})
	// rotateScale((3,0)) = (0, 6)
	assertVec(t, "child world", tree.WorldPosition(child), Vec2{100, 56})
}

func TestWorldComposition(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))

	tree.SetPosition(parent, Vec2{100, 0})
	tree.SetScale(parent, Vec2{2, 3})
	tree.SetRotation(parent, 0.5)
	tree.SetPosition(child, Vec2{10, 0})
	tree.SetScale(child, Vec2{0.5, 2})
	tree.SetRotation(child, 0.25)

	assertVec(t, "world scale", tree.WorldScale(child), Vec2{1, 6})
	assertNear(t, "world rotation", tree.WorldRotation(child), 0.75)

	want := tree.Local(child)
	want.Concat(tree.World(parent))
	assertGeoM(t, "world", tree.World(child), geoMElems(want))
}

func TestDeepHierarchy(t *testing.T) {
	tree := NewTransformTree()
	ids := make([]TransformID, 10)
	for i := range ids {
		ids[i] = tree.New()
		tree.SetPosition(ids[i], Vec2{10, 0})
		if i > 0 {
			require.NoError(t, tree.SetParent(ids[i], ids[i-1]))
		}
	}
	assertVec(t, "deep", tree.WorldPosition(ids[9]), Vec2{100, 0})
}

func TestGrandchildScenario(t *testing.T) {
	tree := NewTransformTree()
	root := tree.New()
	a := tree.New()
	b := tree.New()
	require.NoError(t, tree.SetParent(a, root))
	require.NoError(t, tree.SetParent(b, a))
	tree.SetPosition(a, Vec2{10, 0})
	tree.SetPosition(b, Vec2{0, 5})

	assertVec(t, "B before", tree.WorldPosition(b), Vec2{10, 5})

	// Clockwise in screen space B's offset (0,5) turns to (-5,0), which
	// puts B at A's (10,0) plus (-5,0) = (5,0).
	tree.SetRotation(a, math.Pi/2)
	assertVec(t, "B after", tree.WorldPosition(b), Vec2{5, 0})
	assertNear(t, "B rotation", tree.WorldRotation(b), math.Pi/2)
}

// --- Caching ---

func TestWorldReadIsIdempotent(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetPosition(parent, Vec2{1.5, -2})
	tree.SetRotation(child, 0.3)

	first := tree.World(child)
	if tree.WorldState(child) != CacheClean {
		t.Fatal("world should be clean after read")
	}
	second := tree.World(child)
	if geoMElems(first) != geoMElems(second) {
		t.Errorf("World changed between reads: %v vs %v", geoMElems(first), geoMElems(second))
	}
}

func TestSettersMarkDirty(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	_ = tree.World(id)

	setters := map[string]func(){
		"position": func() { tree.SetPosition(id, Vec2{1, 2}) },
		"rotation": func() { tree.SetRotation(id, 1) },
		"scale":    func() { tree.SetScale(id, Vec2{2, 2}) },
	}
	for name, set := range setters {
		_ = tree.World(id)
		set()
		if tree.LocalState(id) != CacheDirty || tree.WorldState(id) != CacheDirty {
			t.Errorf("%s: states = %v/%v, want dirty/dirty", name, tree.LocalState(id), tree.WorldState(id))
		}
	}
}

func TestSetterSameValueNoOp(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetPosition(id, Vec2{4, 4})
	_ = tree.World(id)

	tree.SetPosition(id, Vec2{4, 4})
	tree.SetRotation(id, 0)
	tree.SetScale(id, Vec2{1, 1})
	if tree.WorldState(id) != CacheClean {
		t.Error("setting equal values should not dirty the node")
	}
}

func TestLocalReadLeavesWorldDirty(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetPosition(id, Vec2{1, 1})
	_ = tree.Local(id)
	if tree.LocalState(id) != CacheClean {
		t.Error("local should be clean")
	}
	if tree.WorldState(id) != CacheDirty {
		t.Error("world should stay dirty until read")
	}
}

func TestDirtyPropagatesToDescendants(t *testing.T) {
	tree := NewTransformTree()
	a := tree.New()
	b := tree.New()
	c := tree.New()
	require.NoError(t, tree.SetParent(b, a))
	require.NoError(t, tree.SetParent(c, b))
	_ = tree.World(c)

	tree.SetPosition(a, Vec2{7, 0})
	for _, id := range []TransformID{a, b, c} {
		if tree.WorldState(id) != CacheDirty {
			t.Errorf("%s should be world dirty", id)
		}
	}
	if tree.LocalState(b) != CacheClean || tree.LocalState(c) != CacheClean {
		t.Error("descendant local matrices should stay clean")
	}
	assertVec(t, "c", tree.WorldPosition(c), Vec2{7, 0})
}

func TestDirtyPropagationReachesPartiallyCleanSubtree(t *testing.T) {
	tree := NewTransformTree()
	a := tree.New()
	b := tree.New()
	c := tree.New()
	require.NoError(t, tree.SetParent(b, a))
	require.NoError(t, tree.SetParent(c, b))

	// Only b is read; c stays dirty from creation.
	_ = tree.World(b)
	tree.SetPosition(a, Vec2{1, 0})
	_ = tree.World(c)
	tree.SetPosition(a, Vec2{2, 0})

	assertVec(t, "c", tree.WorldPosition(c), Vec2{2, 0})
}

// --- World setters ---

func TestSetWorldPosition(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetPosition(parent, Vec2{100, 100})
	tree.SetRotation(parent, math.Pi/2)
	tree.SetScale(parent, Vec2{2, 2})

	tree.SetWorldPosition(child, Vec2{0, 0})
	assertVec(t, "world", tree.WorldPosition(child), Vec2{0, 0})
}

func TestSetWorldPositionRoot(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetWorldPosition(id, Vec2{3, 4})
	assertVec(t, "local", tree.Position(id), Vec2{3, 4})
}

func TestSetWorldRotation(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetRotation(parent, 1)

	tree.SetWorldRotation(child, 0.25)
	assertNear(t, "local", tree.Rotation(child), -0.75)
	assertNear(t, "world", tree.WorldRotation(child), 0.25)
}

func TestSetWorldScale(t *testing.T) {
	tree := NewTransformTree()
	grand := tree.New()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(parent, grand))
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetScale(grand, Vec2{2, 2})
	tree.SetScale(parent, Vec2{1, 4})

	tree.SetWorldScale(child, Vec2{4, 4})
	assertVec(t, "local", tree.Scale(child), Vec2{2, 0.5})
	assertVec(t, "world", tree.WorldScale(child), Vec2{4, 4})
}

func TestSetWorldScaleZeroParentComponent(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetScale(parent, Vec2{0, 2})
	tree.SetScale(child, Vec2{3, 3})

	tree.SetWorldScale(child, Vec2{5, 8})
	assertVec(t, "local", tree.Scale(child), Vec2{3, 4})
}

// --- ToLocal / ToWorld ---

func TestToLocalToWorldRoundtrip(t *testing.T) {
	tree := NewTransformTree()
	parent := tree.New()
	child := tree.New()
	require.NoError(t, tree.SetParent(child, parent))
	tree.SetPosition(parent, Vec2{100, 50})
	tree.SetRotation(parent, -0.7)
	tree.SetPosition(child, Vec2{10, 20})
	tree.SetScale(child, Vec2{2, 3})
	tree.SetRotation(child, math.Pi/6)

	points := []Vec2{{0, 0}, {150, 80}, {-33.5, 12.25}, {1e3, -1e3}}
	for _, p := range points {
		w := tree.ToWorld(child, p)
		back := tree.ToLocal(child, w)
		if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
			t.Errorf("ToLocal(ToWorld(%v)) = %v", p, back)
		}
	}
}

func TestToWorldOrigin(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	tree.SetPosition(id, Vec2{50, 100})
	assertVec(t, "origin", tree.ToWorld(id, Vec2{}), Vec2{50, 100})
}

func TestToLocalUsesCurrentState(t *testing.T) {
	tree := NewTransformTree()
	id := tree.New()
	assertVec(t, "before", tree.ToLocal(id, Vec2{5, 5}), Vec2{5, 5})
	tree.SetPosition(id, Vec2{5, 5})
	assertVec(t, "after", tree.ToLocal(id, Vec2{5, 5}), Vec2{0, 0})
}

func TestCacheStateString(t *testing.T) {
	if CacheClean.String() != "clean" || CacheDirty.String() != "dirty" {
		t.Errorf("got %q/%q", CacheClean, CacheDirty)
	}
}
