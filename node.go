package pinewood

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// ErrCyclicParent is returned by SetParent when the requested parent is the
// node itself or one of its descendants.
var ErrCyclicParent = errors.New("pinewood: parent would create a cycle")

// TransformID is a generation-checked handle to a node in a TransformTree.
// The zero value is NoTransform.
type TransformID struct {
	index uint32 // slot + 1; 0 means none
	gen   uint32
}

// NoTransform is the zero handle. It is used as "no parent".
var NoTransform TransformID

// IsZero reports whether id is NoTransform.
func (id TransformID) IsZero() bool { return id.index == 0 }

// String returns a short debug form like "#3.1".
func (id TransformID) String() string {
	if id.index == 0 {
		return "#none"
	}
	return fmt.Sprintf("#%d.%d", id.index-1, id.gen)
}

// transformNode is one arena slot.
type transformNode struct {
	gen   uint32
	alive bool
	name  string

	parent   TransformID
	children []TransformID

	position Vec2
	rotation float64
	scale    Vec2

	local      ebiten.GeoM
	localState CacheState

	world         ebiten.GeoM
	worldInverse  ebiten.GeoM
	worldPosition Vec2
	worldRotation float64
	worldScale    Vec2
	worldState    CacheState
}

// TransformTree is an arena of 2D transform nodes. Nodes refer to each other
// by TransformID so parent and child links never own one another.
//
// A TransformTree is not safe for concurrent use; it is meant to be driven
// from the game's update goroutine.
type TransformTree struct {
	nodes []transformNode
	free  []uint32
	count int
}

// NewTransformTree creates an empty tree.
func NewTransformTree() *TransformTree {
	return &TransformTree{}
}

// New allocates an identity node with no parent.
func (t *TransformTree) New() TransformID {
	var slot uint32
	if n := len(t.free); n > 0 {
		slot = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, transformNode{})
		slot = uint32(len(t.nodes) - 1)
	}
	n := &t.nodes[slot]
	gen := n.gen + 1
	children := n.children[:0]
	*n = transformNode{
		gen:      gen,
		alive:    true,
		children: children,
		scale:    Vec2{1, 1},
	}
	t.count++
	return TransformID{index: slot + 1, gen: gen}
}

// NewNamed allocates an identity node carrying a debug name.
func (t *TransformTree) NewNamed(name string) TransformID {
	id := t.New()
	t.node(id).name = name
	return id
}

// Name returns the node's debug name.
func (t *TransformTree) Name(id TransformID) string {
	return t.node(id).name
}

// Valid reports whether id refers to a live node in this tree.
func (t *TransformTree) Valid(id TransformID) bool {
	if t == nil || id.index == 0 || int(id.index) > len(t.nodes) {
		return false
	}
	n := &t.nodes[id.index-1]
	return n.alive && n.gen == id.gen
}

// Len returns the number of live nodes.
func (t *TransformTree) Len() int {
	return t.count
}

// node resolves a handle. Panics on a stale or invalid handle.
func (t *TransformTree) node(id TransformID) *transformNode {
	if t == nil {
		panic("pinewood: nil TransformTree")
	}
	if !t.Valid(id) {
		panic("pinewood: invalid or destroyed transform " + id.String())
	}
	return &t.nodes[id.index-1]
}

// Destroy detaches the node from its parent, orphans its children (they
// become roots), and releases the slot. Later use of id panics.
// Destroying an already destroyed node is a no-op.
func (t *TransformTree) Destroy(id TransformID) {
	if !t.Valid(id) {
		return
	}
	n := t.node(id)
	if n.parent != NoTransform {
		t.node(n.parent).removeChild(id)
		n.parent = NoTransform
	}
	for _, c := range n.children {
		cn := t.node(c)
		cn.parent = NoTransform
		t.markWorldDirty(cn)
	}
	n.children = n.children[:0]
	n.alive = false
	n.name = ""
	t.free = append(t.free, id.index-1)
	t.count--
	debugf("transform %s destroyed (%d live)", id, t.count)
}

// --- Hierarchy ---

// Parent returns the node's parent, or NoTransform for a root.
func (t *TransformTree) Parent(id TransformID) TransformID {
	return t.node(id).parent
}

// SetParent moves the node under parent. Passing NoTransform makes it a root.
// Setting the current parent again is a no-op. Returns ErrCyclicParent if
// parent is the node itself or one of its descendants.
func (t *TransformTree) SetParent(id, parent TransformID) error {
	n := t.node(id)
	if n.parent == parent {
		return nil
	}
	if parent != NoTransform {
		t.node(parent)
		if t.isAncestor(id, parent) {
			return errors.Wrapf(ErrCyclicParent, "set parent of %s to %s", id, parent)
		}
	}
	if n.parent != NoTransform {
		t.node(n.parent).removeChild(id)
	}
	n.parent = parent
	if parent != NoTransform {
		p := t.node(parent)
		p.children = append(p.children, id)
	}
	t.markWorldDirty(n)
	if globalDebug {
		t.debugCheckDepth(id)
	}
	return nil
}

// AddChild is SetParent(child, id).
func (t *TransformTree) AddChild(id, child TransformID) error {
	return t.SetParent(child, id)
}

// Children returns the node's children in insertion order.
// The returned slice MUST NOT be mutated by the caller.
func (t *TransformTree) Children(id TransformID) []TransformID {
	return t.node(id).children
}

// NumChildren returns the number of children.
func (t *TransformTree) NumChildren(id TransformID) int {
	return len(t.node(id).children)
}

// DetachChildren turns every child of the node into a root.
func (t *TransformTree) DetachChildren(id TransformID) {
	n := t.node(id)
	for _, c := range n.children {
		cn := t.node(c)
		cn.parent = NoTransform
		t.markWorldDirty(cn)
	}
	n.children = n.children[:0]
}

// Walk visits id and its descendants depth-first, parents before children.
// Returning false from fn skips that node's subtree.
func (t *TransformTree) Walk(id TransformID, fn func(TransformID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.node(id).children {
		t.Walk(c, fn)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is id or an ancestor of id.
func (t *TransformTree) isAncestor(candidate, id TransformID) bool {
	for p := id; p != NoTransform; p = t.nodes[p.index-1].parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChild removes child from n.children, keeping order.
func (n *transformNode) removeChild(child TransformID) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
