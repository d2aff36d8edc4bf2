package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/pinewood"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransformData links an entity to a transform in a tree.
type TransformData struct {
	Tree *pinewood.TransformTree
	ID   pinewood.TransformID
}

// Transform is the component type for TransformData.
var Transform = donburi.NewComponentType[TransformData]()

// KeyEvent is a keyboard transition observed in one frame.
type KeyEvent struct {
	Key  ebiten.Key
	Edge pinewood.Edge
}

// GamepadEvent is a gamepad button transition observed in one frame.
type GamepadEvent struct {
	Slot   int
	Button pinewood.GamepadButton
	Edge   pinewood.Edge
}

// KeyEventType carries KeyEvents. Subscribe in your systems and call
// ProcessEvents once per frame.
var KeyEventType = events.NewEventType[KeyEvent]()

// GamepadEventType carries GamepadEvents.
var GamepadEventType = events.NewEventType[GamepadEvent]()

// NewTransformEntity creates a transform in tree and an entity holding it.
func NewTransformEntity(world donburi.World, tree *pinewood.TransformTree) (donburi.Entity, pinewood.TransformID) {
	id := tree.New()
	e := world.Create(Transform)
	Transform.SetValue(world.Entry(e), TransformData{Tree: tree, ID: id})
	return e, id
}

// PruneDestroyed removes every entity whose transform is no longer valid and
// returns how many were removed.
func PruneDestroyed(world donburi.World) int {
	var dead []donburi.Entity
	Transform.Each(world, func(entry *donburi.Entry) {
		t := Transform.Get(entry)
		if t.Tree == nil || !t.Tree.Valid(t.ID) {
			dead = append(dead, entry.Entity())
		}
	})
	for _, e := range dead {
		world.Remove(e)
	}
	return len(dead)
}

// PublishKeyEdges queues a KeyEvent for each of keys that was pressed or
// released this frame.
func PublishKeyEdges(world donburi.World, in *pinewood.Input, keys ...ebiten.Key) {
	kb := in.Keyboard()
	for _, k := range keys {
		if edge := kb.Edge(k); edge != pinewood.EdgeNone {
			KeyEventType.Publish(world, KeyEvent{Key: k, Edge: edge})
		}
	}
}

// PublishGamepadEdges queues a GamepadEvent for each of buttons on the pad
// in slot that was pressed or released this frame.
func PublishGamepadEdges(world donburi.World, in *pinewood.Input, slot int, buttons ...pinewood.GamepadButton) {
	pad := in.Gamepad(slot)
	for _, b := range buttons {
		if edge := pad.Edge(b); edge != pinewood.EdgeNone {
			GamepadEventType.Publish(world, GamepadEvent{Slot: slot, Button: b, Edge: edge})
		}
	}
}
