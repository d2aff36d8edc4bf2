// Package ecs bridges pinewood into a [Donburi] world.
//
// Entities can carry a [Transform] component pointing into a
// pinewood.TransformTree; [PruneDestroyed] removes entities whose transform
// has been destroyed. Input edges are published as typed events so systems
// can react without polling:
//
//	ecs.PublishKeyEdges(world, ctx.Input, ebiten.KeySpace, ebiten.KeyEscape)
//	ecs.KeyEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
