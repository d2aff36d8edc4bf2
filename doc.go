// Package pinewood is a 2D game convenience layer for [Ebitengine].
//
// Pinewood does not draw sprites for you. It supplies the pieces every
// Ebitengine game ends up writing by hand: a transform hierarchy with lazy
// world-matrix caching, per-frame input edge detection for keyboard, mouse
// and gamepads, scenes, a resource cache with hot reload, a camera, sprite
// animation, particles and a handful of draw helpers.
//
// # Quick start
//
// Build an [App] from a [Config], register scenes and hand it to [Run]:
//
//	cfg, err := pinewood.LoadConfig("game.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	app, err := pinewood.NewApp(cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	app.Register("title", func() pinewood.Scene { return &TitleScene{} })
//	if err := pinewood.Run(app); err != nil {
//		log.Fatal(err)
//	}
//
// The first registered scene loads when the game starts. Scenes receive a
// [Context] carrying the window, input, resources, scene manager and clock;
// there is no global state.
//
// # Transforms
//
// A [TransformTree] owns every transform. Transforms are addressed by
// [TransformID] handles and carry a local position, rotation and scale.
// World values are derived on demand:
//
//	tree := pinewood.NewTransformTree()
//	ship := tree.New()
//	gun := tree.New()
//	tree.SetParent(gun, ship)
//	tree.SetPosition(ship, pinewood.Vec2{X: 100, Y: 50})
//	tree.SetRotation(ship, math.Pi/2)
//	muzzle := tree.WorldPosition(gun)
//
// Setting a local value marks the transform and all of its descendants
// stale. Reading a world value recomputes only what is stale, so untouched
// subtrees cost nothing. [TransformTree.LocalState] and
// [TransformTree.WorldState] expose the cache state for inspection.
//
// # Input
//
// [Input] keeps the previous and current snapshot of each device. Call
// [Input.Advance] once per frame (App does this) and ask for presses,
// releases and holds:
//
//	kb := ctx.Input.Keyboard()
//	if kb.IsJustPressed(ebiten.KeySpace) {
//		jump()
//	}
//	pad := ctx.Input.Gamepad(0)
//	if pad.IsPressed(pinewood.GamepadDPadLeft) {
//		moveLeft()
//	}
//	pad.SetVibration(0.8, 0.25)
//
// Devices sit behind the [Device] interface. [EbitenDevice] reads real
// hardware; [ScriptedDevice] is driven by code or a YAML script from
// [LoadInputScript], for tests and attract modes.
//
// # Animation
//
// [Curve] describes an easing function: cubic beziers, bounce, elastic, any
// [gween] easing or a custom function. [TweenPosition] and friends drive
// transforms through the tree's setters. [Flipbook] plays sprite sheets and
// [GIFAnimation] plays decoded GIFs. [ParticleSystem] is a CPU particle
// emitter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package pinewood
