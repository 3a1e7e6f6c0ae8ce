// Package tempo is the per-frame animation and deferred-event core of a
// retained-mode 2D scene graph for [Ebitengine].
//
// A [Scene] owns a tree of [Node] values and, every frame, runs the engines
// that move them: a pooled [TweenEngine] for single-property interpolation,
// a [MotionEngine] for custom per-frame logic, and [Skeleton] bone
// attachments. Events raised while the tree is being walked are recorded by
// a [DeferredDispatch] and delivered only once the walk has finished, so
// handlers are free to add, remove and dispose nodes.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := tempo.NewScene()
//	// ... add nodes, start tweens ...
//	tempo.Run(scene, tempo.RunConfig{
//		Title: "My Game", Width: 640, Height: 480, Overlay: true,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] with your own frame delta.
//
// # Frame order
//
// [Scene.Update] takes the wall-clock delta in seconds. The fixed-step
// [Driver] turns it into whole steps at the content's authored frame rate
// (30 by default); each step walks the tree and then drains the deferred
// queue exactly once. Tweens and motions then advance by the real delta,
// world transforms are refreshed, and skeletons copy bone transforms onto
// their attached nodes.
//
// # Tweens
//
//	id := scene.Tweens.Start(node, tempo.PropX, tempo.CurveInOutCubic,
//		0, 200, 1.5, func() { log.Println("arrived") })
//	scene.Tweens.Cancel(id)
//
// Cancels are applied at the start of the next Advance, and a cancelled
// tween never fires its completion callback. Completion callbacks run after
// every tween in the pass has been updated, in the order the tweens were
// started.
//
// # Events
//
// Bind an [AdvanceHandler] with [Scene.SetHandler]. [EventRouter] delivers
// events to per-node listeners with bubbling; the ecs sub-package publishes
// them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package tempo
