// Package ecs provides ECS adapters for tempo's deferred events.
//
// The primary adapter is [NewDonburiHandler], which bridges the events a
// scene drains after each fixed step (add-to-parent notifications and named
// node events) into a [Donburi] world as typed events. Subscribe to
// [AddedEventType] and [NodeEventType] in your ECS systems to receive them.
//
// Usage:
//
//	scene.SetHandler(ecs.NewDonburiHandler(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
