// Package ecs provides ECS adapters for spritefield.
//
// The primary adapter is [NewBinder], which mirrors every entity carrying a
// [Glyph] component in a [Donburi] world onto a spritefield selection. Call
// [Binder.Sync] whenever the entity population changes; entities keep their
// sprites across syncs, new entities enter, and removed entities exit with
// their transition. Enter and exit are also published to [LifecycleEventType]
// so ECS systems can react to them.
//
// Usage:
//
//	binder := ecs.NewBinder(world, field)
//	binder.Sync() // after spawning or despawning glyph entities
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
