// Package ecs provides ECS adapters for spritefield.
package ecs

import (
	"strconv"

	"github.com/phanxgames/spritefield"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Glyph is the renderable component the binder mirrors onto sprites. Attach
// it to an entity and the next Sync gives that entity a sprite with these
// attributes; mutate it and Sync again to animate toward the new values over
// TransitionMs.
type Glyph struct {
	X, Y         float64
	SizeX, SizeY float64
	Color        spritefield.Color
	BorderWidth  float64
	BorderColor  spritefield.Color
	TransitionMs float64
}

// GlyphComponent is the Donburi component type for Glyph.
var GlyphComponent = donburi.NewComponentType[Glyph]()

// LifecycleEvent is published to LifecycleEventType when a bound entity's
// sprite enters or exits. Consume with events.Subscribe and ProcessEvents.
type LifecycleEvent struct {
	Entity  donburi.Entity
	Entered bool
}

// LifecycleEventType is the Donburi event type for sprite lifecycle events.
var LifecycleEventType = events.NewEventType[LifecycleEvent]()

// boundEntity snapshots an entity's glyph at Sync time. Callbacks run
// asynchronously, possibly after the entity is gone, so they read the
// snapshot rather than the world.
type boundEntity struct {
	entity donburi.Entity
	glyph  Glyph
}

func entityKey(datum any) string {
	return strconv.FormatUint(uint64(datum.(boundEntity).entity), 10)
}

// Binder mirrors a Donburi world's Glyph entities onto a spritefield
// selection. Create one per world/field pair with NewBinder.
type Binder struct {
	world donburi.World
	sel   *spritefield.Selection
	data  []any
}

// NewBinder creates a binder from world onto a fresh selection on f.
func NewBinder(world donburi.World, f *spritefield.Field) *Binder {
	b := &Binder{world: world}
	b.sel = f.NewSelection(spritefield.Callbacks{
		OnEnter: func(v *spritefield.SpriteView) {
			be := v.Datum().(boundEntity)
			applyGlyph(v, be.glyph)
			LifecycleEventType.Publish(world, LifecycleEvent{Entity: be.entity, Entered: true})
		},
		OnUpdate: func(v *spritefield.SpriteView) {
			applyGlyph(v, v.Datum().(boundEntity).glyph)
		},
		OnExit: func(v *spritefield.SpriteView) {
			be := v.Datum().(boundEntity)
			v.SetTransitionTimeMs(be.glyph.TransitionMs)
			LifecycleEventType.Publish(world, LifecycleEvent{Entity: be.entity})
		},
	})
	return b
}

func applyGlyph(v *spritefield.SpriteView, g Glyph) {
	v.SetPosition(g.X, g.Y)
	v.SetSize(g.SizeX, g.SizeY)
	v.SetColor(g.Color)
	v.SetBorderWidth(g.BorderWidth)
	v.SetBorderColor(g.BorderColor)
	v.SetTransitionTimeMs(g.TransitionMs)
}

// Sync rebinds the selection to the world's current Glyph entities, keyed by
// entity identity. Entities present since the last Sync update, new ones
// enter, and vanished ones exit.
func (b *Binder) Sync() {
	b.data = b.data[:0]
	donburi.NewQuery(filter.Contains(GlyphComponent)).Each(b.world, func(e *donburi.Entry) {
		b.data = append(b.data, boundEntity{entity: e.Entity(), glyph: *GlyphComponent.Get(e)})
	})
	b.sel.Bind(b.data, entityKey)
}

// Clear retires every bound sprite, as if the world had no Glyph entities.
func (b *Binder) Clear() { b.sel.Clear() }

// Len returns the number of entities currently bound.
func (b *Binder) Len() int { return b.sel.Len() }
