// Package spritefield renders very large numbers of independently animated
// glyphs on a single GPU-backed surface, advancing them under a per-frame
// time budget so the host loop never drops below an interactive frame rate.
//
// The core is a cooperative work scheduler plus a sprite lifecycle engine:
// each sprite moves through a fixed phase machine from "bound to new data"
// through "rendering" to "removed and recyclable", and batch tasks advance
// sprites a bounded number of steps per frame, handing partial progress
// between frames through dirty-range bookkeeping instead of rescanning the
// whole population.
//
// # Quick start
//
// Create a [Field], bind data through a [Selection], and drive it from an
// [ebiten.Game]:
//
//	field := spritefield.NewField(spritefield.FieldConfig{Capacity: 20000})
//	sel := field.NewSelection(spritefield.Callbacks{
//		OnEnter: func(v *spritefield.SpriteView) {
//			p := v.Datum().(Point)
//			v.SetPosition(p.X, p.Y)
//			v.SetSize(4, 4)
//			v.SetTransitionTimeMs(300)
//		},
//	})
//	sel.Bind(data, func(d any) string { return d.(Point).ID })
//
//	type Game struct{ field *spritefield.Field }
//
//	func (g *Game) Update() error              { g.field.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)       { g.field.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// Lifecycle callbacks run inside scheduled tasks across frames, never
// synchronously from Bind; a bind of tens of thousands of items settles over
// several frames without stalling any single one.
//
// # Scheduling model
//
// Everything is single-threaded and cooperative. Batch tasks poll a
// remaining-budget function every few steps and yield when the frame's work
// budget ([FieldConfig.MaxWorkTimeMs]) is spent; unfinished spans are folded
// back into the task's dirty range and picked up next frame. Invariant
// violations panic — they indicate corrupted lifecycle state that must not
// reach the GPU-visible buffer.
//
// Transitions are interpolated with [gween] easing functions; rendering
// uses a single DrawTriangles batch per frame. An optional ECS adapter for
// [Donburi] lives in spritefield/ecs.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package spritefield
