package spritefield

import (
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// setupBenchField creates a settled field with n live sprites laid out on a
// grid, using a manual clock so benchmarks control time.
func setupBenchField(n int) (*Field, *Selection, *manualClock, []any) {
	clk := &manualClock{}
	f := NewField(FieldConfig{
		Capacity:      n + n/4,
		MaxWorkTimeMs: 1e9,
		Clock:         clk,
	})
	data := make([]any, n)
	for i := range data {
		data[i] = i
	}
	sel := f.NewSelection(Callbacks{
		OnEnter: func(v *SpriteView) {
			i := v.Datum().(int)
			v.SetPosition(float64(i%100)*12, float64(i/100)*12)
			v.SetSize(8, 8)
			v.SetTransitionTimeMs(500)
		},
		OnUpdate: func(v *SpriteView) {
			i := v.Datum().(int)
			v.SetPosition(float64(i%100)*12+4, float64(i/100)*12)
			v.SetTransitionTimeMs(500)
		},
	})
	sel.Bind(data, nil)
	settle(f, 4)
	return f, sel, clk, data
}

func BenchmarkBindDispatch_10000(b *testing.B) {
	f, sel, clk, data := setupBenchField(10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sel.Bind(data, nil)
		clk.advance(16)
		settle(f, 4)
	}
}

func BenchmarkDraw_10000Static(b *testing.B) {
	f, _, _, _ := setupBenchField(10000)
	screen := ebiten.NewImage(1280, 720)

	// Warm up: first draw grows the batch buffers.
	f.Draw(screen)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Draw(screen)
	}
}

func BenchmarkDraw_10000MidTransition(b *testing.B) {
	f, sel, clk, data := setupBenchField(10000)
	screen := ebiten.NewImage(1280, 720)

	// Rebind and stop the clock halfway through the 500ms transitions, so
	// every draw takes the eased-interpolation path.
	sel.Bind(data, nil)
	settle(f, 4)
	clk.advance(250)

	f.Draw(screen)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Draw(screen)
	}
}

func BenchmarkCurrentAttrs(b *testing.B) {
	view := make([]float32, swatchFloats)
	view[attrTransitionStart] = 0
	view[attrTransitionEnd] = 100
	for k := 0; k < animatedAttrs; k++ {
		view[targetBank+k] = float32(k)
	}
	var cur [animatedAttrs]float32

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		currentAttrs(view, 50, ease.Linear, &cur)
	}
}

func BenchmarkHitTest_10000(b *testing.B) {
	f, _, _, _ := setupBenchField(10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Point past the grid: worst case, every sprite is tested.
		f.HitTest(-50, -50)
	}
}

func BenchmarkKeyedBind_10000(b *testing.B) {
	n := 10000
	f := NewField(FieldConfig{
		Capacity:      n,
		MaxWorkTimeMs: 1e9,
		Clock:         &manualClock{},
	})
	data := make([]any, n)
	for i := range data {
		data[i] = fmt.Sprintf("key-%d", i)
	}
	sel := f.NewSelection(Callbacks{
		OnEnter: func(v *SpriteView) { v.SetSize(4, 4) },
	})
	key := func(d any) string { return d.(string) }

	// First bind enters everything; timed iterations are pure updates.
	sel.Bind(data, key)
	settle(f, 4)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sel.Bind(data, key)
		settle(f, 4)
	}
}
