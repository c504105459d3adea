package spritefield

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// currentAttrs evaluates the eased interpolation of view's animated banks at
// nowMs and writes the result to out. Before the transition starts the prev
// bank wins; after it ends (or for a zero-length transition) the target bank
// wins.
func currentAttrs(view []float32, nowMs float64, fn ease.TweenFunc, out *[animatedAttrs]float32) {
	start := float64(view[attrTransitionStart])
	end := float64(view[attrTransitionEnd])
	switch {
	case end <= start || nowMs >= end:
		copy(out[:], view[targetBank:targetBank+animatedAttrs])
	case nowMs <= start:
		copy(out[:], view[prevBank:prevBank+animatedAttrs])
	default:
		elapsed := float32(nowMs - start)
		duration := float32(end - start)
		for k := 0; k < animatedAttrs; k++ {
			b := view[prevBank+k]
			out[k] = fn(elapsed, b, view[targetBank+k]-b, duration)
		}
	}
}

// Draw renders the field's glyphs to screen as one triangle batch.
//
// Draw reads only the GPU-visible buffer maintained by the texture-sync
// task, so attribute changes become visible exactly when their sync
// completes, never mid-pipeline. Glyphs are quads centered on their
// position; a positive border width draws a border ring behind the fill.
func (f *Field) Draw(screen *ebiten.Image) {
	f.batchVerts = f.batchVerts[:0]
	f.batchInds = f.batchInds[:0]
	now := f.scheduler.ElapsedTimeMs()

	gb := f.glyph.Bounds()
	sx0, sy0 := float32(gb.Min.X), float32(gb.Min.Y)
	sx1, sy1 := float32(gb.Max.X), float32(gb.Max.Y)

	var cur [animatedAttrs]float32
	for i := 0; i < f.pool.capacity(); i++ {
		view := f.pool.textureView(i)
		currentAttrs(view, now, f.ease, &cur)
		w, h := cur[offSizeX], cur[offSizeY]
		if w == 0 && h == 0 {
			// Free or zeroed slot.
			continue
		}
		if bw := view[attrBorderWidth]; bw > 0 {
			f.appendQuad(
				cur[offX], cur[offY], w+2*bw, h+2*bw,
				view[attrBorderR], view[attrBorderG], view[attrBorderB], view[attrBorderA],
				sx0, sy0, sx1, sy1,
			)
		}
		f.appendQuad(
			cur[offX], cur[offY], w, h,
			cur[offR], cur[offG], cur[offB], cur[offA],
			sx0, sy0, sx1, sy1,
		)
	}

	if len(f.batchInds) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.Blend = f.blend.EbitenBlend()
	screen.DrawTriangles(f.batchVerts, f.batchInds, f.glyph, op)
}

// appendQuad appends one centered quad to the batch buffers with
// premultiplied vertex colors.
func (f *Field) appendQuad(cx, cy, w, h, r, g, b, a float32, sx0, sy0, sx1, sy1 float32) {
	base := uint16(len(f.batchVerts))
	hw, hh := w/2, h/2
	pr, pg, pb := r*a, g*a, b*a

	f.batchVerts = append(f.batchVerts,
		ebiten.Vertex{DstX: cx - hw, DstY: cy - hh, SrcX: sx0, SrcY: sy0, ColorR: pr, ColorG: pg, ColorB: pb, ColorA: a},
		ebiten.Vertex{DstX: cx + hw, DstY: cy - hh, SrcX: sx1, SrcY: sy0, ColorR: pr, ColorG: pg, ColorB: pb, ColorA: a},
		ebiten.Vertex{DstX: cx - hw, DstY: cy + hh, SrcX: sx0, SrcY: sy1, ColorR: pr, ColorG: pg, ColorB: pb, ColorA: a},
		ebiten.Vertex{DstX: cx + hw, DstY: cy + hh, SrcX: sx1, SrcY: sy1, ColorR: pr, ColorG: pg, ColorB: pb, ColorA: a},
	)
	f.batchInds = append(f.batchInds,
		base, base+1, base+2,
		base+1, base+3, base+2,
	)
}
