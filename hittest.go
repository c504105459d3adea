package spritefield

// hitBounds computes the sprite's current on-screen rectangle from the
// GPU-visible buffer, matching what Draw renders this frame.
func (f *Field) hitBounds(i int, nowMs float64, cur *[animatedAttrs]float32) (Rect, bool) {
	view := f.pool.textureView(i)
	currentAttrs(view, nowMs, f.ease, cur)
	w, h := float64(cur[offSizeX]), float64(cur[offSizeY])
	if w == 0 && h == 0 {
		return Rect{}, false
	}
	if bw := float64(view[attrBorderWidth]); bw > 0 {
		w += 2 * bw
		h += 2 * bw
	}
	return Rect{
		X:      float64(cur[offX]) - w/2,
		Y:      float64(cur[offY]) - h/2,
		Width:  w,
		Height: h,
	}, true
}

// HitTest returns the datum of the sprite whose current bounds contain
// (x, y). When several sprites overlap the point, the lowest slot index
// wins. Read-only with respect to lifecycle state.
func (f *Field) HitTest(x, y float64) (any, bool) {
	now := f.scheduler.ElapsedTimeMs()
	var cur [animatedAttrs]float32
	for i := range f.pool.records {
		rec := &f.pool.records[i]
		if !rec.inUse {
			continue
		}
		b, ok := f.hitBounds(i, now, &cur)
		if ok && b.Contains(x, y) {
			return rec.datum, true
		}
	}
	return nil, false
}

// HitTestRect returns the data of every live sprite whose current bounds
// intersect r, in ascending slot order.
func (f *Field) HitTestRect(r Rect) []any {
	now := f.scheduler.ElapsedTimeMs()
	var cur [animatedAttrs]float32
	var hits []any
	for i := range f.pool.records {
		rec := &f.pool.records[i]
		if !rec.inUse {
			continue
		}
		b, ok := f.hitBounds(i, now, &cur)
		if ok && b.Intersects(r) {
			hits = append(hits, rec.datum)
		}
	}
	return hits
}
