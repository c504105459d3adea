package spritefield

// spritePool is the fixed-capacity sprite store: one record per slot plus the
// packed swatch array the records view into. Slots are identity-stable; a
// freed slot is reused by a later allocation, its swatch already zeroed by
// the removal task.
type spritePool struct {
	records []spriteRecord
	swatch  []float32 // CPU-side attribute memory, swatchFloats per slot
	texture []float32 // GPU-visible copy, written only by the texture-sync task
	free    []int     // free slot indices, used LIFO
	live    int
}

// newSpritePool creates a pool with the given capacity. All slots start free,
// lowest index on top of the free stack so early binds get early slots.
func newSpritePool(capacity int) *spritePool {
	p := &spritePool{
		records: make([]spriteRecord, capacity),
		swatch:  make([]float32, capacity*swatchFloats),
		texture: make([]float32, capacity*swatchFloats),
		free:    make([]int, capacity),
	}
	for i := range p.free {
		p.free[i] = capacity - 1 - i
	}
	return p
}

// capacity returns the fixed slot count.
func (p *spritePool) capacity() int {
	return len(p.records)
}

// liveCount returns the number of slots currently claimed.
func (p *spritePool) liveCount() int {
	return p.live
}

// view returns the sprite's swatch view: the swatchFloats-wide slice of the
// packed CPU-side attribute array owned by slot i.
func (p *spritePool) view(i int) []float32 {
	return p.swatch[i*swatchFloats : (i+1)*swatchFloats]
}

// textureView returns slot i's window into the GPU-visible buffer.
func (p *spritePool) textureView(i int) []float32 {
	return p.texture[i*swatchFloats : (i+1)*swatchFloats]
}

// allocate claims a free slot and returns its index. Returns false when the
// pool is full; callers drop the bind for that datum (matching the
// drop-when-full behavior of a fixed pool rather than growing).
func (p *spritePool) allocate() (int, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	rec := &p.records[i]
	rec.inUse = true
	p.live++
	return i, true
}

// release returns slot i to the free stack and resets its record. The swatch
// is already zeroed by the removal task; release only clears lifecycle
// metadata. Panics if the slot is not in use.
func (p *spritePool) release(i int) {
	rec := &p.records[i]
	if !rec.inUse {
		panic("spritefield: release of a slot that is not in use")
	}
	*rec = spriteRecord{phase: PhaseCreated}
	p.free = append(p.free, i)
	p.live--
}
