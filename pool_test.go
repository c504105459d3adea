package spritefield

import "testing"

func TestPoolAllocateClaimsLowestFirst(t *testing.T) {
	p := newSpritePool(4)
	for want := 0; want < 4; want++ {
		i, ok := p.allocate()
		if !ok {
			t.Fatalf("allocate %d failed", want)
		}
		if i != want {
			t.Errorf("allocate = %d, want %d", i, want)
		}
	}
}

func TestPoolAllocateFullFails(t *testing.T) {
	p := newSpritePool(2)
	p.allocate()
	p.allocate()
	if _, ok := p.allocate(); ok {
		t.Error("allocate on full pool should fail")
	}
	if p.liveCount() != 2 {
		t.Errorf("live = %d, want 2", p.liveCount())
	}
}

func TestPoolReleaseReuse(t *testing.T) {
	p := newSpritePool(2)
	p.allocate()
	i, _ := p.allocate()
	p.records[i].key = "gone"
	p.records[i].toBeRemoved = true
	p.release(i)
	if p.liveCount() != 1 {
		t.Errorf("live = %d, want 1", p.liveCount())
	}
	j, ok := p.allocate()
	if !ok || j != i {
		t.Fatalf("reallocate = %d, %v, want %d, true", j, ok, i)
	}
	rec := &p.records[j]
	if rec.key != "" || rec.toBeRemoved || rec.phase != PhaseCreated {
		t.Error("released slot record should be reset")
	}
}

func TestPoolReleaseFreeSlotPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("release of free slot should panic")
		}
	}()
	p := newSpritePool(2)
	p.release(0)
}

func TestPoolViewsAreExclusiveWindows(t *testing.T) {
	p := newSpritePool(3)
	v1 := p.view(1)
	if len(v1) != swatchFloats {
		t.Fatalf("view len = %d, want %d", len(v1), swatchFloats)
	}
	v1[0] = 42
	if p.view(0)[0] != 0 || p.view(2)[0] != 0 {
		t.Error("writing one slot's view leaked into a neighbor")
	}
	if p.swatch[swatchFloats] != 42 {
		t.Error("view write should land in the packed array")
	}
}

func TestPoolTextureViewIndependentOfSwatch(t *testing.T) {
	p := newSpritePool(2)
	p.view(0)[targetBank+offX] = 7
	if p.textureView(0)[targetBank+offX] != 0 {
		t.Error("swatch writes must not reach the GPU-visible buffer without a sync")
	}
}
