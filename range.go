package spritefield

// indexRange is a [low, high] summary bound over sprite slot indices. It is a
// summary, not a set: callers rescan the underlying slots between the bounds
// and must tolerate false positives inside the bound, never false negatives.
//
// The zero value is undefined (empty). Reading the bounds of an undefined
// range is a programmer error and panics.
type indexRange struct {
	low, high int
	defined   bool
}

// expandToInclude widens the bound to cover i, or initializes it to [i, i]
// if the range is undefined. O(1).
func (r *indexRange) expandToInclude(i int) {
	if !r.defined {
		r.low, r.high = i, i
		r.defined = true
		return
	}
	if i < r.low {
		r.low = i
	}
	if i > r.high {
		r.high = i
	}
}

// clear resets the range to undefined. O(1).
func (r *indexRange) clear() {
	r.defined = false
}

// isDefined reports whether any index has been included since the last clear.
func (r *indexRange) isDefined() bool {
	return r.defined
}

// lowBound returns the low bound. Panics if the range is undefined.
func (r *indexRange) lowBound() int {
	if !r.defined {
		panic("spritefield: lowBound read on undefined index range")
	}
	return r.low
}

// highBound returns the high bound. Panics if the range is undefined.
func (r *indexRange) highBound() int {
	if !r.defined {
		panic("spritefield: highBound read on undefined index range")
	}
	return r.high
}

// timeRange is a [low, high] summary bound over millisecond timestamps.
// Same contract as indexRange; kept as a separate type so index and time
// bookkeeping cannot be mixed by accident.
type timeRange struct {
	low, high float64
	defined   bool
}

// expandToInclude widens the bound to cover t, or initializes it to [t, t]
// if the range is undefined. O(1).
func (r *timeRange) expandToInclude(t float64) {
	if !r.defined {
		r.low, r.high = t, t
		r.defined = true
		return
	}
	if t < r.low {
		r.low = t
	}
	if t > r.high {
		r.high = t
	}
}

// clear resets the range to undefined. O(1).
func (r *timeRange) clear() {
	r.defined = false
}

// isDefined reports whether any timestamp has been included since the last clear.
func (r *timeRange) isDefined() bool {
	return r.defined
}

// lowBound returns the low bound. Panics if the range is undefined.
func (r *timeRange) lowBound() float64 {
	if !r.defined {
		panic("spritefield: lowBound read on undefined time range")
	}
	return r.low
}

// highBound returns the high bound. Panics if the range is undefined.
func (r *timeRange) highBound() float64 {
	if !r.defined {
		panic("spritefield: highBound read on undefined time range")
	}
	return r.high
}
