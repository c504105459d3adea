package spritefield

// Swatch layout. Each sprite slot owns swatchFloats consecutive float32
// values in the packed attribute array. Animated attributes are stored as a
// previous-value bank and a target-value bank; the renderer interpolates
// between the banks using the transition timestamps. Border attributes are
// not animated.
const (
	attrTransitionStart = 0 // ms timestamp the current transition began
	attrTransitionEnd   = 1 // ms timestamp the current transition completes

	prevBank   = 2  // previous values of the animated attributes
	targetBank = 10 // target values of the animated attributes

	attrBorderWidth = 18
	attrBorderR     = 19
	attrBorderG     = 20
	attrBorderB     = 21
	attrBorderA     = 22

	swatchFloats = 23
)

// Offsets of the animated attributes within each bank.
const (
	offX = iota
	offY
	offSizeX
	offSizeY
	offR
	offG
	offB
	offA
	animatedAttrs
)

// SpriteCallback is a lifecycle callback. It receives a mutable view of the
// sprite's attributes and the bound datum (via SpriteView.Datum). Callbacks
// run inside scheduled tasks, never synchronously from Selection.Bind.
type SpriteCallback func(v *SpriteView)

// Callbacks holds the lifecycle callbacks for a Selection. All fields are
// optional; nil callbacks cost nothing.
type Callbacks struct {
	// OnInit runs once when a datum first claims a slot, before OnEnter.
	OnInit SpriteCallback
	// OnEnter runs once when a newly bound sprite enters the field.
	OnEnter SpriteCallback
	// OnUpdate runs once per rebind for each datum whose key survives.
	OnUpdate SpriteCallback
	// OnExit runs once when a datum's key disappears from a rebind.
	// The transition time it sets delays the slot's removal.
	OnExit SpriteCallback
}

// spriteRecord is the per-slot lifecycle state. Identity-stable: a record
// never moves between slots; the swatch view it owns is zeroed and reused
// when the slot is freed.
type spriteRecord struct {
	phase       LifecyclePhase
	inUse       bool
	toBeRemoved bool
	zeroed      bool

	key   string
	datum any
	cb    Callbacks

	// Pending callback edges, set by the binder and consumed by the
	// callback dispatch task.
	pendingInit   bool
	pendingEnter  bool
	pendingUpdate bool
	pendingExit   bool

	// Transition duration requested by the most recent callback, in ms.
	// Consumed by the rebase task when it anchors the transition timestamps.
	durationMs float32
}

// hasPendingCallback reports whether any callback edge is waiting to run.
func (r *spriteRecord) hasPendingCallback() bool {
	return r.pendingInit || r.pendingEnter || r.pendingUpdate || r.pendingExit
}

// SpriteView is the mutable attribute accessor handed to lifecycle callbacks
// and hit-test results. Setters write the target bank; the previous bank and
// the transition timestamps are managed by the batch tasks.
//
// A SpriteView is only valid for the duration of the callback it was passed
// to. Holding one past that point reads whatever the slot contains later.
type SpriteView struct {
	view []float32
	rec  *spriteRecord
	slot int
}

// Datum returns the data item currently bound to this sprite.
func (v *SpriteView) Datum() any { return v.rec.datum }

// Slot returns the sprite's pool slot index.
func (v *SpriteView) Slot() int { return v.slot }

// Position returns the target position.
func (v *SpriteView) Position() Vec2 {
	return Vec2{float64(v.view[targetBank+offX]), float64(v.view[targetBank+offY])}
}

// SetPosition sets the target position.
func (v *SpriteView) SetPosition(x, y float64) {
	v.view[targetBank+offX] = float32(x)
	v.view[targetBank+offY] = float32(y)
}

// Size returns the target size.
func (v *SpriteView) Size() Vec2 {
	return Vec2{float64(v.view[targetBank+offSizeX]), float64(v.view[targetBank+offSizeY])}
}

// SetSize sets the target size.
func (v *SpriteView) SetSize(w, h float64) {
	v.view[targetBank+offSizeX] = float32(w)
	v.view[targetBank+offSizeY] = float32(h)
}

// Color returns the target color.
func (v *SpriteView) Color() Color {
	return Color{
		R: float64(v.view[targetBank+offR]),
		G: float64(v.view[targetBank+offG]),
		B: float64(v.view[targetBank+offB]),
		A: float64(v.view[targetBank+offA]),
	}
}

// SetColor sets the target color.
func (v *SpriteView) SetColor(c Color) {
	v.view[targetBank+offR] = float32(c.R)
	v.view[targetBank+offG] = float32(c.G)
	v.view[targetBank+offB] = float32(c.B)
	v.view[targetBank+offA] = float32(c.A)
}

// BorderWidth returns the border width in pixels.
func (v *SpriteView) BorderWidth() float64 { return float64(v.view[attrBorderWidth]) }

// SetBorderWidth sets the border width in pixels. Borders are not animated.
func (v *SpriteView) SetBorderWidth(w float64) { v.view[attrBorderWidth] = float32(w) }

// BorderColor returns the border color.
func (v *SpriteView) BorderColor() Color {
	return Color{
		R: float64(v.view[attrBorderR]),
		G: float64(v.view[attrBorderG]),
		B: float64(v.view[attrBorderB]),
		A: float64(v.view[attrBorderA]),
	}
}

// SetBorderColor sets the border color. Borders are not animated.
func (v *SpriteView) SetBorderColor(c Color) {
	v.view[attrBorderR] = float32(c.R)
	v.view[attrBorderG] = float32(c.G)
	v.view[attrBorderB] = float32(c.B)
	v.view[attrBorderA] = float32(c.A)
}

// TransitionTimeMs returns the transition duration most recently requested
// on this view.
func (v *SpriteView) TransitionTimeMs() float64 { return float64(v.rec.durationMs) }

// SetTransitionTimeMs requests that the attribute changes made by this
// callback animate over the given duration. Zero (the default) applies them
// immediately. The duration is anchored to the clock by the rebase task, so
// the animation starts counting when the change reaches the GPU pipeline,
// not when the callback runs.
func (v *SpriteView) SetTransitionTimeMs(ms float64) {
	if ms < 0 {
		ms = 0
	}
	v.rec.durationMs = float32(ms)
}
