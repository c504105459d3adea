package spritefield

import "time"

// Clock supplies millisecond timestamps to the scheduler and the batch tasks.
// The epoch is arbitrary; only differences matter. Injectable so tests can
// step time by hand.
type Clock interface {
	// NowMs returns the current time in milliseconds since the clock's epoch.
	NowMs() float64
}

// systemClock is the production Clock, measuring from process start.
type systemClock struct {
	epoch time.Time
}

func newSystemClock() *systemClock {
	return &systemClock{epoch: time.Now()}
}

func (c *systemClock) NowMs() float64 {
	return float64(time.Since(c.epoch)) / float64(time.Millisecond)
}

// FrameDriver delivers animation-frame and timer callbacks to the scheduler.
// Injectable so tests control exactly when frames fire. The scheduler never
// assumes a single global frame source.
//
// Implementations are single-threaded: callbacks fire from Tick, on the
// caller's goroutine.
type FrameDriver interface {
	// RequestFrame registers fn to run on the next animation opportunity
	// and returns a handle for CancelFrame.
	RequestFrame(fn func()) int
	// CancelFrame drops a not-yet-fired frame request. No-op for handles
	// that already fired or were never issued.
	CancelFrame(handle int)
	// SetTimer registers fn to run once the given delay has elapsed,
	// measured against the Tick timestamps.
	SetTimer(fn func(), delayMs float64) int
	// ClearTimer drops a not-yet-fired timer. No-op after firing.
	ClearTimer(handle int)
	// Tick advances the driver to the given clock reading, firing due
	// timers and then any pending frame callbacks. The host calls this
	// once per frame (Field.Update does it for the default driver).
	Tick(nowMs float64)
}

// tickDriver is the default FrameDriver. Frame callbacks fire on the next
// Tick after they were requested; callbacks requested during a Tick wait for
// the following one.
type tickDriver struct {
	nextID int
	frames []tickCallback
	timers []tickTimer
	// Reused swap buffers so Tick does not allocate per frame.
	firing []tickCallback
	due    []func()
}

type tickCallback struct {
	id int
	fn func()
}

type tickTimer struct {
	id       int
	at       float64 // relative delay until anchored, then absolute fire time
	fn       func()
	anchored bool
}

func newTickDriver() *tickDriver {
	return &tickDriver{}
}

func (d *tickDriver) RequestFrame(fn func()) int {
	d.nextID++
	d.frames = append(d.frames, tickCallback{id: d.nextID, fn: fn})
	return d.nextID
}

func (d *tickDriver) CancelFrame(handle int) {
	for i := range d.frames {
		if d.frames[i].id == handle {
			d.frames = append(d.frames[:i], d.frames[i+1:]...)
			return
		}
	}
}

func (d *tickDriver) SetTimer(fn func(), delayMs float64) int {
	d.nextID++
	d.timers = append(d.timers, tickTimer{id: d.nextID, at: delayMs, fn: fn})
	return d.nextID
}

func (d *tickDriver) ClearTimer(handle int) {
	for i := range d.timers {
		if d.timers[i].id == handle {
			d.timers = append(d.timers[:i], d.timers[i+1:]...)
			return
		}
	}
}

func (d *tickDriver) Tick(nowMs float64) {
	// Anchor fresh timers to this Tick's clock reading and collect due
	// ones. The timer list is compacted before any callback runs so a
	// timer set from inside a firing callback lands on the compacted list
	// for the next Tick instead of being discarded.
	d.due = d.due[:0]
	kept := d.timers[:0]
	for _, t := range d.timers {
		if !t.anchored {
			t.at += nowMs
			t.anchored = true
		}
		if t.at <= nowMs {
			d.due = append(d.due, t.fn)
			continue
		}
		kept = append(kept, t)
	}
	d.timers = kept
	for _, fn := range d.due {
		fn()
	}

	// Swap out the pending frame list before firing so that callbacks
	// requesting the next frame land in the following Tick.
	d.firing, d.frames = d.frames, d.firing[:0]
	for _, cb := range d.firing {
		cb.fn()
	}
}

// manualClock is a hand-stepped Clock for tests and deterministic demos.
type manualClock struct {
	ms float64
}

func (c *manualClock) NowMs() float64 { return c.ms }

// advance moves the clock forward by ms milliseconds.
func (c *manualClock) advance(ms float64) { c.ms += ms }
