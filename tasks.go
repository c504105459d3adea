package spritefield

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// taskContext is the narrow coordinator surface the batch tasks depend on:
// the sprite pool, the dirty ranges, and the scheduling hooks. The Field
// implements it. Tasks never see the Field itself, which keeps the
// field/tasks collaboration acyclic.
type taskContext interface {
	elapsedTimeMs() float64
	record(i int) *spriteRecord
	swatchView(i int) []float32
	textureView(i int) []float32

	callbackRange() *indexRange
	rebaseRange() *indexRange
	syncRange() *indexRange
	removedIndexRange() *indexRange
	removedTimeRange() *timeRange

	checkInterval() int
	easeFn() ease.TweenFunc

	scheduleCallbacks() *ScheduledTask
	scheduleRebase()
	scheduleTextureSync()
	scheduleRemoval()
	freeSlot(i int)

	noteTaskRun(stats *taskStats)
}

// taskStats records one batch-task invocation for debug output.
type taskStats struct {
	name     string
	advanced int  // sprites whose phase moved forward
	deferred int  // sprites re-added to the task's own range (not yet due/ready)
	yielded  bool // stopped early on budget exhaustion
}

// fieldTasks holds the four lifecycle batch tasks. Each one follows the same
// shape: validate that its governing range is defined (it must be — tasks are
// only scheduled when there is work), clear the range, scan the span it
// covered, and in a deferred cleanup restore any unvisited remainder and
// schedule successors. The cleanup runs even on a panic so no sprite is
// silently dropped.
type fieldTasks struct {
	ctx taskContext
}

// scanCursor tracks progress through a cleared dirty span so the deferred
// cleanup can restore the unvisited remainder. The loop body records each
// index via visit before acting on it; the cleanup restores strictly after
// the last visited index, so a sprite handled (or re-added) by the loop body
// is never double-counted by the cleanup.
type scanCursor struct {
	low, high  int
	last       int // last index visited by the loop
	steps      int
	checkEvery int
}

// beginScan captures r's bounds, clears it, and returns a cursor over the
// covered span.
func beginScan(r *indexRange, checkEvery int) scanCursor {
	c := scanCursor{
		low:        r.lowBound(),
		high:       r.highBound(),
		checkEvery: checkEvery,
	}
	c.last = c.low - 1
	r.clear()
	return c
}

// visit records that index i has been reached.
func (c *scanCursor) visit(i int) {
	c.last = i
}

// budgetSpent counts one mutation step and polls remaining every checkEvery
// steps, amortizing the clock read. Returns true when the task must yield.
func (c *scanCursor) budgetSpent(remaining func() float64) bool {
	c.steps++
	return c.steps%c.checkEvery == 0 && remaining() <= 0
}

// restoreRemainder re-adds the unvisited tail of the original span to r.
func (c *scanCursor) restoreRemainder(r *indexRange) {
	if c.last < c.high {
		r.expandToInclude(c.last + 1)
		r.expandToInclude(c.high)
	}
}

// sampleTransition writes the in-flight transition's current eased values
// into the prev bank, so the sprite's next transition departs from what is on
// screen rather than snapping. A finished or degenerate transition collapses
// prev onto target.
func sampleTransition(view []float32, nowMs float64, fn ease.TweenFunc) {
	start := float64(view[attrTransitionStart])
	end := float64(view[attrTransitionEnd])
	if end <= start || nowMs >= end {
		copy(view[prevBank:prevBank+animatedAttrs], view[targetBank:targetBank+animatedAttrs])
		return
	}
	elapsed := float32(nowMs - start)
	duration := float32(end - start)
	for k := 0; k < animatedAttrs; k++ {
		tw := gween.New(view[prevBank+k], view[targetBank+k], duration, fn)
		v, _ := tw.Set(elapsed)
		view[prevBank+k] = v
	}
}

// runCallbackDispatch runs the pending lifecycle callbacks for sprites in the
// callback dirty range, then hands each sprite to the rebase task.
func (t *fieldTasks) runCallbackDispatch(remaining func() float64) {
	ctx := t.ctx
	pending := ctx.callbackRange()
	if !pending.isDefined() {
		panic("spritefield: callback dispatch scheduled with no pending work")
	}
	now := ctx.elapsedTimeMs()
	stats := taskStats{name: "callbacks"}
	cur := beginScan(pending, ctx.checkInterval())

	defer func() {
		cur.restoreRemainder(pending)
		if ctx.rebaseRange().isDefined() {
			ctx.scheduleRebase()
		}
		if pending.isDefined() {
			ctx.scheduleCallbacks()
		}
		ctx.noteTaskRun(&stats)
	}()

	for i := cur.low; i <= cur.high; i++ {
		cur.visit(i)
		rec := ctx.record(i)
		if !rec.inUse || !rec.hasPendingCallback() {
			continue
		}
		if rec.phase == PhaseRest {
			// Rebound sprite re-entering the pipeline.
			advancePhase(rec, i, PhaseHasCallback)
		}
		if rec.phase != PhaseHasCallback {
			// Mid-pipeline from an earlier bind; not ready for its new
			// callbacks yet. Keep it in the range for a later invocation.
			pending.expandToInclude(i)
			stats.deferred++
			continue
		}

		view := ctx.swatchView(i)
		sampleTransition(view, now, ctx.easeFn())

		sv := &SpriteView{view: view, rec: rec, slot: i}
		rec.durationMs = 0
		if rec.pendingInit {
			rec.pendingInit = false
			if rec.cb.OnInit != nil {
				rec.cb.OnInit(sv)
			}
		}
		if rec.pendingEnter {
			rec.pendingEnter = false
			if rec.cb.OnEnter != nil {
				rec.cb.OnEnter(sv)
			}
		}
		if rec.pendingUpdate {
			rec.pendingUpdate = false
			if rec.cb.OnUpdate != nil {
				rec.cb.OnUpdate(sv)
			}
		}
		if rec.pendingExit {
			rec.pendingExit = false
			if rec.cb.OnExit != nil {
				rec.cb.OnExit(sv)
			}
			// Flagged here, not at exit time: a removal scan whose span
			// covers this slot must not sweep the sprite before its exit
			// callback has run.
			rec.toBeRemoved = true
		}

		advancePhase(rec, i, PhaseNeedsRebase)
		ctx.rebaseRange().expandToInclude(i)
		stats.advanced++

		if cur.budgetSpent(remaining) {
			stats.yielded = true
			break
		}
	}
}

// runRebase anchors each sprite's requested transition duration to the
// current clock reading: the transition starts now and ends now plus the
// duration the callback asked for. Sprites then need a texture sync.
func (t *fieldTasks) runRebase(remaining func() float64) {
	ctx := t.ctx
	pending := ctx.rebaseRange()
	if !pending.isDefined() {
		panic("spritefield: rebase scheduled with no pending work")
	}
	now := float32(ctx.elapsedTimeMs())
	stats := taskStats{name: "rebase"}
	cur := beginScan(pending, ctx.checkInterval())

	defer func() {
		cur.restoreRemainder(pending)
		if ctx.syncRange().isDefined() {
			ctx.scheduleTextureSync()
		}
		if pending.isDefined() {
			ctx.scheduleRebase()
		}
		ctx.noteTaskRun(&stats)
	}()

	for i := cur.low; i <= cur.high; i++ {
		cur.visit(i)
		rec := ctx.record(i)
		if !rec.inUse || rec.phase != PhaseNeedsRebase {
			continue
		}

		view := ctx.swatchView(i)
		view[attrTransitionStart] = now
		view[attrTransitionEnd] = now + rec.durationMs
		rec.durationMs = 0

		advancePhase(rec, i, PhaseNeedsTextureSync)
		ctx.syncRange().expandToInclude(i)
		stats.advanced++

		if cur.budgetSpent(remaining) {
			stats.yielded = true
			break
		}
	}
}

// runTextureSync copies the dirty span of the CPU-side swatch memory into
// the GPU-visible buffer. Live sprites come to rest; freshly zeroed removed
// sprites have their slots released. Sprites resting with the toBeRemoved
// flag are handed to the removal task along with their exit timestamps.
func (t *fieldTasks) runTextureSync(remaining func() float64) {
	ctx := t.ctx
	pending := ctx.syncRange()
	if !pending.isDefined() {
		panic("spritefield: texture sync scheduled with no pending work")
	}
	stats := taskStats{name: "texsync"}
	cur := beginScan(pending, ctx.checkInterval())

	defer func() {
		cur.restoreRemainder(pending)
		if ctx.removedIndexRange().isDefined() {
			ctx.scheduleRemoval()
		}
		if pending.isDefined() {
			ctx.scheduleTextureSync()
		}
		ctx.noteTaskRun(&stats)
	}()

	for i := cur.low; i <= cur.high; i++ {
		cur.visit(i)
		rec := ctx.record(i)
		if !rec.inUse || rec.phase != PhaseNeedsTextureSync {
			continue
		}

		view := ctx.swatchView(i)
		copy(ctx.textureView(i), view)

		if rec.zeroed {
			// Removal upload: the zeroed swatch has reached the GPU, so
			// the slot can be recycled.
			advancePhase(rec, i, PhaseCreated)
			ctx.freeSlot(i)
		} else {
			advancePhase(rec, i, PhaseRest)
			if rec.toBeRemoved {
				ctx.removedIndexRange().expandToInclude(i)
				ctx.removedTimeRange().expandToInclude(float64(view[attrTransitionEnd]))
			}
		}
		stats.advanced++

		if cur.budgetSpent(remaining) {
			stats.yielded = true
			break
		}
	}
}

// runRemoval sweeps resting to-be-removed sprites whose exit transition time
// has elapsed: their swatch is zeroed and queued for one final texture sync.
// Sprites whose exit time is still in the future go back into the removal
// ranges for a later invocation.
func (t *fieldTasks) runRemoval(remaining func() float64) {
	ctx := t.ctx
	pending := ctx.removedIndexRange()
	times := ctx.removedTimeRange()
	if !pending.isDefined() || !times.isDefined() {
		panic("spritefield: removal scheduled with no pending work")
	}
	now := ctx.elapsedTimeMs()
	stats := taskStats{name: "removal"}

	// Save the timestamp bounds before clearing: if the scan breaks early,
	// the cleanup restores them conservatively (false positives are fine,
	// lost timestamps are not).
	timeLow, timeHigh := times.lowBound(), times.highBound()
	times.clear()
	cur := beginScan(pending, ctx.checkInterval())

	defer func() {
		if cur.last < cur.high {
			cur.restoreRemainder(pending)
			times.expandToInclude(timeLow)
			times.expandToInclude(timeHigh)
		}
		if ctx.syncRange().isDefined() {
			ctx.scheduleTextureSync()
		}
		if pending.isDefined() {
			ctx.scheduleRemoval()
		}
		ctx.noteTaskRun(&stats)
	}()

	for i := cur.low; i <= cur.high; i++ {
		cur.visit(i)
		rec := ctx.record(i)
		if !rec.toBeRemoved {
			continue
		}
		if !rec.inUse {
			panic(fmt.Sprintf("spritefield: to-be-removed sprite in freed slot %d", i))
		}
		if rec.phase != PhaseRest {
			continue
		}

		view := ctx.swatchView(i)
		end := float64(view[attrTransitionEnd])
		if end > now {
			// Exit transition still playing. Not an error: fold the sprite
			// back into this task's own ranges and revisit next time.
			pending.expandToInclude(i)
			times.expandToInclude(end)
			stats.deferred++
			continue
		}

		for j := range view {
			view[j] = 0
		}
		rec.zeroed = true
		advancePhase(rec, i, PhaseNeedsTextureSync)
		ctx.syncRange().expandToInclude(i)
		stats.advanced++

		if cur.budgetSpent(remaining) {
			stats.yielded = true
			break
		}
	}
}
