package spritefield

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const (
	defaultCapacity           = 4096
	defaultMaxWorkTimeMs      = 8.0
	defaultStepsBetweenChecks = 128
)

// FieldConfig configures a Field. Zero values select the defaults.
type FieldConfig struct {
	// Capacity is the fixed sprite slot count. Default 4096.
	Capacity int
	// MaxWorkTimeMs is the aggregate per-frame budget for batch task work,
	// in milliseconds. Default 8.
	MaxWorkTimeMs float64
	// StepsBetweenChecks is how many scan steps batch tasks take between
	// budget polls. Default 128.
	StepsBetweenChecks int
	// Ease is the easing function applied to attribute transitions.
	// Default ease.Linear.
	Ease ease.TweenFunc
	// Clock supplies timestamps. Default: wall clock from Field creation.
	Clock Clock
	// Driver delivers frame and timer callbacks. Default: a driver ticked
	// by Field.Update, matching an Ebitengine game loop.
	Driver FrameDriver
	// Glyph is the source image for glyph quads. Default WhitePixel.
	Glyph *ebiten.Image
	// Blend is the compositing mode for the glyph batch. Default BlendNormal.
	Blend BlendMode
}

// Field owns the sprite pool, the packed attribute memory, the dirty ranges,
// and the work scheduler. It is the single coordinator object passed (as the
// narrow taskContext interface) into every batch task — there are no package
// globals, so tests inject fake clocks and drivers freely.
//
// Field is single-threaded: all methods must be called from the same
// goroutine that calls Update, conventionally the Ebitengine game loop.
type Field struct {
	pool      *spritePool
	scheduler *WorkScheduler
	driver    FrameDriver
	ease      ease.TweenFunc
	checks    int
	glyph     *ebiten.Image
	blend     BlendMode

	needsCallback indexRange
	needsRebase   indexRange
	needsSync     indexRange
	toRemove      indexRange
	toRemoveTimes timeRange

	tasks        fieldTasks
	callbackTask *ScheduledTask
	rebaseTask   *ScheduledTask
	syncTask     *ScheduledTask
	removalTask  *ScheduledTask

	debug bool
	stats frameStats

	// Reused per-frame vertex buffers for the glyph batch.
	batchVerts []ebiten.Vertex
	batchInds  []uint16
}

// NewField creates a Field with the given configuration.
func NewField(cfg FieldConfig) *Field {
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.MaxWorkTimeMs <= 0 {
		cfg.MaxWorkTimeMs = defaultMaxWorkTimeMs
	}
	if cfg.StepsBetweenChecks <= 0 {
		cfg.StepsBetweenChecks = defaultStepsBetweenChecks
	}
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	if cfg.Clock == nil {
		cfg.Clock = newSystemClock()
	}
	if cfg.Driver == nil {
		cfg.Driver = newTickDriver()
	}
	if cfg.Glyph == nil {
		cfg.Glyph = WhitePixel
	}
	f := &Field{
		pool:      newSpritePool(cfg.Capacity),
		driver:    cfg.Driver,
		ease:      cfg.Ease,
		checks:    cfg.StepsBetweenChecks,
		glyph:     cfg.Glyph,
		blend:     cfg.Blend,
		scheduler: newWorkScheduler(cfg.Clock, cfg.Driver, cfg.MaxWorkTimeMs, cfg.StepsBetweenChecks),
	}
	f.tasks = fieldTasks{ctx: f}
	return f
}

// Update advances the frame driver: due timers fire, then pending frame
// callbacks, which is where the scheduler drains its task queue under the
// per-frame budget. Call once per tick from your game's Update.
func (f *Field) Update() {
	f.stats = frameStats{}
	f.driver.Tick(f.scheduler.ElapsedTimeMs())
	if f.debug {
		f.debugLog()
	}
}

// NewSelection creates a selection that binds data to this field's sprites
// with the given lifecycle callbacks.
func (f *Field) NewSelection(cb Callbacks) *Selection {
	return &Selection{field: f, cb: cb}
}

// Capacity returns the fixed sprite slot count.
func (f *Field) Capacity() int { return f.pool.capacity() }

// LiveCount returns the number of slots currently claimed by bound data.
func (f *Field) LiveCount() int { return f.pool.liveCount() }

// ElapsedTimeMs returns the field's clock reading in milliseconds.
func (f *Field) ElapsedTimeMs() float64 { return f.scheduler.ElapsedTimeMs() }

// Scheduler exposes the work scheduler, chiefly so hosts can queue their own
// cooperative work against the same frame budget.
func (f *Field) Scheduler() *WorkScheduler { return f.scheduler }

// SetDebugMode enables or disables per-frame task stats on stderr.
func (f *Field) SetDebugMode(enabled bool) { f.debug = enabled }

// --- taskContext implementation ---

func (f *Field) elapsedTimeMs() float64         { return f.scheduler.ElapsedTimeMs() }
func (f *Field) record(i int) *spriteRecord     { return &f.pool.records[i] }
func (f *Field) swatchView(i int) []float32     { return f.pool.view(i) }
func (f *Field) textureView(i int) []float32    { return f.pool.textureView(i) }
func (f *Field) callbackRange() *indexRange     { return &f.needsCallback }
func (f *Field) rebaseRange() *indexRange       { return &f.needsRebase }
func (f *Field) syncRange() *indexRange         { return &f.needsSync }
func (f *Field) removedIndexRange() *indexRange { return &f.toRemove }
func (f *Field) removedTimeRange() *timeRange   { return &f.toRemoveTimes }
func (f *Field) checkInterval() int             { return f.checks }
func (f *Field) easeFn() ease.TweenFunc         { return f.ease }
func (f *Field) freeSlot(i int)                 { f.pool.release(i) }

// taskPending reports whether t is queued and still going to run.
func taskPending(t *ScheduledTask) bool {
	return t != nil && !t.started && !t.cancelled
}

// scheduleCallbacks queues the callback dispatch task, reusing the already
// queued instance if one is pending. One instance per task kind at a time is
// what lets each task treat an undefined range as a hard precondition
// failure.
func (f *Field) scheduleCallbacks() *ScheduledTask {
	if !taskPending(f.callbackTask) {
		f.callbackTask = f.scheduler.ScheduleTask(f.tasks.runCallbackDispatch)
	}
	return f.callbackTask
}

func (f *Field) scheduleRebase() {
	if !taskPending(f.rebaseTask) {
		f.rebaseTask = f.scheduler.ScheduleTask(f.tasks.runRebase)
	}
}

func (f *Field) scheduleTextureSync() {
	if !taskPending(f.syncTask) {
		f.syncTask = f.scheduler.ScheduleTask(f.tasks.runTextureSync)
	}
}

func (f *Field) scheduleRemoval() {
	if !taskPending(f.removalTask) {
		f.removalTask = f.scheduler.ScheduleTask(f.tasks.runRemoval)
	}
}

func (f *Field) noteTaskRun(stats *taskStats) {
	f.stats.tasksRun++
	f.stats.advanced += stats.advanced
	f.stats.deferred += stats.deferred
	if stats.yielded {
		f.stats.yields++
	}
}
