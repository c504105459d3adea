package spritefield

// TaskFn is a resumable unit of work. It receives a remaining-budget function
// returning the milliseconds left in the current frame's work budget. A task
// polls it periodically (every stepsBetweenChecks steps, to amortize the
// clock read), stops taking steps once it returns <= 0, and relies on being
// rescheduled — it must never assume it resumes in the same frame.
type TaskFn func(remaining func() float64)

// ScheduledTask is an opaque handle to a queued unit of work, owned by the
// WorkScheduler for its queued lifetime.
type ScheduledTask struct {
	fn        TaskFn
	started   bool
	finished  bool
	cancelled bool
}

// WorkScheduler runs queued tasks cooperatively under a per-frame time
// budget. Single-threaded: tasks run from frame callbacks delivered by the
// FrameDriver, in FIFO order; a task that reschedules itself lands behind
// already-queued tasks and runs no earlier than the next frame, giving
// round-robin fairness across task kinds.
type WorkScheduler struct {
	clock  Clock
	driver FrameDriver

	// maxWorkTimeMs is the aggregate budget for all task work within one
	// frame callback before control returns to the host frame loop.
	maxWorkTimeMs float64
	// stepsBetweenChecks is how many scan steps a batch task takes between
	// remaining() polls.
	stepsBetweenChecks int

	queue        []*ScheduledTask
	framePending bool
	frameHandle  int
}

func newWorkScheduler(clock Clock, driver FrameDriver, maxWorkTimeMs float64, stepsBetweenChecks int) *WorkScheduler {
	return &WorkScheduler{
		clock:              clock,
		driver:             driver,
		maxWorkTimeMs:      maxWorkTimeMs,
		stepsBetweenChecks: stepsBetweenChecks,
	}
}

// ElapsedTimeMs returns the current clock reading in milliseconds. Batch
// tasks compare it against per-sprite transition timestamps.
func (s *WorkScheduler) ElapsedTimeMs() float64 {
	return s.clock.NowMs()
}

// ScheduleTask enqueues fn to run on the next animation opportunity and
// returns its handle.
func (s *WorkScheduler) ScheduleTask(fn TaskFn) *ScheduledTask {
	t := &ScheduledTask{fn: fn}
	s.queue = append(s.queue, t)
	s.requestFrame()
	return t
}

// ScheduleDelayed enqueues fn after a timer delay. The task enters the normal
// queue when the timer fires, so ordering and budget rules apply unchanged.
func (s *WorkScheduler) ScheduleDelayed(fn TaskFn, delayMs float64) {
	s.driver.SetTimer(func() {
		s.ScheduleTask(fn)
	}, delayMs)
}

// CancelTask removes a not-yet-started task from the queue. No-op if the
// task has already started or finished: cancellation never rolls back partial
// progress — tasks leave consistent state at every yield point instead.
func (s *WorkScheduler) CancelTask(t *ScheduledTask) {
	if t == nil || t.started || t.finished {
		return
	}
	t.cancelled = true
}

// PendingCount returns the number of queued, uncancelled tasks.
func (s *WorkScheduler) PendingCount() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// requestFrame asks the driver for a frame callback if one is not already
// pending.
func (s *WorkScheduler) requestFrame() {
	if s.framePending {
		return
	}
	s.framePending = true
	s.frameHandle = s.driver.RequestFrame(s.runFrame)
}

// runFrame runs the tasks that were queued when the frame began, until the
// aggregate budget is spent. Tasks scheduled mid-frame (successors, requeued
// remainders) wait for the next frame, so a task that reschedules itself
// cannot run twice within one frame callback. A task panic propagates to the
// frame driver's caller; the deferred re-request keeps the remaining queue
// scheduled.
func (s *WorkScheduler) runFrame() {
	s.framePending = false
	frameStart := s.clock.NowMs()
	remaining := func() float64 {
		return s.maxWorkTimeMs - (s.clock.NowMs() - frameStart)
	}

	defer func() {
		if len(s.queue) > 0 {
			s.requestFrame()
		}
	}()

	n := len(s.queue)
	for i := 0; i < n && remaining() > 0; i++ {
		t := s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue[len(s.queue)-1] = nil
		s.queue = s.queue[:len(s.queue)-1]
		if t.cancelled {
			continue
		}
		t.started = true
		t.fn(remaining)
		t.finished = true
	}
}
