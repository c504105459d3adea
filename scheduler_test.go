package spritefield

import "testing"

func newTestScheduler() (*WorkScheduler, *manualClock, *tickDriver) {
	clk := &manualClock{}
	drv := newTickDriver()
	return newWorkScheduler(clk, drv, 10, 4), clk, drv
}

func TestSchedulerRunsTaskOnNextFrame(t *testing.T) {
	s, clk, drv := newTestScheduler()
	ran := false
	s.ScheduleTask(func(remaining func() float64) { ran = true })
	if ran {
		t.Fatal("task must not run synchronously")
	}
	drv.Tick(clk.NowMs())
	if !ran {
		t.Error("task should run on the next frame")
	}
}

func TestSchedulerFIFOWithinFrame(t *testing.T) {
	s, clk, drv := newTestScheduler()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.ScheduleTask(func(remaining func() float64) { order = append(order, i) })
	}
	drv.Tick(clk.NowMs())
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("order = %v, want [0 1 2]", order)
	}
}

func TestSchedulerRequeueLandsBehindQueuedTasks(t *testing.T) {
	s, clk, drv := newTestScheduler()
	var order []string
	requeued := false
	s.ScheduleTask(func(remaining func() float64) {
		order = append(order, "a")
		if !requeued {
			requeued = true
			s.ScheduleTask(func(remaining func() float64) { order = append(order, "a2") })
		}
	})
	s.ScheduleTask(func(remaining func() float64) { order = append(order, "b") })
	drv.Tick(clk.NowMs())
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("first frame order = %v, want [a b]", order)
	}
	drv.Tick(clk.NowMs())
	if len(order) != 3 || order[2] != "a2" {
		t.Errorf("order = %v, want [a b a2]", order)
	}
}

func TestSchedulerSelfReschedulingTaskRunsOncePerFrame(t *testing.T) {
	s, clk, drv := newTestScheduler()
	runs := 0
	var again TaskFn
	again = func(remaining func() float64) {
		runs++
		s.ScheduleTask(again)
	}
	s.ScheduleTask(again)
	for i := 0; i < 3; i++ {
		drv.Tick(clk.NowMs())
	}
	// An unbounded budget must not let the task spin within one frame:
	// tasks scheduled mid-frame wait for the next one.
	if runs != 3 {
		t.Errorf("runs = %d after 3 frames, want 3", runs)
	}
}

func TestSchedulerBudgetDefersRemainingTasks(t *testing.T) {
	s, clk, drv := newTestScheduler()
	var ran []string
	s.ScheduleTask(func(remaining func() float64) {
		ran = append(ran, "a")
		clk.advance(50) // blow the 10ms budget
	})
	s.ScheduleTask(func(remaining func() float64) { ran = append(ran, "b") })
	drv.Tick(clk.NowMs())
	if len(ran) != 1 || ran[0] != "a" {
		t.Fatalf("first frame ran %v, want [a]", ran)
	}
	// The scheduler must have re-requested a frame for the remainder.
	drv.Tick(clk.NowMs())
	if len(ran) != 2 || ran[1] != "b" {
		t.Errorf("second frame ran %v, want [a b]", ran)
	}
}

func TestSchedulerCancelBeforeStart(t *testing.T) {
	s, clk, drv := newTestScheduler()
	ran := false
	h := s.ScheduleTask(func(remaining func() float64) { ran = true })
	s.CancelTask(h)
	drv.Tick(clk.NowMs())
	if ran {
		t.Error("cancelled task must not execute")
	}
	if s.PendingCount() != 0 {
		t.Errorf("pending = %d, want 0", s.PendingCount())
	}
}

func TestSchedulerCancelAfterFinishNoop(t *testing.T) {
	s, clk, drv := newTestScheduler()
	n := 0
	h := s.ScheduleTask(func(remaining func() float64) { n++ })
	drv.Tick(clk.NowMs())
	s.CancelTask(h) // no-op, already finished
	drv.Tick(clk.NowMs())
	if n != 1 {
		t.Errorf("task ran %d times, want 1", n)
	}
}

func TestSchedulerCancelMidRunDoesNotRollBack(t *testing.T) {
	s, clk, drv := newTestScheduler()
	n := 0
	var h *ScheduledTask
	h = s.ScheduleTask(func(remaining func() float64) {
		n++
		s.CancelTask(h) // already started: must be a no-op
		n++
	})
	drv.Tick(clk.NowMs())
	if n != 2 {
		t.Errorf("n = %d, want 2 (cancel mid-run must not interrupt)", n)
	}
}

func TestSchedulerRemainingReflectsClock(t *testing.T) {
	s, clk, drv := newTestScheduler()
	var got []float64
	s.ScheduleTask(func(remaining func() float64) {
		got = append(got, remaining())
		clk.advance(4)
		got = append(got, remaining())
	})
	drv.Tick(clk.NowMs())
	if len(got) != 2 || got[0] != 10 || got[1] != 6 {
		t.Errorf("remaining readings = %v, want [10 6]", got)
	}
}

func TestSchedulerScheduleDelayed(t *testing.T) {
	s, clk, drv := newTestScheduler()
	ran := false
	s.ScheduleDelayed(func(remaining func() float64) { ran = true }, 100)
	drv.Tick(clk.NowMs()) // anchors the timer at t=0
	if ran {
		t.Fatal("delayed task must not run before its delay")
	}
	clk.advance(50)
	drv.Tick(clk.NowMs())
	if ran {
		t.Fatal("delayed task fired early")
	}
	clk.advance(60)
	drv.Tick(clk.NowMs()) // timer fires, task enqueued
	drv.Tick(clk.NowMs()) // frame runs the task
	if !ran {
		t.Error("delayed task should have run")
	}
}

func TestTickDriverCancelFrame(t *testing.T) {
	drv := newTickDriver()
	ran := false
	h := drv.RequestFrame(func() { ran = true })
	drv.CancelFrame(h)
	drv.Tick(0)
	if ran {
		t.Error("cancelled frame callback must not fire")
	}
}

func TestTickDriverFrameRequestedDuringTickWaits(t *testing.T) {
	drv := newTickDriver()
	n := 0
	var again func()
	again = func() {
		n++
		if n == 1 {
			drv.RequestFrame(again)
		}
	}
	drv.RequestFrame(again)
	drv.Tick(0)
	if n != 1 {
		t.Fatalf("n = %d after first tick, want 1", n)
	}
	drv.Tick(0)
	if n != 2 {
		t.Errorf("n = %d after second tick, want 2", n)
	}
}

func TestTickDriverTimerChainedFromTimerSurvives(t *testing.T) {
	drv := newTickDriver()
	ran := false
	drv.SetTimer(func() {
		drv.SetTimer(func() { ran = true }, 0)
	}, 0)
	drv.Tick(0) // outer fires, inner registered
	if ran {
		t.Fatal("inner timer must not fire on the tick that registered it")
	}
	drv.Tick(0) // inner anchors and fires
	if !ran {
		t.Error("timer set from a timer callback should fire on a later tick")
	}
}

func TestTickDriverClearTimer(t *testing.T) {
	drv := newTickDriver()
	ran := false
	h := drv.SetTimer(func() { ran = true }, 10)
	drv.Tick(0)
	drv.ClearTimer(h)
	drv.Tick(100)
	if ran {
		t.Error("cleared timer must not fire")
	}
}
