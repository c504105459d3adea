package spritefield

// KeyFn derives a stable identity key from a datum. Rebinding with the same
// key updates the existing sprite instead of retiring and recreating it.
type KeyFn func(datum any) string

// Selection associates an externally ordered list of data items with sprite
// slots and schedules the lifecycle callbacks for the differences between
// successive binds. Create one with Field.NewSelection.
//
// A selection is either keyed or positional depending on whether Bind is
// given a KeyFn; pick one mode per selection and keep it.
type Selection struct {
	field *Field
	cb    Callbacks

	slots map[string]int // key -> slot, keyed mode
	order []int          // slot per position, positional mode

	// dispatch is the pending callback dispatch task from the most recent
	// Bind. Clear and superseding Binds cancel it so a stale bind's
	// callbacks never run after the state that queued them is gone.
	dispatch *ScheduledTask
}

// Bind associates data items with sprite slots.
//
// With a nil keyFn, binding is positional: item i maps to the i-th
// previously bound slot; extra positions create sprites, missing positions
// retire them. With a keyFn, the binder diffs the previous and new key sets:
// keys in both take the update path, keys only in new enter, keys only in
// old exit. Data items beyond the pool's free capacity are dropped.
//
// Bind never runs callbacks synchronously; it marks the affected slots and
// schedules the callback dispatch task.
func (s *Selection) Bind(data []any, keyFn KeyFn) {
	f := s.field
	f.scheduler.CancelTask(s.dispatch)
	s.dispatch = nil

	if keyFn == nil {
		s.bindPositional(data)
	} else {
		s.bindKeyed(data, keyFn)
	}

	if f.needsCallback.isDefined() {
		s.dispatch = f.scheduleCallbacks()
	}
}

// Clear retires every sprite bound by this selection. Equivalent to binding
// an empty list, except it is guaranteed atomic against an in-flight,
// not-yet-dispatched prior Bind: that bind's pending callbacks are cancelled
// and unmarked before the exits are queued, so none of its effects apply.
func (s *Selection) Clear() {
	f := s.field
	f.scheduler.CancelTask(s.dispatch)
	s.dispatch = nil

	for _, i := range s.slots {
		s.exitSlot(i)
	}
	for _, i := range s.order {
		s.exitSlot(i)
	}
	s.slots = nil
	s.order = nil

	if f.needsCallback.isDefined() {
		s.dispatch = f.scheduleCallbacks()
	}
}

// Len returns the number of sprites currently bound by this selection.
func (s *Selection) Len() int {
	if s.slots != nil {
		return len(s.slots)
	}
	return len(s.order)
}

func (s *Selection) bindKeyed(data []any, keyFn KeyFn) {
	newSlots := make(map[string]int, len(data))
	for _, datum := range data {
		k := keyFn(datum)
		if _, dup := newSlots[k]; dup {
			// Duplicate keys cannot share a slot; later occurrences lose.
			continue
		}
		if i, ok := s.slots[k]; ok {
			s.updateSlot(i, datum)
			newSlots[k] = i
			delete(s.slots, k)
			continue
		}
		if i, ok := s.enterSlot(k, datum); ok {
			newSlots[k] = i
		}
	}
	// Keys left over from the previous bind exit.
	for _, i := range s.slots {
		s.exitSlot(i)
	}
	s.slots = newSlots
}

func (s *Selection) bindPositional(data []any) {
	bound := len(s.order)
	for idx, datum := range data {
		if idx < bound {
			s.updateSlot(s.order[idx], datum)
			continue
		}
		if i, ok := s.enterSlot("", datum); ok {
			s.order = append(s.order, i)
		}
	}
	if len(data) < bound {
		for _, i := range s.order[len(data):] {
			s.exitSlot(i)
		}
		s.order = s.order[:len(data)]
	}
}

// enterSlot claims a free slot for a new datum and marks its init and enter
// callbacks pending. Returns false when the pool is full.
func (s *Selection) enterSlot(key string, datum any) (int, bool) {
	f := s.field
	i, ok := f.pool.allocate()
	if !ok {
		return 0, false
	}
	rec := f.record(i)
	rec.key = key
	rec.datum = datum
	rec.cb = s.cb
	rec.pendingInit = true
	rec.pendingEnter = true
	advancePhase(rec, i, PhaseHasCallback)
	f.needsCallback.expandToInclude(i)
	return i, true
}

// updateSlot rebinds an existing slot to a fresh datum and marks its update
// callback pending. The sprite stays live; no re-entry callback fires.
func (s *Selection) updateSlot(i int, datum any) {
	f := s.field
	rec := f.record(i)
	rec.datum = datum
	rec.cb = s.cb
	rec.pendingUpdate = true
	f.needsCallback.expandToInclude(i)
}

// exitSlot marks a slot's datum as departed: its exit callback becomes
// pending, and dispatch flags the sprite for removal once that callback has
// run. Any not-yet-dispatched init/enter/update edges from a superseded bind
// are dropped.
func (s *Selection) exitSlot(i int) {
	f := s.field
	rec := f.record(i)
	if rec.pendingEnter {
		// The datum never entered: its bind was superseded before dispatch
		// ran. Retire the slot silently — none of the stale bind's
		// callbacks, nor an exit for something never shown, may fire.
		rec.cb = Callbacks{}
	} else {
		rec.cb = s.cb
	}
	rec.pendingInit = false
	rec.pendingEnter = false
	rec.pendingUpdate = false
	rec.pendingExit = true
	f.needsCallback.expandToInclude(i)
}
