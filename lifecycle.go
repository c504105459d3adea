package spritefield

import "fmt"

// LifecyclePhase is the finite-state tag governing which batch task may act
// on a sprite slot. Phases advance only along the transition table below,
// driven by the binder and the batch tasks — never by external mutation.
type LifecyclePhase uint8

const (
	// PhaseCreated marks a free slot, or one just claimed by the binder.
	PhaseCreated LifecyclePhase = iota
	// PhaseHasCallback marks a slot with lifecycle callbacks waiting to run.
	PhaseHasCallback
	// PhaseNeedsRebase marks a slot whose transition timing must be
	// re-anchored to the clock before its new attribute values take effect.
	PhaseNeedsRebase
	// PhaseNeedsTextureSync marks a slot whose swatch has CPU-side changes
	// not yet copied to the GPU-visible buffer.
	PhaseNeedsTextureSync
	// PhaseRest marks a fully synced, rendering slot. Slots flagged
	// toBeRemoved wait here until their exit transition time elapses.
	PhaseRest
)

// String returns the phase name for debug output.
func (p LifecyclePhase) String() string {
	switch p {
	case PhaseCreated:
		return "Created"
	case PhaseHasCallback:
		return "HasCallback"
	case PhaseNeedsRebase:
		return "NeedsRebase"
	case PhaseNeedsTextureSync:
		return "NeedsTextureSync"
	case PhaseRest:
		return "Rest"
	default:
		return fmt.Sprintf("LifecyclePhase(%d)", uint8(p))
	}
}

// legalTransition reports whether a sprite may move from phase from to phase to.
//
// The forward edges follow the bind pipeline; the two edges out of Rest and
// NeedsTextureSync close the removal loop:
//
//	Created -> HasCallback            (binder claims the slot)
//	HasCallback -> NeedsRebase        (callbacks ran)
//	NeedsRebase -> NeedsTextureSync   (transition timing anchored)
//	NeedsTextureSync -> Rest          (swatch uploaded)
//	Rest -> HasCallback               (rebind: update or exit callbacks pending)
//	Rest -> NeedsTextureSync          (removal task zeroed the swatch)
//	NeedsTextureSync -> Created       (zeroed swatch uploaded; slot freed)
func legalTransition(from, to LifecyclePhase) bool {
	switch from {
	case PhaseCreated:
		return to == PhaseHasCallback
	case PhaseHasCallback:
		return to == PhaseNeedsRebase
	case PhaseNeedsRebase:
		return to == PhaseNeedsTextureSync
	case PhaseNeedsTextureSync:
		return to == PhaseRest || to == PhaseCreated
	case PhaseRest:
		return to == PhaseHasCallback || to == PhaseNeedsTextureSync
	}
	return false
}

// advancePhase moves the sprite at slot index to phase to, validating the
// transition centrally. An illegal transition means a prior invariant
// violation, so it is fatal rather than skipped: continuing would let
// inconsistent state reach the GPU-visible buffer.
func advancePhase(rec *spriteRecord, index int, to LifecyclePhase) {
	if !legalTransition(rec.phase, to) {
		panic(fmt.Sprintf("spritefield: illegal phase transition %v -> %v on slot %d",
			rec.phase, to, index))
	}
	rec.phase = to
}
