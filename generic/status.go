package generic

import "time"

// =============================================================================
// STATUS CLASSIFIER - Lifecycle status at materialization time
// =============================================================================

// InitialStatus derives a record's status from its schedule versus the
// current time.
//
// Kinds that are not late-eligible (goals, priorities, any transaction)
// always start in their open status. Late-eligible kinds (daily, routine)
// start late when their scheduled deadline is strictly before now; the
// deadline defaults to 23:59 when no time-of-day is set.
//
// Status is fixed here and mutated only by explicit calls afterwards. The
// engine deliberately does NOT reclassify stored records as time passes:
// a record created pending stays pending until the user acts on it. This
// mirrors the product's creation-time-only semantics; whether lateness
// should be re-swept periodically is an open product question, not an
// engine default.
func InitialStatus(kind Kind, scheduledDate Date, scheduledTime *TimeOfDay, now time.Time) Status {
	if !kind.LateEligible() {
		return kind.OpenStatus()
	}
	deadline := EndOfDay
	if scheduledTime != nil {
		deadline = *scheduledTime
	}
	if scheduledDate.At(deadline).Before(now) {
		return StatusLate
	}
	return kind.OpenStatus()
}
