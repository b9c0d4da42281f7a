// Package activity implements the daily-activity domain on top of the
// generic recurrence and ledger engine: goals, daily tasks, weekly
// routines and priorities, with the productivity reporting the dashboard
// renders.
package activity

import "github.com/mindflow/life-ledger/generic"

// =============================================================================
// ACTIVITY KINDS
// =============================================================================

// Kind is the concrete record kind for the activities domain.
// Implements generic.Kind.
type Kind string

func (k Kind) KindID() string     { return string(k) }
func (k Kind) KindDomain() string { return "activities" }

// Goals and priorities are never late; daily tasks and routines are
// classified late when created past their deadline.
func (k Kind) LateEligible() bool { return k == KindDaily || k == KindRoutine }

// Every kind except goals carries an explicit time-of-day.
func (k Kind) RequiresTime() bool { return k != KindGoal }

func (k Kind) RequiresAmount() bool { return false }

func (k Kind) OpenStatus() generic.Status { return generic.StatusPending }
func (k Kind) DoneStatus() generic.Status { return generic.StatusCompleted }

// Compile-time check that Kind implements generic.Kind
var _ generic.Kind = Kind("")

const (
	KindGoal     Kind = "goal"
	KindDaily    Kind = "daily"
	KindRoutine  Kind = "routine"
	KindPriority Kind = "priority"
)

// Register all activity kinds with the generic registry
func init() {
	generic.RegisterKind(KindGoal)
	generic.RegisterKind(KindDaily)
	generic.RegisterKind(KindRoutine)
	generic.RegisterKind(KindPriority)
}

// Priority ordering for goal/priority listings: high first.
var priorityRank = map[string]int{
	"high":   0,
	"medium": 1,
	"low":    2,
}

// PriorityRank maps a priority label to its sort rank; unknown labels sort
// last.
func PriorityRank(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}
