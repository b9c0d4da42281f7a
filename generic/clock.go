package generic

import "time"

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies "now" and "today". Every component that classifies lateness,
// stamps completion times or anchors a rolling reporting window takes a Clock
// instead of reading time.Now, so tests can pin the calendar.
type Clock interface {
	Now() time.Time
	Today() Date
}

// SystemClock reads the real wall clock (UTC).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
func (SystemClock) Today() Date    { return DateOf(time.Now()) }

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	At time.Time
}

func NewFixedClock(at time.Time) FixedClock { return FixedClock{At: at.UTC()} }

func (c FixedClock) Now() time.Time { return c.At }
func (c FixedClock) Today() Date    { return DateOf(c.At) }
