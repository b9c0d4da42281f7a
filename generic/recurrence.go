/*
recurrence.go - Rule expansion into concrete occurrence dates

PURPOSE:
  Expands a RecurrenceRule into the ordered, finite list of calendar dates
  on which a recurring record occurs. Expansion is a pure function of the
  rule: restartable, no clock access, no storage access.

TWO EXPANSION STRATEGIES (mutually exclusive):
  1. Weekday set: walk every calendar day in [startDate, endDate] and keep
     the dates whose day-of-week is in the set. Used for routine-style
     activities ("every Monday and Wednesday"). The walk includes the start
     date itself when it matches.
  2. Frequency stepping: step from startDate by one day/week/month/year and
     emit each stepped date until it passes endDate. Used for transaction-
     style recurrence ("monthly rent"). The start date itself is NOT
     emitted - the caller materializes it as the seed occurrence.

DEFAULTS:
  Weekday rules without an end date run one calendar month from the start.
  Frequency rules without an end date run one calendar year from the start.

CALENDAR NORMALIZATION:
  Monthly and yearly stepping is anchored at the start date:
  occurrence i = startDate + i steps, computed with time.AddDate. Jan 31
  + 1 month therefore normalizes to Mar 2/3 for that single occurrence,
  while Jan 31 + 2 months is Mar 31 again - the anchor never drifts, and
  no month is silently skipped or duplicated.

SEE ALSO:
  - materialize.go: Turns expanded dates into Records
  - ledger.go: AddRecurring combines seed + expansion atomically
*/
package generic

import "time"

// =============================================================================
// RECURRENCE RULE
// =============================================================================

// Frequency is the fixed-interval expansion step.
type Frequency string

const (
	FreqNone    Frequency = ""
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// RecurrenceRule describes how a template repeats. Exactly one expansion
// strategy applies: a non-empty DaysOfWeek set XOR a Frequency. A rule with
// neither describes a single occurrence (its start date).
type RecurrenceRule struct {
	StartDate  Date           `json:"start_date"`
	EndDate    *Date          `json:"end_date,omitempty"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	Frequency  Frequency      `json:"frequency,omitempty"`
}

// IsRecurring reports whether the rule expands to more than its start date.
func (r RecurrenceRule) IsRecurring() bool {
	return len(r.DaysOfWeek) > 0 || r.Frequency != FreqNone
}

// Validate enforces the strategy exclusivity invariant.
func (r RecurrenceRule) Validate() error {
	if r.StartDate.IsZero() {
		return &ValidationError{Field: "rule.startDate", Reason: "required"}
	}
	if len(r.DaysOfWeek) > 0 && r.Frequency != FreqNone {
		return &ValidationError{Field: "rule", Reason: "daysOfWeek and frequency are mutually exclusive"}
	}
	switch r.Frequency {
	case FreqNone, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
	default:
		return &ValidationError{Field: "rule.frequency", Reason: "unknown frequency " + string(r.Frequency)}
	}
	for _, wd := range r.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			return &ValidationError{Field: "rule.daysOfWeek", Reason: "day of week out of range"}
		}
	}
	return nil
}

// =============================================================================
// EXPANDER
// =============================================================================

// Expand produces the ordered occurrence dates for a rule.
//
// For weekday rules the result holds every matching date in the window,
// start date included. For frequency rules the result holds only the
// occurrences AFTER the start date; the seed is the caller's concern.
// A rule with neither strategy, or with endDate before startDate, expands
// to nothing.
func Expand(rule RecurrenceRule) ([]Date, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if len(rule.DaysOfWeek) > 0 {
		return expandWeekdays(rule), nil
	}
	if rule.Frequency != FreqNone {
		return expandFrequency(rule), nil
	}
	return nil, nil
}

func expandWeekdays(rule RecurrenceRule) []Date {
	end := rule.StartDate.AddMonths(1)
	if rule.EndDate != nil {
		end = *rule.EndDate
	}
	if end.Before(rule.StartDate) {
		return nil
	}

	wanted := make(map[time.Weekday]bool, len(rule.DaysOfWeek))
	for _, wd := range rule.DaysOfWeek {
		wanted[wd] = true
	}

	var dates []Date
	for d := rule.StartDate; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if wanted[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}

func expandFrequency(rule RecurrenceRule) []Date {
	end := rule.StartDate.AddYears(1)
	if rule.EndDate != nil {
		end = *rule.EndDate
	}
	if end.Before(rule.StartDate) {
		return nil
	}

	var dates []Date
	for i := 1; ; i++ {
		d := step(rule.StartDate, rule.Frequency, i)
		if d.After(end) {
			return dates
		}
		dates = append(dates, d)
	}
}

// step computes occurrence i anchored at the start date.
func step(start Date, freq Frequency, i int) Date {
	switch freq {
	case FreqDaily:
		return start.AddDays(i)
	case FreqWeekly:
		return start.AddDays(7 * i)
	case FreqMonthly:
		return start.AddMonths(i)
	case FreqYearly:
		return start.AddYears(i)
	default:
		return start
	}
}
