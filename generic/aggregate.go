/*
aggregate.go - Period bucketing, totals and rates for reporting

PURPOSE:
  Read-side reporting over a record slice the caller already queried.
  Three shapes come out of here:
  - Day buckets for the weekly bar chart (zero-filled, oldest first)
  - Period totals over a rolling trailing window anchored at "today"
  - Completion rates ({completed, total}, never a division error)

ROLLING WINDOWS:
  Period filtering is a rolling TRAILING window, not a calendar period:
  week is [today-7d, today], month is [today-1 calendar month, today],
  year is [today-1 calendar year, today], all bounds inclusive. "This
  calendar week" semantics would be different and would be wrong here.
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY BUCKETS - Weekly chart data
// =============================================================================

// weekdayLabels are the chart's localized weekday abbreviations.
var weekdayLabels = map[time.Weekday]string{
	time.Sunday:    "Dom",
	time.Monday:    "Seg",
	time.Tuesday:   "Ter",
	time.Wednesday: "Qua",
	time.Thursday:  "Qui",
	time.Friday:    "Sex",
	time.Saturday:  "Sáb",
}

// DayBucket is one bar of the weekly chart.
type DayBucket struct {
	Date   Date           `json:"date"`
	Label  string         `json:"label"`
	Counts map[Status]int `json:"counts"`
}

// BucketByDay buckets records by scheduled date into exactly windowDays
// buckets ending at centerDate, zero-filled and oldest first.
func BucketByDay(records []Record, centerDate Date, windowDays int) []DayBucket {
	if windowDays <= 0 {
		windowDays = 7
	}

	buckets := make([]DayBucket, 0, windowDays)
	byDate := make(map[Date]*DayBucket, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		d := centerDate.AddDays(-i)
		buckets = append(buckets, DayBucket{
			Date:   d,
			Label:  weekdayLabels[d.Weekday()],
			Counts: make(map[Status]int),
		})
		byDate[d] = &buckets[len(buckets)-1]
	}

	for _, rec := range records {
		if b, ok := byDate[rec.ScheduledDate]; ok {
			b.Counts[rec.Status]++
		}
	}
	return buckets
}

// =============================================================================
// ROLLING PERIOD TOTALS
// =============================================================================

// Period names a rolling trailing window anchored at today.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = ""
)

// Window returns the inclusive [from, to] date bounds of the period.
func (p Period) Window(today Date) (from, to Date) {
	switch p {
	case PeriodDay:
		return today, today
	case PeriodWeek:
		return today.AddDays(-7), today
	case PeriodMonth:
		return today.AddMonths(-1), today
	case PeriodYear:
		return today.AddYears(-1), today
	default:
		// All time.
		return Date{}, today.AddYears(100)
	}
}

// Contains reports whether the date falls inside the period's window.
func (p Period) Contains(d Date, today Date) bool {
	if p == PeriodAll {
		return true
	}
	from, to := p.Window(today)
	return d.AfterOrEqual(from) && d.BeforeOrEqual(to)
}

// Totals sums record amounts whose scheduled date falls inside the rolling
// window and which match the filter. Records without an amount count as
// zero; a nil filter matches everything.
func Totals(records []Record, p Period, today Date, filter func(Record) bool) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if filter != nil && !filter(rec) {
			continue
		}
		if !p.Contains(rec.ScheduledDate, today) {
			continue
		}
		if rec.Amount != nil {
			total = total.Add(*rec.Amount)
		}
	}
	return total
}

// CountIn counts records inside the rolling window matching the filter.
func CountIn(records []Record, p Period, today Date, filter func(Record) bool) int {
	n := 0
	for _, rec := range records {
		if filter != nil && !filter(rec) {
			continue
		}
		if p.Contains(rec.ScheduledDate, today) {
			n++
		}
	}
	return n
}

// =============================================================================
// COMPLETION RATE
// =============================================================================

// CompletionRate is the done-versus-total count over a caller-filtered
// subset (for example "today's activities").
type CompletionRate struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// RateOf counts records in their kind's done status.
func RateOf(records []Record) CompletionRate {
	rate := CompletionRate{Total: len(records)}
	for _, rec := range records {
		if rec.Done() {
			rate.Completed++
		}
	}
	return rate
}

// Fraction returns the completed share in [0, 1]. An empty subset is 0,
// never NaN.
func (c CompletionRate) Fraction() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total)
}
