package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Period is a named reporting granularity. Aggregation queries are always
// scoped to the inclusive civil-date range a period resolves to.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ErrInvalidPeriod is returned for unrecognized period tags. Callers decide
// their own default; the resolver never picks one silently.
var ErrInvalidPeriod = errors.New("invalid period")

// DateRange is an inclusive [Start, End] span of civil dates. Both bounds are
// midnight timestamps in the target date's location.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the range as half-open instants [from, to): midnight at the
// start of the first day through midnight after the last, in the range's own
// location. Queries compare these instants directly, so the day boundary is
// the reporting timezone's midnight rather than the database session's.
func (r DateRange) Bounds() (from, to time.Time) {
	return r.Start, r.End.AddDate(0, 0, 1)
}

// ParsePeriod validates a raw period tag. It is the entry point for callers
// that receive the tag as text, such as an API layer sitting in front of the
// reports service; code holding a Period constant calls ResolvePeriod
// directly.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, value)
	}
}

// ResolvePeriod converts a target date and a period tag into the date range
// the period covers. Weeks are Monday-anchored.
func ResolvePeriod(period Period, target time.Time) (DateRange, error) {
	day := midnight(target)

	switch period {
	case PeriodDay:
		return DateRange{Start: day, End: day}, nil
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start := day.AddDate(0, 0, -offset)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return DateRange{Start: start, End: end}, nil
	case PeriodYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(period))
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
