// Calendar periods used to bucket commits: week, month, quarter and year.
//
// Every operation works on UTC calendar dates and is a pure function of its
// input. The four kinds live in a fixed table that is never mutated, so Kind
// values can be shared freely between goroutines.
package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("unknown statistics period")

const day = 24 * time.Hour
const week = 7 * day

// Number of periods shown in a report window.
const defaultCount = 12

// A granularity for bucketing commits.
//
// The level doubles as an enablement level: a repository configured with
// max level n permits every kind whose level is <= n.
type Kind struct {
	code  byte
	name  string
	level int
	count int

	trunc func(time.Time) time.Time
	dec   func(time.Time) time.Time
	inc   func(time.Time) time.Time
	label func(time.Time) string
}

var (
	Week = Kind{
		code:  'w',
		name:  "week",
		level: 1,
		count: defaultCount,
		trunc: truncWeek,
		dec:   func(t time.Time) time.Time { return t.Add(-week) },
		inc:   func(t time.Time) time.Time { return t.Add(week) },
		label: labelWeek,
	}
	Month = Kind{
		code:  'm',
		name:  "month",
		level: 2,
		count: defaultCount,
		trunc: truncMonth,
		dec:   func(t time.Time) time.Time { return addMonths(t, -1) },
		inc:   func(t time.Time) time.Time { return addMonths(t, 1) },
		label: func(t time.Time) string { return t.Format("Jan 2006") },
	}
	Quarter = Kind{
		code:  'q',
		name:  "quarter",
		level: 3,
		count: defaultCount,
		trunc: truncQuarter,
		dec:   func(t time.Time) time.Time { return addMonths(t, -3) },
		inc:   func(t time.Time) time.Time { return addMonths(t, 3) },
		label: func(t time.Time) string {
			return fmt.Sprintf("Q%d %d", int(t.Month()-1)/3+1, t.Year())
		},
	}
	Year = Kind{
		code:  'y',
		name:  "year",
		level: 4,
		count: defaultCount,
		trunc: truncYear,
		dec:   func(t time.Time) time.Time { return addMonths(t, -12) },
		inc:   func(t time.Time) time.Time { return addMonths(t, 12) },
		label: func(t time.Time) string { return t.Format("2006") },
	}
)

var kinds = [...]Kind{Week, Month, Quarter, Year}

// All period kinds, ordered by increasing scope.
func All() []Kind {
	all := kinds
	return all[:]
}

// Looks up a period kind by its single-letter code or its full name.
func Resolve(selector string) (Kind, error) {
	for _, k := range kinds {
		if (len(selector) == 1 && selector[0] == k.code) || selector == k.name {
			return k, nil
		}
	}

	return Kind{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, selector)
}

// Returns the kind with the given level (1 through 4).
func ByLevel(level int) (Kind, bool) {
	if level < 1 || level > len(kinds) {
		return Kind{}, false
	}

	return kinds[level-1], true
}

// Single-letter selector, e.g. "w".
func (k Kind) Code() string {
	return string(k.code)
}

func (k Kind) Name() string {
	return k.name
}

func (k Kind) Level() int {
	return k.level
}

// Number of periods displayed in a report window.
func (k Kind) BucketCount() int {
	return k.count
}

func (k Kind) String() string {
	return k.name
}

// Rounds t down to the start of the period containing it.
//
// The result is always midnight UTC.
func (k Kind) Truncate(t time.Time) time.Time {
	return k.trunc(utcDate(t))
}

// Moves t back by one period.
//
// Meant for truncated dates; month arithmetic keeps the day of month.
func (k Kind) Decrement(t time.Time) time.Time {
	return k.dec(t.UTC())
}

// Moves t forward by one period.
func (k Kind) Increment(t time.Time) time.Time {
	return k.inc(t.UTC())
}

// Canonical display label of the period containing t.
func (k Kind) Label(t time.Time) string {
	return k.label(k.Truncate(t))
}

func utcDate(t time.Time) time.Time {
	year, month, d := t.UTC().Date()
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Monday of the ISO week.
func truncWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.Add(-time.Duration(offset) * day)
}

func truncMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func truncQuarter(t time.Time) time.Time {
	t = truncMonth(t)
	for (t.Month()-1)%3 != 0 {
		t = addMonths(t, -1)
	}
	return t
}

func truncYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Steps n months at a time, borrowing or carrying a year at the ends.
func addMonths(t time.Time, n int) time.Time {
	year := t.Year()
	month := int(t.Month()) - 1 // 0-11

	month += n
	for month < 0 {
		month += 12
		year -= 1
	}
	for month > 11 {
		month -= 12
		year += 1
	}

	hour, minute, sec := t.Clock()
	return time.Date(
		year,
		time.Month(month+1),
		t.Day(),
		hour,
		minute,
		sec,
		t.Nanosecond(),
		time.UTC,
	)
}

// ISO week number and two-digit ISO year, e.g. "W35 24".
func labelWeek(t time.Time) string {
	year, wk := t.ISOWeek()
	return fmt.Sprintf("W%02d %02d", wk, year%100)
}
