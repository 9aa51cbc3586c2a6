// Package analytics turns transactions and budgets into time-windowed
// summaries: per-category expense breakdowns, budget progress reports and
// period totals. Every function here is pure; callers fetch the records
// and supply the reference time.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/common"
)

// Period is a reporting window anchored at the current time.
type Period int

const (
	Day Period = iota
	Week
	Month
	Year
)

var periodNames = map[Period]string{
	Day:   "day",
	Week:  "week",
	Month: "month",
	Year:  "year",
}

func (p Period) String() string {
	if s, ok := periodNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// ParsePeriod maps a period tag to a Period. Unknown tags wrap
// common.ErrValidation.
func ParsePeriod(s string) (Period, error) {
	for p, name := range periodNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown period %q, expected day, week, month or year", common.ErrValidation, s)
}

// WindowStart returns the inclusive start of the window for p containing
// now, in now's location:
//
//	day   midnight today
//	week  midnight of the Monday on or before today
//	month midnight of the first day of the month
//	year  midnight of January 1st
func WindowStart(p Period, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()

	switch p {
	case Week:
		// time.Weekday counts from Sunday; shift so Monday is 0.
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}
