package dashboard

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned for a month outside 1-12 or a year
// outside sensible calendar bounds.
var ErrInvalidPeriod = errors.New("invalid year/month")

// MonthRange returns the first and last calendar date of the month,
// accounting for month length and leap years.
func MonthRange(year, month int) (start, end time.Time, err error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the next month is the last day of this one.
	end = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}
