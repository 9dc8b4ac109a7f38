// Package assignment resolves manager-assignment period selectors into
// concrete date ranges and type tags.
package assignment

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"messbook/internal/model"
)

var (
	ErrUnknownPeriod  = errors.New("unknown period choice")
	ErrEndRequired    = errors.New("custom period requires an end date")
	ErrEndBeforeStart = errors.New("end date cannot be before start date")
)

// Period selector presets offered by the assignment form.
var PeriodChoices = []string{"1_week", "2_weeks", "3_weeks", "4_weeks", "15_days", "30_days", "custom"}

// ResolvePeriod derives the end date and assignment type from a period
// selector. Presets span N·7 or N days counting the start date itself;
// an explicitly supplied end date wins over the preset's derived one.
func ResolvePeriod(choice string, start time.Time, end *time.Time) (time.Time, string, error) {
	var resolved time.Time
	var typ string

	switch {
	case choice == "custom":
		typ = model.AssignmentTypeCustom
		if end == nil {
			return time.Time{}, "", ErrEndRequired
		}
		resolved = *end
	case strings.HasSuffix(choice, "_week") || strings.HasSuffix(choice, "_weeks"):
		n, err := presetCount(choice)
		if err != nil {
			return time.Time{}, "", err
		}
		typ = model.AssignmentTypeWeek
		resolved = start.AddDate(0, 0, n*7-1)
	case strings.HasSuffix(choice, "_days"):
		n, err := presetCount(choice)
		if err != nil {
			return time.Time{}, "", err
		}
		typ = model.AssignmentTypeDays
		resolved = start.AddDate(0, 0, n-1)
	default:
		return time.Time{}, "", ErrUnknownPeriod
	}

	if end != nil {
		resolved = *end
	}
	if resolved.Before(start) {
		return time.Time{}, "", ErrEndBeforeStart
	}
	return resolved, typ, nil
}

func presetCount(choice string) (int, error) {
	prefix, _, ok := strings.Cut(choice, "_")
	if !ok {
		return 0, ErrUnknownPeriod
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 1 {
		return 0, ErrUnknownPeriod
	}
	return n, nil
}
