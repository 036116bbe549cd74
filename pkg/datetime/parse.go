// Package datetime provides month-granularity date helpers for repayment
// schedules.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

const (
	// DateTimeLayout is the YYYY-MM format used for schedule months.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// CurrentMonth returns now formatted as YYYY-MM.
func CurrentMonth(now time.Time) string {
	return now.Format(DateTimeLayout)
}

// ValidateMonth checks that date is a YYYY-MM month.
func ValidateMonth(date string) error {
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("invalid month %q, expected YYYY-MM: %w", date, err)
	}
	return nil
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// Year returns the calendar year of a YYYY-MM date.
func Year(date string) (int, error) {
	t, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
