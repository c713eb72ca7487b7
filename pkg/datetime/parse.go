// Package datetime labels schedule periods with calendar months.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-payoff/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// ValidateStartDate checks that date is a YYYY-MM month.
func ValidateStartDate(date string) error {
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("start date %q must use the YYYY-MM format: %w", date, err)
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

// PeriodDate returns the month in which the given 1-based period falls when
// period 1 is paid in start.
func PeriodDate(start string, period int) (string, error) {
	if period < 1 {
		return "", fmt.Errorf("period %d must be at least 1", period)
	}
	return OffsetDate(start, DateTimeLayout, period-1)
}
