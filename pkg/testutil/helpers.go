// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/pkg/loans"
)

// FindResult finds a result by loan name in the results slice.
// Returns nil if no result has that name.
func FindResult(results []*calculator.Result, name string) *calculator.Result {
	for _, result := range results {
		if result != nil && result.Name == name {
			return result
		}
	}
	return nil
}

// ScheduleChains reports the first period whose start balance differs from
// the previous end balance by more than tolerance, or 0 when every row chains.
func ScheduleChains(schedule *loans.Schedule, tolerance float64) int {
	if schedule == nil {
		return 0
	}
	for i := 1; i < len(schedule.Rows); i++ {
		if math.Abs(schedule.Rows[i].StartBalance-schedule.Rows[i-1].EndBalance) > tolerance {
			return schedule.Rows[i].Period
		}
	}
	return 0
}
