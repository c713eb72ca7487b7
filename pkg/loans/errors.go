package loans

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching of the typed errors below.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrScheduleIncomplete  = errors.New("schedule incomplete")
)

// InvalidInputError reports a loan parameter rejected before any iteration.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(field string, value float64, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// InsufficientPaymentError reports an installment that does not amortize the
// loan, either detected up front (Periods == 0) or after the safety cap was
// reached with a balance still outstanding.
type InsufficientPaymentError struct {
	Payment          float64
	InterestOnly     float64
	MinimumPayment   float64
	RemainingBalance float64
	Periods          int
}

func (e *InsufficientPaymentError) Error() string {
	if e.Periods > 0 {
		return fmt.Sprintf("payment %.2f leaves %.2f outstanding after %d periods; at least %.2f is required",
			e.Payment, e.RemainingBalance, e.Periods, e.MinimumPayment)
	}
	return fmt.Sprintf("payment %.2f does not exceed the interest-only amount %.2f; at least %.2f is required",
		e.Payment, e.InterestOnly, e.MinimumPayment)
}

// Is reports whether target is ErrInsufficientPayment.
func (e *InsufficientPaymentError) Is(target error) bool {
	return target == ErrInsufficientPayment
}

// ScheduleIncompleteError reports a comparison involving an unpaid schedule.
type ScheduleIncompleteError struct {
	Scenario         string
	RemainingBalance float64
	Periods          int
}

func (e *ScheduleIncompleteError) Error() string {
	return fmt.Sprintf("%s schedule is not paid off: %.2f outstanding after %d periods",
		e.Scenario, e.RemainingBalance, e.Periods)
}

// Is reports whether target is ErrScheduleIncomplete.
func (e *ScheduleIncompleteError) Is(target error) bool {
	return target == ErrScheduleIncomplete
}
