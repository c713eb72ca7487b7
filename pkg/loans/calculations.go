// Package loans implements the amortization engine: installment derivation,
// schedule generation with extra payments, mid-loan resumption and scenario
// comparison.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
)

// MonthlyRate converts an annual percentage rate into a monthly decimal rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) (float64, error) {
	if err := validateTerms(Terms{Principal: principal, AnnualRate: annualInterestRate, TermMonths: termMonths}); err != nil {
		return 0, err
	}
	return monthlyPayment(principal, annualInterestRate, termMonths), nil
}

func monthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return principal * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// InterestOnlyPayment is the first-period interest on the terms; an installment
// must exceed it to ever reduce the balance.
func InterestOnlyPayment(terms Terms) float64 {
	return CalculateInterestPayment(terms.Principal, terms.AnnualRate)
}

// MinimumPayment is the smallest whole-cent installment that retires the
// terms within the given number of periods.
func MinimumPayment(terms Terms, periods int) float64 {
	if periods < 1 {
		periods = 1
	}
	return mathutil.RoundUp(monthlyPayment(terms.Principal, terms.AnnualRate, periods))
}

// validatePrincipalAbove rejects a principal that is already paid off at the
// given tolerance and would produce no rows.
func validatePrincipalAbove(principal, epsilon float64) error {
	if principal <= epsilon {
		return invalidInput("principal", principal, fmt.Sprintf("must exceed %.2f", epsilon))
	}
	return nil
}

func validateTerms(terms Terms) error {
	if !mathutil.IsFinite(terms.Principal) || terms.Principal <= 0 {
		return invalidInput("principal", terms.Principal, "must be greater than zero")
	}
	if err := validatePrincipalAbove(terms.Principal, constants.CurrencyTolerance); err != nil {
		return err
	}
	if !mathutil.IsFinite(terms.AnnualRate) || terms.AnnualRate < 0 {
		return invalidInput("interest rate", terms.AnnualRate, "must not be negative")
	}
	if terms.TermMonths <= 0 {
		return invalidInput("term", float64(terms.TermMonths), "must be at least one month")
	}
	return nil
}
