// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-payoff/pkg/constants"
)

// LoanInfo is the part of a configured loan the validator inspects.
type LoanInfo struct {
	Name           string
	Principal      float64
	InterestRate   float64
	Term           int
	ElapsedMonths  int
	CurrentBalance float64
	LumpSum        float64
	LumpSumMonth   int
	ExtraMonths    int
	TargetMonths   int
}

// ValidateLoan returns warnings for a loan whose values are legal but
// probably not what was meant. Hard errors are left to the engine.
func ValidateLoan(loan LoanInfo) []string {
	var warnings []string

	if loan.InterestRate > constants.HighInterestRateWarning {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has an unusually high interest rate of %.2f%% - rates are annual percentages",
			loan.Name, loan.InterestRate))
	}
	if loan.InterestRate > 0 && loan.InterestRate < 1 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has an interest rate of %.2f%% - rates are percentages, not fractions",
			loan.Name, loan.InterestRate))
	}
	if loan.Term > constants.MaxTermMonthsWarning {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a term of %d months, beyond %d years",
			loan.Name, loan.Term, constants.MaxTermMonthsWarning/constants.MonthsPerYear))
	}
	if loan.LumpSum > 0 && loan.LumpSumMonth > loan.Term {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' lump sum is scheduled in month %d, after the %d month term",
			loan.Name, loan.LumpSumMonth, loan.Term))
	}
	if loan.LumpSum > 0 && loan.Principal > 0 && loan.LumpSum >= loan.Principal {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' lump sum of %.2f covers the whole principal",
			loan.Name, loan.LumpSum))
	}
	if loan.ExtraMonths > loan.Term {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' extra payments last %d months, longer than the %d month term",
			loan.Name, loan.ExtraMonths, loan.Term))
	}
	if loan.TargetMonths > loan.Term {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' target of %d months is longer than the %d month term - no extra payment is needed",
			loan.Name, loan.TargetMonths, loan.Term))
	}
	if loan.ElapsedMonths != 0 && loan.CurrentBalance != 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' sets both elapsed months and current balance - only one may be used",
			loan.Name))
	}
	if loan.CurrentBalance > 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' elapsed months will be estimated from the current balance and may be off by one month",
			loan.Name))
	}

	return warnings
}

// ConfigValidator validates a set of loans as a whole.
type ConfigValidator struct {
	Loans []LoanInfo
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if len(cv.Loans) == 0 {
		return append(warnings, "No loans configured - nothing to calculate")
	}

	seen := make(map[string]bool)
	for _, loan := range cv.Loans {
		if loan.Name != "" {
			if seen[loan.Name] {
				warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
			}
			seen[loan.Name] = true
		}
		warnings = append(warnings, ValidateLoan(loan)...)
	}

	return warnings
}
