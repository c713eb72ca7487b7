package calculator

import (
	"github.com/iwvelando/loan-payoff/pkg/loans"
)

// Request is the flat parameter set of one loan analysis. It is the JSON
// body of the HTTP API and one entry of the loans list in configuration.
type Request struct {
	Name string `json:"name,omitempty" mapstructure:"name"`
	// StartDate (YYYY-MM) labels the month of the first payment.
	StartDate string `json:"startDate,omitempty" mapstructure:"startDate"`

	Principal    float64 `json:"principal" mapstructure:"principal"`
	InterestRate float64 `json:"interestRate" mapstructure:"interestRate"`
	Term         int     `json:"term" mapstructure:"term"`
	Payment      float64 `json:"payment,omitempty" mapstructure:"payment"`

	// At most one of ElapsedMonths and CurrentBalance may be set.
	ElapsedMonths  int     `json:"elapsedMonths,omitempty" mapstructure:"elapsedMonths"`
	CurrentBalance float64 `json:"currentBalance,omitempty" mapstructure:"currentBalance"`

	ExtraMonthly float64 `json:"extraMonthly,omitempty" mapstructure:"extraMonthly"`
	ExtraMonths  int     `json:"extraMonths,omitempty" mapstructure:"extraMonths"`
	LumpSum      float64 `json:"lumpSum,omitempty" mapstructure:"lumpSum"`
	LumpSumMonth int     `json:"lumpSumMonth,omitempty" mapstructure:"lumpSumMonth"`

	TargetMonths int `json:"targetMonths,omitempty" mapstructure:"targetMonths"`
}

// Terms returns the loan terms at origination.
func (r Request) Terms() loans.Terms {
	return loans.Terms{
		Principal:  r.Principal,
		AnnualRate: r.InterestRate,
		TermMonths: r.Term,
	}
}

// Plan returns the prepayment plan paying the given installment.
func (r Request) Plan(payment float64) loans.Plan {
	return loans.Plan{
		Payment:      payment,
		ExtraMonthly: r.ExtraMonthly,
		ExtraMonths:  r.ExtraMonths,
		LumpSum:      r.LumpSum,
		LumpSumMonth: r.LumpSumMonth,
	}
}

// Resumes reports whether the request picks up an existing loan.
func (r Request) Resumes() bool {
	return r.ElapsedMonths != 0 || r.CurrentBalance != 0
}

func (r Request) validate() error {
	if r.ElapsedMonths != 0 && r.CurrentBalance != 0 {
		return &loans.InvalidInputError{
			Field:  "current balance",
			Value:  r.CurrentBalance,
			Reason: "cannot be combined with elapsed months",
		}
	}
	if r.TargetMonths < 0 {
		return &loans.InvalidInputError{
			Field:  "target months",
			Value:  float64(r.TargetMonths),
			Reason: "must not be negative",
		}
	}
	return nil
}
