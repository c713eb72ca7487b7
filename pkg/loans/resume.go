package loans

import (
	"fmt"

	"github.com/iwvelando/loan-payoff/pkg/mathutil"
	"go.uber.org/zap"
)

// Resumption is the point an existing loan is picked up from.
type Resumption struct {
	Original Terms   `json:"original"`
	Payment  float64 `json:"monthlyPayment"`
	// ElapsedMonths is the number of installments already paid.
	ElapsedMonths int `json:"elapsedMonths"`
	// Estimated is set when ElapsedMonths was derived from a balance. Such a
	// count can be off by one period, since a real balance need not fall on a
	// monthly boundary.
	Estimated     bool    `json:"estimated"`
	Balance       float64 `json:"balance"`
	RemainingTerm int     `json:"remainingTerm"`
}

// RemainingTerms returns the terms of the rest of the loan.
func (r *Resumption) RemainingTerms() Terms {
	return Terms{
		Principal:  r.Balance,
		AnnualRate: r.Original.AnnualRate,
		TermMonths: r.RemainingTerm,
	}
}

// ResumeFromElapsed picks up a loan after elapsed installments of payment
// (zero derives it from the terms) have been paid.
func (g *Generator) ResumeFromElapsed(terms Terms, payment float64, elapsed int) (*Resumption, error) {
	if elapsed < 0 {
		return nil, invalidInput("elapsed months", float64(elapsed), "must not be negative")
	}
	base, err := g.Generate(terms, Plan{Payment: payment})
	if err != nil {
		return nil, err
	}
	if elapsed >= base.Periods() {
		return nil, invalidInput("elapsed months", float64(elapsed),
			fmt.Sprintf("loan is paid off after %d months", base.Periods()))
	}

	balance := terms.Principal
	if elapsed > 0 {
		balance = base.Rows[elapsed-1].EndBalance
	}

	g.logger.Debug(fmt.Sprintf("resuming after %d months at balance %.2f", elapsed, balance),
		zap.String("op", "loans.ResumeFromElapsed"),
	)
	return &Resumption{
		Original:      terms,
		Payment:       base.Payment,
		ElapsedMonths: elapsed,
		Balance:       balance,
		RemainingTerm: remainingTerm(terms, base, elapsed),
	}, nil
}

// ResumeFromBalance picks up a loan whose current balance is known. The
// elapsed months are estimated by replaying the original schedule until its
// balance falls to the stated one.
func (g *Generator) ResumeFromBalance(terms Terms, payment float64, balance float64) (*Resumption, error) {
	if balance <= 0 {
		return nil, invalidInput("current balance", balance, "must be greater than zero")
	}
	if balance > terms.Principal {
		return nil, invalidInput("current balance", balance,
			fmt.Sprintf("must not exceed the principal %.2f", terms.Principal))
	}
	base, err := g.Generate(terms, Plan{Payment: payment})
	if err != nil {
		return nil, err
	}

	elapsed := EstimateElapsedMonths(base, balance, g.limits.Epsilon)
	if elapsed >= base.Periods() {
		return nil, invalidInput("current balance", balance, "loan would already be paid off")
	}

	g.logger.Debug(fmt.Sprintf("balance %.2f corresponds to roughly %d elapsed months", balance, elapsed),
		zap.String("op", "loans.ResumeFromBalance"),
	)
	return &Resumption{
		Original:      terms,
		Payment:       base.Payment,
		ElapsedMonths: elapsed,
		Estimated:     true,
		Balance:       balance,
		RemainingTerm: remainingTerm(terms, base, elapsed),
	}, nil
}

// EstimateElapsedMonths returns the first period of schedule whose end
// balance is at or below balance (within epsilon), or 0 when balance is the
// starting principal.
func EstimateElapsedMonths(schedule *Schedule, balance, epsilon float64) int {
	if schedule == nil || balance > schedule.Terms.Principal ||
		mathutil.WithinTolerance(balance, schedule.Terms.Principal, epsilon) {
		return 0
	}
	for _, row := range schedule.Rows {
		if row.EndBalance <= balance+epsilon {
			return row.Period
		}
	}
	return schedule.Periods()
}

// remainingTerm is the declared term minus elapsed, extended when the
// installment is slower than the standard one.
func remainingTerm(terms Terms, base *Schedule, elapsed int) int {
	remaining := terms.TermMonths - elapsed
	if projected := base.Periods() - elapsed; projected > remaining {
		remaining = projected
	}
	return remaining
}
