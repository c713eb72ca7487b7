package calculator

import (
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
	"github.com/iwvelando/loan-payoff/pkg/optimization"
)

// Result is the outcome of one Request.
type Result struct {
	Name      string  `json:"name,omitempty"`
	StartDate string  `json:"startDate,omitempty"`
	Payment   float64 `json:"monthlyPayment"`

	Resumption *loans.Resumption `json:"resumption,omitempty"`

	Base        *loans.Schedule `json:"base"`
	BaseSummary loans.Summary   `json:"baseSummary"`
	BasePayoff  string          `json:"basePayoff,omitempty"`

	Prepayment        *loans.Schedule   `json:"prepayment,omitempty"`
	PrepaymentSummary *loans.Summary    `json:"prepaymentSummary,omitempty"`
	PrepaymentPayoff  string            `json:"prepaymentPayoff,omitempty"`
	Comparison        *loans.Comparison `json:"comparison,omitempty"`

	Target *optimization.Summary `json:"target,omitempty"`
}

// Schedule returns the named schedule ("base" or "prepayment"), or nil.
func (r *Result) Schedule(name string) *loans.Schedule {
	switch name {
	case "", constants.ScheduleBase:
		return r.Base
	case constants.SchedulePrepayment:
		return r.Prepayment
	}
	return nil
}

// Rounded returns a copy with every amount rounded to cents.
func (r *Result) Rounded() *Result {
	if r == nil {
		return nil
	}
	rounded := *r
	rounded.Payment = mathutil.Round(r.Payment)
	if r.Resumption != nil {
		resumption := *r.Resumption
		resumption.Payment = mathutil.Round(resumption.Payment)
		resumption.Balance = mathutil.Round(resumption.Balance)
		rounded.Resumption = &resumption
	}
	rounded.Base = r.Base.Rounded()
	rounded.BaseSummary = r.BaseSummary.Rounded()
	rounded.Prepayment = r.Prepayment.Rounded()
	if r.PrepaymentSummary != nil {
		summary := r.PrepaymentSummary.Rounded()
		rounded.PrepaymentSummary = &summary
	}
	rounded.Comparison = r.Comparison.Rounded()
	if r.Target != nil {
		target := *r.Target
		target.Value = mathutil.Round(target.Value)
		target.InterestSaved = mathutil.Round(target.InterestSaved)
		rounded.Target = &target
	}
	return &rounded
}
