package loans

import (
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
)

// Comparison holds the savings of a prepayment schedule over its base.
type Comparison struct {
	BasePeriods         int     `json:"baseMonths"`
	PrepaymentPeriods   int     `json:"prepaymentMonths"`
	MonthsSaved         int     `json:"monthsSaved"`
	BaseInterest        float64 `json:"baseTotalInterest"`
	PrepaymentInterest  float64 `json:"prepaymentTotalInterest"`
	InterestSaved       float64 `json:"interestSaved"`
	BaseTotalPaid       float64 `json:"baseTotalPaid"`
	PrepaymentTotalPaid float64 `json:"prepaymentTotalPaid"`
	TotalExtraPayments  float64 `json:"totalExtraPayments"`
	SavingsPercentage   float64 `json:"savingsPercentage"`
}

// Compare derives the savings of prepay over base. Both schedules must be
// paid off; comparing against an unfinished schedule would report savings
// that do not exist.
func Compare(base, prepay *Schedule) (*Comparison, error) {
	if err := requireComplete(constants.ScheduleBase, base); err != nil {
		return nil, err
	}
	if err := requireComplete(constants.SchedulePrepayment, prepay); err != nil {
		return nil, err
	}

	comparison := &Comparison{
		BasePeriods:         base.Periods(),
		PrepaymentPeriods:   prepay.Periods(),
		BaseInterest:        base.TotalInterest(),
		PrepaymentInterest:  prepay.TotalInterest(),
		BaseTotalPaid:       base.TotalPaid(),
		PrepaymentTotalPaid: prepay.TotalPaid(),
		TotalExtraPayments:  prepay.TotalExtra(),
	}
	comparison.MonthsSaved = comparison.BasePeriods - comparison.PrepaymentPeriods
	comparison.InterestSaved = comparison.BaseInterest - comparison.PrepaymentInterest
	comparison.SavingsPercentage = mathutil.CalculatePercentage(comparison.InterestSaved, comparison.BaseInterest)
	return comparison, nil
}

// Rounded returns a copy with amounts rounded to cents.
func (c *Comparison) Rounded() *Comparison {
	if c == nil {
		return nil
	}
	rounded := *c
	rounded.BaseInterest = mathutil.Round(c.BaseInterest)
	rounded.PrepaymentInterest = mathutil.Round(c.PrepaymentInterest)
	rounded.InterestSaved = mathutil.Round(c.InterestSaved)
	rounded.BaseTotalPaid = mathutil.Round(c.BaseTotalPaid)
	rounded.PrepaymentTotalPaid = mathutil.Round(c.PrepaymentTotalPaid)
	rounded.TotalExtraPayments = mathutil.Round(c.TotalExtraPayments)
	rounded.SavingsPercentage = mathutil.Round(c.SavingsPercentage)
	return &rounded
}

func requireComplete(scenario string, schedule *Schedule) error {
	if schedule.Complete() {
		return nil
	}
	return &ScheduleIncompleteError{
		Scenario:         scenario,
		RemainingBalance: schedule.EndBalance(),
		Periods:          schedule.Periods(),
	}
}
