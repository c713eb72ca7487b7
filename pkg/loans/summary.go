package loans

import "github.com/iwvelando/loan-payoff/pkg/mathutil"

// Summary is a quick overview of a schedule.
type Summary struct {
	TotalMonths            int     `json:"totalMonths"`
	TotalInterest          float64 `json:"totalInterest"`
	TotalPaid              float64 `json:"totalPaid"`
	FinalPayment           float64 `json:"finalPayment"`
	AverageMonthlyInterest float64 `json:"averageMonthlyInterest"`
}

// Summarize returns the Summary of a schedule.
func Summarize(schedule *Schedule) Summary {
	summary := Summary{
		TotalMonths:   schedule.Periods(),
		TotalInterest: schedule.TotalInterest(),
		TotalPaid:     schedule.TotalPaid(),
	}
	if summary.TotalMonths > 0 {
		summary.FinalPayment = schedule.Rows[summary.TotalMonths-1].Payment
		summary.AverageMonthlyInterest = summary.TotalInterest / float64(summary.TotalMonths)
	}
	return summary
}

// Rounded returns a copy with amounts rounded to cents.
func (s Summary) Rounded() Summary {
	s.TotalInterest = mathutil.Round(s.TotalInterest)
	s.TotalPaid = mathutil.Round(s.TotalPaid)
	s.FinalPayment = mathutil.Round(s.FinalPayment)
	s.AverageMonthlyInterest = mathutil.Round(s.AverageMonthlyInterest)
	return s
}
