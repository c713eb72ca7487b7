// Package output renders calculation results for people (pretty) and for
// spreadsheets (csv).
package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/datetime"
	"github.com/iwvelando/loan-payoff/pkg/format"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report
// of each result. showSchedule adds the per-period table.
func PrettyFormat(w io.Writer, results []*calculator.Result, showSchedule bool) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		rounded := result.Rounded()
		writePrettyResult(p, w, rounded)
		if showSchedule {
			name := constants.ScheduleBase
			schedule := rounded.Base
			if rounded.Prepayment != nil {
				name = constants.SchedulePrepayment
				schedule = rounded.Prepayment
			}
			if err := writePrettySchedule(p, w, name, rounded.StartDate, schedule); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePrettyResult(p *message.Printer, w io.Writer, result *calculator.Result) {
	terms := result.Base.Terms
	if result.Resumption != nil {
		terms = result.Resumption.Original
	}

	_, _ = p.Fprintf(w, "--- Results for loan %s ---\n", result.Name)
	_, _ = p.Fprintf(w, "Principal:        $%.2f\n", terms.Principal)
	_, _ = p.Fprintf(w, "Interest rate:    %.2f%%\n", terms.AnnualRate)
	_, _ = p.Fprintf(w, "Term:             %s\n", format.Months(terms.TermMonths))
	_, _ = p.Fprintf(w, "Monthly payment:  $%.2f\n", result.Payment)

	if r := result.Resumption; r != nil {
		estimated := ""
		if r.Estimated {
			estimated = " (estimated)"
		}
		_, _ = p.Fprintf(w, "Resumed after:    %d months%s at balance $%.2f, %s remaining\n",
			r.ElapsedMonths, estimated, r.Balance, format.Months(r.RemainingTerm))
	}

	_, _ = fmt.Fprintf(w, "\n%-16s | %-26s | %s\n", "", "Base", "Prepayment")
	_, _ = fmt.Fprintf(w, "%-16s | %-26s | %s\n", "________________", "__________________________", "__________")
	writeRow(w, "Months",
		monthsCell(result.BaseSummary.TotalMonths),
		optional(result.PrepaymentSummary != nil, func() string { return monthsCell(result.PrepaymentSummary.TotalMonths) }))
	writeRow(w, "Total interest",
		p.Sprintf("$%.2f", result.BaseSummary.TotalInterest),
		optional(result.PrepaymentSummary != nil, func() string { return p.Sprintf("$%.2f", result.PrepaymentSummary.TotalInterest) }))
	writeRow(w, "Total paid",
		p.Sprintf("$%.2f", result.BaseSummary.TotalPaid),
		optional(result.PrepaymentSummary != nil, func() string { return p.Sprintf("$%.2f", result.PrepaymentSummary.TotalPaid) }))
	writeRow(w, "Final payment",
		p.Sprintf("$%.2f", result.BaseSummary.FinalPayment),
		optional(result.PrepaymentSummary != nil, func() string { return p.Sprintf("$%.2f", result.PrepaymentSummary.FinalPayment) }))
	if result.BasePayoff != "" {
		writeRow(w, "Payoff", result.BasePayoff, result.PrepaymentPayoff)
	}

	if c := result.Comparison; c != nil {
		_, _ = p.Fprintf(w, "\nMonths saved:     %s\n", format.Months(c.MonthsSaved))
		_, _ = p.Fprintf(w, "Interest saved:   $%.2f (%.2f%%)\n", c.InterestSaved, c.SavingsPercentage)
		_, _ = p.Fprintf(w, "Total extra paid: $%.2f\n", c.TotalExtraPayments)
	}

	if t := result.Target; t != nil {
		_, _ = p.Fprintf(w, "\nTo pay off in %s: extra $%.2f per month, paid off in %s, saving $%.2f interest\n",
			format.Months(t.TargetMonths), t.Value, format.Months(t.ResultingMonths), t.InterestSaved)
		for _, note := range t.Notes {
			_, _ = fmt.Fprintf(w, "  note: %s\n", note)
		}
	}
}

func writePrettySchedule(p *message.Printer, w io.Writer, name, startDate string, schedule *loans.Schedule) error {
	if _, err := fmt.Fprintf(w, "\nSchedule (%s)\n", name); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Period | Month   | %14s | %12s | %12s | %14s | %16s\n",
		"Payment", "Extra", "Interest", "Principal", "Balance")
	_, _ = fmt.Fprintf(w, "______ | _______ | %14s | %12s | %12s | %14s | %16s\n",
		"_______", "_____", "________", "_________", "_______")
	for _, row := range schedule.Rows {
		month := "-"
		if startDate != "" {
			date, err := datetime.PeriodDate(startDate, row.Period)
			if err != nil {
				return err
			}
			month = date
		}
		if _, err := p.Fprintf(w, "%6d | %-7s | %14.2f | %12.2f | %12.2f | %14.2f | %16.2f\n",
			row.Period, month, row.Payment, row.Extra, row.Interest, row.Principal, row.EndBalance); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, label, base, prepayment string) {
	_, _ = fmt.Fprintf(w, "%-16s | %-26s | %s\n", label, base, prepayment)
}

func monthsCell(months int) string {
	return fmt.Sprintf("%d (%s)", months, format.Months(months))
}

func optional(present bool, value func() string) string {
	if !present {
		return "-"
	}
	return value()
}
