// Package optimizer solves for the extra monthly payment that retires a loan
// within a target number of months.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/format"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
	"github.com/iwvelando/loan-payoff/pkg/optimization"
	"go.uber.org/zap"
)

// FieldExtraMonthly names the plan field the solver adjusts.
const FieldExtraMonthly = "extraMonthly"

type Solver struct {
	logger        *zap.Logger
	generator     *loans.Generator
	maxIterations int
	tolerance     float64
}

// evaluation is the outcome of one candidate extra amount.
type evaluation struct {
	value    float64
	months   int
	interest float64
}

// NewSolver constructs a Solver evaluating candidates with generator.
func NewSolver(logger *zap.Logger, generator *loans.Generator) (*Solver, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger:        logger,
		generator:     generator,
		maxIterations: constants.MaxBisectionIterations,
		tolerance:     constants.CurrencyTolerance,
	}, nil
}

// TargetExtraPayment returns the smallest whole-cent extra monthly payment
// that pays terms off within targetMonths at the given installment (zero
// derives it). A loan that already pays off in time needs no extra.
func (s *Solver) TargetExtraPayment(terms loans.Terms, payment float64, targetMonths int) (optimization.Summary, error) {
	if targetMonths < 1 {
		return optimization.Summary{}, &loans.InvalidInputError{
			Field:  "target months",
			Value:  float64(targetMonths),
			Reason: "must be at least one month",
		}
	}

	base, err := s.evaluate(terms, payment, 0)
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("optimizer baseline schedule failed: %w", err)
	}

	summary := optimization.Summary{
		Field:        FieldExtraMonthly,
		TargetMonths: targetMonths,
		BaseMonths:   base.months,
	}

	if base.months <= targetMonths {
		summary.ResultingMonths = base.months
		summary.Converged = true
		summary.ValueDisplay = format.Currency(0)
		summary.Notes = []string{fmt.Sprintf("loan already pays off in %s", format.Months(base.months))}
		return summary, nil
	}

	// Paying principal/target on top of a sufficient installment always
	// finishes within target, so the upper bound is feasible.
	lower := 0.0
	upper := terms.Principal / float64(targetMonths)
	iterations := 0
	for iterations < s.maxIterations && upper-lower > s.tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := s.evaluate(terms, payment, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.months <= targetMonths {
			upper = mid
		} else {
			lower = mid
		}
	}

	final, err := s.evaluate(terms, payment, mathutil.RoundUp(upper))
	if err != nil {
		return optimization.Summary{}, err
	}
	// The bracket is a cent wide, so a cent below the rounded bound may
	// still meet the target.
	for final.months <= targetMonths && final.value >= s.tolerance {
		candidate, err := s.evaluate(terms, payment, mathutil.Round(final.value-s.tolerance))
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if candidate.months > targetMonths {
			break
		}
		final = candidate
	}

	summary.Value = final.value
	summary.ValueDisplay = format.Currency(final.value)
	summary.ResultingMonths = final.months
	summary.InterestSaved = base.interest - final.interest
	summary.Iterations = iterations
	summary.Converged = final.months <= targetMonths
	if !summary.Converged {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to pay off within %s; %s extra pays off in %s",
			format.Months(targetMonths), summary.ValueDisplay, format.Months(final.months)))
	}

	s.logger.Debug("optimizer solved target payoff",
		zap.String("op", "optimizer.TargetExtraPayment"),
		zap.Int("targetMonths", targetMonths),
		zap.Int("baseMonths", base.months),
		zap.Float64("extraMonthly", summary.Value),
		zap.Int("resultingMonths", summary.ResultingMonths),
		zap.Int("iterations", iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary, nil
}

func (s *Solver) evaluate(terms loans.Terms, payment, extra float64) (evaluation, error) {
	schedule, err := s.generator.Generate(terms, loans.Plan{Payment: payment, ExtraMonthly: extra})
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{
		value:    extra,
		months:   schedule.Periods(),
		interest: schedule.TotalInterest(),
	}, nil
}
