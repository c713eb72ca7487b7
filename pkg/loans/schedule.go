package loans

import (
	"fmt"

	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
	"go.uber.org/zap"
)

// Terms are the loan parameters a schedule amortizes. For a resumed loan the
// principal is the balance at the resumption point and the term is what remains.
type Terms struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"interestRate"` // percent, e.g. 8.5
	TermMonths int     `json:"term"`
}

// Plan describes how the loan is paid.
type Plan struct {
	// Payment is the fixed installment; zero derives it from the terms.
	Payment float64 `json:"payment,omitempty"`
	// ExtraMonthly is added to principal every period, or only during the
	// first ExtraMonths periods when ExtraMonths is positive.
	ExtraMonthly float64 `json:"extraMonthly,omitempty"`
	ExtraMonths  int     `json:"extraMonths,omitempty"`
	// LumpSum is paid once, in period LumpSumMonth.
	LumpSum      float64 `json:"lumpSum,omitempty"`
	LumpSumMonth int     `json:"lumpSumMonth,omitempty"`
}

// HasExtra reports whether the plan pays anything beyond the installment.
func (p Plan) HasExtra() bool {
	return p.ExtraMonthly > 0 || p.LumpSum > 0
}

func (p Plan) extraFor(period int) float64 {
	extra := 0.0
	if p.ExtraMonthly > 0 && (p.ExtraMonths <= 0 || period <= p.ExtraMonths) {
		extra += p.ExtraMonthly
	}
	if p.LumpSum > 0 && period == p.LumpSumMonth {
		extra += p.LumpSum
	}
	return extra
}

func validatePlan(plan Plan, terms Terms) error {
	if !mathutil.IsFinite(plan.Payment) || plan.Payment < 0 {
		return invalidInput("payment", plan.Payment, "must not be negative")
	}
	if !mathutil.IsFinite(plan.ExtraMonthly) || plan.ExtraMonthly < 0 {
		return invalidInput("extra monthly payment", plan.ExtraMonthly, "must not be negative")
	}
	if plan.ExtraMonths < 0 {
		return invalidInput("extra payment duration", float64(plan.ExtraMonths), "must not be negative")
	}
	if !mathutil.IsFinite(plan.LumpSum) || plan.LumpSum < 0 {
		return invalidInput("lump sum", plan.LumpSum, "must not be negative")
	}
	if plan.LumpSum > 0 && (plan.LumpSumMonth < 1 || plan.LumpSumMonth > terms.TermMonths) {
		return invalidInput("lump sum month", float64(plan.LumpSumMonth),
			fmt.Sprintf("must be within [1, %d]", terms.TermMonths))
	}
	return nil
}

// Row is one period of an amortization schedule.
type Row struct {
	Period             int     `json:"period"`
	StartBalance       float64 `json:"startBalance"`
	Payment            float64 `json:"payment"`
	Extra              float64 `json:"extra"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	EndBalance         float64 `json:"endBalance"`
	CumulativeInterest float64 `json:"cumulativeInterest"`
}

// Schedule is an ordered amortization schedule.
type Schedule struct {
	Terms   Terms   `json:"terms"`
	Payment float64 `json:"monthlyPayment"`
	Rows    []Row   `json:"rows"`
}

// Periods returns the number of periods in the schedule.
func (s *Schedule) Periods() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// TotalInterest returns the interest paid over the whole schedule.
func (s *Schedule) TotalInterest() float64 {
	if s.Periods() == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].CumulativeInterest
}

// TotalPaid returns the sum of all payments, extras included.
func (s *Schedule) TotalPaid() float64 {
	total := 0.0
	if s == nil {
		return total
	}
	for _, row := range s.Rows {
		total += row.Payment
	}
	return total
}

// TotalExtra returns the sum of payments made beyond the installment.
func (s *Schedule) TotalExtra() float64 {
	total := 0.0
	if s == nil {
		return total
	}
	for _, row := range s.Rows {
		total += row.Extra
	}
	return total
}

// EndBalance returns the balance after the last period, or the principal for
// an empty schedule.
func (s *Schedule) EndBalance() float64 {
	if s == nil {
		return 0
	}
	if len(s.Rows) == 0 {
		return s.Terms.Principal
	}
	return s.Rows[len(s.Rows)-1].EndBalance
}

// Complete reports whether the schedule pays the loan off.
func (s *Schedule) Complete() bool {
	return s.Periods() > 0 && mathutil.IsZero(s.EndBalance())
}

// Rounded returns a copy with every amount rounded to cents, for values
// leaving the engine.
func (s *Schedule) Rounded() *Schedule {
	if s == nil {
		return nil
	}
	rounded := &Schedule{
		Terms:   s.Terms,
		Payment: mathutil.Round(s.Payment),
		Rows:    make([]Row, len(s.Rows)),
	}
	for i, row := range s.Rows {
		rounded.Rows[i] = Row{
			Period:             row.Period,
			StartBalance:       mathutil.Round(row.StartBalance),
			Payment:            mathutil.Round(row.Payment),
			Extra:              mathutil.Round(row.Extra),
			Interest:           mathutil.Round(row.Interest),
			Principal:          mathutil.Round(row.Principal),
			EndBalance:         mathutil.Round(row.EndBalance),
			CumulativeInterest: mathutil.Round(row.CumulativeInterest),
		}
	}
	return rounded
}

// Limits bound schedule simulation.
type Limits struct {
	// MaxPeriods is the absolute ceiling on simulated periods.
	MaxPeriods int `json:"maxPeriods" yaml:"maxPeriods"`
	// TermMultiplier caps a schedule at this multiple of its term; 0 disables
	// the term-relative cap.
	TermMultiplier int `json:"termMultiplier" yaml:"termMultiplier"`
	// Epsilon is the balance at or below which a loan counts as paid off.
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// DefaultLimits returns the 2x term / 600 period cap with a one cent epsilon.
func DefaultLimits() Limits {
	return Limits{
		MaxPeriods:     constants.DefaultMaxPeriods,
		TermMultiplier: constants.DefaultTermMultiplier,
		Epsilon:        constants.CurrencyTolerance,
	}
}

// Normalize fills unset fields with defaults.
func (l Limits) Normalize() Limits {
	defaults := DefaultLimits()
	if l.MaxPeriods <= 0 {
		l.MaxPeriods = defaults.MaxPeriods
	}
	if l.TermMultiplier < 0 {
		l.TermMultiplier = 0
	}
	if l.Epsilon <= 0 {
		l.Epsilon = defaults.Epsilon
	}
	return l
}

// Cap returns the number of periods a schedule for the given term may run.
func (l Limits) Cap(termMonths int) int {
	limit := l.MaxPeriods
	if l.TermMultiplier > 0 && termMonths > 0 {
		if byTerm := termMonths * l.TermMultiplier; byTerm < limit {
			limit = byTerm
		}
	}
	return limit
}

// Generator produces amortization schedules.
type Generator struct {
	logger *zap.Logger
	limits Limits
}

// NewGenerator creates a new generator instance
func NewGenerator(logger *zap.Logger, limits Limits) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger, limits: limits.Normalize()}
}

// Limits returns the generator's normalized limits.
func (g *Generator) Limits() Limits {
	return g.limits
}

// ResolvePayment validates the terms and returns the installment the plan
// pays: the plan's own or, when unset, the one derived from the terms. The
// installment must exceed the first-period interest.
func (g *Generator) ResolvePayment(terms Terms, plan Plan) (float64, error) {
	if err := validateTerms(terms); err != nil {
		return 0, err
	}
	if err := validatePrincipalAbove(terms.Principal, g.limits.Epsilon); err != nil {
		return 0, err
	}
	if err := validatePlan(plan, terms); err != nil {
		return 0, err
	}

	payment := plan.Payment
	if payment == 0 {
		payment = monthlyPayment(terms.Principal, terms.AnnualRate, terms.TermMonths)
	}

	interestOnly := InterestOnlyPayment(terms)
	if payment <= interestOnly {
		return 0, &InsufficientPaymentError{
			Payment:          payment,
			InterestOnly:     interestOnly,
			MinimumPayment:   MinimumPayment(terms, g.limits.Cap(terms.TermMonths)),
			RemainingBalance: terms.Principal,
		}
	}
	return payment, nil
}

// Generate creates a complete amortization schedule. It runs until the
// balance is paid off; a plan that cannot do so within the safety cap is an
// InsufficientPaymentError, never a truncated schedule.
func (g *Generator) Generate(terms Terms, plan Plan) (*Schedule, error) {
	limit := g.limits.Cap(terms.TermMonths)
	schedule, err := g.Project(terms, plan, limit)
	if err != nil {
		return nil, err
	}

	if !schedule.Complete() {
		g.logger.Debug(fmt.Sprintf("schedule reached the %d period cap with %.2f outstanding",
			limit, schedule.EndBalance()),
			zap.String("op", "loans.Generate"),
		)
		return nil, &InsufficientPaymentError{
			Payment:          schedule.Payment,
			InterestOnly:     InterestOnlyPayment(terms),
			MinimumPayment:   MinimumPayment(terms, limit),
			RemainingBalance: schedule.EndBalance(),
			Periods:          schedule.Periods(),
		}
	}

	g.logger.Debug(fmt.Sprintf("generated %d period schedule paying %.2f interest",
		schedule.Periods(), schedule.TotalInterest()),
		zap.String("op", "loans.Generate"),
	)
	return schedule, nil
}

// Project runs at most periods periods of the plan and returns the rows so
// far, paid off or not.
func (g *Generator) Project(terms Terms, plan Plan, periods int) (*Schedule, error) {
	if periods < 0 {
		return nil, invalidInput("periods", float64(periods), "must not be negative")
	}
	payment, err := g.ResolvePayment(terms, plan)
	if err != nil {
		return nil, err
	}
	return g.run(terms, plan, payment, periods), nil
}

func (g *Generator) run(terms Terms, plan Plan, payment float64, limit int) *Schedule {
	schedule := &Schedule{Terms: terms, Payment: payment}
	epsilon := g.limits.Epsilon

	balance := terms.Principal
	cumulativeInterest := 0.0
	for period := 1; period <= limit && balance > epsilon; period++ {
		interest := CalculateInterestPayment(balance, terms.AnnualRate)
		scheduled := payment - interest
		extra := plan.extraFor(period)
		if extra > 0 {
			g.logger.Debug(fmt.Sprintf("period %d: applying extra principal payment %.2f", period, extra),
				zap.String("op", "loans.Generate"),
			)
		}

		principal := scheduled + extra
		if balance-principal <= epsilon {
			// Final period: pay exactly what is left, never more.
			principal = balance
			extra = balance - scheduled
			if extra < 0 {
				extra = 0
			}
		}

		cumulativeInterest += interest
		end := balance - principal
		schedule.Rows = append(schedule.Rows, Row{
			Period:             period,
			StartBalance:       balance,
			Payment:            interest + principal,
			Extra:              extra,
			Interest:           interest,
			Principal:          principal,
			EndBalance:         end,
			CumulativeInterest: cumulativeInterest,
		})
		balance = end
	}
	return schedule
}
