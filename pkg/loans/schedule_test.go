package loans

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

var largeLoan = Terms{Principal: 5000000, AnnualRate: 8.5, TermMonths: 240}

func newTestGenerator() *Generator {
	return NewGenerator(zap.NewNop(), DefaultLimits())
}

func assertRowInvariants(t *testing.T, schedule *Schedule) {
	t.Helper()

	balance := schedule.Terms.Principal
	cumulative := 0.0
	for i, row := range schedule.Rows {
		if row.Period != i+1 {
			t.Fatalf("row %d has period %d", i, row.Period)
		}
		if math.Abs(row.StartBalance-balance) > 1e-6 {
			t.Fatalf("period %d starts at %.4f, previous ended at %.4f", row.Period, row.StartBalance, balance)
		}
		if math.Abs(row.Payment-(row.Interest+row.Principal)) > 1e-6 {
			t.Fatalf("period %d payment %.4f != interest %.4f + principal %.4f",
				row.Period, row.Payment, row.Interest, row.Principal)
		}
		if math.Abs(row.EndBalance-(row.StartBalance-row.Principal)) > 1e-6 {
			t.Fatalf("period %d end %.4f != start %.4f - principal %.4f",
				row.Period, row.EndBalance, row.StartBalance, row.Principal)
		}
		if row.EndBalance < 0 || row.Extra < 0 {
			t.Fatalf("period %d has negative amounts: end %.4f extra %.4f", row.Period, row.EndBalance, row.Extra)
		}
		if row.Principal > row.StartBalance+1e-9 {
			t.Fatalf("period %d overpays: principal %.4f > balance %.4f", row.Period, row.Principal, row.StartBalance)
		}
		cumulative += row.Interest
		if math.Abs(row.CumulativeInterest-cumulative) > 1e-6 {
			t.Fatalf("period %d cumulative interest %.4f, want %.4f", row.Period, row.CumulativeInterest, cumulative)
		}
		balance = row.EndBalance
	}
}

func TestGenerateStandardSchedule(t *testing.T) {
	schedule, err := newTestGenerator().Generate(largeLoan, Plan{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if schedule.Periods() != 240 {
		t.Errorf("Periods() = %d, want 240", schedule.Periods())
	}
	if math.Abs(schedule.Payment-43391.1617) > 0.0001 {
		t.Errorf("Payment = %.4f, want 43391.1617", schedule.Payment)
	}
	if math.Abs(schedule.TotalInterest()-5413878.80) > 0.05 {
		t.Errorf("TotalInterest() = %.2f, want 5413878.80", schedule.TotalInterest())
	}
	if !schedule.Complete() || schedule.EndBalance() != 0 {
		t.Errorf("schedule should end at exactly zero, got %.6f", schedule.EndBalance())
	}
	if math.Abs(schedule.TotalPaid()-(largeLoan.Principal+schedule.TotalInterest())) > 0.01 {
		t.Errorf("TotalPaid() = %.2f, want principal plus interest %.2f",
			schedule.TotalPaid(), largeLoan.Principal+schedule.TotalInterest())
	}
	if schedule.TotalExtra() != 0 {
		t.Errorf("TotalExtra() = %.2f, want 0", schedule.TotalExtra())
	}
	assertRowInvariants(t, schedule)
}

func TestGenerateMatchesAnnuityFormula(t *testing.T) {
	tests := []Terms{
		{Principal: 175000, AnnualRate: 4.5, TermMonths: 360},
		{Principal: 20000, AnnualRate: 4, TermMonths: 60},
		{Principal: 10000, AnnualRate: 18, TermMonths: 36},
		{Principal: 1000, AnnualRate: 12, TermMonths: 1},
		largeLoan,
	}

	generator := newTestGenerator()
	for _, terms := range tests {
		schedule, err := generator.Generate(terms, Plan{})
		if err != nil {
			t.Fatalf("Generate(%+v) error = %v", terms, err)
		}
		if schedule.Periods() != terms.TermMonths {
			t.Errorf("Generate(%+v) ran %d periods, want %d", terms, schedule.Periods(), terms.TermMonths)
		}
		assertRowInvariants(t, schedule)
	}
}

func TestGenerateZeroRate(t *testing.T) {
	generator := newTestGenerator()

	schedule, err := generator.Generate(Terms{Principal: 12000, AnnualRate: 0, TermMonths: 24}, Plan{Payment: 1000})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Periods() != 12 {
		t.Errorf("Periods() = %d, want 12", schedule.Periods())
	}
	if schedule.TotalInterest() != 0 {
		t.Errorf("TotalInterest() = %.2f, want 0", schedule.TotalInterest())
	}

	derived, err := generator.Generate(Terms{Principal: 1000, AnnualRate: 0, TermMonths: 3}, Plan{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if derived.Periods() != 3 || derived.EndBalance() != 0 {
		t.Errorf("derived zero-rate schedule: %d periods ending at %.6f", derived.Periods(), derived.EndBalance())
	}
	assertRowInvariants(t, derived)
}

func TestGenerateWithExtraMonthly(t *testing.T) {
	generator := newTestGenerator()

	schedule, err := generator.Generate(largeLoan, Plan{ExtraMonthly: 5000})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Periods() != 187 {
		t.Errorf("Periods() = %d, want 187", schedule.Periods())
	}
	if math.Abs(schedule.TotalInterest()-4024629.09) > 0.05 {
		t.Errorf("TotalInterest() = %.2f, want 4024629.09", schedule.TotalInterest())
	}

	// The installment alone covers the last balance, so no extra is applied
	last := schedule.Rows[schedule.Periods()-1]
	if last.Extra != 0 {
		t.Errorf("final period extra = %.2f, want 0", last.Extra)
	}
	if last.Payment >= schedule.Payment {
		t.Errorf("final payment %.2f should be below the installment %.2f", last.Payment, schedule.Payment)
	}
	if math.Abs(schedule.TotalExtra()-930000) > 0.01 {
		t.Errorf("TotalExtra() = %.2f, want 930000", schedule.TotalExtra())
	}
	assertRowInvariants(t, schedule)
}

func TestGenerateWithLimitedExtraMonths(t *testing.T) {
	schedule, err := newTestGenerator().Generate(largeLoan, Plan{ExtraMonthly: 5000, ExtraMonths: 24})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Periods() != 227 {
		t.Errorf("Periods() = %d, want 227", schedule.Periods())
	}
	if math.Abs(schedule.TotalExtra()-120000) > 0.01 {
		t.Errorf("TotalExtra() = %.2f, want 120000", schedule.TotalExtra())
	}
	if schedule.Rows[23].Extra != 5000 || schedule.Rows[24].Extra != 0 {
		t.Errorf("extra should stop after period 24: period 24 = %.2f, period 25 = %.2f",
			schedule.Rows[23].Extra, schedule.Rows[24].Extra)
	}
}

func TestGenerateWithLumpSum(t *testing.T) {
	schedule, err := newTestGenerator().Generate(largeLoan, Plan{ExtraMonthly: 5000, LumpSum: 500000, LumpSumMonth: 12})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Rows[11].Extra != 505000 {
		t.Errorf("period 12 extra = %.2f, want 505000", schedule.Rows[11].Extra)
	}
	assertRowInvariants(t, schedule)

	lumpOnly, err := newTestGenerator().Generate(largeLoan, Plan{LumpSum: 500000, LumpSumMonth: 12})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if lumpOnly.Periods() >= 240 {
		t.Errorf("lump sum should shorten the loan, got %d periods", lumpOnly.Periods())
	}
}

func TestGenerateLumpSumPaysOffLoan(t *testing.T) {
	terms := Terms{Principal: 10000, AnnualRate: 6, TermMonths: 60}

	schedule, err := newTestGenerator().Generate(terms, Plan{LumpSum: 50000, LumpSumMonth: 2})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Periods() != 2 {
		t.Fatalf("Periods() = %d, want 2", schedule.Periods())
	}
	last := schedule.Rows[1]
	if last.EndBalance != 0 {
		t.Errorf("EndBalance = %.6f, want 0", last.EndBalance)
	}
	// Only what was needed is recorded as extra
	if last.Extra >= 50000 || last.Principal != last.StartBalance {
		t.Errorf("lump sum was not capped: extra %.2f principal %.2f balance %.2f",
			last.Extra, last.Principal, last.StartBalance)
	}
	assertRowInvariants(t, schedule)
}

func TestGenerateExtraShortensMonotonically(t *testing.T) {
	generator := newTestGenerator()

	previousPeriods := math.MaxInt
	previousInterest := math.Inf(1)
	for _, extra := range []float64{0, 100, 1000, 5000, 20000, 100000} {
		schedule, err := generator.Generate(largeLoan, Plan{ExtraMonthly: extra})
		if err != nil {
			t.Fatalf("Generate(extra %.0f) error = %v", extra, err)
		}
		if schedule.Periods() > previousPeriods {
			t.Errorf("extra %.0f: %d periods, more than %d with a smaller extra",
				extra, schedule.Periods(), previousPeriods)
		}
		// Every larger extra pays strictly less interest on a positive rate
		if schedule.TotalInterest() >= previousInterest {
			t.Errorf("extra %.0f: interest %.2f, not below %.2f with a smaller extra",
				extra, schedule.TotalInterest(), previousInterest)
		}
		previousPeriods = schedule.Periods()
		previousInterest = schedule.TotalInterest()
	}
}

func TestGenerateExtraAtZeroRate(t *testing.T) {
	generator := newTestGenerator()
	terms := Terms{Principal: 12000, AnnualRate: 0, TermMonths: 120}

	tests := []struct {
		extra   float64
		periods int
	}{
		{0, 120},
		{50, 80},
		{100, 60},
		{400, 24},
	}

	previousPeriods := math.MaxInt
	for _, tt := range tests {
		schedule, err := generator.Generate(terms, Plan{ExtraMonthly: tt.extra})
		if err != nil {
			t.Fatalf("Generate(extra %.0f) error = %v", tt.extra, err)
		}
		if schedule.Periods() != tt.periods {
			t.Errorf("extra %.0f: Periods() = %d, want %d", tt.extra, schedule.Periods(), tt.periods)
		}
		if schedule.Periods() >= previousPeriods {
			t.Errorf("extra %.0f: %d periods, not below %d", tt.extra, schedule.Periods(), previousPeriods)
		}
		if schedule.TotalInterest() != 0 {
			t.Errorf("extra %.0f: TotalInterest() = %.2f, want 0", tt.extra, schedule.TotalInterest())
		}
		assertRowInvariants(t, schedule)
		previousPeriods = schedule.Periods()
	}
}

func TestGenerateRejectsSubCentPrincipal(t *testing.T) {
	_, err := newTestGenerator().Generate(Terms{Principal: 0.005, AnnualRate: 5, TermMonths: 12}, Plan{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Generate() error = %v, want ErrInvalidInput", err)
	}
	if errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("sub-cent principal reported as an insufficient payment: %v", err)
	}

	// A balance at the payoff tolerance is already settled
	_, err = newTestGenerator().Generate(Terms{Principal: 0.01, AnnualRate: 5, TermMonths: 12}, Plan{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Generate(0.01) error = %v, want ErrInvalidInput", err)
	}

	// Two cents is still a loan
	schedule, err := newTestGenerator().Generate(Terms{Principal: 0.02, AnnualRate: 5, TermMonths: 12}, Plan{})
	if err != nil {
		t.Fatalf("Generate(0.02) error = %v", err)
	}
	if !schedule.Complete() || schedule.Periods() < 1 {
		t.Errorf("two cent loan: %d periods, complete %v", schedule.Periods(), schedule.Complete())
	}
	assertRowInvariants(t, schedule)
}

func TestGenerateRejectsPrincipalWithinConfiguredEpsilon(t *testing.T) {
	generator := NewGenerator(nil, Limits{MaxPeriods: 600, TermMultiplier: 2, Epsilon: 1})

	_, err := generator.Generate(Terms{Principal: 0.75, AnnualRate: 5, TermMonths: 12}, Plan{})
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Generate() error = %v, want *InvalidInputError", err)
	}
	if invalid.Field != "principal" {
		t.Errorf("Field = %q, want principal", invalid.Field)
	}
}

func TestGenerateUserPaymentBelowStandard(t *testing.T) {
	// A rounded-down installment needs one more, smaller, final period
	schedule, err := newTestGenerator().Generate(largeLoan, Plan{Payment: 43391})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schedule.Periods() != 241 {
		t.Errorf("Periods() = %d, want 241", schedule.Periods())
	}
	if schedule.EndBalance() != 0 {
		t.Errorf("EndBalance() = %.6f, want 0", schedule.EndBalance())
	}
}

func TestGenerateInsufficientPayment(t *testing.T) {
	_, err := newTestGenerator().Generate(largeLoan, Plan{Payment: 35000})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientPayment", err)
	}

	var insufficient *InsufficientPaymentError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error %T is not *InsufficientPaymentError", err)
	}
	if insufficient.Periods != 0 {
		t.Errorf("Periods = %d, want 0 for an up-front rejection", insufficient.Periods)
	}
	if math.Abs(insufficient.InterestOnly-35416.67) > 0.01 {
		t.Errorf("InterestOnly = %.2f, want 35416.67", insufficient.InterestOnly)
	}
	// 2x term exceeds the 600 period ceiling only past 300 months, so 480 applies
	want := MinimumPayment(largeLoan, 480)
	if insufficient.MinimumPayment != want {
		t.Errorf("MinimumPayment = %.2f, want %.2f", insufficient.MinimumPayment, want)
	}
	if insufficient.RemainingBalance != largeLoan.Principal {
		t.Errorf("RemainingBalance = %.2f, want the principal", insufficient.RemainingBalance)
	}
}

func TestGeneratePaymentEqualToInterestIsInsufficient(t *testing.T) {
	terms := Terms{Principal: 120000, AnnualRate: 12, TermMonths: 120}
	_, err := newTestGenerator().Generate(terms, Plan{Payment: 1200})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientPayment", err)
	}
}

func TestGenerateExtraDoesNotRescueInsufficientInstallment(t *testing.T) {
	_, err := newTestGenerator().Generate(largeLoan, Plan{Payment: 35000, ExtraMonthly: 10000})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientPayment", err)
	}
}

func TestGenerateHitsSafetyCap(t *testing.T) {
	// Above the interest-only amount but far too slow for 480 periods
	_, err := newTestGenerator().Generate(largeLoan, Plan{Payment: 35500})

	var insufficient *InsufficientPaymentError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Generate() error = %v, want *InsufficientPaymentError", err)
	}
	if insufficient.Periods != 480 {
		t.Errorf("Periods = %d, want 480", insufficient.Periods)
	}
	if insufficient.RemainingBalance <= 0 {
		t.Errorf("RemainingBalance = %.2f, want an outstanding balance", insufficient.RemainingBalance)
	}
	if insufficient.MinimumPayment <= 35500 {
		t.Errorf("MinimumPayment = %.2f, want more than the rejected payment", insufficient.MinimumPayment)
	}
}

func TestGenerateConfigurableCap(t *testing.T) {
	generator := NewGenerator(nil, Limits{MaxPeriods: 600, TermMultiplier: 0})

	// Without the term multiplier the slow payment gets the full 600 periods
	_, err := generator.Generate(largeLoan, Plan{Payment: 35500})
	var insufficient *InsufficientPaymentError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Generate() error = %v, want *InsufficientPaymentError", err)
	}
	if insufficient.Periods != 600 {
		t.Errorf("Periods = %d, want 600", insufficient.Periods)
	}
}

func TestGenerateInvalidPlan(t *testing.T) {
	tests := []struct {
		name  string
		plan  Plan
		field string
	}{
		{"negative payment", Plan{Payment: -1}, "payment"},
		{"negative extra", Plan{ExtraMonthly: -50}, "extra monthly payment"},
		{"negative extra months", Plan{ExtraMonthly: 50, ExtraMonths: -1}, "extra payment duration"},
		{"negative lump sum", Plan{LumpSum: -1}, "lump sum"},
		{"lump sum month zero", Plan{LumpSum: 1000}, "lump sum month"},
		{"lump sum past term", Plan{LumpSum: 1000, LumpSumMonth: 241}, "lump sum month"},
		{"NaN extra", Plan{ExtraMonthly: math.NaN()}, "extra monthly payment"},
	}

	generator := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generator.Generate(largeLoan, tt.plan)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("Generate() error = %v, want *InvalidInputError", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("Field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestProject(t *testing.T) {
	generator := newTestGenerator()

	projected, err := generator.Project(largeLoan, Plan{}, 60)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if projected.Periods() != 60 {
		t.Fatalf("Periods() = %d, want 60", projected.Periods())
	}
	if math.Abs(projected.EndBalance()-4406359.16) > 0.01 {
		t.Errorf("balance after 60 periods = %.4f, want 4406359.16", projected.EndBalance())
	}
	if projected.Complete() {
		t.Errorf("a partial projection should not be complete")
	}

	// A slow installment is projected without error
	slow, err := generator.Project(largeLoan, Plan{Payment: 35500}, 12)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if slow.Periods() != 12 {
		t.Errorf("Periods() = %d, want 12", slow.Periods())
	}

	if _, err := generator.Project(largeLoan, Plan{}, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Project(-1) error = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateIsProjectionToTheCap(t *testing.T) {
	generator := newTestGenerator()
	plan := Plan{ExtraMonthly: 5000}

	generated, err := generator.Generate(largeLoan, plan)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	projected, err := generator.Project(largeLoan, plan, generator.Limits().Cap(largeLoan.TermMonths))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !projected.Complete() {
		t.Fatalf("projection to the cap did not pay off the loan")
	}
	if !reflect.DeepEqual(generated.Rows, projected.Rows) {
		t.Errorf("Generate and a projection to the cap disagree: %d vs %d periods",
			generated.Periods(), projected.Periods())
	}

	// Projection keeps the rows that Generate refuses to return
	slow := Plan{Payment: 35500}
	if _, err := generator.Generate(largeLoan, slow); !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientPayment", err)
	}
	partial, err := generator.Project(largeLoan, slow, generator.Limits().Cap(largeLoan.TermMonths))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if partial.Periods() != 480 || partial.Complete() {
		t.Errorf("partial projection: %d periods, complete %v", partial.Periods(), partial.Complete())
	}
}

func TestScheduleComplete(t *testing.T) {
	tests := []struct {
		name     string
		schedule *Schedule
		want     bool
	}{
		{"no rows", &Schedule{Terms: largeLoan}, false},
		{"paid to zero", &Schedule{Rows: []Row{{Period: 1, EndBalance: 0}}}, true},
		{"a cent left", &Schedule{Rows: []Row{{Period: 1, EndBalance: 0.01}}}, true},
		{"two cents left", &Schedule{Rows: []Row{{Period: 1, EndBalance: 0.02}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.schedule.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduleRounded(t *testing.T) {
	schedule, err := newTestGenerator().Generate(largeLoan, Plan{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rounded := schedule.Rounded()
	if rounded.Payment != 43391.16 {
		t.Errorf("rounded Payment = %v, want 43391.16", rounded.Payment)
	}
	if rounded.Periods() != schedule.Periods() {
		t.Fatalf("rounded schedule has %d periods, want %d", rounded.Periods(), schedule.Periods())
	}
	first := rounded.Rows[0]
	if first.Interest != 35416.67 {
		t.Errorf("rounded first interest = %v, want 35416.67", first.Interest)
	}
	if schedule.Rows[0].Interest == first.Interest {
		t.Errorf("Rounded() should not modify the original schedule")
	}

	var nilSchedule *Schedule
	if nilSchedule.Rounded() != nil {
		t.Errorf("Rounded() of nil should be nil")
	}
}

func TestLimits(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		term   int
		want   int
	}{
		{"default 2x term", DefaultLimits(), 240, 480},
		{"default ceiling", DefaultLimits(), 360, 600},
		{"multiplier disabled", Limits{MaxPeriods: 600}, 12, 600},
		{"custom ceiling", Limits{MaxPeriods: 100, TermMultiplier: 3}, 12, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.limits.Normalize().Cap(tt.term); got != tt.want {
				t.Errorf("Cap(%d) = %d, want %d", tt.term, got, tt.want)
			}
		})
	}

	normalized := Limits{TermMultiplier: -3}.Normalize()
	if normalized.MaxPeriods != 600 || normalized.TermMultiplier != 0 || normalized.Epsilon != 0.01 {
		t.Errorf("Normalize() = %+v", normalized)
	}
}
