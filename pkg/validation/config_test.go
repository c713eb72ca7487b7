package validation

import (
	"strings"
	"testing"
)

func TestValidateLoan(t *testing.T) {
	tests := []struct {
		name         string
		loan         LoanInfo
		expectWarn   int
		expectSubstr string
	}{
		{
			name:       "Typical loan",
			loan:       LoanInfo{Name: "Home", Principal: 300000, InterestRate: 6.5, Term: 360},
			expectWarn: 0,
		},
		{
			name:         "Rate above fifty percent",
			loan:         LoanInfo{Name: "Payday", Principal: 1000, InterestRate: 75, Term: 12},
			expectWarn:   1,
			expectSubstr: "unusually high interest rate",
		},
		{
			name:         "Rate given as a fraction",
			loan:         LoanInfo{Name: "Fraction", Principal: 1000, InterestRate: 0.085, Term: 12},
			expectWarn:   1,
			expectSubstr: "not fractions",
		},
		{
			name:       "Zero rate is fine",
			loan:       LoanInfo{Name: "Family", Principal: 1000, InterestRate: 0, Term: 12},
			expectWarn: 0,
		},
		{
			name:         "Term beyond fifty years",
			loan:         LoanInfo{Name: "Century", Principal: 1000, InterestRate: 5, Term: 720},
			expectWarn:   1,
			expectSubstr: "beyond 50 years",
		},
		{
			name:         "Lump sum after the term",
			loan:         LoanInfo{Name: "Late", Principal: 100000, InterestRate: 5, Term: 60, LumpSum: 1000, LumpSumMonth: 72},
			expectWarn:   1,
			expectSubstr: "after the 60 month term",
		},
		{
			name:         "Lump sum covers principal",
			loan:         LoanInfo{Name: "Windfall", Principal: 1000, InterestRate: 5, Term: 60, LumpSum: 5000, LumpSumMonth: 2},
			expectWarn:   1,
			expectSubstr: "covers the whole principal",
		},
		{
			name:         "Target longer than term",
			loan:         LoanInfo{Name: "Relaxed", Principal: 1000, InterestRate: 5, Term: 60, TargetMonths: 120},
			expectWarn:   1,
			expectSubstr: "no extra payment is needed",
		},
		{
			name:         "Both resumption inputs",
			loan:         LoanInfo{Name: "Both", Principal: 1000, InterestRate: 5, Term: 60, ElapsedMonths: 12, CurrentBalance: 800},
			expectWarn:   2,
			expectSubstr: "only one may be used",
		},
		{
			name:         "Balance estimate",
			loan:         LoanInfo{Name: "Existing", Principal: 1000, InterestRate: 5, Term: 60, CurrentBalance: 800},
			expectWarn:   1,
			expectSubstr: "off by one month",
		},
		{
			name:         "Extra payments outlast term",
			loan:         LoanInfo{Name: "Eager", Principal: 1000, InterestRate: 5, Term: 60, ExtraMonths: 61},
			expectWarn:   1,
			expectSubstr: "longer than the 60 month term",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateLoan(tt.loan)

			if len(warnings) != tt.expectWarn {
				t.Fatalf("ValidateLoan() returned %d warnings, expected %d: %v", len(warnings), tt.expectWarn, warnings)
			}

			if tt.expectSubstr != "" && !strings.Contains(strings.Join(warnings, "\n"), tt.expectSubstr) {
				t.Errorf("ValidateLoan() warnings %v do not mention %q", warnings, tt.expectSubstr)
			}

			for _, warning := range warnings {
				if !strings.Contains(warning, tt.loan.Name) {
					t.Errorf("warning %q does not name the loan", warning)
				}
			}
		})
	}
}

func TestConfigValidatorValidateAll(t *testing.T) {
	validator := &ConfigValidator{
		Loans: []LoanInfo{
			{Name: "Home", Principal: 300000, InterestRate: 6.5, Term: 360},
			{Name: "Home", Principal: 20000, InterestRate: 4, Term: 60},
			{Name: "Payday", Principal: 1000, InterestRate: 75, Term: 12},
			{Principal: 1000, InterestRate: 5, Term: 12},
		},
	}

	warnings := validator.ValidateAll()
	if len(warnings) != 2 {
		t.Fatalf("ValidateAll() returned %d warnings, expected 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "more than once") {
		t.Errorf("expected duplicate name warning first, got %q", warnings[0])
	}
}

func TestConfigValidatorNoLoans(t *testing.T) {
	validator := &ConfigValidator{}

	warnings := validator.ValidateAll()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "No loans configured") {
		t.Errorf("ValidateAll() = %v, expected a single no-loans warning", warnings)
	}
}
