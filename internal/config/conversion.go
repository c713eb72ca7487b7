package config

import (
	"fmt"

	"github.com/iwvelando/loan-payoff/internal/calculator"
)

// Requests returns the configured loans as calculator requests, naming
// unnamed loans by position.
func (c *Configuration) Requests() []calculator.Request {
	requests := make([]calculator.Request, len(c.Loans))
	for i, loan := range c.Loans {
		if loan.Name == "" {
			loan.Name = fmt.Sprintf("Loan %d", i+1)
		}
		requests[i] = loan
	}
	return requests
}
