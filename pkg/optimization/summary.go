// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a target payoff solve.
type Summary struct {
	Field           string   `json:"field"`
	TargetMonths    int      `json:"targetMonths"`
	BaseMonths      int      `json:"baseMonths"`
	Value           float64  `json:"value"`
	ResultingMonths int      `json:"resultingMonths"`
	InterestSaved   float64  `json:"interestSaved"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}
