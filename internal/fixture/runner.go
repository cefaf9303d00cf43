package fixture

import (
	"fmt"

	"abnf/grammar"
	"abnf/validate"
)

// Result is what Run observed for one scenario: whether validation matched
// its declared Expectation, and the error grammar.ParseGrammar or
// validate.Validate returned, if any (nil when the input matched).
type Result struct {
	Scenario *Scenario
	Passed   bool
	Err      error
}

// Run parses s.Grammar and validates s.Input against s.Entry, then compares
// the outcome against s.Expect. A malformed grammar is itself treated as a
// failed validation, since "the grammar text is wrong" and "the input
// doesn't match" are both ways a scenario can fail to pass.
func Run(s *Scenario) Result {
	g, err := grammar.ParseGrammar(s.Grammar, grammar.DefaultOptions())
	if err != nil {
		return Result{Scenario: s, Passed: s.ExpectationOf() == ExpectFail, Err: err}
	}

	_, err = validate.Validate(g, s.Input, s.Entry, validate.DefaultOptions())
	matched := err == nil
	want := s.ExpectationOf() == ExpectPass
	return Result{Scenario: s, Passed: matched == want, Err: err}
}

// RunAll runs every scenario in f and returns their results in order.
func RunAll(f *File) []Result {
	results := make([]Result, len(f.Scenarios))
	for i, s := range f.Scenarios {
		results[i] = Run(s)
	}
	return results
}

// RunText parses text as a fixture document and runs every scenario in it.
func RunText(text string) ([]Result, error) {
	f, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return RunAll(f), nil
}
