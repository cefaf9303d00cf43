package validate

import (
	"strconv"
	"strings"
)

// ValidationError reports that the input does not match at a specific
// code-point offset — typically the position of the deepest failed
// sub-match.
type ValidationError struct {
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	return "abnf: validation failed at position " + strconv.Itoa(e.Index) + ": " + e.Message
}

// ErrorCollection aggregates the ValidationErrors of several alternative
// paths that all failed. Construction (see collectAlternativeFailure) flattens
// any nested collections, so Errors is always a flat list of leaves.
type ErrorCollection struct {
	Errors []*ValidationError
}

func (e *ErrorCollection) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "abnf: all alternatives failed:\n  " + strings.Join(msgs, "\n  ")
}

// flattenFailures collects the leaf ValidationErrors behind err, expanding
// any ErrorCollection it finds. A nil err contributes nothing.
func flattenFailures(err error) []*ValidationError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationError:
		return []*ValidationError{e}
	case *ErrorCollection:
		return e.Errors
	default:
		return []*ValidationError{{Index: 0, Message: e.Error()}}
	}
}

// collectAlternativeFailure builds the error surfaced when every
// alternative of an Alternation fails: a bare ValidationError in the
// single-error case, an ErrorCollection otherwise.
func collectAlternativeFailure(errs []error) error {
	var leaves []*ValidationError
	for _, e := range errs {
		leaves = append(leaves, flattenFailures(e)...)
	}
	if len(leaves) == 1 {
		return leaves[0]
	}
	return &ErrorCollection{Errors: leaves}
}
