// Package validate is the non-deterministic matcher: it unifies an
// element.Grammar's rules against an input string, backtracking across
// alternatives and variable-length repetitions, and returns a ParseTree
// annotated with matched spans or a structured error.
//
// The engine is purely functional: a given (grammar, input, entry,
// options) always produces the same tree, it holds no state beyond a
// single call's memo table, and independent calls may run concurrently.
package validate

import (
	"fmt"

	"abnf/corerules"
	"abnf/element"
)

// Validate matches input against the rule named entry in g (merged with
// the RFC 5234 core-rule table under opts). entry == "" selects the first
// rule in g. It returns a parse tree spanning the whole input (the first
// such outcome in recursion order when there are several), or an error per
// the taxonomy in this package.
func Validate(g element.Grammar, input string, entry string, opts Options) (ParseTree, error) {
	if entry == "" {
		first, ok := g.First()
		if !ok {
			return ParseTree{}, &ValidationError{Index: 0, Message: "grammar has no rules"}
		}
		entry = first.Name
	}

	merged := g.WithFallback(corerules.Table(opts.Encoding, opts.AllowUnixNewlines))
	e := &engine{
		grammar: merged,
		input:   []rune(input),
		memo:    make(map[memoKey]matchResult),
	}
	res := e.matchAll(element.RuleRef{Name: entry}, 0)
	if len(res.outcomes) == 0 {
		if res.err != nil {
			return ParseTree{}, res.err
		}
		return ParseTree{}, &ValidationError{Index: 0, Message: fmt.Sprintf("rule %q does not match", entry)}
	}

	full := len(e.input)
	for _, o := range res.outcomes {
		if o.end == full {
			return o.tree, nil
		}
	}
	maxEnd := 0
	for _, o := range res.outcomes {
		if o.end > maxEnd {
			maxEnd = o.end
		}
	}
	return ParseTree{}, &ValidationError{
		Index:   maxEnd,
		Message: "input was not fully consumed by rule " + entry,
	}
}

// outcome is one way an element matched starting at some position: it
// pins an end offset and the sub-tree produced.
type outcome struct {
	end  int
	tree ParseTree
}

// matchResult is the full outcome set for one (element, position) pair,
// or — when outcomes is empty — the error that explains why nothing
// matched.
type matchResult struct {
	outcomes []outcome
	err      error
}

type memoKey struct {
	pos int
	sig string
}

type engine struct {
	grammar element.Grammar
	input   []rune
	memo    map[memoKey]matchResult
}

// matchAll returns every (end, tree) outcome for el starting at pos. It is
// the single recursion point for every Element variant and is memoized on
// (el's structural signature, pos) within this call, per §4.3's
// recommendation — memoization only prunes repeated work, it never changes
// which outcomes are produced.
func (e *engine) matchAll(el element.Element, pos int) matchResult {
	key := memoKey{pos: pos, sig: signature(el)}
	if cached, ok := e.memo[key]; ok {
		return cached
	}
	// A placeholder breaks true left recursion (a rule that reaches
	// itself at the same position through only rule-refs) as a failure
	// rather than infinite recursion; spec.md does not require left
	// recursion to be supported.
	e.memo[key] = matchResult{err: &ValidationError{Index: pos, Message: "left-recursive rule detected"}}

	var res matchResult
	switch el := el.(type) {
	case element.RuleRef:
		res = e.matchRuleRef(el, pos)
	case element.Alternation:
		res = e.matchAlternation(el, pos)
	case element.Concatenation:
		res = e.matchConcatenation(el, pos)
	case element.Repetition:
		res = e.matchRepetition(el, pos)
	case element.Optional:
		res = e.matchOptional(el, pos)
	case element.LiteralString:
		res = e.matchLiteral(el, pos)
	case element.Numeric:
		res = e.matchNumeric(el, pos)
	case element.NumericSeries:
		res = e.matchNumericSeries(el, pos)
	case element.NumericRange:
		res = e.matchNumericRange(el, pos)
	default:
		res = matchResult{err: &ValidationError{Index: pos, Message: fmt.Sprintf("unknown element type %T", el)}}
	}
	e.memo[key] = res
	return res
}

func signature(el element.Element) string {
	return fmt.Sprintf("%T|%s", el, el.String())
}

func (e *engine) matchRuleRef(ref element.RuleRef, pos int) matchResult {
	body, ok := e.grammar.Lookup(ref.Name)
	if !ok {
		return matchResult{err: &ValidationError{Index: pos, Message: "rule \"" + ref.Name + "\" is not defined"}}
	}
	sub := e.matchAll(body, pos)
	if len(sub.outcomes) == 0 {
		return matchResult{err: sub.err}
	}
	outcomes := make([]outcome, len(sub.outcomes))
	for i, o := range sub.outcomes {
		outcomes[i] = outcome{end: o.end, tree: e.wrap(ref, pos, o.end, []ParseTree{o.tree})}
	}
	return matchResult{outcomes: outcomes}
}

func (e *engine) matchAlternation(alt element.Alternation, pos int) matchResult {
	var outcomes []outcome
	var failures []error
	for _, child := range alt.Children {
		sub := e.matchAll(child, pos)
		if len(sub.outcomes) == 0 {
			failures = append(failures, sub.err)
			continue
		}
		for _, o := range sub.outcomes {
			outcomes = append(outcomes, outcome{end: o.end, tree: e.wrap(alt, pos, o.end, []ParseTree{o.tree})})
		}
	}
	if len(outcomes) == 0 {
		return matchResult{err: collectAlternativeFailure(failures)}
	}
	return matchResult{outcomes: outcomes}
}

type concatPartial struct {
	end   int
	trees []ParseTree
}

func (e *engine) matchConcatenation(cat element.Concatenation, pos int) matchResult {
	if len(cat.Children) == 0 {
		return matchResult{outcomes: []outcome{{end: pos, tree: e.wrap(cat, pos, pos, nil)}}}
	}
	partials := []concatPartial{{end: pos, trees: nil}}
	for _, child := range cat.Children {
		var next []concatPartial
		var firstFail error
		sawFail := false
		for _, part := range partials {
			sub := e.matchAll(child, part.end)
			if len(sub.outcomes) == 0 {
				if !sawFail {
					firstFail = sub.err
					sawFail = true
				}
				continue
			}
			for _, o := range sub.outcomes {
				trees := make([]ParseTree, len(part.trees)+1)
				copy(trees, part.trees)
				trees[len(part.trees)] = o.tree
				next = append(next, concatPartial{end: o.end, trees: trees})
			}
		}
		if len(next) == 0 {
			return matchResult{err: firstFail}
		}
		partials = next
	}
	outcomes := make([]outcome, len(partials))
	for i, part := range partials {
		outcomes[i] = outcome{end: part.end, tree: e.wrap(cat, pos, part.end, part.trees)}
	}
	return matchResult{outcomes: outcomes}
}

type repState struct {
	end      int
	trees    []ParseTree
	lastZero bool
}

func (e *engine) matchRepetition(rep element.Repetition, pos int) matchResult {
	var outcomes []outcome
	if rep.AtLeast == 0 {
		outcomes = append(outcomes, outcome{end: pos, tree: e.wrap(rep, pos, pos, nil)})
	}

	frontier := []repState{{end: pos, trees: nil, lastZero: false}}
	count := 0
	var firstExtendErr error
	for rep.UpTo == element.Unbounded || count < rep.UpTo {
		var next []repState
		sawFail := false
		for _, st := range frontier {
			sub := e.matchAll(rep.Child, st.end)
			if len(sub.outcomes) == 0 {
				if !sawFail {
					firstExtendErr = sub.err
					sawFail = true
				}
				continue
			}
			for _, o := range sub.outcomes {
				width := o.end - st.end
				if width == 0 && st.lastZero {
					continue // zero-width repetition guard: no two in a row
				}
				trees := make([]ParseTree, len(st.trees)+1)
				copy(trees, st.trees)
				trees[len(st.trees)] = o.tree
				next = append(next, repState{end: o.end, trees: trees, lastZero: width == 0})
			}
		}
		count++
		if len(next) == 0 {
			break
		}
		if count >= rep.AtLeast {
			for _, st := range next {
				outcomes = append(outcomes, outcome{end: st.end, tree: e.wrap(rep, pos, st.end, st.trees)})
			}
		}
		frontier = next
	}

	if len(outcomes) == 0 {
		if firstExtendErr != nil {
			return matchResult{err: firstExtendErr}
		}
		return matchResult{err: &ValidationError{Index: pos, Message: "repetition could not reach its minimum count"}}
	}
	return matchResult{outcomes: outcomes}
}

func (e *engine) matchOptional(opt element.Optional, pos int) matchResult {
	outcomes := []outcome{{end: pos, tree: e.wrap(opt, pos, pos, nil)}}
	sub := e.matchAll(opt.Child, pos)
	for _, o := range sub.outcomes {
		outcomes = append(outcomes, outcome{end: o.end, tree: e.wrap(opt, pos, o.end, []ParseTree{o.tree})})
	}
	return matchResult{outcomes: outcomes}
}

func (e *engine) matchLiteral(lit element.LiteralString, pos int) matchResult {
	text := []rune(lit.Text)
	if pos+len(text) > len(e.input) {
		return matchResult{err: &ValidationError{Index: pos, Message: fmt.Sprintf("expected %q, ran out of input", lit.Text)}}
	}
	for i, want := range text {
		got := e.input[pos+i]
		if lit.CaseSensitive {
			if got != want {
				return matchResult{err: literalMismatch(pos, lit.Text)}
			}
		} else if foldASCII(got) != foldASCII(want) {
			return matchResult{err: literalMismatch(pos, lit.Text)}
		}
	}
	end := pos + len(text)
	return matchResult{outcomes: []outcome{{end: end, tree: e.leaf(lit, pos, end)}}}
}

func literalMismatch(pos int, text string) error {
	return &ValidationError{Index: pos, Message: fmt.Sprintf("expected %q", text)}
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func (e *engine) matchNumeric(n element.Numeric, pos int) matchResult {
	if pos >= len(e.input) {
		return matchResult{err: &ValidationError{Index: pos, Message: "ran out of input"}}
	}
	if e.input[pos] != n.Value {
		return matchResult{err: &ValidationError{Index: pos, Message: fmt.Sprintf("expected code point U+%04X", n.Value)}}
	}
	return matchResult{outcomes: []outcome{{end: pos + 1, tree: e.leaf(n, pos, pos+1)}}}
}

func (e *engine) matchNumericSeries(n element.NumericSeries, pos int) matchResult {
	if pos+len(n.Values) > len(e.input) {
		return matchResult{err: &ValidationError{Index: pos, Message: "ran out of input"}}
	}
	for i, want := range n.Values {
		if e.input[pos+i] != want {
			return matchResult{err: &ValidationError{Index: pos, Message: fmt.Sprintf("expected code point U+%04X", want)}}
		}
	}
	end := pos + len(n.Values)
	return matchResult{outcomes: []outcome{{end: end, tree: e.leaf(n, pos, end)}}}
}

func (e *engine) matchNumericRange(n element.NumericRange, pos int) matchResult {
	if pos >= len(e.input) {
		return matchResult{err: &ValidationError{Index: pos, Message: "ran out of input"}}
	}
	v := e.input[pos]
	if v < n.Min || v > n.Max {
		return matchResult{err: &ValidationError{Index: pos, Message: fmt.Sprintf("expected code point in U+%04X-U+%04X", n.Min, n.Max)}}
	}
	return matchResult{outcomes: []outcome{{end: pos + 1, tree: e.leaf(n, pos, pos+1)}}}
}

func (e *engine) wrap(el element.Element, start, end int, children []ParseTree) ParseTree {
	return ParseTree{
		element:     el,
		start:       start,
		end:         end,
		children:    children,
		matchedText: string(e.input[start:end]),
	}
}

func (e *engine) leaf(el element.Element, start, end int) ParseTree {
	return ParseTree{
		element:     el,
		start:       start,
		end:         end,
		matchedText: string(e.input[start:end]),
	}
}
