package validate

import "abnf/element"

// ParseTree is the hierarchical match record returned by Validate. Start
// and End are code-point offsets into the input; MatchedText is the exact
// substring input[Start:End). ParseTree is immutable: all fields are
// reached through read-only accessors, never mutated after construction.
type ParseTree struct {
	element     element.Element
	start, end  int
	children    []ParseTree
	matchedText string
}

// Element is the grammar element this node matched.
func (t ParseTree) Element() element.Element { return t.element }

// Start is the code-point offset where this node's match begins.
func (t ParseTree) Start() int { return t.start }

// End is the code-point offset where this node's match ends (exclusive).
func (t ParseTree) End() int { return t.end }

// MatchedText is the input substring [Start, End).
func (t ParseTree) MatchedText() string { return t.matchedText }

// Children are this node's sub-matches, in match order. Terminal variants
// (LiteralString, Numeric, NumericSeries, NumericRange) always have none.
func (t ParseTree) Children() []ParseTree { return t.children }
