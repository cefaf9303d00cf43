package element

import "strings"

// Rule pairs a name with the element that defines it. Names are
// case-insensitive at lookup time but a Rule stores the casing of its
// first occurrence in the source text.
type Rule struct {
	Name string
	Body Element
}

// Grammar is an ordered list of rules. Order is first-appearance order in
// the source text; Validate's default entry rule is Rules()[0].
type Grammar struct {
	rules []Rule
	index map[string]int // lowercased name -> index into rules
}

// NewGrammar builds a Grammar from rules already in first-appearance order.
// Callers that fold repeated "=/" definitions (see the grammar package) must
// do so before calling NewGrammar; it does not merge duplicate names itself.
func NewGrammar(rules []Rule) Grammar {
	g := Grammar{
		rules: rules,
		index: make(map[string]int, len(rules)),
	}
	for i, r := range rules {
		g.index[strings.ToLower(r.Name)] = i
	}
	return g
}

// Rules returns the rules in first-appearance order.
func (g Grammar) Rules() []Rule { return g.rules }

// Lookup finds a rule's body by name, case-insensitively.
func (g Grammar) Lookup(name string) (Element, bool) {
	i, ok := g.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return g.rules[i].Body, true
}

// First returns the first rule in source order, if any.
func (g Grammar) First() (Rule, bool) {
	if len(g.rules) == 0 {
		return Rule{}, false
	}
	return g.rules[0], true
}

// Len reports the number of rules.
func (g Grammar) Len() int { return len(g.rules) }

// WithFallback returns a copy of g where any name present in fallback but
// absent from g is added, preserving g's rule order and appending fallback
// entries after it in map iteration order, which is not defined. Used to merge the
// core-rule table "under" user rules: a user rule of the same name always
// shadows the fallback definition.
func (g Grammar) WithFallback(fallback map[string]Element) Grammar {
	merged := make([]Rule, len(g.rules))
	copy(merged, g.rules)
	index := make(map[string]int, len(g.index))
	for k, v := range g.index {
		index[k] = v
	}
	for name, body := range fallback {
		key := strings.ToLower(name)
		if _, shadowed := index[key]; shadowed {
			continue
		}
		index[key] = len(merged)
		merged = append(merged, Rule{Name: name, Body: body})
	}
	return Grammar{rules: merged, index: index}
}
