// Package fixture is a declarative scenario DSL for exercising the grammar
// and validate packages end to end. A fixture file is a sequence of
// scenario blocks:
//
//	scenario "single space" {
//	    grammar "single-space = %b100000\r\n"
//	    entry   "single-space"
//	    input   " "
//	    expect  pass
//	}
//
// It exists so test data can be written once, in a readable form, and fed
// through either Go tests (via Run) or a future CLI subcommand, rather than
// re-encoding the same grammar/input/outcome triples as Go literals at every
// call site.
package fixture

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Expectation is the outcome a scenario declares for its input.
type Expectation int

const (
	ExpectPass Expectation = iota
	ExpectFail
)

// File is the root of a parsed fixture document: an ordered list of
// independent scenarios.
type File struct {
	Scenarios []*Scenario `parser:"@@*"`
}

// Scenario binds a grammar, an entry rule, an input string, and the
// pass/fail outcome Run should observe when validating input against entry.
type Scenario struct {
	Name    string `parser:"'scenario' @String '{'"`
	Grammar string `parser:"'grammar' @String"`
	Entry   string `parser:"('entry' @String)?"`
	Input   string `parser:"'input' @String"`
	Expect  string `parser:"'expect' @('pass'|'fail') '}'"`
}

// ExpectationOf reports s's declared outcome as an Expectation value.
func (s *Scenario) ExpectationOf() Expectation {
	if s.Expect == "fail" {
		return ExpectFail
	}
	return ExpectPass
}

var fixtureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[{}]`},
	{Name: "whitespace", Pattern: `\s+`},
})

var fixtureParser = participle.MustBuild[File](
	participle.Lexer(fixtureLexer),
	participle.Unquote("String"),
	participle.Elide("whitespace"),
)

// Parse reads a fixture document's text into its scenarios.
func Parse(text string) (*File, error) {
	return fixtureParser.ParseString("fixture", text)
}
