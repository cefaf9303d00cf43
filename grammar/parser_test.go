package grammar

import (
	"testing"

	"abnf/element"
)

func parseOrFatal(t *testing.T, text string) element.Grammar {
	t.Helper()
	g, err := ParseGrammar(text, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseGrammar(%q) failed: %v", text, err)
	}
	return g
}

func TestOrderPreservation(t *testing.T) {
	g := parseOrFatal(t, "first = \"a\"\r\nsecond = \"b\"\r\nthird = \"c\"\r\n")
	rules := g.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	for i, want := range []string{"first", "second", "third"} {
		if rules[i].Name != want {
			t.Errorf("rule %d = %q, want %q", i, rules[i].Name, want)
		}
	}
}

func TestDefinedAsFold(t *testing.T) {
	g := parseOrFatal(t, "A = X\r\nA =/ Y\r\n")
	body, ok := g.Lookup("A")
	if !ok {
		t.Fatal("rule A missing")
	}
	want := element.Alternation{Children: []element.Element{
		element.RuleRef{Name: "X"}, element.RuleRef{Name: "Y"},
	}}
	if !body.Equal(want) {
		t.Errorf("A = %s, want %s", body, want)
	}
}

func TestDefinedAsFoldFlattensExistingAlternation(t *testing.T) {
	g := parseOrFatal(t, "A = X / Y\r\nA =/ Z\r\n")
	body, _ := g.Lookup("A")
	want := element.Alternation{Children: []element.Element{
		element.RuleRef{Name: "X"}, element.RuleRef{Name: "Y"}, element.RuleRef{Name: "Z"},
	}}
	if !body.Equal(want) {
		t.Errorf("A = %s, want %s", body, want)
	}
}

func TestCanonicalizationNoSingletonGroups(t *testing.T) {
	g := parseOrFatal(t, "A = (B)\r\n")
	body, _ := g.Lookup("A")
	if !body.Equal(element.RuleRef{Name: "B"}) {
		t.Errorf("grouping a single element must unwrap, got %s", body)
	}
}

func TestRepetitionForms(t *testing.T) {
	cases := map[string]element.Element{
		`two-or-three = 2*3%x20` + "\r\n": element.Repetition{Child: element.Numeric{Value: 0x20, RadixTag: element.RadixHexadecimal}, AtLeast: 2, UpTo: 3},
		`any-space = *%x20` + "\r\n":      element.Repetition{Child: element.Numeric{Value: 0x20, RadixTag: element.RadixHexadecimal}, AtLeast: 0, UpTo: element.Unbounded},
		`exact = 4DIGIT` + "\r\n":         element.Repetition{Child: element.RuleRef{Name: "DIGIT"}, AtLeast: 4, UpTo: 4},
		`atleast = 2*DIGIT` + "\r\n":      element.Repetition{Child: element.RuleRef{Name: "DIGIT"}, AtLeast: 2, UpTo: element.Unbounded},
		`upto = *3DIGIT` + "\r\n":         element.Repetition{Child: element.RuleRef{Name: "DIGIT"}, AtLeast: 0, UpTo: 3},
	}
	for text, want := range cases {
		g := parseOrFatal(t, text)
		first, _ := g.First()
		if !first.Body.Equal(want) {
			t.Errorf("%q => %s, want %s", text, first.Body, want)
		}
	}
}

func TestNumericForms(t *testing.T) {
	g := parseOrFatal(t, "double-space = %d32.32\r\n")
	first, _ := g.First()
	want := element.NumericSeries{Values: []int32{32, 32}, RadixTag: element.RadixDecimal}
	if !first.Body.Equal(want) {
		t.Errorf("got %s, want %s", first.Body, want)
	}
}

func TestLiteralCaseSensitivity(t *testing.T) {
	g := parseOrFatal(t, `hello = %s"hello"` + "\r\n")
	first, _ := g.First()
	if !first.Body.Equal(element.LiteralString{Text: "hello", CaseSensitive: true}) {
		t.Errorf("got %s", first.Body)
	}
}

func TestEmptyLiteralIsEmptyConcatenation(t *testing.T) {
	g := parseOrFatal(t, `epsilon = ""` + "\r\n")
	first, _ := g.First()
	if !first.Body.Equal(element.Concatenation{}) {
		t.Errorf("empty literal should parse as the empty concatenation, got %s", first.Body)
	}
}

func TestMultilineContinuation(t *testing.T) {
	text := "name-part = *(personal-part SP)\r\n" +
		"            last-name\r\n" +
		"            [SP suffix]\r\n" +
		"personal-part = first-name / initial\r\n"
	g := parseOrFatal(t, text)
	if g.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", g.Len())
	}
	if _, ok := g.Lookup("name-part"); !ok {
		t.Fatalf("rule name-part missing")
	}
}

func TestAllowUnixNewlinesFalseRejectsBareLF(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowUnixNewlines = false
	_, err := ParseGrammar("a = \"x\"\n", opts)
	if err == nil {
		t.Fatal("expected a ParserError rejecting the bare LF")
	}
}

func TestDuplicateRuleNameWithoutSlashIsAnError(t *testing.T) {
	_, err := ParseGrammar("A = \"x\"\r\nA = \"y\"\r\n", DefaultOptions())
	if err == nil {
		t.Fatal("expected a ParserError for a duplicate '=' definition")
	}
	if _, ok := err.(*ParserError); !ok {
		t.Fatalf("expected *ParserError, got %T", err)
	}
}
