package fixture

import "testing"

const sampleDoc = `
scenario "single space passes" {
    grammar "single-space = %b100000\r\n"
    input   " "
    expect  pass
}

scenario "single space rejects two spaces" {
    grammar "single-space = %b100000\r\n"
    input   "  "
    expect  fail
}

scenario "two or three accepts the boundary" {
    grammar "two-or-three = 2*3%x20\r\n"
    input   "   "
    expect  pass
}

scenario "two or three rejects below minimum" {
    grammar "two-or-three = 2*3%x20\r\n"
    input   " "
    expect  fail
}

scenario "name part with explicit entry" {
    grammar "name-part = *(personal-part SP) last-name [SP suffix]\r\npersonal-part = first-name / initial\r\nfirst-name = 1*ALPHA\r\ninitial = ALPHA \".\"\r\nlast-name = 1*ALPHA\r\nsuffix = (\"Jr.\" / \"Sr.\" / 1*(\"I\" / \"V\" / \"X\"))\r\n"
    entry   "name-part"
    input   "J. Doe IX"
    expect  pass
}
`

func TestParseFixtureDocument(t *testing.T) {
	f, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Scenarios) != 5 {
		t.Fatalf("expected 5 scenarios, got %d", len(f.Scenarios))
	}
	if f.Scenarios[0].Name != "single space passes" {
		t.Errorf("first scenario name = %q", f.Scenarios[0].Name)
	}
	if f.Scenarios[4].Entry != "name-part" {
		t.Errorf("fifth scenario entry = %q, want name-part", f.Scenarios[4].Entry)
	}
}

func TestRunTextAllScenariosMatchTheirExpectation(t *testing.T) {
	results, err := RunText(sampleDoc)
	if err != nil {
		t.Fatalf("RunText: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("scenario %q did not match its declared expectation: %v", r.Scenario.Name, r.Err)
		}
	}
}

func TestRunDetectsAMisdeclaredExpectation(t *testing.T) {
	doc := `
scenario "wrongly declared" {
    grammar "x = %x20\r\n"
    input   "y"
    expect  pass
}
`
	f, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result := Run(f.Scenarios[0])
	if result.Passed {
		t.Fatal("expected the mismatched scenario to be reported as not passed")
	}
	if result.Err == nil {
		t.Fatal("expected the underlying validation error to be preserved")
	}
}

func TestMalformedGrammarCountsAsFailure(t *testing.T) {
	doc := `
scenario "broken grammar" {
    grammar "x === not abnf\r\n"
    input   "anything"
    expect  fail
}
`
	results, err := RunText(doc)
	if err != nil {
		t.Fatalf("RunText: %v", err)
	}
	if !results[0].Passed {
		t.Errorf("a malformed grammar declared as expect fail should count as passed, got err=%v", results[0].Err)
	}
}
