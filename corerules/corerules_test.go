package corerules

import "testing"

var standardNames = []string{
	"ALPHA", "BIT", "CHAR", "CR", "CRLF", "CTL", "DIGIT", "DQUOTE",
	"HEXDIG", "HTAB", "LF", "LWSP", "OCTET", "SP", "VCHAR", "WSP",
}

func TestTableHasAllStandardRules(t *testing.T) {
	table := Table(ASCII, true)
	for _, name := range standardNames {
		if _, ok := table[name]; !ok {
			t.Errorf("missing core rule %s", name)
		}
	}
}

func TestCRLFRelaxationTogglesShape(t *testing.T) {
	strict := Table(ASCII, false)["CRLF"]
	relaxed := Table(ASCII, true)["CRLF"]
	if strict.Equal(relaxed) {
		t.Fatalf("CRLF should differ between strict and unix-newline-relaxed tables")
	}
}

func TestVCHARWidensByEncoding(t *testing.T) {
	ascii := Table(ASCII, true)["VCHAR"]
	latin1 := Table(Latin1, true)["VCHAR"]
	unicode := Table(Unicode, true)["VCHAR"]
	if ascii.Equal(latin1) || latin1.Equal(unicode) || ascii.Equal(unicode) {
		t.Fatalf("VCHAR must differ across ASCII/Latin1/Unicode encodings")
	}
}
