// Package corerules builds the RFC 5234 Appendix B core-rule table, the
// set of built-in productions (ALPHA, DIGIT, CRLF, ...) every ABNF grammar
// can reference without defining itself. The table is parameterized by
// encoding (which widens VCHAR) and by whether a bare LF/CR is accepted as
// a line ending (which relaxes CRLF).
package corerules

import "abnf/element"

// Encoding controls how wide VCHAR (and quoted-literal) code points may be.
type Encoding int

const (
	ASCII Encoding = iota
	Latin1
	Unicode
)

func (e Encoding) String() string {
	switch e {
	case Latin1:
		return "latin1"
	case Unicode:
		return "unicode"
	default:
		return "ascii"
	}
}

// Table returns the RFC 5234 Appendix B core rules, keyed by their
// canonical uppercase name. Lookup elsewhere in this module is always
// case-insensitive, so callers may merge this table under a user grammar
// with element.Grammar.WithFallback regardless of casing.
func Table(enc Encoding, allowUnixNewlines bool) map[string]element.Element {
	ruleRef := func(name string) element.Element { return element.RuleRef{Name: name} }
	lit := func(s string) element.Element { return element.LiteralString{Text: s, CaseSensitive: false} }
	numRange := func(lo, hi int32) element.Element {
		return element.NumericRange{Min: lo, Max: hi, RadixTag: element.RadixHexadecimal}
	}
	num := func(v int32) element.Element {
		return element.Numeric{Value: v, RadixTag: element.RadixHexadecimal}
	}

	crlf := element.Element(element.Concatenation{Children: []element.Element{ruleRef("CR"), ruleRef("LF")}})
	if allowUnixNewlines {
		crlf = element.Alternation{Children: []element.Element{
			element.Concatenation{Children: []element.Element{ruleRef("CR"), ruleRef("LF")}},
			ruleRef("LF"),
			ruleRef("CR"),
		}}
	}

	var vchar element.Element
	switch enc {
	case Latin1:
		vchar = element.Alternation{Children: []element.Element{numRange(0x21, 0x7E), numRange(0xA0, 0xFF)}}
	case Unicode:
		vchar = element.Alternation{Children: []element.Element{numRange(0x21, 0x7E), numRange(0xA0, 0x10FFFD)}}
	default:
		vchar = numRange(0x21, 0x7E)
	}

	hexdig := element.Alternation{Children: []element.Element{
		ruleRef("DIGIT"), lit("A"), lit("B"), lit("C"), lit("D"), lit("E"), lit("F"),
	}}

	wsp := element.Alternation{Children: []element.Element{ruleRef("SP"), ruleRef("HTAB")}}

	lwsp := element.Repetition{
		Child: element.Alternation{Children: []element.Element{
			ruleRef("WSP"),
			element.Concatenation{Children: []element.Element{ruleRef("CRLF"), ruleRef("WSP")}},
		}},
		AtLeast: 0,
		UpTo:    element.Unbounded,
	}

	return map[string]element.Element{
		"ALPHA":  element.Alternation{Children: []element.Element{numRange(0x41, 0x5A), numRange(0x61, 0x7A)}},
		"BIT":    element.Alternation{Children: []element.Element{lit("0"), lit("1")}},
		"CHAR":   numRange(0x01, 0x7F),
		"CR":     num(0x0D),
		"CRLF":   crlf,
		"CTL":    element.Alternation{Children: []element.Element{numRange(0x00, 0x1F), num(0x7F)}},
		"DIGIT":  numRange(0x30, 0x39),
		"DQUOTE": num(0x22),
		"HEXDIG": hexdig,
		"HTAB":   num(0x09),
		"LF":     num(0x0A),
		"LWSP":   lwsp,
		"OCTET":  numRange(0x00, 0xFF),
		"SP":     num(0x20),
		"VCHAR":  vchar,
		"WSP":    wsp,
	}
}
