// Package grammar is a hand-written recursive-descent parser for RFC 5234
// / RFC 7405 ABNF grammar text. It is the one place in this module that
// makes grammar-shape decisions (alternation, "=/" folding, canonical
// single-child unwrapping); tokenizing is delegated to internal/abnflex,
// a mechanical lexer that carries no such decisions.
package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"abnf/corerules"
	"abnf/element"
	"abnf/internal/abnflex"
)

var errOutOfRange = errors.New("code point out of range [0, 0x10FFFF]")

// ParseGrammar parses ABNF grammar text into an ordered list of rules.
// Rule order is first-appearance order in text; repeated "=/" definitions
// are folded into a single alternation on the rule's first occurrence.
func ParseGrammar(text string, opts Options) (element.Grammar, error) {
	lex, err := abnflex.New(text)
	if err != nil {
		return element.Grammar{}, &ParserError{Construct: "grammar", Offset: 0, Message: err.Error()}
	}
	p := &parser{lex: lex, opts: opts, byName: make(map[string]int)}
	rules, err := p.parseRuleList()
	if err != nil {
		return element.Grammar{}, err
	}
	return element.NewGrammar(rules), nil
}

type parser struct {
	lex    *abnflex.Lexer
	opts   Options
	buf    []abnflex.Token
	rules  []element.Rule
	byName map[string]int // lowercased rule name -> index into rules
}

func (p *parser) peek(n int) abnflex.Token {
	for len(p.buf) <= n {
		tok, err := p.lex.Next()
		if err != nil {
			// The lexer itself never returns an error for well-formed
			// UTF-8 text with our token set; a token-level failure means
			// no rule matched at this position.
			p.buf = append(p.buf, abnflex.Token{Kind: abnflex.Illegal, Text: err.Error()})
			continue
		}
		p.buf = append(p.buf, tok)
	}
	return p.buf[n]
}

func (p *parser) advance() abnflex.Token {
	t := p.peek(0)
	p.buf = p.buf[1:]
	return t
}

func (p *parser) errorf(construct, format string, args ...interface{}) *ParserError {
	return &ParserError{Construct: construct, Offset: p.peek(0).Offset, Message: fmt.Sprintf(format, args...)}
}

// consumeNewline advances past a line-ending token, rejecting a bare
// single-character line ending when AllowUnixNewlines is false.
func (p *parser) consumeNewline() (abnflex.Token, error) {
	tok := p.advance()
	if tok.Kind != abnflex.Newline {
		return tok, p.errorf("line ending", "expected line ending, got %s", tok.Kind)
	}
	if len(tok.Text) == 1 && !p.opts.AllowUnixNewlines {
		return tok, &ParserError{Construct: "line ending", Offset: tok.Offset, Message: "bare CR or LF is not allowed (AllowUnixNewlines is false)"}
	}
	return tok, nil
}

func (p *parser) parseRuleList() ([]element.Rule, error) {
	for {
		for p.peek(0).Kind == abnflex.Newline {
			if _, err := p.consumeNewline(); err != nil {
				return nil, err
			}
		}
		if p.peek(0).Kind == abnflex.EOF {
			break
		}
		if err := p.parseRule(); err != nil {
			return nil, err
		}
	}
	return p.rules, nil
}

func (p *parser) parseRule() error {
	if p.peek(0).Kind != abnflex.RuleName {
		return p.errorf("rule", "expected a rule name, got %s", p.peek(0).Kind)
	}
	if p.peek(1).Kind != abnflex.DefinedAs {
		return p.errorf("rule", "expected '=' or '=/' after rule name %q", p.peek(0).Text)
	}
	nameTok := p.advance()
	name := nameTok.Text
	definedAs := p.advance().Text

	body, err := p.parseAlternation()
	if err != nil {
		return err
	}
	if err := p.finishLine(); err != nil {
		return err
	}

	key := strings.ToLower(name)
	if definedAs == "=/" {
		idx, ok := p.byName[key]
		if !ok {
			return &ParserError{Construct: "rule", Offset: nameTok.Offset, Message: "'=/' used before rule \"" + name + "\" has a prior definition"}
		}
		p.rules[idx].Body = foldAlternation(p.rules[idx].Body, body)
		return nil
	}
	if _, dup := p.byName[key]; dup {
		return &ParserError{Construct: "rule", Offset: nameTok.Offset, Message: "rule \"" + name + "\" is already defined; use '=/' to extend it"}
	}
	p.byName[key] = len(p.rules)
	p.rules = append(p.rules, element.Rule{Name: name, Body: body})
	return nil
}

// finishLine consumes the rule's terminating c-nl, or accepts EOF in its
// place when AllowOmittingFinalNewline permits it.
func (p *parser) finishLine() error {
	switch p.peek(0).Kind {
	case abnflex.Newline:
		_, err := p.consumeNewline()
		return err
	case abnflex.EOF:
		if !p.opts.AllowOmittingFinalNewline {
			return p.errorf("line ending", "grammar text must end with a line ending")
		}
		return nil
	default:
		return p.errorf("rule body", "unexpected %s after rule body", p.peek(0).Kind)
	}
}

// foldAlternation implements the "=/" combination rule: append newBody as
// an additional alternative of existing, flattening when existing is
// already an Alternation.
func foldAlternation(existing, newBody element.Element) element.Element {
	if alt, ok := existing.(element.Alternation); ok {
		children := make([]element.Element, len(alt.Children)+1)
		copy(children, alt.Children)
		children[len(alt.Children)] = newBody
		return element.Alternation{Children: children}
	}
	return element.Alternation{Children: []element.Element{existing, newBody}}
}

// maybeSkipContinuation consumes a single Newline token if it is acting as
// a c-wsp line continuation rather than ending the current rule. It
// returns false (and consumes nothing) when the newline should instead be
// left for the caller that decides rule termination.
func (p *parser) maybeSkipContinuation() (bool, error) {
	if p.peek(0).Kind != abnflex.Newline {
		return false, nil
	}
	next := p.peek(1).Kind
	if next == abnflex.EOF || next == abnflex.Newline {
		return false, nil
	}
	if next == abnflex.RuleName && p.peek(2).Kind == abnflex.DefinedAs {
		return false, nil
	}
	if _, err := p.consumeNewline(); err != nil {
		return false, err
	}
	return true, nil
}

func canStartElement(k abnflex.Kind) bool {
	switch k {
	case abnflex.RuleName, abnflex.LParen, abnflex.LBracket,
		abnflex.QuotedDefault, abnflex.QuotedCS, abnflex.QuotedCI,
		abnflex.NumBin, abnflex.NumDec, abnflex.NumHex,
		abnflex.Digits, abnflex.Star:
		return true
	default:
		return false
	}
}

// parseAlternation parses alternation = concatenation *(*c-wsp "/" *c-wsp
// concatenation), unwrapping to its single child when there is exactly one
// alternative (canonicalization).
func (p *parser) parseAlternation() (element.Element, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	children := []element.Element{first}
	for {
		for {
			skipped, err := p.maybeSkipContinuation()
			if err != nil {
				return nil, err
			}
			if !skipped {
				break
			}
		}
		if p.peek(0).Kind != abnflex.Slash {
			break
		}
		p.advance()
		for {
			skipped, err := p.maybeSkipContinuation()
			if err != nil {
				return nil, err
			}
			if !skipped {
				break
			}
		}
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return element.Alternation{Children: children}, nil
}

// parseConcatenation parses concatenation = repetition *(1*c-wsp
// repetition), unwrapping to its single child when there is exactly one
// repetition (canonicalization). The empty concatenation (zero children)
// is produced only by an empty quoted literal (see parseCoreElement).
func (p *parser) parseConcatenation() (element.Element, error) {
	first, err := p.parseRepetitionElement()
	if err != nil {
		return nil, err
	}
	children := []element.Element{first}
	for {
		for {
			skipped, err := p.maybeSkipContinuation()
			if err != nil {
				return nil, err
			}
			if !skipped {
				break
			}
		}
		if !canStartElement(p.peek(0).Kind) {
			break
		}
		next, err := p.parseRepetitionElement()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return element.Concatenation{Children: children}, nil
}

// parseRepetitionElement parses repetition = [repeat] element.
func (p *parser) parseRepetitionElement() (element.Element, error) {
	atLeast, upTo, hasRepeat, err := p.tryParseRepeat()
	if err != nil {
		return nil, err
	}
	core, err := p.parseCoreElement()
	if err != nil {
		return nil, err
	}
	if !hasRepeat {
		return core, nil
	}
	if upTo != element.Unbounded && atLeast > upTo {
		return nil, &ParserError{Construct: "repetition", Offset: p.peek(0).Offset, Message: "repetition lower bound exceeds upper bound"}
	}
	return element.Repetition{Child: core, AtLeast: atLeast, UpTo: upTo}, nil
}

// tryParseRepeat parses repeat = 1*DIGIT / (*DIGIT "*" *DIGIT).
func (p *parser) tryParseRepeat() (atLeast, upTo int, ok bool, err error) {
	if p.peek(0).Kind == abnflex.Digits && p.peek(1).Kind == abnflex.Star {
		n, perr := strconv.Atoi(p.advance().Text)
		if perr != nil {
			return 0, 0, false, p.errorf("repetition", "invalid repeat count: %v", perr)
		}
		p.advance() // '*'
		if p.peek(0).Kind == abnflex.Digits {
			m, perr := strconv.Atoi(p.advance().Text)
			if perr != nil {
				return 0, 0, false, p.errorf("repetition", "invalid repeat count: %v", perr)
			}
			return n, m, true, nil
		}
		return n, element.Unbounded, true, nil
	}
	if p.peek(0).Kind == abnflex.Digits {
		n, perr := strconv.Atoi(p.advance().Text)
		if perr != nil {
			return 0, 0, false, p.errorf("repetition", "invalid repeat count: %v", perr)
		}
		return n, n, true, nil
	}
	if p.peek(0).Kind == abnflex.Star {
		p.advance()
		if p.peek(0).Kind == abnflex.Digits {
			m, perr := strconv.Atoi(p.advance().Text)
			if perr != nil {
				return 0, 0, false, p.errorf("repetition", "invalid repeat count: %v", perr)
			}
			return 0, m, true, nil
		}
		return 0, element.Unbounded, true, nil
	}
	return 0, 0, false, nil
}

func (p *parser) parseCoreElement() (element.Element, error) {
	tok := p.peek(0)
	switch tok.Kind {
	case abnflex.RuleName:
		p.advance()
		return element.RuleRef{Name: tok.Text}, nil
	case abnflex.LParen:
		p.advance()
		inner, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if p.peek(0).Kind != abnflex.RParen {
			return nil, p.errorf("group", "expected ')', got %s", p.peek(0).Kind)
		}
		p.advance()
		return inner, nil
	case abnflex.LBracket:
		p.advance()
		inner, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if p.peek(0).Kind != abnflex.RBracket {
			return nil, p.errorf("optional group", "expected ']', got %s", p.peek(0).Kind)
		}
		p.advance()
		return element.Optional{Child: inner}, nil
	case abnflex.QuotedDefault:
		p.advance()
		return p.quotedLiteral(tok, tok.Text[1:len(tok.Text)-1], false)
	case abnflex.QuotedCS:
		p.advance()
		return p.quotedLiteral(tok, tok.Text[3:len(tok.Text)-1], true)
	case abnflex.QuotedCI:
		p.advance()
		return p.quotedLiteral(tok, tok.Text[3:len(tok.Text)-1], false)
	case abnflex.NumBin:
		p.advance()
		return p.numericLiteral(tok, tok.Text[2:], 2, element.RadixBinary)
	case abnflex.NumDec:
		p.advance()
		return p.numericLiteral(tok, tok.Text[2:], 10, element.RadixDecimal)
	case abnflex.NumHex:
		p.advance()
		return p.numericLiteral(tok, tok.Text[2:], 16, element.RadixHexadecimal)
	default:
		return nil, p.errorf("element", "expected a rule reference, group, literal, or numeric value, got %s", tok.Kind)
	}
}

// quotedLiteral validates a literal's content against the configured
// encoding and builds the element. An empty literal (explicitly legal in
// RFC 5234's own char-val production) is represented as the empty
// Concatenation rather than a zero-length LiteralString, since §3 requires
// LiteralString.Text to be non-empty.
func (p *parser) quotedLiteral(tok abnflex.Token, text string, caseSensitive bool) (element.Element, error) {
	if text == "" {
		return element.Concatenation{}, nil
	}
	for _, r := range text {
		if !literalRuneAllowed(r, p.opts.Encoding) {
			return nil, &ParserError{Construct: "quoted literal", Offset: tok.Offset, Message: "code point U+" + strconv.FormatInt(int64(r), 16) + " is not permitted inside a literal under this encoding"}
		}
	}
	return element.LiteralString{Text: text, CaseSensitive: caseSensitive}, nil
}

func literalRuneAllowed(r rune, enc corerules.Encoding) bool {
	switch {
	case r >= 0x20 && r <= 0x21:
		return true
	case r >= 0x23 && r <= 0x7E:
		return true
	}
	switch enc {
	case corerules.Latin1:
		return r >= 0xA0 && r <= 0xFF
	case corerules.Unicode:
		return r >= 0xA0 && r <= 0x10FFFD
	default:
		return false
	}
}

func (p *parser) numericLiteral(tok abnflex.Token, rest string, base int, radix element.Radix) (element.Element, error) {
	parseOne := func(s string) (int32, error) {
		v, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return 0, err
		}
		if v < 0 || v > 0x10FFFF {
			return 0, errOutOfRange
		}
		return int32(v), nil
	}

	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		lo, err := parseOne(rest[:idx])
		if err != nil {
			return nil, p.numericError(tok, err)
		}
		hi, err := parseOne(rest[idx+1:])
		if err != nil {
			return nil, p.numericError(tok, err)
		}
		if lo > hi {
			return nil, &ParserError{Construct: "numeric range", Offset: tok.Offset, Message: "range minimum exceeds maximum"}
		}
		return element.NumericRange{Min: lo, Max: hi, RadixTag: radix}, nil
	}

	parts := strings.Split(rest, ".")
	values := make([]int32, len(parts))
	for i, part := range parts {
		v, err := parseOne(part)
		if err != nil {
			return nil, p.numericError(tok, err)
		}
		values[i] = v
	}
	if len(values) == 1 {
		return element.Numeric{Value: values[0], RadixTag: radix}, nil
	}
	return element.NumericSeries{Values: values, RadixTag: radix}, nil
}

func (p *parser) numericError(tok abnflex.Token, err error) *ParserError {
	return &ParserError{Construct: "numeric value", Offset: tok.Offset, Message: err.Error()}
}
