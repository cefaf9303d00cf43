// Package abnflex tokenizes ABNF grammar text. It is purely mechanical: a
// regex-per-token-class DFA built with github.com/timtadh/lexmachine. It
// makes no grammar decisions (alternation, folding, canonicalization,
// repetition-bound parsing) — those all belong to the hand-written
// recursive-descent parser in package grammar, which consumes the token
// stream this package produces.
package abnflex

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Kind identifies a lexical token class of ABNF grammar text.
type Kind int

const (
	EOF Kind = iota
	Illegal
	RuleName
	DefinedAs // "=" or "=/"
	Slash
	Star
	LParen
	RParen
	LBracket
	RBracket
	Digits
	NumBin
	NumDec
	NumHex
	QuotedDefault // "..."
	QuotedCS      // %s"..."
	QuotedCI      // %i"..."
	Newline
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Illegal:
		return "illegal token"
	case RuleName:
		return "rule name"
	case DefinedAs:
		return "'=' or '=/'"
	case Slash:
		return "'/'"
	case Star:
		return "'*'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Digits:
		return "digits"
	case NumBin:
		return "binary numeric literal"
	case NumDec:
		return "decimal numeric literal"
	case NumHex:
		return "hexadecimal numeric literal"
	case QuotedDefault, QuotedCS, QuotedCI:
		return "quoted literal"
	case Newline:
		return "line ending"
	default:
		return "unknown token"
	}
}

// Token is one lexical unit of grammar text, with its byte offset in the
// source for error reporting.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// Lexer wraps a compiled lexmachine scanner over one grammar-text input. It
// tracks the byte offset of each match itself, by summing matched-text
// lengths as the scanner advances, rather than trusting an internal
// lexmachine field for it.
type Lexer struct {
	scanner *lexmachine.Scanner
	pos     int
}

func (l *Lexer) skip(_ *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	l.pos += len(m.Bytes)
	return nil, nil
}

func (l *Lexer) emit(kind Kind) lexmachine.Action {
	return func(_ *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		start := l.pos
		l.pos += len(m.Bytes)
		return Token{Kind: kind, Text: string(m.Bytes), Offset: start}, nil
	}
}

// New tokenizes text. The returned Lexer is single-use and not safe for
// concurrent calls to Next.
func New(text string) (*Lexer, error) {
	l := &Lexer{}
	lex := lexmachine.NewLexer()

	lex.Add([]byte(`[ \t]+`), l.skip)
	lex.Add([]byte(`;[^\r\n]*`), l.skip)
	lex.Add([]byte(`\r\n|\n|\r`), l.emit(Newline))

	lex.Add([]byte(`=/`), l.emit(DefinedAs))
	lex.Add([]byte(`=`), l.emit(DefinedAs))
	lex.Add([]byte(`/`), l.emit(Slash))
	lex.Add([]byte(`\*`), l.emit(Star))
	lex.Add([]byte(`\(`), l.emit(LParen))
	lex.Add([]byte(`\)`), l.emit(RParen))
	lex.Add([]byte(`\[`), l.emit(LBracket))
	lex.Add([]byte(`\]`), l.emit(RBracket))

	lex.Add([]byte(`%[bB][01]+(\.[01]+)*`), l.emit(NumBin))
	lex.Add([]byte(`%[bB][01]+\-[01]+`), l.emit(NumBin))
	lex.Add([]byte(`%[dD][0-9]+(\.[0-9]+)*`), l.emit(NumDec))
	lex.Add([]byte(`%[dD][0-9]+\-[0-9]+`), l.emit(NumDec))
	lex.Add([]byte(`%[xX][0-9A-Fa-f]+(\.[0-9A-Fa-f]+)*`), l.emit(NumHex))
	lex.Add([]byte(`%[xX][0-9A-Fa-f]+\-[0-9A-Fa-f]+`), l.emit(NumHex))

	lex.Add([]byte(`%[sS]"[^"\r\n]*"`), l.emit(QuotedCS))
	lex.Add([]byte(`%[iI]"[^"\r\n]*"`), l.emit(QuotedCI))
	lex.Add([]byte(`"[^"\r\n]*"`), l.emit(QuotedDefault))

	lex.Add([]byte(`[0-9]+`), l.emit(Digits))
	lex.Add([]byte(`[A-Za-z][A-Za-z0-9\-]*`), l.emit(RuleName))

	if err := lex.Compile(); err != nil {
		return nil, fmt.Errorf("abnflex: compiling lexer: %w", err)
	}
	scanner, err := lex.Scanner([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("abnflex: starting scanner: %w", err)
	}
	l.scanner = scanner
	return l, nil
}

// Next returns the next token, or a Kind == EOF token at end of input.
func (l *Lexer) Next() (Token, error) {
	tok, err, eof := l.scanner.Next()
	if eof {
		return Token{Kind: EOF, Offset: l.pos}, nil
	}
	if err != nil {
		return Token{}, fmt.Errorf("abnflex: %w", err)
	}
	t := tok.(Token)
	return t, nil
}
