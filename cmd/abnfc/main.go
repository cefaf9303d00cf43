// Command abnfc parses an ABNF grammar file and validates an input file (or
// stdin) against one of its rules, printing the matched parse tree or the
// error that explains why it didn't match.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"abnf/corerules"
	"abnf/element"
	"abnf/grammar"
	"abnf/validate"
)

func main() {
	grammarFile := flag.String("grammar", "", "path to an ABNF grammar file (required)")
	entry := flag.String("entry", "", "rule name to validate against (default: the grammar's first rule)")
	inputFile := flag.String("input", "-", "path to the input file, or - for stdin")
	unixNewlines := flag.Bool("unix-newlines", true, "accept bare LF or CR as a line ending, in addition to CRLF")
	encoding := flag.String("encoding", "ascii", "character encoding for VCHAR and literals: ascii, latin1, or unicode")
	flag.Parse()

	if *grammarFile == "" {
		fmt.Fprintln(os.Stderr, "usage: abnfc -grammar <file> [-entry rule] [-input file|-] [-unix-newlines] [-encoding ascii|latin1|unicode]")
		os.Exit(2)
	}

	enc, err := parseEncoding(*encoding)
	if err != nil {
		log.Fatal(err)
	}

	grammarText, err := os.ReadFile(*grammarFile)
	if err != nil {
		log.Fatal(err)
	}

	input, err := readInput(*inputFile)
	if err != nil {
		log.Fatal(err)
	}

	gopts := grammar.DefaultOptions()
	gopts.AllowUnixNewlines = *unixNewlines
	gopts.Encoding = enc
	g, err := grammar.ParseGrammar(string(grammarText), gopts)
	if err != nil {
		log.Fatal(err)
	}

	vopts := validate.DefaultOptions()
	vopts.AllowUnixNewlines = *unixNewlines
	vopts.Encoding = enc
	tree, err := validate.Validate(g, string(input), *entry, vopts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printTree(os.Stdout, tree, 0)
}

func parseEncoding(name string) (corerules.Encoding, error) {
	switch name {
	case "ascii":
		return corerules.ASCII, nil
	case "latin1":
		return corerules.Latin1, nil
	case "unicode":
		return corerules.Unicode, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q: want ascii, latin1, or unicode", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printTree(w io.Writer, t validate.ParseTree, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%s [%d:%d] %q\n", shapeName(t.Element()), t.Start(), t.End(), t.MatchedText())
	for _, c := range t.Children() {
		printTree(w, c, depth+1)
	}
}

func shapeName(el element.Element) string {
	switch el.(type) {
	case element.RuleRef:
		return "rule"
	case element.Alternation:
		return "alternation"
	case element.Concatenation:
		return "concatenation"
	case element.Repetition:
		return "repetition"
	case element.Optional:
		return "optional"
	case element.LiteralString:
		return "literal"
	case element.Numeric:
		return "numeric"
	case element.NumericSeries:
		return "numeric-series"
	case element.NumericRange:
		return "numeric-range"
	default:
		return fmt.Sprintf("%T", el)
	}
}
