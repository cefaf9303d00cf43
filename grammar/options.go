package grammar

import "abnf/corerules"

// Options configures the grammar parser. Zero-value Options is not the
// default; use DefaultOptions (or the explicit zero value only if you mean
// the strictest reading of RFC 5234).
type Options struct {
	// AllowUnixNewlines accepts a bare '\n' as a line ending anywhere the
	// grammar text expects CRLF. Default true.
	AllowUnixNewlines bool
	// AllowOmittingFinalNewline lets the grammar text end without a
	// trailing line ending after the last rule. Default true.
	AllowOmittingFinalNewline bool
	// Encoding restricts the code points permitted inside quoted
	// literals. Default ASCII.
	Encoding corerules.Encoding
}

// DefaultOptions returns the spec-mandated defaults: both permissive knobs
// on, ASCII encoding.
func DefaultOptions() Options {
	return Options{
		AllowUnixNewlines:         true,
		AllowOmittingFinalNewline: true,
		Encoding:                  corerules.ASCII,
	}
}
