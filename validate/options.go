package validate

import "abnf/corerules"

// Options configures the validation engine's merged core-rule table. See
// corerules.Table for the semantics of each knob.
type Options struct {
	// AllowUnixNewlines relaxes the core CRLF rule to also accept a bare
	// '\n' or a bare '\r'. Default true.
	AllowUnixNewlines bool
	// Encoding widens VCHAR (and, transitively, any user rule built from
	// it). Default ASCII.
	Encoding corerules.Encoding
}

// DefaultOptions returns the spec-mandated defaults.
func DefaultOptions() Options {
	return Options{AllowUnixNewlines: true, Encoding: corerules.ASCII}
}
