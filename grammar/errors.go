package grammar

import "fmt"

// ParserError reports that grammar text is malformed. It names the
// construct the parser was attempting and the byte offset it had reached;
// the parser never attempts recovery after raising one.
type ParserError struct {
	Construct string
	Offset    int
	Message   string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("abnf: parsing %s at offset %d: %s", e.Construct, e.Offset, e.Message)
}
