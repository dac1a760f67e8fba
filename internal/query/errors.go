package query

import "fmt"

// ParseError is a fatal, user-facing query compilation failure: invalid
// JOIN shape, `=` in WHERE, unterminated clause, malformed EXCEPT list,
// or an unknown clause keyword (spec §7).
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}
