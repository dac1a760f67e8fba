package eval

import "fmt"

// RuntimeError is a non-missing-field evaluator failure: a fatal execution
// error under spec §7 (e.g. calling int() on a non-numeric string).
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// CompileError is a fatal failure to parse an expression string.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return e.Message }

func exprErrorf(format string, args ...any) error {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}
