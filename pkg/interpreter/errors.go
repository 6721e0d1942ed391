package interpreter

import "fmt"

// EvalError is a fatal evaluation failure at a source line.
type EvalError struct {
	Line    int
	Message string
}

func (e *EvalError) Error() string {
	if e.Line <= 0 {
		return "evaluation error: " + e.Message
	}
	return fmt.Sprintf("evaluation error at line %d: %s", e.Line, e.Message)
}

func evalErrorf(line int, format string, args ...any) error {
	return &EvalError{Line: line, Message: fmt.Sprintf(format, args...)}
}
