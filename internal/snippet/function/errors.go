package function

import "errors"

// Errors returned by the evaluator.
var (
	// ErrEvaluatorClosed is returned when evaluating on a closed evaluator.
	ErrEvaluatorClosed = errors.New("field function evaluator is closed")

	// ErrTimeout is returned when an evaluation exceeds its deadline.
	ErrTimeout = errors.New("field function timed out")

	// ErrNoValue is returned when an expression produces nil.
	ErrNoValue = errors.New("field function returned no value")
)
