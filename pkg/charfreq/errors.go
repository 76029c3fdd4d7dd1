package charfreq

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for counting operations.
var (
	// ErrUnsupportedFold indicates that the Insensitive mode met a character
	// whose lowercase form is more than one character (e.g. U+0130).
	// A one-to-one character count cannot represent such a fold.
	ErrUnsupportedFold = errors.New("lowercase form is not a single character")

	// ErrTaskFailure indicates that a counting or merging goroutine
	// terminated abnormally (panicked).
	ErrTaskFailure = errors.New("counting task failed")

	// ErrInvalidCaseMode indicates an unknown CaseMode value or name.
	ErrInvalidCaseMode = errors.New("invalid case mode")
)

// UnsupportedFoldError reports the character that could not be folded.
type UnsupportedFoldError struct {
	Char  rune
	Lower string
}

// Error implements the error interface.
func (e *UnsupportedFoldError) Error() string {
	return fmt.Sprintf("fold %q (U+%04X): lowercase %q has %d characters: %s",
		e.Char, e.Char, e.Lower, len([]rune(e.Lower)), ErrUnsupportedFold)
}

// Unwrap returns ErrUnsupportedFold.
func (e *UnsupportedFoldError) Unwrap() error {
	return ErrUnsupportedFold
}

// TaskFailureError describes a goroutine that failed while counting a range
// or merging two partial results.
type TaskFailureError struct {
	// Task is "count" or "merge".
	Task string
	// Range is the counted range; zero for merge tasks.
	Range Range
	Cause error
}

// Error implements the error interface.
func (e *TaskFailureError) Error() string {
	if e.Task == taskCount {
		return fmt.Sprintf("%s: %s task %s: %v", ErrTaskFailure, e.Task, e.Range, e.Cause)
	}
	return fmt.Sprintf("%s: %s task: %v", ErrTaskFailure, e.Task, e.Cause)
}

// Unwrap returns both ErrTaskFailure and the underlying cause so that
// errors.Is matches either.
func (e *TaskFailureError) Unwrap() []error {
	return []error{ErrTaskFailure, e.Cause}
}

// ErrorKind classifies err into a short label for logs and metrics.
//
// Returns one of: "ok", "unsupported_fold", "task_failure", "invalid_case_mode",
// "canceled", "unknown".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedFold):
		return "unsupported_fold"
	case errors.Is(err, ErrTaskFailure):
		return "task_failure"
	case errors.Is(err, ErrInvalidCaseMode):
		return "invalid_case_mode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
