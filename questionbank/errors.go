package questionbank

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingContinuation is returned when an answer continuation line
	// arrives before the current record has any answer option.
	ErrDanglingContinuation = errors.New("continuation line without preceding answer option")

	// ErrMalformedQuestionNumber is returned when the numeric prefix of a
	// question line does not parse as a positive integer.
	ErrMalformedQuestionNumber = errors.New("malformed question number")

	// ErrSolutionsNotFound is returned by LocateSolutions when no page carries
	// the solutions marker. Callers may continue without correctness flags.
	ErrSolutionsNotFound = errors.New("solutions marker not found")
)

// LineError pins a segmentation failure to its position in the document.
// Page is zero-based, Line is one-based within the page.
type LineError struct {
	Page int
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("page %d line %d: %v (line %q)", e.Page, e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }
