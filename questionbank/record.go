package questionbank

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Record is one question with its answer options in document order.
//
// Answers keep their "<letter>) " marker verbatim. Correct is nil until the
// record has been cross-referenced with the solutions section, and then has
// exactly one entry per answer.
type Record struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Correct  []bool   `json:"correct,omitempty"`
	Page     int      `json:"page"`
}

// NewRecord starts a record from a question-start line found on page.
func NewRecord(line string, page int) (*Record, error) {
	num, rest, ok := strings.Cut(line, ". ")
	if !ok {
		return nil, fmt.Errorf("%w: no %q after number", ErrMalformedQuestionNumber, ". ")
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuestionNumber, err)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d is not positive", ErrMalformedQuestionNumber, n)
	}
	r := &Record{
		Number:  n,
		Answers: []string{},
		Page:    page,
	}
	r.AddQuestionLine(rest)
	return r, nil
}

// AddQuestionLine appends a wrapped line to the question text.
func (r *Record) AddQuestionLine(line string) {
	r.Question = joinWrapped(r.Question, line)
}

// AddAnswer starts a new answer option. The line is kept as-is.
func (r *Record) AddAnswer(line string) {
	r.Answers = append(r.Answers, line)
}

// AddAnswerLine appends a wrapped line to the last answer option.
func (r *Record) AddAnswerLine(line string) error {
	if len(r.Answers) == 0 {
		return fmt.Errorf("question %d: %w", r.Number, ErrDanglingContinuation)
	}
	last := len(r.Answers) - 1
	r.Answers[last] = joinWrapped(r.Answers[last], line)
	return nil
}

// Solved reports whether correctness flags have been attached.
func (r Record) Solved() bool { return r.Correct != nil }

// Letter returns the option letter of answer i, taken from its marker.
// Answers without a marker fall back to their position ("a" for 0), and
// positions past "z" have no letter.
func (r Record) Letter(i int) string {
	if i >= 0 && i < len(r.Answers) && Classify(r.Answers[i]) == AnswerStart {
		return r.Answers[i][:1]
	}
	if i < 0 || i >= 26 {
		return ""
	}
	return string(rune('a' + i))
}

// OptionText returns answer i without its "<letter>) " marker.
func (r Record) OptionText(i int) string {
	a := r.Answers[i]
	if Classify(a) == AnswerStart {
		return a[3:]
	}
	return a
}

// trimAnswer drops trailing whitespace after the marker. A bare "a) " keeps
// its marker intact.
func trimAnswer(a string) string {
	if Classify(a) == AnswerStart {
		return a[:3] + strings.TrimRightFunc(a[3:], unicode.IsSpace)
	}
	return strings.TrimRightFunc(a, unicode.IsSpace)
}

// Clone returns a deep copy that shares no storage with r.
func (r Record) Clone() Record {
	c := r
	c.Answers = append([]string{}, r.Answers...)
	if r.Correct != nil {
		c.Correct = append([]bool{}, r.Correct...)
	}
	return c
}

// joinWrapped glues a continuation onto acc with exactly one space.
// Whitespace-only lines contribute nothing.
func joinWrapped(acc, line string) string {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.TrimSpace(line) == "" {
		return acc
	}
	acc = strings.TrimRightFunc(acc, unicode.IsSpace)
	if acc == "" {
		return line
	}
	return acc + " " + line
}
