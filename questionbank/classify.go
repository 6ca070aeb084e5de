package questionbank

import "regexp"

// LineKind is the classification of a single line of page text.
type LineKind int

const (
	// Continuation extends the previous question or answer, or is noise
	// (headers, footers, table of contents, blank lines).
	Continuation LineKind = iota
	// QuestionStart begins a numbered question: "12. Welche ...".
	QuestionStart
	// AnswerStart begins a lettered answer option: "b) ...".
	AnswerStart
)

func (k LineKind) String() string {
	switch k {
	case QuestionStart:
		return "question"
	case AnswerStart:
		return "answer"
	default:
		return "continuation"
	}
}

var (
	// Running number without leading zero, ". ", then a capital letter.
	questionStartRe = regexp.MustCompile(`^[1-9][0-9]*\. [A-ZÄÖÜ]`)
	// Single lowercase letter, ") ".
	answerStartRe = regexp.MustCompile(`^[a-z]\) `)
)

// Classify reports whether line starts a question, starts an answer option,
// or continues whatever came before. The two start patterns cannot both
// match: one needs a leading digit, the other a leading lowercase letter.
func Classify(line string) LineKind {
	switch {
	case questionStartRe.MatchString(line):
		return QuestionStart
	case answerStartRe.MatchString(line):
		return AnswerStart
	default:
		return Continuation
	}
}
