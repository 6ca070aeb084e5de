package questionbank

import (
	"strings"
	"unicode"
)

// State is the position of the segmentation engine within the stream.
type State int

const (
	// Neutral is outside any question: table of contents, headers, footers.
	Neutral State = iota
	// InQuestion is between a question's first line and its first option.
	InQuestion
	// InAnswer is at or behind the first line of the first option.
	InAnswer
)

func (s State) String() string {
	switch s {
	case InQuestion:
		return "in_question"
	case InAnswer:
		return "in_answer"
	default:
		return "neutral"
	}
}

// Action is what the engine does with a line, as decided by Transition.
type Action int

const (
	Discard Action = iota
	StartRecord
	AppendQuestion
	AppendAnswerStart
	AppendAnswerLine
	FinalizeAndStart
)

func (a Action) String() string {
	switch a {
	case StartRecord:
		return "start_record"
	case AppendQuestion:
		return "append_question"
	case AppendAnswerStart:
		return "append_answer_start"
	case AppendAnswerLine:
		return "append_answer_line"
	case FinalizeAndStart:
		return "finalize_and_start"
	default:
		return "discard"
	}
}

// Transition is the full state table of the engine. It is pure: the engine
// only ever moves through the states it returns.
//
// A question start while InQuestion finalizes the current record even though
// it has no answers; such records are emitted, not merged.
func Transition(s State, k LineKind) (Action, State) {
	switch s {
	case Neutral:
		if k == QuestionStart {
			return StartRecord, InQuestion
		}
		return Discard, Neutral
	case InQuestion:
		switch k {
		case QuestionStart:
			return FinalizeAndStart, InQuestion
		case AnswerStart:
			return AppendAnswerStart, InAnswer
		default:
			return AppendQuestion, InQuestion
		}
	case InAnswer:
		switch k {
		case QuestionStart:
			return FinalizeAndStart, InQuestion
		case AnswerStart:
			return AppendAnswerStart, InAnswer
		default:
			return AppendAnswerLine, InAnswer
		}
	}
	return Discard, Neutral
}

// Engine segments a line stream into records. State and the record in
// progress carry over page boundaries, since questions and answers may wrap
// from one page onto the next. An Engine is not safe for concurrent use.
type Engine struct {
	state   State
	current *Record
	out     []Record
	page    int
	line    int
	err     error
}

// NewEngine returns an engine in the Neutral state.
func NewEngine() *Engine {
	return &Engine{}
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// FeedPage feeds every line of the page with the given zero-based index.
func (e *Engine) FeedPage(index int, lines []string) error {
	e.page = index
	e.line = 0
	for _, l := range lines {
		if err := e.Feed(l); err != nil {
			return err
		}
	}
	return nil
}

// Feed consumes one line. After the first error the engine is stuck and
// returns that error for every further call.
func (e *Engine) Feed(line string) error {
	if e.err != nil {
		return e.err
	}
	e.line++

	action, next := Transition(e.state, Classify(line))
	switch action {
	case Discard:
	case StartRecord:
		if err := e.start(line); err != nil {
			return e.fail(line, err)
		}
	case FinalizeAndStart:
		e.finalize()
		if err := e.start(line); err != nil {
			return e.fail(line, err)
		}
	case AppendQuestion:
		e.current.AddQuestionLine(line)
	case AppendAnswerStart:
		e.current.AddAnswer(line)
	case AppendAnswerLine:
		if err := e.current.AddAnswerLine(line); err != nil {
			return e.fail(line, err)
		}
	}
	e.state = next
	return nil
}

// Close finalizes the record in progress, if any, and returns every record
// emitted so far. Records are handed over; the engine keeps no reference.
func (e *Engine) Close() []Record {
	if e.state != Neutral {
		e.finalize()
		e.state = Neutral
	}
	out := e.out
	e.out = nil
	return out
}

// Err returns the error that stopped the engine, if any.
func (e *Engine) Err() error { return e.err }

func (e *Engine) start(line string) error {
	r, err := NewRecord(line, e.page)
	if err != nil {
		return err
	}
	e.current = r
	return nil
}

func (e *Engine) finalize() {
	if e.current == nil {
		return
	}
	r := e.current
	r.Question = strings.TrimRightFunc(r.Question, unicode.IsSpace)
	for i, a := range r.Answers {
		r.Answers[i] = trimAnswer(a)
	}
	e.out = append(e.out, *r)
	e.current = nil
}

func (e *Engine) fail(line string, err error) error {
	e.err = &LineError{Page: e.page, Line: e.line, Text: line, Err: err}
	return e.err
}

// Segment runs a fresh engine over a single line stream.
func Segment(lines []string) ([]Record, error) {
	e := NewEngine()
	if err := e.FeedPage(0, lines); err != nil {
		return nil, err
	}
	return e.Close(), nil
}

// SegmentPages runs a fresh engine over pages[skip:] as one continuous
// stream. Page indexes on the records refer to the full pages slice.
func SegmentPages(pages []Page, skip int) ([]Record, error) {
	return segmentRange(pages, skip, len(pages))
}

func segmentRange(pages []Page, from, to int) ([]Record, error) {
	return segmentUntil(pages, from, to, 0)
}

// segmentUntil segments pages[from:page] followed by the first line lines of
// pages[page], all as one stream.
func segmentUntil(pages []Page, from, page, line int) ([]Record, error) {
	from = max(from, 0)
	page = min(page, len(pages))
	e := NewEngine()
	for i := from; i < page; i++ {
		if err := e.FeedPage(i, pages[i].Lines()); err != nil {
			return nil, err
		}
	}
	if page >= from && page < len(pages) && line > 0 {
		lines := pages[page].Lines()
		if err := e.FeedPage(page, lines[:min(line, len(lines))]); err != nil {
			return nil, err
		}
	}
	return e.Close(), nil
}
