// Package questionbank turns the line stream of a paginated question
// catalogue into question records.
//
// The core is a small state machine (Engine) driven by a line classifier
// (Classify). Questions start with "<n>. <Capital>", answer options with
// "<letter>) ", everything else continues the previous field. State carries
// over page boundaries. A separate pass (LocateSolutions, ParseSolutions,
// ApplySolutions) finds the solutions section and marks the correct options.
//
// Usage:
//
//	pipe := questionbank.New(questionbank.Config{HeaderPagesToSkip: 2})
//	bank, err := pipe.Extract(ctx, src)
//	fmt.Println(len(bank.Records), "questions")
package questionbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline extracts question banks from page sources.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Extract reads every page from src, segments the question pages and, when
// a solutions section exists, attaches correctness flags.
//
// Question lines run from HeaderPagesToSkip up to the solutions marker line,
// so questions sharing a page with the marker are kept. A marker inside the
// header pages leaves every page after the header to the questions.
// A missing solutions section is logged and leaves Correct nil on all records.
func (p *Pipeline) Extract(ctx context.Context, src PageSource) (*Bank, error) {
	pages, err := src.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}

	bank := &Bank{
		ImportID:      p.cfg.NewID(),
		Source:        sourceName(src),
		PageCount:     len(pages),
		SolutionsPage: -1,
		CreatedAt:     time.Now().UTC(),
	}
	p.logger.Debug("extracting question bank", "source", bank.Source, "pages", len(pages))

	solPage, solLine, err := LocateSolutionsLine(pages, p.cfg.SolutionsKeyword)
	switch {
	case errors.Is(err, ErrSolutionsNotFound):
		p.logger.Warn("no solutions section, correctness flags stay unset",
			"source", bank.Source, "keyword", p.cfg.SolutionsKeyword)
	case err != nil:
		return nil, err
	default:
		bank.SolutionsPage = solPage
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []Record
	if solPage >= p.cfg.HeaderPagesToSkip {
		records, err = segmentUntil(pages, p.cfg.HeaderPagesToSkip, solPage, solLine)
	} else {
		records, err = segmentRange(pages, p.cfg.HeaderPagesToSkip, len(pages))
	}
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", bank.Source, err)
	}

	if bank.Solved() {
		sol := ParseSolutions(SolutionsSection(pages, solPage, solLine))
		records, bank.Report = ApplySolutions(records, sol)
		p.logger.Debug("solutions applied", "page", solPage, "line", solLine, "entries", len(sol))
	} else {
		bank.Report.Duplicates = DuplicateNumbers(records)
	}
	bank.Records = records

	p.logger.Info("question bank extracted",
		"source", bank.Source,
		"import_id", bank.ImportID,
		"records", len(records),
		"solutions_page", bank.SolutionsPage,
		"unsolved", len(bank.Report.Unsolved),
		"duplicates", len(bank.Report.Duplicates))
	return bank, nil
}

func sourceName(src PageSource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
