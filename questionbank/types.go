package questionbank

import (
	"context"
	"time"
)

// Page is one page of the source document as an ordered list of lines.
type Page interface {
	Lines() []string
}

// PageSource supplies the pages of a document in order.
type PageSource interface {
	Pages(ctx context.Context) ([]Page, error)
}

// TextPage is a Page backed by a plain slice of lines.
type TextPage []string

func (p TextPage) Lines() []string { return p }

// TextPages adapts line slices to pages.
func TextPages(pages ...[]string) []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = TextPage(p)
	}
	return out
}

// StaticSource is a PageSource over pages that are already in memory.
type StaticSource []Page

func (s StaticSource) Pages(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Bank is the outcome of extracting one document.
type Bank struct {
	ImportID      string    `json:"import_id"`
	Source        string    `json:"source"`
	PageCount     int       `json:"page_count"`
	SolutionsPage int       `json:"solutions_page"` // -1 when the section was not found
	Records       []Record  `json:"records"`
	Report        Report    `json:"report"`
	CreatedAt     time.Time `json:"created_at"`
}

// Solved reports whether the bank carries correctness flags.
func (b *Bank) Solved() bool { return b.SolutionsPage >= 0 }
