package pagesource

import (
	"context"
	"fmt"
	"os"

	"github.com/hazyhaar/fragebank/questionbank"
)

// Text serves form-feed separated text already held in memory.
type Text struct {
	Name string
	Body string
}

func (t Text) String() string { return t.Name }

// Pages splits Body on form feeds.
func (t Text) Pages(ctx context.Context) ([]questionbank.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return splitPages(t.Body), nil
}

// TextFile serves a form-feed separated text file, for example the saved
// output of "pdftotext katalog.pdf katalog.txt".
type TextFile struct {
	Path string
}

func (t TextFile) String() string { return t.Path }

// Pages reads the file and splits it on form feeds.
func (t TextFile) Pages(ctx context.Context) ([]questionbank.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Path, err)
	}
	return splitPages(string(data)), nil
}
