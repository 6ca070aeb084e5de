package pagesource

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/hazyhaar/fragebank/questionbank"
)

// DefaultPDFToText is the poppler extractor looked up on PATH.
const DefaultPDFToText = "pdftotext"

// PDFToText extracts pages by running poppler's pdftotext, which handles
// embedded font encodings far better than reading content streams directly.
type PDFToText struct {
	Path   string
	Binary string // default: DefaultPDFToText
}

func (p PDFToText) String() string { return p.Path }

// Pages runs "pdftotext -enc UTF-8 <path> -" and splits stdout on form feeds.
func (p PDFToText) Pages(ctx context.Context) ([]questionbank.Page, error) {
	bin := p.Binary
	if bin == "" {
		bin = DefaultPDFToText
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", p.Path, "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("pdftotext failed: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return splitPages(string(out)), nil
}
