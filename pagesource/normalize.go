package pagesource

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hazyhaar/fragebank/questionbank"
)

// normalizeLine composes decomposed umlauts (o + U+0308 -> ö) and turns
// no-break spaces into plain ones, so a NBSP after "1." does not hide a
// question start. Nothing else is touched.
func normalizeLine(line string) string {
	line = strings.TrimRight(line, "\r\n")
	line = strings.ReplaceAll(line, "\u00a0", " ")
	return norm.NFC.String(line)
}

// splitPages cuts form-feed separated text (pdftotext output) into pages of
// lines. pdftotext terminates every page with \f, so an empty tail after the
// last separator is not a page.
func splitPages(text string) []questionbank.Page {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\f")
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	pages := make([]questionbank.Page, len(raw))
	for i, p := range raw {
		lines := strings.Split(p, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		for j, l := range lines {
			lines[j] = normalizeLine(l)
		}
		pages[i] = questionbank.TextPage(lines)
	}
	return pages
}
