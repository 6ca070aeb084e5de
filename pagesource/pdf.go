package pagesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"

	"github.com/hazyhaar/fragebank/questionbank"
)

// PDF reads pages straight from the PDF content streams using pdfcpu.
// It copes with simple-font documents (WinAnsi / PDFDoc encoded strings);
// for CID-keyed fonts use PDFToText instead.
type PDF struct {
	Path string
}

func (p PDF) String() string { return p.Path }

// Pages returns one page per PDF page, empty pages included, so page
// indexes line up with the document.
func (p PDF) Pages(ctx context.Context) ([]questionbank.Page, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]questionbank.Page, 0, pctx.PageCount)
	for nr := 1; nr <= pctx.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := pageLines(pctx, nr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
		pages = append(pages, questionbank.TextPage(lines))
	}
	return pages, nil
}

func pageLines(pctx *model.Context, pageNr int) ([]string, error) {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return contentLines(data), nil
}

// TJ adjustments at or below this (thousandths of an em) read as a space.
const kernSpace = -250

// contentLines runs the text operators of a content stream and returns the
// text as lines. A new line starts on T*, ' and ", on ET, on Td/TD with a
// vertical move, and on Tm with a different baseline.
func contentLines(data []byte) []string {
	var (
		lines    []string
		cur      strings.Builder
		operands []operand
		lastY    float64
		haveY    bool
	)
	breakLine := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			lines = append(lines, normalizeLine(s))
		}
		cur.Reset()
	}
	space := func() {
		if s := cur.String(); s != "" && !strings.HasSuffix(s, " ") {
			cur.WriteByte(' ')
		}
	}
	lastString := func() (string, bool) {
		for i := len(operands) - 1; i >= 0; i-- {
			if operands[i].kind == opString {
				return operands[i].str, true
			}
		}
		return "", false
	}
	number := func(i int) float64 {
		if i < 0 || i >= len(operands) || operands[i].kind != opNumber {
			return 0
		}
		return operands[i].num
	}

	lx := &lexer{data: data}
	for {
		op, ok := lx.next()
		if !ok {
			break
		}
		if op.kind != opOperator {
			operands = append(operands, op)
			continue
		}

		switch op.str {
		case "Tj":
			if s, ok := lastString(); ok {
				cur.WriteString(s)
			}
		case "'", `"`:
			breakLine()
			if s, ok := lastString(); ok {
				cur.WriteString(s)
			}
		case "TJ":
			for _, o := range operands {
				if o.kind != opArray {
					continue
				}
				for _, el := range o.items {
					switch el.kind {
					case opString:
						cur.WriteString(el.str)
					case opNumber:
						if el.num <= kernSpace {
							space()
						}
					}
				}
			}
		case "T*", "ET":
			breakLine()
		case "Td", "TD":
			if number(len(operands)-1) != 0 {
				breakLine()
			} else if number(len(operands)-2) > 0 {
				space()
			}
		case "Tm":
			y := number(len(operands) - 1)
			if haveY && y != lastY {
				breakLine()
			} else {
				space()
			}
			lastY, haveY = y, true
		case "ID":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}
	breakLine()
	return lines
}

type opKind int

const (
	opOperator opKind = iota
	opNumber
	opString
	opArray
	opOther // names, dictionaries, booleans
)

type operand struct {
	kind  opKind
	str   string
	num   float64
	items []operand
}

// lexer tokenises a PDF content stream just far enough to run the text
// operators.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhite(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (operand, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return operand{}, false
	}
	c := l.data[l.pos]
	switch {
	case c == '(':
		return operand{kind: opString, str: decodeText(l.literal())}, true
	case c == '<' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '<':
		l.pos += 2
		return operand{kind: opOther, str: "<<"}, true
	case c == '>' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '>':
		l.pos += 2
		return operand{kind: opOther, str: ">>"}, true
	case c == '<':
		return operand{kind: opString, str: decodeText(l.hex())}, true
	case c == '[':
		l.pos++
		arr := operand{kind: opArray}
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				return arr, true
			}
			if l.data[l.pos] == ']' {
				l.pos++
				return arr, true
			}
			el, ok := l.next()
			if !ok {
				return arr, true
			}
			arr.items = append(arr.items, el)
		}
	case c == '/':
		l.pos++
		return operand{kind: opOther, str: "/" + l.regular()}, true
	case isDelim(c):
		// Stray ] ) > { }.
		l.pos++
		return operand{kind: opOther, str: string(c)}, true
	}

	word := l.regular()
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return operand{kind: opNumber, num: f}, true
	}
	if word == "true" || word == "false" || word == "null" {
		return operand{kind: opOther, str: word}, true
	}
	return operand{kind: opOperator, str: word}, true
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		// Single delimiter that no branch claimed; consume it.
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (...) string with balanced parentheses and escapes.
func (l *lexer) literal() []byte {
	l.pos++ // (
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; k++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a <...> string.
func (l *lexer) hex() []byte {
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		c := l.data[l.pos]
		l.pos++
		if !isWhite(c) {
			digits = append(digits, c)
		}
	}
	l.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		b, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(b))
	}
	return out
}

// skipInlineImage jumps over binary image data up to the closing EI.
func (l *lexer) skipInlineImage() {
	for l.pos+2 < len(l.data) {
		if isWhite(l.data[l.pos]) && l.data[l.pos+1] == 'E' && l.data[l.pos+2] == 'I' &&
			(l.pos+3 == len(l.data) || isWhite(l.data[l.pos+3])) {
			l.pos += 3
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

// decodeText turns PDF string bytes into UTF-8: UTF-16BE when the string
// carries a byte order mark, Windows-1252 otherwise (which agrees with
// PDFDocEncoding on the German letters).
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
