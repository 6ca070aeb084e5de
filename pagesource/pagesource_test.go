package pagesource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hazyhaar/fragebank/questionbank"
)

func pageLinesOf(pages []questionbank.Page) [][]string {
	out := make([][]string, len(pages))
	for i, p := range pages {
		out[i] = p.Lines()
		if out[i] == nil {
			out[i] = []string{}
		}
	}
	return out
}

func TestSplitPages(t *testing.T) {
	text := "Kopf\r\n\fSeite 2\nzweite Zeile\n\f\n\f"
	got := pageLinesOf(splitPages(text))
	want := [][]string{
		{"Kopf"},
		{"Seite 2", "zweite Zeile"},
		{""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("splitPages mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitPages_NoFormFeed(t *testing.T) {
	got := pageLinesOf(splitPages("1. Frage?\na) Ja"))
	want := [][]string{{"1. Frage?", "a) Ja"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fo\u0308rster", "Förster"},
		{"1.\u00a0Welche", "1. Welche"},
		{"a) Ja\r", "a) Ja"},
		{"  eingerückt  ", "  eingerückt  "},
	}
	for _, tt := range tests {
		if got := normalizeLine(tt.in); got != tt.want {
			t.Errorf("normalizeLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLine_RestoresQuestionStart(t *testing.T) {
	if questionbank.Classify("1.\u00a0Welche?") == questionbank.QuestionStart {
		t.Fatal("raw NBSP line should not classify as a question start")
	}
	if got := questionbank.Classify(normalizeLine("1.\u00a0Welche?")); got != questionbank.QuestionStart {
		t.Errorf("normalized line classified as %v", got)
	}
}

func TestContentLines(t *testing.T) {
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(1. Welche Wildart?) Tj\n0 -14 Td\n(a\\) Rehwild) Tj\nT*\n" +
		"[(b\\) Rot) -300 (wild)] TJ\n(c\\) F\\374chse) '\nET"
	got := contentLines([]byte(stream))
	want := []string{"1. Welche Wildart?", "a) Rehwild", "b) Rot wild", "c) Füchse"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contentLines mismatch (-want +got):\n%s", diff)
	}
}

func TestContentLines_TextMatrix(t *testing.T) {
	stream := "BT 1 0 0 1 72 700 Tm (1. Frage) Tj 1 0 0 1 150 700 Tm (weiter) Tj " +
		"1 0 0 1 72 686 Tm (a\\) Ja) Tj ET"
	got := contentLines([]byte(stream))
	want := []string{"1. Frage weiter", "a) Ja"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContentLines_SmallKerningJoins(t *testing.T) {
	got := contentLines([]byte("BT [(Reh) -20 (wild)] TJ ET"))
	if diff := cmp.Diff([]string{"Rehwild"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContentLines_SkipsInlineImagesAndComments(t *testing.T) {
	stream := "% kommentar (1. nicht) Tj\nBI /W 1 /H 1 ID \x00\xff(\x12 EI\nBT (1. Nach Bild) Tj ET"
	got := contentLines([]byte(stream))
	if diff := cmp.Diff([]string{"1. Nach Bild"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContentLines_Empty(t *testing.T) {
	if got := contentLines(nil); len(got) != 0 {
		t.Errorf("got %q, want no lines", got)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"winansi", []byte("Gr\xfcnr\xf6cke"), "Grünröcke"},
		{"utf16", []byte("\xfe\xff\x00\xdc\x00b\x00e\x00r"), "Über"},
		{"ascii", []byte("a) Ja"), "a) Ja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeText(tt.in); got != tt.want {
				t.Errorf("decodeText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLexer_NestedAndHexStrings(t *testing.T) {
	lx := &lexer{data: []byte(`(a (b) c\051)`)}
	first, _ := lx.next()
	if first.kind != opString || first.str != "a (b) c)" {
		t.Errorf("literal = %+v", first)
	}
	lx = &lexer{data: []byte("<4869 7>")}
	hex, _ := lx.next()
	if hex.kind != opString || hex.str != "Hip" {
		t.Errorf("hex = %+v", hex)
	}
}

func TestOpen_Detect(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "katalog.txt")
	pdf := filepath.Join(dir, "katalog.pdf")
	other := filepath.Join(dir, "katalog.docx")
	for _, p := range []string{txt, pdf, other} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := Open(txt, "")
	if err != nil {
		t.Fatalf("open txt: %v", err)
	}
	if _, ok := src.(TextFile); !ok {
		t.Errorf("txt source = %T, want TextFile", src)
	}

	src, err = Open(pdf, "")
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	if _, ok := src.(PDF); !ok {
		t.Errorf("pdf source = %T, want PDF", src)
	}

	src, err = Opener("/opt/poppler/pdftotext")(pdf, BackendPDFToText)
	if err != nil {
		t.Fatalf("open pdftotext: %v", err)
	}
	if p, ok := src.(PDFToText); !ok || p.Binary != "/opt/poppler/pdftotext" {
		t.Errorf("pdftotext source = %#v", src)
	}

	if _, err := Open(other, ""); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := Open(txt, "ocr"); err == nil {
		t.Error("expected unknown backend error")
	}
	if _, err := Open(filepath.Join(dir, "fehlt.pdf"), ""); err == nil {
		t.Error("expected stat error")
	}
	if _, err := Open(dir, BackendText); err == nil {
		t.Error("expected directory error")
	}
}

func TestTextFile_Pages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "katalog.txt")
	body := "Deckblatt\f1. Welche Wildart?\na) Rehwild\n\f"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	pages, err := TextFile{Path: path}.Pages(context.Background())
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	want := [][]string{{"Deckblatt"}, {"1. Welche Wildart?", "a) Rehwild"}}
	if diff := cmp.Diff(want, pageLinesOf(pages)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestText_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Text{Name: "x", Body: "a"}).Pages(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestPDFToText_MissingBinary(t *testing.T) {
	src := PDFToText{Path: "katalog.pdf", Binary: filepath.Join(t.TempDir(), "kein-pdftotext")}
	_, err := src.Pages(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pdftotext failed") {
		t.Errorf("err = %v, want pdftotext failure", err)
	}
}

func TestPDF_Pages(t *testing.T) {
	// Three pages, the middle one without a content stream.
	path := filepath.Join(t.TempDir(), "katalog.pdf")
	raw := buildTextPDF(
		"BT /F1 12 Tf 72 720 Td (1. Welche Wildart?) Tj 0 -14 Td (a\\) Rehwild) Tj ET",
		"",
		"BT /F1 12 Tf 72 720 Td (01.03.2024 L\\366sungen) Tj 0 -14 Td (1 a) Tj ET",
	)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	pages, err := PDF{Path: path}.Pages(context.Background())
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	want := [][]string{
		{"1. Welche Wildart?", "a) Rehwild"},
		{},
		{"01.03.2024 Lösungen", "1 a"},
	}
	if diff := cmp.Diff(want, pageLinesOf(pages)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	page, err := questionbank.LocateSolutions(pages, questionbank.DefaultSolutionsKeyword)
	if err != nil || page != 2 {
		t.Errorf("LocateSolutions = %d, %v; want 2", page, err)
	}
}

func TestPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaputt.pdf")
	if err := os.WriteFile(path, []byte("kein pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := (PDF{Path: path}).Pages(context.Background()); err == nil {
		t.Error("expected pdfcpu error")
	}
}

// buildTextPDF writes a minimal PDF with one page per content stream. An
// empty stream yields a page without /Contents.
func buildTextPDF(streams ...string) []byte {
	n := len(streams)
	// 1 catalog, 2 pages, 3 font, then page/content pairs.
	pageObj := func(i int) int { return 4 + 2*i }
	contentObj := func(i int) int { return 5 + 2*i }
	total := 3 + 2*n

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, total+1)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range streams {
		kids[i] = pdfItoa(pageObj(i)) + " 0 R"
	}
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") + "] /Count " + pdfItoa(n) + " >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n")

	for i, s := range streams {
		offsets[pageObj(i)] = b.Len()
		b.WriteString(pdfItoa(pageObj(i)) + " 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]")
		if s != "" {
			b.WriteString(" /Contents " + pdfItoa(contentObj(i)) + " 0 R")
		}
		b.WriteString(" /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n")

		offsets[contentObj(i)] = b.Len()
		b.WriteString(pdfItoa(contentObj(i)) + " 0 obj\n<< /Length " + pdfItoa(len(s)) + " >>\nstream\n")
		b.WriteString(s)
		b.WriteString("\nendstream\nendobj\n")
	}

	xrefOffset := b.Len()
	b.WriteString("xref\n0 " + pdfItoa(total+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		b.WriteString(pdfPadOffset(offsets[i]))
		b.WriteString(" 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + pdfItoa(total+1) + " /Root 1 0 R >>\nstartxref\n")
	b.WriteString(pdfItoa(xrefOffset))
	b.WriteString("\n%%EOF\n")
	return []byte(b.String())
}

func pdfItoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func pdfPadOffset(n int) string {
	s := pdfItoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}
