// Package pagesource turns documents on disk into the page/line sequences
// questionbank segments.
//
// Backends:
//   - pdfcpu     PDF content streams read in-process
//   - pdftotext  poppler's pdftotext, run as a subprocess
//   - text       form-feed separated text files
package pagesource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/fragebank/questionbank"
)

// Backend names accepted by Open.
const (
	BackendPDFCPU    = "pdfcpu"
	BackendPDFToText = "pdftotext"
	BackendText      = "text"
)

// MaxFileSize bounds the documents Open accepts.
const MaxFileSize int64 = 100 << 20

// Detect picks a backend from the file extension.
func Detect(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return BackendPDFCPU, nil
	case ".txt", ".text":
		return BackendText, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", ext)
	}
}

// Open returns a page source for path. An empty backend is detected from the
// extension.
func Open(path, backend string) (questionbank.PageSource, error) {
	return open(path, backend, "")
}

// Opener returns a questionbank.SourceOpener that runs pdftotext from bin
// (DefaultPDFToText when empty).
func Opener(bin string) questionbank.SourceOpener {
	return func(path, backend string) (questionbank.PageSource, error) {
		return open(path, backend, bin)
	}
}

func open(path, backend, bin string) (questionbank.PageSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	if backend == "" {
		if backend, err = Detect(path); err != nil {
			return nil, err
		}
	}
	switch backend {
	case BackendPDFCPU:
		return PDF{Path: path}, nil
	case BackendPDFToText:
		return PDFToText{Path: path, Binary: bin}, nil
	case BackendText:
		return TextFile{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
