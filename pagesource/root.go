package pagesource

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/fragebank/questionbank"
)

// ErrPathTraversal is returned when a document path leaves its root.
var ErrPathTraversal = errors.New("pagesource: path escapes the document root")

// SafePath resolves p against root and rejects results outside root.
// Relative paths are taken relative to root; absolute ones must already lie
// below it.
func SafePath(root, p string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		for _, part := range strings.Split(filepath.ToSlash(p), "/") {
			if part == ".." {
				return "", ErrPathTraversal
			}
		}
		p = filepath.Join(root, p)
	}
	cleaned := filepath.Clean(p)
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

// Rooted restricts open to documents below root. An empty root leaves open
// unrestricted.
func Rooted(root string, open questionbank.SourceOpener) questionbank.SourceOpener {
	if root == "" {
		return open
	}
	return func(path, backend string) (questionbank.PageSource, error) {
		safe, err := SafePath(root, path)
		if err != nil {
			return nil, err
		}
		return open(safe, backend)
	}
}
