package pagesource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/fragebank/questionbank"
)

func TestSafePath(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"katalog.pdf", filepath.Join(root, "katalog.pdf"), false},
		{"2024/katalog.pdf", filepath.Join(root, "2024", "katalog.pdf"), false},
		{filepath.Join(root, "katalog.pdf"), filepath.Join(root, "katalog.pdf"), false},
		{"katalog..v2.pdf", filepath.Join(root, "katalog..v2.pdf"), false},
		{"2024/..alt/katalog.pdf", filepath.Join(root, "2024", "..alt", "katalog.pdf"), false},
		{"../geheim.pdf", "", true},
		{"a/..", "", true},
		{"a/../../geheim.pdf", "", true},
		{"/etc/passwd", "", true},
		{root + "-anders/katalog.pdf", "", true},
	}
	for _, tt := range tests {
		got, err := SafePath(root, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrPathTraversal) {
				t.Errorf("SafePath(%q) = %q, %v; want ErrPathTraversal", tt.in, got, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("SafePath(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRooted(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "katalog.txt"), []byte("1. Frage?\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var opened string
	open := func(path, _ string) (questionbank.PageSource, error) {
		opened = path
		return TextFile{Path: path}, nil
	}
	rooted := Rooted(root, open)

	if _, err := rooted("katalog.txt", ""); err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != filepath.Join(root, "katalog.txt") {
		t.Errorf("opened %q", opened)
	}
	if _, err := rooted("../katalog.txt", ""); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("err = %v, want ErrPathTraversal", err)
	}

	opened = ""
	if _, err := Rooted("", open)("../irgendwo.txt", ""); err != nil || opened != "../irgendwo.txt" {
		t.Errorf("unrestricted opener changed path: %q, %v", opened, err)
	}
}
