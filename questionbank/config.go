package questionbank

import (
	"log/slog"

	"github.com/hazyhaar/fragebank/idgen"
)

// DefaultHeaderPagesToSkip is the number of cover and contents pages in
// front of the first question of the official catalogue.
const DefaultHeaderPagesToSkip = 2

// Config configures the extraction pipeline.
type Config struct {
	// HeaderPagesToSkip elides leading pages before segmentation. The
	// solutions scan always sees the whole document. Zero is valid.
	HeaderPagesToSkip int `json:"header_pages_to_skip" yaml:"header_pages_to_skip"`

	// SolutionsKeyword follows the date stamp on the first solutions page
	// (default: DefaultSolutionsKeyword).
	SolutionsKeyword string `json:"solutions_keyword" yaml:"solutions_keyword"`

	// NewID generates import ids (default: "imp_" + UUIDv7).
	NewID idgen.Generator `json:"-" yaml:"-"`

	// Logger for progress and diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.HeaderPagesToSkip < 0 {
		c.HeaderPagesToSkip = 0
	}
	if c.SolutionsKeyword == "" {
		c.SolutionsKeyword = DefaultSolutionsKeyword
	}
	if c.NewID == nil {
		c.NewID = idgen.Prefixed("imp_", idgen.Default)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
