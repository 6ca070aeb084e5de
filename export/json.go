package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hazyhaar/fragebank/questionbank"
)

// Option is one answer of a catalogue question.
type Option struct {
	Letter  string `json:"letter"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is one catalogue entry.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	Page    int      `json:"page"`
}

// Catalog is the JSON document written by WriteJSON.
type Catalog struct {
	ImportID     string              `json:"importId,omitempty"`
	Source       string              `json:"source"`
	Solved       bool                `json:"solved"`
	TotalCount   int                 `json:"totalCount"`
	Questions    []Question          `json:"questions"`
	Report       questionbank.Report `json:"report"`
	LastModified string              `json:"lastModified"`
}

// NewCatalog converts a bank. Option texts lose their "<letter>) " marker.
func NewCatalog(bank *questionbank.Bank) Catalog {
	c := Catalog{
		ImportID:   bank.ImportID,
		Source:     bank.Source,
		Solved:     bank.Solved(),
		TotalCount: len(bank.Records),
		Questions:  make([]Question, 0, len(bank.Records)),
		Report:     bank.Report,
	}
	if !bank.CreatedAt.IsZero() {
		c.LastModified = bank.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, r := range bank.Records {
		q := Question{
			ID:      r.Number,
			Text:    r.Question,
			Options: make([]Option, len(r.Answers)),
			Page:    r.Page,
		}
		for i := range r.Answers {
			q.Options[i] = Option{
				Letter:  r.Letter(i),
				Text:    r.OptionText(i),
				Correct: i < len(r.Correct) && r.Correct[i],
			}
		}
		c.Questions = append(c.Questions, q)
	}
	return c
}

// WriteJSON writes bank as an indented catalogue.
func WriteJSON(w io.Writer, bank *questionbank.Bank) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewCatalog(bank)); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}
