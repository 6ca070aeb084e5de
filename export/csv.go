// Package export writes question banks in flat (CSV) and catalogue (JSON)
// form.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hazyhaar/fragebank/questionbank"
)

// CSVOptions tunes WriteCSV. The zero value writes comma separated output.
type CSVOptions struct {
	Delimiter rune // default ','
}

// WriteCSV writes one row per record:
//
//	number,question,answer_1..answer_N,correct_1..correct_N
//
// N is the widest record; shorter rows are padded with empty cells. Correct
// cells are "true"/"false", or empty when the record carries no flags.
func WriteCSV(w io.Writer, records []questionbank.Record, opts CSVOptions) error {
	width := 0
	for _, r := range records {
		width = max(width, len(r.Answers))
	}

	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	header := make([]string, 0, 2+2*width)
	header = append(header, "number", "question")
	for i := 1; i <= width; i++ {
		header = append(header, "answer_"+strconv.Itoa(i))
	}
	for i := 1; i <= width; i++ {
		header = append(header, "correct_"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}

	row := make([]string, len(header))
	for _, r := range records {
		clear(row)
		row[0] = strconv.Itoa(r.Number)
		row[1] = r.Question
		for i, a := range r.Answers {
			row[2+i] = a
		}
		for i, c := range r.Correct {
			if i < width {
				row[2+width+i] = strconv.FormatBool(c)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: csv question %d: %w", r.Number, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
