package questionbank

import "slices"

// LetterRef names one option letter of one question.
type LetterRef struct {
	Number int    `json:"number"`
	Letter string `json:"letter"`
}

// Report lists what did not line up between records and solutions.
type Report struct {
	Unsolved   []int       `json:"unsolved,omitempty"`     // records without a solutions entry
	Orphans    []int       `json:"orphans,omitempty"`      // entries without a record
	OutOfRange []LetterRef `json:"out_of_range,omitempty"` // letters no option carries  
	Duplicates []int       `json:"duplicates,omitempty"`   // numbers used by more than one record
}

// Clean reports whether nothing was flagged.
func (r Report) Clean() bool {
	return len(r.Unsolved) == 0 && len(r.Orphans) == 0 &&
		len(r.OutOfRange) == 0 && len(r.Duplicates) == 0
}

// ApplySolutions returns copies of records with Correct filled in from sol,
// joined on the question number and the option letter (see Record.Letter).
// Every returned record has one flag per answer; records without an entry
// get all false and are reported. The input records are not modified.
func ApplySolutions(records []Record, sol Solutions) ([]Record, Report) {
	var rep Report
	out := make([]Record, len(records))
	seen := make(map[int]bool, len(records))

	for i, r := range records {
		c := r.Clone()
		c.Correct = make([]bool, len(c.Answers))
		seen[c.Number] = true

		letters, ok := sol.Letters(c.Number)
		if !ok {
			rep.Unsolved = append(rep.Unsolved, c.Number)
		}
		for _, l := range letters {
			matched := false
			for j := range c.Answers {
				if c.Letter(j) == l {
					c.Correct[j] = true
					matched = true
				}
			}
			if !matched {
				rep.OutOfRange = append(rep.OutOfRange, LetterRef{Number: c.Number, Letter: l})
			}
		}
		out[i] = c
	}

	for _, n := range sol.Numbers() {
		if !seen[n] {
			rep.Orphans = append(rep.Orphans, n)
		}
	}
	rep.Duplicates = DuplicateNumbers(records)
	return out, rep
}

// DuplicateNumbers returns, ascending, every question number that appears on
// more than one record.
func DuplicateNumbers(records []Record) []int {
	count := make(map[int]int, len(records))
	for _, r := range records {
		count[r.Number]++
	}
	var dup []int
	for n, c := range count {
		if c > 1 {
			dup = append(dup, n)
		}
	}
	slices.Sort(dup)
	return dup
}
