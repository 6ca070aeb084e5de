package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/fragebank/dbopen"
	"github.com/hazyhaar/fragebank/questionbank"
)

// Import summarises one stored extraction run.
type Import struct {
	ID            string              `json:"id"`
	Source        string              `json:"source"`
	PageCount     int                 `json:"page_count"`
	SolutionsPage int                 `json:"solutions_page"`
	QuestionCount int                 `json:"question_count"`
	Report        questionbank.Report `json:"report"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Solved reports whether the run found a solutions section.
func (i *Import) Solved() bool { return i.SolutionsPage >= 0 }

// SaveBank stores bank and all of its records in one transaction. Saving an
// import id twice replaces the earlier run.
func (s *Store) SaveBank(ctx context.Context, bank *questionbank.Bank) error {
	if bank.ImportID == "" {
		return errors.New("store: bank has no import id")
	}
	report, err := json.Marshal(bank.Report)
	if err != nil {
		return fmt.Errorf("store: marshal report: %w", err)
	}
	created := bank.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, bank.ImportID); err != nil {
			return fmt.Errorf("store: replace import: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO imports (id, source, page_count, solutions_page, question_count, report, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			bank.ImportID, bank.Source, bank.PageCount, bank.SolutionsPage,
			len(bank.Records), string(report), created.UnixMilli(),
		); err != nil {
			return fmt.Errorf("store: insert import: %w", err)
		}

		qStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO questions (import_id, seq, number, page, text) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer qStmt.Close()
		aStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO answers (import_id, seq, position, text, correct) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer aStmt.Close()

		for seq, r := range bank.Records {
			if _, err := qStmt.ExecContext(ctx, bank.ImportID, seq, r.Number, r.Page, r.Question); err != nil {
				return fmt.Errorf("store: insert question %d: %w", r.Number, err)
			}
			for pos, a := range r.Answers {
				var correct sql.NullBool
				if pos < len(r.Correct) {
					correct = sql.NullBool{Bool: r.Correct[pos], Valid: true}
				}
				if _, err := aStmt.ExecContext(ctx, bank.ImportID, seq, pos, a, correct); err != nil {
					return fmt.Errorf("store: insert answer %d/%d: %w", r.Number, pos, err)
				}
			}
		}
		return nil
	})
}

const importColumns = `id, source, page_count, solutions_page, question_count, report, created_at`

// ListImports returns all runs, newest first.
func (s *Store) ListImports(ctx context.Context) ([]*Import, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+importColumns+` FROM imports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// GetImport returns one run, or nil when id is unknown.
func (s *Store) GetImport(ctx context.Context, id string) (*Import, error) {
	imp, err := scanImport(s.DB.QueryRowContext(ctx,
		`SELECT `+importColumns+` FROM imports WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return imp, err
}

// LatestImport returns the newest run, or nil when nothing is stored.
func (s *Store) LatestImport(ctx context.Context) (*Import, error) {
	imp, err := scanImport(s.DB.QueryRowContext(ctx,
		`SELECT `+importColumns+` FROM imports ORDER BY created_at DESC, id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return imp, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImport(row scanner) (*Import, error) {
	imp := &Import{}
	var report string
	var created int64
	if err := row.Scan(&imp.ID, &imp.Source, &imp.PageCount, &imp.SolutionsPage,
		&imp.QuestionCount, &report, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report), &imp.Report); err != nil {
		return nil, fmt.Errorf("store: import %s report: %w", imp.ID, err)
	}
	imp.CreatedAt = time.UnixMilli(created)
	return imp, nil
}

// ListQuestions returns the records of a run in document order. An unknown
// run yields no records.
func (s *Store) ListQuestions(ctx context.Context, importID string) ([]questionbank.Record, error) {
	return s.records(ctx, importID, 0)
}

// GetQuestion returns the first record numbered number, or nil when there is
// none.
func (s *Store) GetQuestion(ctx context.Context, importID string, number int) (*questionbank.Record, error) {
	recs, err := s.records(ctx, importID, number)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

// LoadBank rebuilds a stored run, or returns nil when id is unknown.
func (s *Store) LoadBank(ctx context.Context, importID string) (*questionbank.Bank, error) {
	imp, err := s.GetImport(ctx, importID)
	if err != nil || imp == nil {
		return nil, err
	}
	recs, err := s.ListQuestions(ctx, importID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []questionbank.Record{}
	}
	return &questionbank.Bank{
		ImportID:      imp.ID,
		Source:        imp.Source,
		PageCount:     imp.PageCount,
		SolutionsPage: imp.SolutionsPage,
		Records:       recs,
		Report:        imp.Report,
		CreatedAt:     imp.CreatedAt,
	}, nil
}

// records loads questions of importID, all of them when number is 0.
func (s *Store) records(ctx context.Context, importID string, number int) ([]questionbank.Record, error) {
	var solvedPage int
	err := s.DB.QueryRowContext(ctx,
		`SELECT solutions_page FROM imports WHERE id = ?`, importID).Scan(&solvedPage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	solved := solvedPage >= 0

	filter := ``
	args := []any{importID}
	if number > 0 {
		filter = ` AND number = ?`
		args = append(args, number)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT seq, number, page, text FROM questions
		WHERE import_id = ?`+filter+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	var out []questionbank.Record
	index := make(map[int]int)
	for rows.Next() {
		var seq int
		r := questionbank.Record{Answers: []string{}}
		if err := rows.Scan(&seq, &r.Number, &r.Page, &r.Question); err != nil {
			rows.Close()
			return nil, err
		}
		if solved {
			r.Correct = []bool{}
		}
		index[seq] = len(out)
		out = append(out, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	rows, err = s.DB.QueryContext(ctx, `
		SELECT a.seq, a.text, a.correct FROM answers a
		JOIN questions q ON q.import_id = a.import_id AND q.seq = a.seq
		WHERE a.import_id = ?`+filter+` ORDER BY a.seq, a.position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var seq int
		var text string
		var correct sql.NullBool
		if err := rows.Scan(&seq, &text, &correct); err != nil {
			return nil, err
		}
		i, ok := index[seq]
		if !ok {
			continue
		}
		out[i].Answers = append(out[i].Answers, text)
		if correct.Valid {
			out[i].Correct = append(out[i].Correct, correct.Bool)
		}
	}
	return out, rows.Err()
}
