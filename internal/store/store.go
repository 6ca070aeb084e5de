// Package store persists extracted question banks in SQLite.
package store

import (
	"database/sql"

	"github.com/hazyhaar/fragebank/dbopen"
)

// Store is the question bank database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the database at path, applies the pragmas and
// the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// New wraps an already opened database. The schema is not applied.
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
