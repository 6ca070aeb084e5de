package store

// Schema contains the DDL for the question bank tables.
const Schema = `
-- One row per extraction run.
CREATE TABLE IF NOT EXISTS imports (
    id             TEXT PRIMARY KEY,
    source         TEXT NOT NULL,
    page_count     INTEGER NOT NULL,
    solutions_page INTEGER NOT NULL DEFAULT -1,
    question_count INTEGER NOT NULL DEFAULT 0,
    report         TEXT NOT NULL DEFAULT '{}',
    created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_imports_created ON imports(created_at DESC);

-- Questions in document order; seq is the position within the import.
CREATE TABLE IF NOT EXISTS questions (
    import_id TEXT NOT NULL,
    seq       INTEGER NOT NULL,
    number    INTEGER NOT NULL,
    page      INTEGER NOT NULL,
    text      TEXT NOT NULL,
    PRIMARY KEY (import_id, seq),
    FOREIGN KEY (import_id) REFERENCES imports(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_questions_number ON questions(import_id, number);

-- Answer options; correct is NULL when the import had no solutions section.
CREATE TABLE IF NOT EXISTS answers (
    import_id TEXT NOT NULL,
    seq       INTEGER NOT NULL,
    position  INTEGER NOT NULL,
    text      TEXT NOT NULL,
    correct   INTEGER,
    PRIMARY KEY (import_id, seq, position),
    FOREIGN KEY (import_id, seq) REFERENCES questions(import_id, seq) ON DELETE CASCADE
);
`
