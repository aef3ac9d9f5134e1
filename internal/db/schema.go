package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// EnsureSchema creates the questions and answers tables and adds the
// question_type column to banks created before it existed. Safe to call on
// every open; it never drops or rewrites rows.
func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var stmts []string
	switch driver {
	case DriverSQLite, "":
		stmts = schemaSQLite
	case DriverPostgres:
		stmts = schemaPostgres
	default:
		return fmt.Errorf("schema: unsupported driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %s: %w", firstLine(stmt), err)
		}
	}

	ok, err := hasColumn(ctx, db, driver, "questions", "question_type")
	if err != nil {
		return fmt.Errorf("schema: inspect questions: %w", err)
	}
	if !ok {
		if _, err := db.ExecContext(ctx,
			`ALTER TABLE questions ADD COLUMN question_type TEXT DEFAULT 'multichoice'`); err != nil {
			return fmt.Errorf("schema: add question_type: %w", err)
		}
	}
	return nil
}

func hasColumn(ctx context.Context, db *sql.DB, driver Driver, table, column string) (bool, error) {
	var q string
	switch driver {
	case DriverPostgres:
		q = `SELECT COUNT(*) FROM information_schema.columns
		     WHERE table_schema = current_schema() AND table_name=$1 AND column_name=$2`
	default:
		q = `SELECT COUNT(*) FROM pragma_table_info($1) WHERE name=$2`
	}
	var n int
	if err := db.QueryRowContext(ctx, q, table, column).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  questiontext TEXT NOT NULL,
  single INTEGER DEFAULT 1,
  tags TEXT DEFAULT '',
  points REAL DEFAULT 1.0,
  question_type TEXT DEFAULT 'multichoice'
)`,
	`CREATE TABLE IF NOT EXISTS answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL,
  answertext TEXT NOT NULL,
  is_correct INTEGER DEFAULT 0,
  FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS questions (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  questiontext TEXT NOT NULL,
  single INTEGER DEFAULT 1,
  tags TEXT DEFAULT '',
  points DOUBLE PRECISION DEFAULT 1.0,
  question_type TEXT DEFAULT 'multichoice'
)`,
	`CREATE TABLE IF NOT EXISTS answers (
  id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  answertext TEXT NOT NULL,
  is_correct INTEGER DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id)`,
}
