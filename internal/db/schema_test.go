package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mind-engage/qbank/internal/db"
)

func openTemp(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.db")
	h, err := db.Open(context.Background(), db.Location{Driver: db.DriverSQLite, DSN: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h, path
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	h, _ := openTemp(t)

	if _, err := h.Exec(`INSERT INTO questions (title, questiontext) VALUES ('t','b')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := db.EnsureSchema(ctx, h, db.DriverSQLite); err != nil {
			t.Fatalf("ensure #%d: %v", i, err)
		}
	}
	var n int
	if err := h.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("rows=%d, want 1", n)
	}
}

func TestEnsureSchemaAddsTypeColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec(`CREATE TABLE questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  questiontext TEXT NOT NULL,
  single INTEGER DEFAULT 1,
  tags TEXT DEFAULT '',
  points REAL DEFAULT 1.0
)`); err != nil {
		t.Fatalf("legacy table: %v", err)
	}
	if _, err := raw.Exec(`INSERT INTO questions (title, questiontext, points) VALUES ('old','body',2.5)`); err != nil {
		t.Fatal(err)
	}
	_ = raw.Close()

	h, err := db.Open(ctx, db.Location{Driver: db.DriverSQLite, DSN: path})
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	defer h.Close()

	var typ string
	var points float64
	if err := h.QueryRow(`SELECT question_type, points FROM questions WHERE title='old'`).Scan(&typ, &points); err != nil {
		t.Fatalf("select: %v", err)
	}
	if typ != "multichoice" || points != 2.5 {
		t.Fatalf("got type=%q points=%v", typ, points)
	}
}

func TestCascadeDelete(t *testing.T) {
	h, _ := openTemp(t)
	var qid int64
	if err := h.QueryRow(`INSERT INTO questions (title, questiontext) VALUES ('t','b') RETURNING id`).Scan(&qid); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Exec(`INSERT INTO answers (question_id, answertext, is_correct) VALUES ($1,'a',1)`, qid); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Exec(`DELETE FROM questions WHERE id=$1`, qid); err != nil {
		t.Fatal(err)
	}
	var n int
	_ = h.QueryRow(`SELECT COUNT(*) FROM answers`).Scan(&n)
	if n != 0 {
		t.Fatalf("answers left after cascade: %d", n)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	h, _ := openTemp(t)
	boom := errors.New("boom")

	err := db.WithTx(ctx, h, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO questions (title, questiontext) VALUES ('t','b')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}
	var n int
	_ = h.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&n)
	if n != 0 {
		t.Fatalf("rows=%d after rollback", n)
	}
}

func TestParseDriver(t *testing.T) {
	cases := map[string]db.Driver{"": db.DriverSQLite, "sqlite3": db.DriverSQLite, "pgx": db.DriverPostgres, "Postgres": db.DriverPostgres}
	for in, want := range cases {
		got, err := db.ParseDriver(in)
		if err != nil || got != want {
			t.Errorf("ParseDriver(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := db.ParseDriver("mysql"); err == nil {
		t.Error("mysql: expected error")
	}
}
