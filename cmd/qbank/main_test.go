package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mind-engage/qbank/internal/db"
)

const quiz = `<quiz>
<question type="multichoice"><name><text>First</text></name><questiontext><text>one?</text></questiontext>
<answer fraction="100"><text>yes</text></answer><answer fraction="0"><text>no</text></answer></question>
<question type="multichoice"><name><text>Second</text></name><questiontext><text>two?</text></questiontext></question>
</quiz>`

func cli(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bank.db")
	xmlPath := filepath.Join(dir, "quiz.xml")
	if err := os.WriteFile(xmlPath, []byte(quiz), 0o600); err != nil {
		t.Fatal(err)
	}

	if out, err := cli(t, "-db", dbPath, "init"); err != nil || !strings.Contains(out, "bank ready") {
		t.Fatalf("init: %q %v", out, err)
	}
	if out, err := cli(t, "-db", dbPath, "import", xmlPath); err != nil || strings.TrimSpace(out) != "imported 2 multichoice questions" {
		t.Fatalf("import: %q %v", out, err)
	}

	out, err := cli(t, "-db", dbPath, "list", "-q", "first")
	if err != nil || !strings.Contains(out, "First") || strings.Contains(out, "Second") {
		t.Fatalf("list: %q %v", out, err)
	}

	if out, err := cli(t, "-db", dbPath, "duplicate", "1"); err != nil || strings.TrimSpace(out) != "3" {
		t.Fatalf("duplicate: %q %v", out, err)
	}
	if out, err := cli(t, "-db", dbPath, "show", "3"); err != nil || !strings.Contains(out, `"title": "First (Copy)"`) {
		t.Fatalf("show: %q %v", out, err)
	}

	docx := filepath.Join(dir, "out.docx")
	if _, err := cli(t, "-db", dbPath, "export", "-format", "docx", "-o", docx, "1", "3"); err != nil {
		t.Fatalf("export docx: %v", err)
	}
	if fi, err := os.Stat(docx); err != nil || fi.Size() == 0 {
		t.Fatalf("docx file: %v", err)
	}
	out, err = cli(t, "-db", dbPath, "export", "1")
	if err != nil || !strings.Contains(out, "<quiz>") {
		t.Fatalf("export xml: %q %v", out, err)
	}

	if out, err := cli(t, "-db", dbPath, "delete", "1", "2", "3", "99"); err != nil || strings.TrimSpace(out) != "deleted 3" {
		t.Fatalf("delete: %q %v", out, err)
	}
}

func TestErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bank.db")
	bad := filepath.Join(t.TempDir(), "bad.xml")
	if err := os.WriteFile(bad, []byte("<quiz>"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{},
		{"-db", dbPath, "bogus"},
		{"-db", dbPath, "show"},
		{"-db", dbPath, "show", "x"},
		{"-db", dbPath, "duplicate", "5"},
		{"-db", dbPath, "export", "-format", "pdf", "1"},
		{"-db", dbPath, "-driver", "oracle", "list"},
	} {
		if _, err := cli(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
	if _, err := cli(t, "-db", dbPath, "import", bad); err == nil || !strings.HasPrefix(err.Error(), "XML parse error") {
		t.Fatalf("import bad: %v", err)
	}
}

func TestFailedExportKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bank.db")
	if _, err := cli(t, "-db", dbPath, "init"); err != nil {
		t.Fatal(err)
	}
	h, err := db.Open(context.Background(), db.Location{DSN: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.Exec(`INSERT INTO questions (title, questiontext, question_type) VALUES ('odd', 'b', 'truefalse')`)
	h.Close()
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "out.docx")
	if err := os.WriteFile(target, []byte("previous"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := cli(t, "-db", dbPath, "export", "-format", "docx", "-o", target, "1"); err == nil {
		t.Fatal("expected export error")
	}
	if b, err := os.ReadFile(target); err != nil || string(b) != "previous" {
		t.Fatalf("target=%q err=%v", b, err)
	}

	fresh := filepath.Join(dir, "new.xml")
	if _, err := cli(t, "-db", dbPath, "export", "-o", fresh, "1"); err == nil {
		t.Fatal("expected export error")
	}
	if _, err := os.Stat(fresh); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind: %v", err)
	}
	left, _ := filepath.Glob(filepath.Join(dir, ".qbank-*"))
	if len(left) != 0 {
		t.Fatalf("temp files left: %v", left)
	}
}
