package moodle_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/db"
	"github.com/mind-engage/qbank/internal/moodle"
	"github.com/mind-engage/qbank/internal/moodle/export"
	"github.com/mind-engage/qbank/internal/moodle/parser"
)

func newStore(t *testing.T) *bank.SQLStore {
	t.Helper()
	h, err := db.Open(context.Background(), db.Location{DSN: filepath.Join(t.TempDir(), "bank.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return bank.NewSQLStore(h)
}

func count(t *testing.T, s *bank.SQLStore) int {
	t.Helper()
	list, err := s.List(context.Background(), bank.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	return len(list)
}

func TestRoundTripSingleAnswer(t *testing.T) {
	ctx := context.Background()
	src := newStore(t)
	orig := bank.Question{
		Title:  "Planets",
		Body:   "<p>Which planet is\nclosest to the sun?</p>",
		Points: 1.5,
		Tags:   []string{"astro", "easy"},
		Variant: bank.MultiChoice{Single: true, Answers: []bank.Answer{
			{Text: "Mercury", Correct: true},
			{Text: "Venus & Mars"},
		}},
	}
	id, err := src.Save(ctx, orig)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := export.Write(ctx, src, []int64{id}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newStore(t)
	res, err := moodle.Import(ctx, dst, &buf)
	if err != nil || res.Imported != 1 || len(res.IDs) != 1 {
		t.Fatalf("import: res=%+v err=%v", res, err)
	}
	got, err := dst.Get(ctx, res.IDs[0])
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != orig.Title || got.Body != orig.Body || got.Points != orig.Points || !got.Single() {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, orig.Tags) {
		t.Fatalf("tags=%v", got.Tags)
	}
	if len(got.Answers()) != 2 || !got.Answers()[0].Correct || got.Answers()[1].Correct ||
		got.Answers()[1].Text != "Venus & Mars" {
		t.Fatalf("answers=%+v", got.Answers())
	}
}

func TestImportMalformedCommitsNothing(t *testing.T) {
	ctx := context.Background()
	one := `<quiz><question type="multichoice"><name><text>ok</text></name></question></quiz>`
	docs := map[string]string{
		"truncated":          `<quiz><question type="multichoice"><name><text>ok</text></name></question><question type="multichoice">`,
		"element after root": one + `<oops>`,
		"end tag after root": one + `</junk>`,
		"text before root":   `garbage text ` + one,
		"second root":        one + `<quiz></quiz>`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			res, err := moodle.Import(ctx, s, strings.NewReader(doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if res.Imported != 0 || !strings.HasPrefix(res.Message, "XML parse error: ") {
				t.Fatalf("res=%+v", res)
			}
			if n := count(t, s); n != 0 {
				t.Fatalf("stored %d questions", n)
			}
		})
	}
}

func TestImportBadGradeAbortsWholeFile(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := `<quiz>
<question type="multichoice"><name><text>first</text></name><questiontext><text>b</text></questiontext></question>
<question type="multichoice"><name><text>second</text></name><defaultgrade>1,5</defaultgrade></question>
</quiz>`
	res, err := moodle.Import(ctx, s, strings.NewReader(doc))
	var perr *parser.Error
	if !errors.As(err, &perr) || perr.Op != "defaultgrade" {
		t.Fatalf("err=%v", err)
	}
	if res.Imported != 0 || !strings.HasPrefix(res.Message, "import error: ") {
		t.Fatalf("res=%+v", res)
	}
	if n := count(t, s); n != 0 {
		t.Fatalf("stored %d questions", n)
	}
}

func TestImportWrongRoot(t *testing.T) {
	res, err := moodle.Import(context.Background(), newStore(t), strings.NewReader(`<questions/>`))
	if err == nil || res.Imported != 0 || !strings.Contains(res.Message, "want <quiz>") {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

type failingImporter struct{}

func (failingImporter) Import(context.Context, []bank.Question) ([]int64, error) {
	return nil, errors.New("disk full")
}

func TestImportStoreFailure(t *testing.T) {
	doc := `<quiz><question type="multichoice"><name><text>x</text></name></question></quiz>`
	res, err := moodle.Import(context.Background(), failingImporter{}, strings.NewReader(doc))
	if err == nil || res.Imported != 0 || res.Message != "import error: disk full" {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestImportSkipsOtherTypes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	doc := `<quiz>
<question type="essay"><name><text>e</text></name></question>
<question type="shortanswer"><name><text>s</text></name></question>
<question type="multichoice"><answer fraction="50"><text>half</text></answer></question>
</quiz>`
	res, err := moodle.Import(ctx, s, strings.NewReader(doc))
	if err != nil || res.Imported != 1 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	q, _ := s.Get(ctx, res.IDs[0])
	if q.Title != parser.DefaultTitle || q.Single() || len(q.Answers()) != 1 || q.Answers()[0].Correct {
		t.Fatalf("q=%+v", q)
	}
}
