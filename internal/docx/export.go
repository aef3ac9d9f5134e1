package docx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/formats"
)

const (
	Title = "Question Bank"

	markCorrect = "☑"
	markOther   = "☐"
	essayLines  = 8
)

func init() { formats.Register("docx", exporter{}) }

type exporter struct{}

func (exporter) ContentType() string { return ContentType }
func (exporter) Ext() string         { return ".docx" }

func (exporter) Export(ctx context.Context, src formats.Source, ids []int64, w io.Writer) error {
	_, err := Export(ctx, src, ids, w)
	return err
}

// Export renders the questions named by ids as a printable document, one
// question per page. Missing ids are skipped; it returns how many
// questions were rendered.
func Export(ctx context.Context, src formats.Source, ids []int64, w io.Writer) (int, error) {
	var d Document
	d.Heading(0, Title)

	n := 0
	for _, id := range ids {
		q, err := src.Get(ctx, id)
		if errors.Is(err, bank.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("docx: question %d: %w", id, err)
		}
		if n > 0 {
			d.PageBreak()
		}
		n++
		if err := render(&d, n, q); err != nil {
			return 0, err
		}
	}
	if _, err := d.WriteTo(w); err != nil {
		return 0, err
	}
	return n, nil
}

func render(d *Document, n int, q bank.Question) error {
	d.Heading(1, fmt.Sprintf("%d. %s", n, q.Title))
	d.Paragraph(Run{Text: fmt.Sprintf("Points: %.1f", q.Points), Bold: true})
	d.Quote(bank.PlainText(q.Body))

	switch v := q.Variant.(type) {
	case nil:
	case bank.MultiChoice:
		d.Table(answerRows(v.Answers))
	case bank.ShortAnswer:
		d.Table(answerRows(v.Answers))
	case bank.Essay:
		d.RuledLines(essayLines)
	default:
		return fmt.Errorf("docx: question %d (%T): %w", q.ID, q.Variant, bank.ErrUnknownType)
	}

	if tags := bank.SplitTags(bank.JoinTags(q.Tags)); len(tags) > 0 {
		d.Paragraph(Run{Text: "Tags: " + strings.Join(tags, ", "), Italic: true})
	}
	return nil
}

func answerRows(answers []bank.Answer) []Row {
	rows := make([]Row, 0, len(answers))
	for _, a := range answers {
		mark := markOther
		if a.Correct {
			mark = markCorrect
		}
		rows = append(rows, Row{Cells: []string{mark, a.Text}, Bold: a.Correct})
	}
	return rows
}
