package export

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/formats"
)

// Header is written verbatim before the tree.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const (
	feedbackCorrect   = "Your answer is correct."
	feedbackPartially = "Your answer is partially correct."
	feedbackIncorrect = "Your answer is incorrect."

	essayResponseLines = "15"
)

func init() { formats.Register("moodle", exporter{}) }

type exporter struct{}

func (exporter) ContentType() string { return "application/xml" }
func (exporter) Ext() string         { return ".xml" }

func (exporter) Export(ctx context.Context, src formats.Source, ids []int64, w io.Writer) error {
	_, err := Write(ctx, src, ids, w)
	return err
}

// Write loads each id from src and writes a Moodle quiz document to w.
// Missing ids are skipped; it returns how many questions were written.
func Write(ctx context.Context, src formats.Source, ids []int64, w io.Writer) (int, error) {
	qs := make([]bank.Question, 0, len(ids))
	for _, id := range ids {
		q, err := src.Get(ctx, id)
		if errors.Is(err, bank.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("export: question %d: %w", id, err)
		}
		qs = append(qs, q)
	}
	if err := Encode(w, qs); err != nil {
		return 0, err
	}
	return len(qs), nil
}

// Encode writes qs as a quiz document. Empty elements are always written
// with a closing tag, never as <x/>.
func Encode(w io.Writer, qs []bank.Question) error {
	doc := quizXML{Questions: make([]questionXML, 0, len(qs))}
	for _, q := range qs {
		x, err := encodeQuestion(q)
		if err != nil {
			return err
		}
		doc.Questions = append(doc.Questions, x)
	}
	if _, err := io.WriteString(w, Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return enc.Close()
}

func encodeQuestion(q bank.Question) (questionXML, error) {
	x := questionXML{
		Name:            textXML{Text: q.Title},
		QuestionText:    richTextXML{Format: "html", Text: q.Body},
		GeneralFeedback: inlineXML{Format: "html"},
		DefaultGrade:    fmt.Sprintf("%.1f", q.Points),
	}

	var answers []bank.Answer
	switch v := q.Variant.(type) {
	case nil:
		x.Type = string(bank.TypeMultiChoice)
		setMultiChoice(&x, true)
	case bank.MultiChoice:
		x.Type = string(bank.TypeMultiChoice)
		setMultiChoice(&x, v.Single)
		answers = v.Answers
	case bank.ShortAnswer:
		x.Type = string(bank.TypeShortAnswer)
		x.UseCase = "0"
		answers = v.Answers
	case bank.Essay:
		x.Type = string(bank.TypeEssay)
		x.ResponseFormat = "editor"
		x.ResponseRequired = "1"
		x.ResponseFieldLines = essayResponseLines
		x.Attachments = "0"
		x.GraderInfo = &richTextXML{Format: "html"}
		x.ResponseTemplate = &richTextXML{Format: "html"}
	default:
		return questionXML{}, fmt.Errorf("export: question %d (%T): %w", q.ID, q.Variant, bank.ErrUnknownType)
	}

	for _, t := range bank.SplitTags(bank.JoinTags(q.Tags)) {
		x.Tags.Tags = append(x.Tags.Tags, textXML{Text: t})
	}
	for _, a := range answers {
		fraction := "0"
		if a.Correct {
			fraction = "100"
		}
		x.Answers = append(x.Answers, answerXML{
			Fraction: fraction,
			Format:   "html",
			Text:     a.Text,
			Feedback: inlineXML{Format: "html"},
		})
	}
	return x, nil
}

// setMultiChoice adds the multichoice fields. Multi-answer questions also get
// the feedback blocks and the shownumcorrect marker that ask for
// all-or-nothing grading; fractions stay 100/0 either way.
func setMultiChoice(x *questionXML, single bool) {
	x.Single = "false"
	if single {
		x.Single = "true"
	}
	x.ShuffleAnswers = "true"
	x.AnswerNumbering = "abc"
	if single {
		return
	}
	x.CorrectFeedback = &richTextXML{Format: "html", Text: feedbackCorrect}
	x.PartiallyCorrectFeedback = &richTextXML{Format: "html", Text: feedbackPartially}
	x.IncorrectFeedback = &richTextXML{Format: "html", Text: feedbackIncorrect}
	x.ShowNumCorrect = &struct{}{}
}
