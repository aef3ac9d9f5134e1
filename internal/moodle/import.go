package moodle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/moodle/parser"
)

// Importer is the write side of a bank used by Import.
type Importer interface {
	Import(ctx context.Context, qs []bank.Question) ([]int64, error)
}

type Result struct {
	Imported int     `json:"imported"`
	IDs      []int64 `json:"ids,omitempty"`
	Message  string  `json:"message"`
}

// Import reads a quiz document and stores its multichoice questions. The
// file is imported as a whole: on any error nothing is stored and the
// result reports zero questions with a message for the user.
func Import(ctx context.Context, dst Importer, r io.Reader) (Result, error) {
	items, err := parser.Parse(r)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) && perr.Op != "defaultgrade" {
			return Result{Message: "XML parse error: " + perr.Err.Error()}, err
		}
		return Result{Message: "import error: " + err.Error()}, err
	}

	ids, err := dst.Import(ctx, MapToQuestions(items))
	if err != nil {
		return Result{Message: "import error: " + err.Error()}, fmt.Errorf("moodle: import: %w", err)
	}
	log.Printf("moodle import: %d multichoice questions", len(ids))
	return Result{
		Imported: len(ids),
		IDs:      ids,
		Message:  fmt.Sprintf("imported %d multichoice questions", len(ids)),
	}, nil
}

// MapToQuestions turns parsed items into multichoice bank questions.
func MapToQuestions(items []parser.Item) []bank.Question {
	out := make([]bank.Question, 0, len(items))
	for _, it := range items {
		answers := make([]bank.Answer, 0, len(it.Answers))
		for _, a := range it.Answers {
			answers = append(answers, bank.Answer{Text: a.Text, Correct: a.Correct})
		}
		out = append(out, bank.Question{
			Title:   it.Title,
			Body:    it.Body,
			Points:  it.Points,
			Tags:    it.Tags,
			Variant: bank.MultiChoice{Single: it.Single, Answers: answers},
		})
	}
	return out
}
