package bank

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	TypeMultiChoice QuestionType = "multichoice"
	TypeShortAnswer QuestionType = "shortanswer"
	TypeEssay       QuestionType = "essay"
)

func ParseType(s string) (QuestionType, error) {
	switch t := QuestionType(strings.TrimSpace(s)); t {
	case TypeMultiChoice, TypeShortAnswer, TypeEssay:
		return t, nil
	case "":
		return TypeMultiChoice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

type Answer struct {
	ID      int64  `json:"id,omitempty"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Variant carries the fields that only make sense for one question type.
// The set is closed: MultiChoice, ShortAnswer and Essay.
type Variant interface {
	Type() QuestionType
	variant()
}

type MultiChoice struct {
	Single  bool
	Answers []Answer
}

type ShortAnswer struct {
	Answers []Answer
}

type Essay struct{}

func (MultiChoice) Type() QuestionType { return TypeMultiChoice }
func (ShortAnswer) Type() QuestionType { return TypeShortAnswer }
func (Essay) Type() QuestionType       { return TypeEssay }

func (MultiChoice) variant() {}
func (ShortAnswer) variant() {}
func (Essay) variant()       {}

type Question struct {
	ID      int64
	Title   string
	Body    string // HTML
	Points  float64
	Tags    []string
	Variant Variant
}

// Type defaults to multichoice when no variant is set.
func (q Question) Type() QuestionType {
	if q.Variant == nil {
		return TypeMultiChoice
	}
	return q.Variant.Type()
}

// Answers returns the answer set of the variant; nil for essays.
func (q Question) Answers() []Answer {
	switch v := q.Variant.(type) {
	case MultiChoice:
		return v.Answers
	case ShortAnswer:
		return v.Answers
	default:
		return nil
	}
}

// Single reports the single-answer flag; true for anything but a
// multi-answer multichoice question.
func (q Question) Single() bool {
	if v, ok := q.Variant.(MultiChoice); ok {
		return v.Single
	}
	return true
}

// Overview is one row of the bank listing.
type Overview struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Points      float64  `json:"points"`
	Tags        []string `json:"tags"`
	AnswerCount int      `json:"answer_count"`
}

// JoinTags renders tags the way they are stored: comma-joined, blanks dropped.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// SplitTags is the inverse of JoinTags.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
