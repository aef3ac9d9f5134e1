package bank

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound    = errors.New("question not found")
	ErrUnknownBank = errors.New("unknown bank")
	ErrUnknownType = errors.New("unknown question type")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before anything is written when a question is
// missing required fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type questionInput struct {
	Title  string  `json:"title" validate:"required"`
	Body   string  `json:"body" validate:"required"`
	Points float64 `json:"points" validate:"gt=0"`
	Type   string  `json:"type" validate:"oneof=multichoice shortanswer essay"`
}

// Validate checks the fields every question must carry. Title and body are
// compared after trimming.
func Validate(q Question) error {
	in := questionInput{
		Title:  strings.TrimSpace(q.Title),
		Body:   strings.TrimSpace(q.Body),
		Points: q.Points,
		Type:   string(q.Type()),
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
