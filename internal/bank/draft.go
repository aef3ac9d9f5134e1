package bank

// Draft is the flat wire form of a question used by the HTTP API and the
// CLI. Fields that do not apply to the chosen type are ignored.
type Draft struct {
	ID      int64    `json:"id,omitempty"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Points  float64  `json:"points"`
	Type    string   `json:"type,omitempty"`
	Single  *bool    `json:"single,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Answers []Answer `json:"answers,omitempty"`
}

// Question converts the draft into the domain form. Single defaults to true.
func (d Draft) Question() (Question, error) {
	t, err := ParseType(d.Type)
	if err != nil {
		return Question{}, &ValidationError{Fields: []FieldError{{Field: "type", Message: err.Error()}}}
	}
	q := Question{
		ID:     d.ID,
		Title:  d.Title,
		Body:   d.Body,
		Points: d.Points,
		Tags:   d.Tags,
	}
	switch t {
	case TypeShortAnswer:
		q.Variant = ShortAnswer{Answers: d.Answers}
	case TypeEssay:
		q.Variant = Essay{}
	default:
		single := true
		if d.Single != nil {
			single = *d.Single
		}
		q.Variant = MultiChoice{Single: single, Answers: d.Answers}
	}
	return q, nil
}

func DraftOf(q Question) Draft {
	single := q.Single()
	return Draft{
		ID:      q.ID,
		Title:   q.Title,
		Body:    q.Body,
		Points:  q.Points,
		Type:    string(q.Type()),
		Single:  &single,
		Tags:    q.Tags,
		Answers: q.Answers(),
	}
}
