package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	RootTag      = "quiz"
	DefaultTitle = "Unnamed Question"
)

// Error describes why a quiz document could not be read. Op is one of
// "parse", "root" or "defaultgrade".
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "moodle xml: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

type Answer struct {
	Text    string
	Correct bool
}

// Item is one imported multichoice question.
type Item struct {
	Title   string
	Body    string
	Single  bool
	Points  float64
	Tags    []string
	Answers []Answer
}

type quiz struct {
	XMLName   xml.Name
	Questions []question `xml:"question"`
}

type question struct {
	Type         string     `xml:"type,attr"`
	Name         *textNode  `xml:"name"`
	QuestionText *textNode  `xml:"questiontext"`
	Single       *string    `xml:"single"`
	DefaultGrade *string    `xml:"defaultgrade"`
	Tags         []textNode `xml:"tags>tag"`
	Answers      []answer   `xml:"answer"`
}

type textNode struct {
	Text *string `xml:"text"`
}

type answer struct {
	Fraction *string `xml:"fraction,attr"`
	Text     *string `xml:"text"`
}

// Parse reads a quiz document and returns its multichoice questions in
// document order. Other question types are skipped. The whole stream must be
// one well-formed document; anything but whitespace, comments or processing
// instructions around the root element is rejected.
func Parse(r io.Reader) ([]Item, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	start, err := rootElement(dec)
	if err != nil {
		return nil, err
	}
	var doc quiz
	if err := dec.DecodeElement(&doc, &start); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &Error{Op: "parse", Err: err}
	}
	if err := trailer(dec); err != nil {
		return nil, err
	}
	if start.Name.Local != RootTag {
		return nil, &Error{Op: "root", Err: fmt.Errorf("root element is <%s>, want <%s>", start.Name.Local, RootTag)}
	}

	items := []Item{}
	for _, q := range doc.Questions {
		if q.Type != "multichoice" {
			continue
		}
		it := Item{
			Title:  trimmed(q.Name),
			Body:   trimmed(q.QuestionText),
			Single: q.Single != nil && *q.Single == "true",
			Points: 1.0,
		}
		if it.Title == "" {
			it.Title = DefaultTitle
		}
		if q.DefaultGrade != nil {
			p, err := strconv.ParseFloat(strings.TrimSpace(*q.DefaultGrade), 64)
			if err != nil {
				return nil, &Error{Op: "defaultgrade", Err: fmt.Errorf("question %q: %w", it.Title, err)}
			}
			it.Points = p
		}
		for _, t := range q.Tags {
			if s := trimmed(&t); s != "" {
				it.Tags = append(it.Tags, s)
			}
		}
		for _, a := range q.Answers {
			if a.Text == nil {
				continue
			}
			text := strings.TrimSpace(*a.Text)
			if text == "" {
				continue
			}
			// partial credit is not kept: only a full 100 marks an answer correct
			it.Answers = append(it.Answers, Answer{Text: text, Correct: a.Fraction != nil && *a.Fraction == "100"})
		}
		items = append(items, it)
	}
	return items, nil
}

// rootElement skips the prolog and returns the document element's start tag.
func rootElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, &Error{Op: "parse", Err: io.ErrUnexpectedEOF}
		}
		if err != nil {
			return xml.StartElement{}, &Error{Op: "parse", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, &Error{Op: "parse", Err: errors.New("text before document element")}
			}
		}
	}
}

// trailer reads to the end of the stream after the document element.
func trailer(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &Error{Op: "parse", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return &Error{Op: "parse", Err: errors.New("junk after document element")}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return &Error{Op: "parse", Err: errors.New("junk after document element")}
			}
		}
	}
}

func trimmed(n *textNode) string {
	if n == nil || n.Text == nil {
		return ""
	}
	return strings.TrimSpace(*n.Text)
}
