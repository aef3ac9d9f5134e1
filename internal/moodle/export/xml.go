package export

import "encoding/xml"

// --- Moodle quiz XML model (export only) ---

type quizXML struct {
	XMLName   xml.Name      `xml:"quiz"`
	Questions []questionXML `xml:"question"`
}

type questionXML struct {
	Type            string      `xml:"type,attr"`
	Name            textXML     `xml:"name"`
	QuestionText    richTextXML `xml:"questiontext"`
	GeneralFeedback inlineXML   `xml:"generalfeedback"`
	DefaultGrade    string      `xml:"defaultgrade"`

	// multichoice
	Single                   string       `xml:"single,omitempty"`
	ShuffleAnswers           string       `xml:"shuffleanswers,omitempty"`
	AnswerNumbering          string       `xml:"answernumbering,omitempty"`
	CorrectFeedback          *richTextXML `xml:"correctfeedback"`
	PartiallyCorrectFeedback *richTextXML `xml:"partiallycorrectfeedback"`
	IncorrectFeedback        *richTextXML `xml:"incorrectfeedback"`
	ShowNumCorrect           *struct{}    `xml:"shownumcorrect"`

	// essay
	ResponseFormat     string       `xml:"responseformat,omitempty"`
	ResponseRequired   string       `xml:"responserequired,omitempty"`
	ResponseFieldLines string       `xml:"responsefieldlines,omitempty"`
	Attachments        string       `xml:"attachments,omitempty"`
	GraderInfo         *richTextXML `xml:"graderinfo"`
	ResponseTemplate   *richTextXML `xml:"responsetemplate"`

	// shortanswer
	UseCase string `xml:"usecase,omitempty"`

	Tags    tagsXML     `xml:"tags"`
	Answers []answerXML `xml:"answer"`
}

type textXML struct {
	Text string `xml:"text"`
}

type richTextXML struct {
	Format string `xml:"format,attr"`
	Text   string `xml:"text"`
}

// inlineXML is a format-tagged element whose content is bare character data.
type inlineXML struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type tagsXML struct {
	Tags []textXML `xml:"tag"`
}

type answerXML struct {
	Fraction string    `xml:"fraction,attr"`
	Format   string    `xml:"format,attr"`
	Text     string    `xml:"text"`
	Feedback inlineXML `xml:"feedback"`
}
