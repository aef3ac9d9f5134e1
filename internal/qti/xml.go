package qti

import "encoding/xml"

const (
	nsItem     = "http://www.imsglobal.org/xsd/imsqti_v2p1"
	nsManifest = "http://www.imsglobal.org/xsd/imscp_v1p1"

	matchCorrect = "http://www.imsglobal.org/question/qti_v2p1/rptemplates/match_correct"
	mapResponse  = "http://www.imsglobal.org/question/qti_v2p1/rptemplates/map_response"
)

// --- mini XML model for manifest (export only) ---
type imsManifest struct {
	XMLName       xml.Name      `xml:"manifest"`
	Xmlns         string        `xml:"xmlns,attr"`
	Identifier    string        `xml:"identifier,attr"`
	Organizations struct{}      `xml:"organizations"`
	Resources     []imsResource `xml:"resources>resource"`
}

type imsResource struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	Href       string    `xml:"href,attr"`
	Files      []imsFile `xml:"file"`
}

type imsFile struct {
	Href string `xml:"href,attr"`
}

// --- assessment item ---
type assessmentItem struct {
	XMLName       xml.Name            `xml:"assessmentItem"`
	Xmlns         string              `xml:"xmlns,attr"`
	Identifier    string              `xml:"identifier,attr"`
	Title         string              `xml:"title,attr"`
	Adaptive      bool                `xml:"adaptive,attr"`
	TimeDependent bool                `xml:"timeDependent,attr"`
	Response      responseDeclaration `xml:"responseDeclaration"`
	Outcome       outcomeDeclaration  `xml:"outcomeDeclaration"`
	Body          itemBody            `xml:"itemBody"`
	Processing    *responseProcessing `xml:"responseProcessing"`
}

type responseDeclaration struct {
	Identifier  string           `xml:"identifier,attr"`
	Cardinality string           `xml:"cardinality,attr"`
	BaseType    string           `xml:"baseType,attr"`
	Correct     *correctResponse `xml:"correctResponse"`
	Mapping     *mapping         `xml:"mapping"`
}

type correctResponse struct {
	Values []string `xml:"value"`
}

// mapping scores a single response against several accepted values.
type mapping struct {
	DefaultValue float64    `xml:"defaultValue,attr"`
	Entries      []mapEntry `xml:"mapEntry"`
}

type mapEntry struct {
	MapKey        string  `xml:"mapKey,attr"`
	MappedValue   float64 `xml:"mappedValue,attr"`
	CaseSensitive bool    `xml:"caseSensitive,attr"`
}

type outcomeDeclaration struct {
	Identifier    string  `xml:"identifier,attr"`
	Cardinality   string  `xml:"cardinality,attr"`
	BaseType      string  `xml:"baseType,attr"`
	NormalMaximum float64 `xml:"normalMaximum,attr"`
}

type itemBody struct {
	Prompt   string                   `xml:"p"`
	Choice   *choiceInteraction       `xml:"choiceInteraction"`
	Entry    *entryBlock              `xml:"div"`
	Extended *extendedTextInteraction `xml:"extendedTextInteraction"`
}

type choiceInteraction struct {
	ResponseIdentifier string         `xml:"responseIdentifier,attr"`
	Shuffle            bool           `xml:"shuffle,attr"`
	MaxChoices         int            `xml:"maxChoices,attr"`
	Choices            []simpleChoice `xml:"simpleChoice"`
}

type simpleChoice struct {
	Identifier string `xml:"identifier,attr"`
	Text       string `xml:",chardata"`
}

// entryBlock wraps the inline text entry in a block element.
type entryBlock struct {
	Interaction textEntryInteraction `xml:"textEntryInteraction"`
}

type textEntryInteraction struct {
	ResponseIdentifier string `xml:"responseIdentifier,attr"`
	ExpectedLength     int    `xml:"expectedLength,attr"`
}

type extendedTextInteraction struct {
	ResponseIdentifier string `xml:"responseIdentifier,attr"`
	ExpectedLines      int    `xml:"expectedLines,attr"`
}

type responseProcessing struct {
	Template string `xml:"template,attr"`
}
