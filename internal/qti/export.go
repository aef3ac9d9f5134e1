// Package qti writes questions as an IMS QTI 2.1 content package.
package qti

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/formats"
)

const (
	itemType     = "imsqti_item_xmlv2p1"
	responseID   = "RESPONSE"
	essayLines   = 15
	entryLength  = 20
	manifestName = "imsmanifest.xml"
)

func init() { formats.Register("qti", exporter{}) }

type exporter struct{}

func (exporter) ContentType() string { return "application/zip" }
func (exporter) Ext() string         { return ".zip" }

func (exporter) Export(ctx context.Context, src formats.Source, ids []int64, w io.Writer) error {
	_, err := Write(ctx, src, ids, w)
	return err
}

// Write builds a package with one item file per question plus the manifest.
// Missing ids are skipped; it returns how many items were written.
func Write(ctx context.Context, src formats.Source, ids []int64, w io.Writer) (int, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	mf := imsManifest{Xmlns: nsManifest, Identifier: "MANIFEST-qbank"}
	for _, id := range ids {
		q, err := src.Get(ctx, id)
		if errors.Is(err, bank.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("qti: question %d: %w", id, err)
		}
		item, err := buildItem(q)
		if err != nil {
			return 0, err
		}
		href := fmt.Sprintf("items/%s.xml", item.Identifier)
		if err := writeXML(zw, href, item); err != nil {
			return 0, err
		}
		mf.Resources = append(mf.Resources, imsResource{
			Identifier: item.Identifier,
			Type:       itemType,
			Href:       href,
			Files:      []imsFile{{Href: href}},
		})
	}
	if err := writeXML(zw, manifestName, mf); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("qti: close: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return 0, err
	}
	return len(mf.Resources), nil
}

func writeXML(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("qti: %s: %w", name, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("qti: %s: %w", name, err)
	}
	return enc.Close()
}

func buildItem(q bank.Question) (assessmentItem, error) {
	it := assessmentItem{
		Xmlns:      nsItem,
		Identifier: fmt.Sprintf("item-%d", q.ID),
		Title:      q.Title,
		Response:   responseDeclaration{Identifier: responseID, Cardinality: "single", BaseType: "identifier"},
		Outcome:    outcomeDeclaration{Identifier: "SCORE", Cardinality: "single", BaseType: "float", NormalMaximum: q.Points},
		Body:       itemBody{Prompt: bank.PlainText(q.Body)},
	}

	switch v := q.Variant.(type) {
	case nil:
		buildChoice(&it, bank.MultiChoice{Single: true})
	case bank.MultiChoice:
		buildChoice(&it, v)
	case bank.ShortAnswer:
		buildEntry(&it, v, q.Points)
	case bank.Essay:
		it.Response.BaseType = "string"
		it.Body.Extended = &extendedTextInteraction{ResponseIdentifier: responseID, ExpectedLines: essayLines}
	default:
		return assessmentItem{}, fmt.Errorf("qti: question %d (%T): %w", q.ID, q.Variant, bank.ErrUnknownType)
	}
	return it, nil
}

// buildChoice maps answers to choices c1, c2, ... in order.
func buildChoice(it *assessmentItem, mc bank.MultiChoice) {
	ci := &choiceInteraction{ResponseIdentifier: responseID, Shuffle: true, MaxChoices: 1}
	correct := &correctResponse{}
	for i, a := range mc.Answers {
		id := fmt.Sprintf("c%d", i+1)
		ci.Choices = append(ci.Choices, simpleChoice{Identifier: id, Text: a.Text})
		if a.Correct {
			correct.Values = append(correct.Values, id)
		}
	}
	if !mc.Single {
		it.Response.Cardinality = "multiple"
		ci.MaxChoices = 0
	}
	it.Response.Correct = correct
	it.Body.Choice = ci
	it.Processing = &responseProcessing{Template: matchCorrect}
}

// buildEntry declares one string response. Every accepted text maps to the
// full score; the first one is also given as the correct response.
func buildEntry(it *assessmentItem, sa bank.ShortAnswer, points float64) {
	it.Response.BaseType = "string"
	m := &mapping{}
	for _, a := range sa.Answers {
		if a.Correct {
			m.Entries = append(m.Entries, mapEntry{MapKey: a.Text, MappedValue: points})
		}
	}
	if len(m.Entries) > 0 {
		it.Response.Correct = &correctResponse{Values: []string{m.Entries[0].MapKey}}
		it.Response.Mapping = m
	}
	it.Body.Entry = &entryBlock{Interaction: textEntryInteraction{ResponseIdentifier: responseID, ExpectedLength: entryLength}}
	it.Processing = &responseProcessing{Template: mapResponse}
}
