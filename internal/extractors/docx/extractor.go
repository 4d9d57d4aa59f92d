// Package docx extracts DOCX documents, splitting sections on heading
// styles so location markers survive into citations.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the canonical format name.
func (e *Extractor) Format() string {
	return "docx"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract produces one segment per heading-delimited section of the
// document body. A document without heading styles becomes a single
// section.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) ([]domain.Segment, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid DOCX archive", domain.ErrInvalidInput)
	}

	paragraphs, err := documentParagraphs(reader)
	if err != nil {
		return nil, err
	}

	segments := buildSections(paragraphs)
	if len(segments) == 0 {
		return nil, domain.ErrNoContent
	}

	return segments, nil
}

// docParagraph is a body paragraph with its resolved style.
type docParagraph struct {
	text    string
	heading bool
}

// documentParagraphs extracts styled paragraphs from word/document.xml.
func documentParagraphs(reader *zip.Reader) ([]docParagraph, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening document.xml", domain.ErrInvalidInput)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading document.xml", domain.ErrInvalidInput)
		}

		return parseDocumentXML(content), nil
	}
	return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrInvalidInput)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Properties struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts paragraph text and heading styling.
func parseDocumentXML(content []byte) []docParagraph {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil
	}

	var out []docParagraph
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}

		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}

		out = append(out, docParagraph{
			text:    text,
			heading: strings.HasPrefix(para.Properties.Style.Val, "Heading"),
		})
	}

	return out
}

// buildSections groups paragraphs into heading-delimited sections.
// The heading line stays with its section.
func buildSections(paragraphs []docParagraph) []domain.Segment {
	var segments []domain.Segment
	var current []string
	title := ""
	sectionNum := 1

	flush := func() {
		if len(current) == 0 {
			return
		}
		location := fmt.Sprintf("section %d", sectionNum)
		if title != "" {
			location = fmt.Sprintf("section %d '%s'", sectionNum, title)
		}
		segments = append(segments, domain.Segment{
			Text:     strings.Join(current, "\n"),
			Location: location,
		})
		sectionNum++
		current = nil
	}

	for _, p := range paragraphs {
		if p.heading {
			flush()
			title = p.text
			current = []string{p.text}
			continue
		}
		current = append(current, p.text)
	}
	flush()

	return segments
}
