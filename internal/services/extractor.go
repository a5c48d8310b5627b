package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MediaTypePDF is the only document type the pipeline accepts.
const MediaTypePDF = "application/pdf"

var (
	// ErrUnsupportedMediaType rejects a document before extraction is even
	// attempted. Client-input error.
	ErrUnsupportedMediaType = errors.New("only PDF documents are accepted")

	// ErrNoTextContent means extraction ran but produced nothing usable,
	// e.g. a scanned image PDF. Unprocessable-content error.
	ErrNoTextContent = errors.New("no text content found in document")
)

// Document is one uploaded file. It lives for a single pipeline invocation
// and is never persisted as a blob by this service.
type Document struct {
	Data      []byte
	MediaType string
	Filename  string
}

type TextExtractor interface {
	Extract(doc Document) (string, error)
}

type pdfTextExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &pdfTextExtractor{}
}

// Extract implements TextExtractor. Extraction is deterministic, so there
// are no retries: a failure here would fail the same way again.
func (p *pdfTextExtractor) Extract(doc Document) (string, error) {
	if doc.MediaType != MediaTypePDF {
		return "", ErrUnsupportedMediaType
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoTextContent
	}

	return CleanText(text), nil
}

// CleanText normalizes extracted text: trims every line and drops the
// empty ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
