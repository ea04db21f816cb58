package vision

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
)

// LocalExtractor parses PDF text in-process without an OCR service. It only
// reads embedded text layers, so scanned documents come back empty; it exists
// for deployments without a Vision API key.
type LocalExtractor struct{}

// NewLocalExtractor creates a local PDF text extractor.
func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

// ExtractText pulls the plain text layer out of a PDF document.
func (l *LocalExtractor) ExtractText(_ context.Context, document []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", &ExtractionError{Message: "failed to open PDF", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Message: "failed to extract text from PDF", Cause: err}
	}

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &ExtractionError{Message: "failed to read extracted text", Cause: err}
	}

	text := buf.String()
	if text == "" {
		return "", &ExtractionError{Message: "PDF contains no extractable text"}
	}
	return text, nil
}
