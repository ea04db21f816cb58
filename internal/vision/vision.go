// Package vision provides document text extraction for uploaded CVs.
// The primary implementation calls the Google Vision files:annotate endpoint;
// a local PDF parser serves as a fallback when no Vision key is configured.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the Google Vision document annotation endpoint.
const DefaultEndpoint = "https://vision.googleapis.com/v1/files:annotate"

// Extractor converts a raw document (expected PDF) to plain text.
type Extractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}

// ExtractionError reports an extraction failure with upstream detail. The
// matching pipeline recovers from it per item: the affected candidate gets a
// degraded record rather than aborting the batch.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// VisionExtractor calls the Google Vision REST API with DOCUMENT_TEXT_DETECTION.
type VisionExtractor struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewVisionExtractor creates an extractor using the given Vision API key.
func NewVisionExtractor(apiKey string) *VisionExtractor {
	return &VisionExtractor{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// WithEndpoint overrides the annotation endpoint. Used in tests.
func (v *VisionExtractor) WithEndpoint(endpoint string) *VisionExtractor {
	v.endpoint = endpoint
	return v
}

// Request/response shapes for the files:annotate call. Only the fields this
// extractor reads are declared.

type annotateRequest struct {
	Requests []annotateFileRequest `json:"requests"`
}

type annotateFileRequest struct {
	InputConfig inputConfig `json:"inputConfig"`
	Features    []feature   `json:"features"`
}

type inputConfig struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []fileResponse `json:"responses"`
	Error     *apiError      `json:"error,omitempty"`
}

type fileResponse struct {
	Responses []pageResponse `json:"responses"`
	Error     *apiError      `json:"error,omitempty"`
}

type pageResponse struct {
	FullTextAnnotation *fullTextAnnotation `json:"fullTextAnnotation,omitempty"`
}

type fullTextAnnotation struct {
	Text string `json:"text"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ExtractText submits the document for full-text annotation and concatenates
// the per-page text in page order, separated by newlines. No retry is
// attempted; a rejected call or an empty result is an ExtractionError.
func (v *VisionExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	payload := annotateRequest{
		Requests: []annotateFileRequest{
			{
				InputConfig: inputConfig{
					Content:  base64.StdEncoding.EncodeToString(document),
					MimeType: "application/pdf",
				},
				Features: []feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &ExtractionError{Message: "failed to encode request", Cause: err}
	}

	url := v.endpoint + "?key=" + v.apiKey
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", &ExtractionError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return "", &ExtractionError{Message: "Vision API request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ExtractionError{Message: "failed to read Vision API response", Cause: err}
	}

	var result annotateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ExtractionError{Message: "failed to parse Vision API response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if result.Error != nil && result.Error.Message != "" {
			detail = result.Error.Message
		}
		return "", &ExtractionError{Message: "Vision API error: " + detail}
	}

	if len(result.Responses) == 0 {
		return "", &ExtractionError{Message: "Vision API returned no responses"}
	}

	file := result.Responses[0]
	if file.Error != nil && file.Error.Message != "" {
		return "", &ExtractionError{Message: "Vision API error: " + file.Error.Message}
	}

	var sb strings.Builder
	for _, page := range file.Responses {
		if page.FullTextAnnotation != nil && page.FullTextAnnotation.Text != "" {
			sb.WriteString(page.FullTextAnnotation.Text)
			sb.WriteString("\n")
		}
	}

	text := sb.String()
	if text == "" {
		return "", &ExtractionError{Message: "Vision API could not extract text"}
	}
	return text, nil
}
