package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotateServer(t *testing.T, status int, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req annotateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, "application/pdf", req.Requests[0].InputConfig.MimeType)
		assert.Equal(t, "DOCUMENT_TEXT_DETECTION", req.Requests[0].Features[0].Type)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func TestVisionExtractor_ConcatenatesPagesInOrder(t *testing.T) {
	srv := annotateServer(t, http.StatusOK, `{
		"responses": [{
			"responses": [
				{"fullTextAnnotation": {"text": "page one"}},
				{"fullTextAnnotation": {"text": "page two"}}
			]
		}]
	}`)
	defer srv.Close()

	e := NewVisionExtractor("test-key").WithEndpoint(srv.URL)
	text, err := e.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two\n", text)
}

func TestVisionExtractor_UpstreamRejection(t *testing.T) {
	srv := annotateServer(t, http.StatusForbidden, `{
		"error": {"code": 403, "message": "API key not valid"}
	}`)
	defer srv.Close()

	e := NewVisionExtractor("test-key").WithEndpoint(srv.URL)
	_, err := e.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, extractionErr.Message, "API key not valid")
}

func TestVisionExtractor_NoText(t *testing.T) {
	srv := annotateServer(t, http.StatusOK, `{"responses": [{"responses": []}]}`)
	defer srv.Close()

	e := NewVisionExtractor("test-key").WithEndpoint(srv.URL)
	_, err := e.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, extractionErr.Message, "could not extract text")
}

func TestVisionExtractor_FileLevelError(t *testing.T) {
	srv := annotateServer(t, http.StatusOK, `{
		"responses": [{"error": {"code": 3, "message": "Unsupported file format"}}]
	}`)
	defer srv.Close()

	e := NewVisionExtractor("test-key").WithEndpoint(srv.URL)
	_, err := e.ExtractText(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported file format")
}

func TestLocalExtractor_RejectsNonPDF(t *testing.T) {
	e := NewLocalExtractor()
	_, err := e.ExtractText(context.Background(), []byte("plain text, not a pdf"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}
