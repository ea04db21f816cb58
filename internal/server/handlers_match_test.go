package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plenggn/TalentMatch/internal/matching"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleAIMatch_JobToApplicants(t *testing.T) {
	s, _ := setupTestServer(t)
	jobID := uuid.New()
	s.matcher = &fakeMatcher{applicantResults: []matching.ApplicantMatch{
		{ID: uuid.New(), Name: "Mina Park", MatchingScore: 88, MatchedJobID: jobID, MatchedJobTitle: "Backend Engineer", IsLocked: true},
		{ID: uuid.New(), Name: "Ben Ruiz", MatchingScore: 42, MatchedJobID: jobID, MatchedJobTitle: "Backend Engineer", IsLocked: true},
	}}

	body, _ := json.Marshal(AIMatchRequest{Mode: "jobToApplicants", TargetID: jobID.String()})
	w := postJSON(t, s.handleAIMatch, "/api/aiMatch", string(body))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Results []matching.ApplicantMatch `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 88, resp.Results[0].MatchingScore)
	assert.True(t, resp.Results[0].IsLocked)
}

func TestHandleAIMatch_ApplicantToJobs(t *testing.T) {
	s, _ := setupTestServer(t)
	s.matcher = &fakeMatcher{
		jobResults:    []matching.JobMatch{{ID: uuid.New(), Title: "Data Engineer", MatchingScore: 77}},
		applicantName: "Mina Park",
	}

	body, _ := json.Marshal(AIMatchRequest{Mode: "applicantToJobs", TargetID: uuid.NewString()})
	w := postJSON(t, s.handleAIMatch, "/api/aiMatch", string(body))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mina Park", resp["applicantName"])
}

func TestHandleAIMatch_BadRequests(t *testing.T) {
	s, _ := setupTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing mode", `{"targetId": "` + uuid.NewString() + `"}`},
		{"missing targetId", `{"mode": "jobToApplicants"}`},
		{"unknown mode", `{"mode": "sideways", "targetId": "` + uuid.NewString() + `"}`},
		{"bad uuid", `{"mode": "jobToApplicants", "targetId": "not-a-uuid"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, s.handleAIMatch, "/api/aiMatch", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleAIMatch_JobNotFound(t *testing.T) {
	s, _ := setupTestServer(t)
	s.matcher = &fakeMatcher{err: &matching.NotFoundError{Kind: "job", ID: uuid.New()}}

	body, _ := json.Marshal(AIMatchRequest{Mode: "jobToApplicants", TargetID: uuid.NewString()})
	w := postJSON(t, s.handleAIMatch, "/api/aiMatch", string(body))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestHandleAIMatch_EmptyDescription(t *testing.T) {
	s, _ := setupTestServer(t)
	s.matcher = &fakeMatcher{err: &matching.MissingInputError{Kind: "job", ID: uuid.New(), Detail: "job description is empty"}}

	body, _ := json.Marshal(AIMatchRequest{Mode: "jobToApplicants", TargetID: uuid.NewString()})
	w := postJSON(t, s.handleAIMatch, "/api/aiMatch", string(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAIMatch_RoutedThroughMux(t *testing.T) {
	s, _ := setupTestServer(t)
	defer s.rateLimiter.Stop()
	s.matcher = &fakeMatcher{applicantResults: []matching.ApplicantMatch{}}

	body, _ := json.Marshal(AIMatchRequest{Mode: "jobToApplicants", TargetID: uuid.NewString()})
	req := httptest.NewRequest(http.MethodPost, "/api/aiMatch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"), "AI endpoints carry rate limit headers")
}
