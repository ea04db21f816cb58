package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plenggn/TalentMatch/internal/db"
)

// ---------------------------------------------------------------------
// Applicants
// ---------------------------------------------------------------------

func TestHandleCreateApplicant(t *testing.T) {
	s, store := setupTestServer(t)

	w := postJSON(t, s.handleCreateApplicant, "/api/applicants",
		`{"firstName": "Mina", "lastName": "Park", "email": "mina@example.com"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var created db.Applicant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, db.StatusApplied, created.Status, "new applicants default to Applied")
	assert.Len(t, store.applicants, 1)
}

func TestHandleCreateApplicant_MissingName(t *testing.T) {
	s, _ := setupTestServer(t)

	w := postJSON(t, s.handleCreateApplicant, "/api/applicants", `{"firstName": "Mina"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateApplicant_InvalidStatus(t *testing.T) {
	s, _ := setupTestServer(t)

	w := postJSON(t, s.handleCreateApplicant, "/api/applicants",
		`{"firstName": "Mina", "lastName": "Park", "status": "Hired"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetApplicant_NotFound(t *testing.T) {
	s, _ := setupTestServer(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/applicants/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleGetApplicant(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetApplicant_InvalidID(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/applicants/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	s.handleGetApplicant(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListApplicants_StatusFilter(t *testing.T) {
	s, store := setupTestServer(t)

	applied := &db.Applicant{ID: uuid.New(), FirstName: "A", LastName: "One", Status: db.StatusApplied}
	shortlisted := &db.Applicant{ID: uuid.New(), FirstName: "B", LastName: "Two", Status: db.StatusShortlisted}
	store.applicants[applied.ID] = applied
	store.applicants[shortlisted.ID] = shortlisted

	req := httptest.NewRequest(http.MethodGet, "/api/applicants?status=Shortlisted", nil)
	w := httptest.NewRecorder()
	s.handleListApplicants(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Applicants []db.Applicant `json:"applicants"`
		Count      int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, shortlisted.ID, resp.Applicants[0].ID)
}

func TestHandleListApplicants_InvalidFilters(t *testing.T) {
	s, _ := setupTestServer(t)

	for name, query := range map[string]string{
		"bad status": "?status=Hired",
		"bad job_id": "?job_id=not-a-uuid",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/applicants"+query, nil)
			w := httptest.NewRecorder()
			s.handleListApplicants(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleDeleteApplicant(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park"}
	store.applicants[a.ID] = a

	req := httptest.NewRequest(http.MethodDelete, "/api/applicants/"+a.ID.String(), nil)
	req.SetPathValue("id", a.ID.String())
	w := httptest.NewRecorder()
	s.handleDeleteApplicant(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.applicants)

	// Deleting again is a 404
	w = httptest.NewRecorder()
	s.handleDeleteApplicant(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---------------------------------------------------------------------
// Status transitions
// ---------------------------------------------------------------------

func patchStatus(t *testing.T, s *Server, id uuid.UUID, status string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/api/applicants/"+id.String()+"/status",
		strings.NewReader(`{"status": "`+status+`"}`))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleUpdateApplicantStatus(w, req)
	return w
}

func TestHandleUpdateApplicantStatus_ForwardStep(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park", Status: db.StatusApplied}
	store.applicants[a.ID] = a

	w := patchStatus(t, s, a.ID, "Shortlisted")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, db.StatusShortlisted, store.statuses[a.ID])
}

func TestHandleUpdateApplicantStatus_SkippingStagesRejected(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park", Status: db.StatusApplied}
	store.applicants[a.ID] = a

	w := patchStatus(t, s, a.ID, "Offered")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, store.statuses)
}

func TestHandleUpdateApplicantStatus_RejectFromAnyStage(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park", Status: db.StatusInterviewed}
	store.applicants[a.ID] = a

	w := patchStatus(t, s, a.ID, "Rejected")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, db.StatusRejected, store.statuses[a.ID])
}

func TestHandleUpdateApplicantStatus_TerminalIsFinal(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park", Status: db.StatusRejected}
	store.applicants[a.ID] = a

	w := patchStatus(t, s, a.ID, "Applied")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleUpdateApplicantStatus_UnknownStatus(t *testing.T) {
	s, store := setupTestServer(t)
	a := &db.Applicant{ID: uuid.New(), FirstName: "Mina", LastName: "Park", Status: db.StatusApplied}
	store.applicants[a.ID] = a

	w := patchStatus(t, s, a.ID, "Hired")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------

func TestHandleCreateJob(t *testing.T) {
	s, store := setupTestServer(t)

	w := postJSON(t, s.handleCreateJob, "/api/jobs",
		`{"title": "Backend Engineer", "description": "Go and Postgres.", "skills": ["Go", "PostgreSQL"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var created db.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Backend Engineer", created.Title)
	assert.Len(t, store.jobs, 1)
}

func TestHandleCreateJob_MissingTitle(t *testing.T) {
	s, _ := setupTestServer(t)

	w := postJSON(t, s.handleCreateJob, "/api/jobs", `{"description": "No title."}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateJob_NotFound(t *testing.T) {
	s, _ := setupTestServer(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/jobs/"+id.String(),
		strings.NewReader(`{"title": "Renamed"}`))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleUpdateJob(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteJob(t *testing.T) {
	s, store := setupTestServer(t)
	job := &db.Job{ID: uuid.New(), Title: "Role"}
	store.jobs[job.ID] = job

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/"+job.ID.String(), nil)
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	s.handleDeleteJob(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.jobs)
}
