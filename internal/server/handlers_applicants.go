package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/db"
)

// ---------------------------------------------------------------------
// Applicant Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	opts := db.ListApplicantsOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	if jobIDStr := r.URL.Query().Get("job_id"); jobIDStr != "" {
		jobID, err := uuid.Parse(jobIDStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_id filter")
			return
		}
		opts.JobID = &jobID
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status, ok := db.ParseStatus(statusStr)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		opts.Status = &status
	}

	applicants, err := s.store.ListApplicants(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applicants": applicants,
		"count":      len(applicants),
	})
}

func (s *Server) handleCreateApplicant(w http.ResponseWriter, r *http.Request) {
	var req db.Applicant
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FirstName == "" || req.LastName == "" {
		s.errorResponse(w, http.StatusBadRequest, "firstName and lastName are required")
		return
	}
	if req.Status == "" {
		req.Status = db.StatusApplied
	} else if _, ok := db.ParseStatus(string(req.Status)); !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid status")
		return
	}

	created, err := s.store.CreateApplicant(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicant ID")
		return
	}

	applicant, err := s.store.GetApplicant(r.Context(), applicantID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if applicant == nil {
		s.errorResponse(w, http.StatusNotFound, "Applicant not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, applicant)
}

func (s *Server) handleUpdateApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicant ID")
		return
	}

	var req db.Applicant
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.store.UpdateApplicant(r.Context(), applicantID, &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Applicant not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicant ID")
		return
	}

	if err := s.store.DeleteApplicant(r.Context(), applicantID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, "Applicant not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateStatusRequest is the body of PATCH /api/applicants/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// handleUpdateApplicantStatus moves an applicant through the hiring
// lifecycle. Only single forward steps are allowed, plus Rejected from any
// non-terminal stage; the aiMatch and draftEmail pipelines write their own
// status transitions internally.
func (s *Server) handleUpdateApplicantStatus(w http.ResponseWriter, r *http.Request) {
	applicantID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicant ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, ok := db.ParseStatus(req.Status)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid status: "+req.Status)
		return
	}

	applicant, err := s.store.GetApplicant(r.Context(), applicantID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if applicant == nil {
		s.errorResponse(w, http.StatusNotFound, "Applicant not found")
		return
	}

	if !applicant.Status.CanTransitionTo(target) {
		s.errorResponse(w, http.StatusConflict,
			"Cannot transition from "+string(applicant.Status)+" to "+string(target))
		return
	}

	if err := s.store.UpdateApplicantStatus(r.Context(), applicantID, target); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": string(target)})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
