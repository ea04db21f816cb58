package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/drafting"
)

// DraftEmailRequest is the body of POST /api/draftEmail.
type DraftEmailRequest struct {
	ApplicantID string `json:"applicantId" validate:"required,uuid"`
	EmailType   string `json:"emailType" validate:"required"`
	HRName      string `json:"hrName"`
}

func (s *Server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	var req DraftEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing applicantId or emailType")
		return
	}

	emailType, ok := drafting.ParseEmailType(req.EmailType)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "emailType must be 'offer' or 'rejection'")
		return
	}
	applicantID, err := uuid.Parse(req.ApplicantID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicantId")
		return
	}

	result, err := s.drafter.Draft(r.Context(), applicantID, emailType, req.HRName)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
