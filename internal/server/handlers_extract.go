package server

import (
	"encoding/json"
	"net/http"
)

// ExtractCVRequest is the body of POST /api/extractCV.
type ExtractCVRequest struct {
	ApplicantID string `json:"applicantId" validate:"required,uuid"`
	FileURL     string `json:"fileUrl" validate:"required,url"`
}

// handleExtractCV returns structured profile fields plus the raw CV text
// for prefilling the applicant form. Nothing is persisted; the client
// decides what to keep.
func (s *Server) handleExtractCV(w http.ResponseWriter, r *http.Request) {
	var req ExtractCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing fileUrl or applicantId")
		return
	}

	profile, err := s.profiles.ExtractProfile(r.Context(), req.FileURL)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Server Error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
