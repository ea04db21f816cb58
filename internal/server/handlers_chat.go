package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// CVChatRequest is the body of POST /api/cvChat.
type CVChatRequest struct {
	ApplicantID string `json:"applicantId" validate:"required,uuid"`
	UserQuery   string `json:"userQuery" validate:"required"`
}

// handleCVChat answers a question about an applicant's CV. Pipeline failures
// come back as chat text with status 200; only a malformed request or a model
// outage produces an error status.
func (s *Server) handleCVChat(w http.ResponseWriter, r *http.Request) {
	var req CVChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing applicantId or userQuery")
		return
	}

	applicantID, err := uuid.Parse(req.ApplicantID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid applicantId")
		return
	}

	responseText, err := s.assistant.Answer(r.Context(), applicantID, req.UserQuery)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"responseText": responseText})
}
