package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/matching"
)

// AIMatchRequest is the body of POST /api/aiMatch.
type AIMatchRequest struct {
	Mode     string `json:"mode" validate:"required"`
	TargetID string `json:"targetId" validate:"required,uuid"`
}

func (s *Server) handleAIMatch(w http.ResponseWriter, r *http.Request) {
	var req AIMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing or invalid mode/targetId")
		return
	}

	mode, ok := matching.ParseMode(req.Mode)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Unknown mode: "+req.Mode)
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid targetId")
		return
	}

	switch mode {
	case matching.ModeJobToApplicants:
		results, err := s.matcher.MatchJobToApplicants(r.Context(), targetID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})

	case matching.ModeApplicantToJobs:
		results, applicantName, err := s.matcher.MatchApplicantToJobs(r.Context(), targetID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"results":       results,
			"applicantName": applicantName,
		})
	}
}
