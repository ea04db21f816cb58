package db

import (
	"time"

	"github.com/google/uuid"
)

// Status represents an applicant's position in the hiring lifecycle.
type Status string

// Lifecycle states. Applicants move forward one stage at a time;
// Rejected is terminal and reachable from any non-terminal state.
const (
	StatusApplied     Status = "Applied"
	StatusShortlisted Status = "Shortlisted"
	StatusInterviewed Status = "Interviewed"
	StatusOffered     Status = "Offered"
	StatusRejected    Status = "Rejected"
)

// statusOrder maps forward-progression states to their position in the funnel.
var statusOrder = map[Status]int{
	StatusApplied:     0,
	StatusShortlisted: 1,
	StatusInterviewed: 2,
	StatusOffered:     3,
}

// ParseStatus converts a string to a Status, reporting whether it is valid.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusApplied, StatusShortlisted, StatusInterviewed, StatusOffered, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusRejected
}

// CanTransitionTo reports whether a transition from s to target is allowed.
// Forward moves go one stage at a time; Rejected is reachable from any
// non-terminal state; no transitions leave a terminal state.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Terminal() {
		return false
	}
	if target == StatusRejected {
		return true
	}
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[target]
	if !ok {
		return false
	}
	return to == from+1
}

// Applicant represents a candidate row. The AI-derived fields (MatchingScore
// through PersonalityInference) are only meaningful for the job they were last
// computed against; re-analysis overwrites them in place.
type Applicant struct {
	ID                   uuid.UUID  `json:"id"`
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	JobID                *uuid.UUID `json:"job_id,omitempty"`
	CVURL                *string    `json:"cv_url,omitempty"`
	Status               Status     `json:"status"`
	MatchingScore        int        `json:"matching_score"`
	AISummary            string     `json:"ai_summary,omitempty"`
	Overview             string     `json:"overview,omitempty"`
	Strengths            []string   `json:"strengths,omitempty"`
	PotentialGaps        []string   `json:"potential_gaps,omitempty"`
	PotentialPrediction  string     `json:"potential_prediction,omitempty"`
	PersonalityInference string     `json:"personality_inference,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Name returns the applicant's display name.
func (a *Applicant) Name() string {
	return a.FirstName + " " + a.LastName
}

// Job represents a job posting row. Description is the text fed to the
// analyzer; nothing upstream enforces that it is non-empty.
type Job struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Skills             []string   `json:"skills,omitempty"`
	MinExperienceYears int        `json:"min_experience_years"`
	EducationLevel     string     `json:"education_level,omitempty"`
	OpenFrom           *time.Time `json:"open_from,omitempty"`
	OpenUntil          *time.Time `json:"open_until,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// AnalysisUpdate holds the AI-derived fields written back onto an applicant
// row after one analyzer call. A degraded record (score 0 plus a diagnostic
// summary) uses the same shape so failures stay visible in the UI.
type AnalysisUpdate struct {
	MatchingScore        int
	AISummary            string
	Overview             string
	Strengths            []string
	PotentialGaps        []string
	PotentialPrediction  string
	PersonalityInference string
}
