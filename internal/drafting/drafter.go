// Package drafting turns stored match analysis into candidate-facing emails.
//
// A draft is grounded in the analysis fields written by a prior matching run:
// offer letters cite the applicant's strengths, rejections turn the potential
// gaps into constructive feedback. Generating a draft also advances the
// applicant's status (Offered or Rejected), but only once a non-empty draft
// came back from the model.
package drafting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/db"
	"github.com/plenggn/TalentMatch/internal/llm"
)

// EmailType selects which draft to generate.
type EmailType string

const (
	EmailTypeOffer     EmailType = "offer"
	EmailTypeRejection EmailType = "rejection"
)

// ParseEmailType validates a request-supplied email type.
func ParseEmailType(s string) (EmailType, bool) {
	switch EmailType(s) {
	case EmailTypeOffer, EmailTypeRejection:
		return EmailType(s), true
	}
	return "", false
}

// Status returns the applicant status a successful draft of this type implies.
func (t EmailType) Status() db.Status {
	if t == EmailTypeOffer {
		return db.StatusOffered
	}
	return db.StatusRejected
}

// NotFoundError reports that the applicant to draft for does not exist.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("applicant analysis data not found for ID: %s", e.ID)
}

// DraftingError reports a failure in the generation step itself.
type DraftingError struct {
	Message string
	Cause   error
}

func (e *DraftingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("drafting failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("drafting failed: %s", e.Message)
}

func (e *DraftingError) Unwrap() error {
	return e.Cause
}

// Store is the persistence surface the drafter needs.
type Store interface {
	GetApplicant(ctx context.Context, id uuid.UUID) (*db.Applicant, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	UpdateApplicantStatus(ctx context.Context, id uuid.UUID, status db.Status) error
}

// Result carries the finished draft and the status it moved the applicant to.
type Result struct {
	Draft        string    `json:"draft"`
	StatusUpdate db.Status `json:"statusUpdate"`
}

// Drafter generates offer and rejection emails for analyzed applicants.
type Drafter struct {
	store  Store
	client llm.Client
	tier   llm.ModelTier
}

func NewDrafter(store Store, client llm.Client) *Drafter {
	return &Drafter{store: store, client: client, tier: llm.TierAdvanced}
}

// Draft generates an email of the given type for the applicant and, on
// success, records the implied status. hrName signs the email; an empty
// hrName falls back to a team signature.
func (d *Drafter) Draft(ctx context.Context, applicantID uuid.UUID, emailType EmailType, hrName string) (*Result, error) {
	applicant, err := d.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, &NotFoundError{ID: applicantID}
	}

	position := "the position"
	if applicant.JobID != nil {
		job, err := d.store.GetJob(ctx, *applicant.JobID)
		if err != nil {
			return nil, err
		}
		if job != nil && job.Title != "" {
			position = job.Title
		}
	}

	prompt := buildEmailPrompt(applicant, position, emailType, hrName)

	draft, err := d.client.GenerateContent(ctx, prompt, d.tier)
	if err != nil {
		return nil, &DraftingError{Message: "AI call failed", Cause: err}
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return nil, &DraftingError{Message: "AI failed to generate email draft"}
	}

	// The status write follows the draft so a generation failure never
	// moves the applicant.
	newStatus := emailType.Status()
	if err := d.store.UpdateApplicantStatus(ctx, applicantID, newStatus); err != nil {
		return nil, fmt.Errorf("updating applicant status: %w", err)
	}

	return &Result{Draft: draft, StatusUpdate: newStatus}, nil
}

func buildEmailPrompt(applicant *db.Applicant, position string, emailType EmailType, hrName string) string {
	signature := hrName
	if signature == "" {
		signature = "HR Team"
	}

	if emailType == EmailTypeOffer {
		strengthsList := bulletList(applicant.Strengths)
		if strengthsList == "" {
			strengthsList = "No specific strengths identified, focus on the overall profile."
		}
		return fmt.Sprintf(`You are an HR Director drafting a highly personalized and professional **OFFER LETTER** email to a top candidate.
The tone must be enthusiastic, encouraging, and highlight their specific fit.

**Candidate**: %s
**Position Offered**: %s
**Your (HR) Name**: %s

**Instructions**:
1. Use a professional and friendly tone.
2. In the body, reference their core strengths (from the Strengths list) to explain WHY they were chosen.
3. Clearly state the position and invite them to accept.
4. The response MUST be ONLY the complete email draft in **Markdown format**.
5. Sign off using the **Your (HR) Name** (e.g., "Sincerely,\n%s").

--- Candidate Strengths ---
%s`, applicant.Name(), position, signature, signature, strengthsList)
	}

	gapsList := bulletList(applicant.PotentialGaps)
	if gapsList == "" {
		gapsList = "No specific gaps were identified in the analysis."
	}
	return fmt.Sprintf(`You are an HR Manager drafting a professional and constructive **REJECTION EMAIL** to a candidate.
The goal is to maintain a positive employer brand and offer helpful feedback.

**Candidate**: %s
**Position Applied**: %s
**Your (HR) Name**: %s

**Instructions**:
1. Use a professional, empathetic tone.
2. State clearly that they will not be moving forward.
3. Crucially: Use the Potential Gaps list to provide **CONSTRUCTIVE, ACTIONABLE feedback** on skills they should develop for future opportunities. Avoid negative phrasing.
4. The response MUST be ONLY the complete email draft in **Markdown format**.
5. Sign off using the **Your (HR) Name** (e.g., "Sincerely,\n%s").

--- Candidate Potential Gaps ---
%s`, applicant.Name(), position, signature, signature, gapsList)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = " - " + item
	}
	return strings.Join(lines, "\n")
}
