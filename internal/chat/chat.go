// Package chat answers recruiter questions about a single applicant's CV.
//
// Failures in the CV pipeline (missing document, download or extraction
// errors) are reported as chat text rather than errors, so the conversation
// surface always has something to show. Only malformed requests and model
// outages escape as errors.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/db"
	"github.com/plenggn/TalentMatch/internal/fetch"
	"github.com/plenggn/TalentMatch/internal/llm"
	"github.com/plenggn/TalentMatch/internal/vision"
)

const diagnosticLimit = 150

// Store is the persistence surface the assistant needs.
type Store interface {
	GetApplicant(ctx context.Context, id uuid.UUID) (*db.Applicant, error)
}

// Assistant answers questions grounded in an applicant's CV text.
type Assistant struct {
	store      Store
	downloader fetch.Downloader
	extractor  vision.Extractor
	client     llm.Client
	tier       llm.ModelTier
}

func NewAssistant(store Store, downloader fetch.Downloader, extractor vision.Extractor, client llm.Client) *Assistant {
	return &Assistant{
		store:      store,
		downloader: downloader,
		extractor:  extractor,
		client:     client,
		tier:       llm.TierStandard,
	}
}

// Answer responds to userQuery about the applicant's CV. Pipeline failures
// come back as the response text itself; the error return is reserved for
// the model call failing outright.
func (a *Assistant) Answer(ctx context.Context, applicantID uuid.UUID, userQuery string) (string, error) {
	applicant, err := a.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return fmt.Sprintf("Database Error (applicants table): %v", err), nil
	}
	if applicant == nil {
		return fmt.Sprintf("Error: Candidate Applicant ID %s (ID: %s) does not have a CV URL.", applicantID, applicantID), nil
	}
	if applicant.CVURL == nil || *applicant.CVURL == "" {
		return fmt.Sprintf("Error: Candidate %s (ID: %s) does not have a CV URL.", applicant.Name(), applicantID), nil
	}

	document, err := a.downloader.Bytes(ctx, *applicant.CVURL)
	if err != nil {
		return processingFailure(err), nil
	}
	cvText, err := a.extractor.ExtractText(ctx, document)
	if err != nil {
		return processingFailure(err), nil
	}

	response, err := a.client.GenerateContent(ctx, buildChatPrompt(cvText, userQuery), a.tier)
	if err != nil {
		return "", fmt.Errorf("AI server processing failed: %w", err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "AI did not return any response.", nil
	}
	return response, nil
}

func processingFailure(err error) string {
	return "Error: Failed to process CV. Vision API Error: " + truncate(err.Error(), diagnosticLimit)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func buildChatPrompt(cvText, userQuery string) string {
	return fmt.Sprintf(`You are a concise, highly insightful AI HR Analyst. Your task is to analyze and synthesize the CV text to answer the user's questions based ONLY on the provided document.

**STRICT SYNTHESIS RULE (CRITICAL):**
If the user's question requires analysis, synthesis, or inference (e.g., "What are their key strengths?", "Summarize their work experience"), you MUST analyze and infer the best answer based on the facts presented in the CV. Do NOT limit your answer to only explicitly stated facts.

**ABSENCE RULE (No more "Not mentioned in CV."):**
If the information requested is entirely absent and cannot be inferred from the CV, you must state this clearly using a professional alternative.
**DO NOT use the exact phrase "Not mentioned in CV."** Use alternatives like "This information is not available in the provided CV." or "The CV does not contain this detail."

**STRICT FORMATTING RULES:**
1. Keep the answer as brief as possible, focusing only on the requested information.
2. Use **Markdown** (e.g., **bold**, lists, headers) to structure the response clearly.
3. If the answer is long, use **bullet points** or **subheadings (###)**.
4. Never return long, dense paragraphs.

--- CV TEXT ---
%s

--- USER QUESTION ---
%s
`, cvText, userQuery)
}
