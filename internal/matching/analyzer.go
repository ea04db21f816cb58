// Package matching implements the CV-to-job analysis pipeline: prompt
// construction, model response coercion, and the concurrent orchestration
// that persists scores onto applicant rows.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/plenggn/TalentMatch/internal/llm"
	"github.com/plenggn/TalentMatch/internal/schemas"
)

// Result holds the seven AI-derived fields produced by one analyzer call.
// A degraded result has MatchingScore 0 and a diagnostic AISummary; note that
// a score of 0 is therefore ambiguous between "model scored zero" and
// "analysis failed" — there is no separate failure flag.
type Result struct {
	MatchingScore        int      `json:"matching_score"`
	AISummary            string   `json:"ai_summary"`
	Overview             string   `json:"overview,omitempty"`
	Strengths            []string `json:"strengths,omitempty"`
	PotentialGaps        []string `json:"potential_gaps,omitempty"`
	PotentialPrediction  string   `json:"potential_prediction,omitempty"`
	PersonalityInference string   `json:"personality_inference,omitempty"`
}

// Analyzer scores a CV against a job description. Implementations never
// fail past their boundary: callers always receive some Result, degraded on
// error, so one bad item cannot abort a batch.
type Analyzer interface {
	Analyze(ctx context.Context, cvText, jdText string) Result
}

const (
	maxStrengths = 5
	maxGaps      = 3

	// diagnosticLimit caps upstream error detail embedded in degraded summaries
	diagnosticLimit = 150
)

// LLMAnalyzer implements Analyzer on top of a generative model client.
type LLMAnalyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMAnalyzer creates an analyzer using the advanced model tier.
func NewLLMAnalyzer(client llm.Client) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, tier: llm.TierAdvanced}
}

// Analyze builds the match prompt, calls the model, and coerces the reply
// into a Result. Every failure path degrades to a zero-score Result with a
// diagnostic summary instead of returning an error.
func (a *LLMAnalyzer) Analyze(ctx context.Context, cvText, jdText string) Result {
	prompt := buildMatchPrompt(cvText, jdText)

	raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		log.Printf("[match] model call failed: %v", err)
		return degraded("AI analysis failed: " + truncate(err.Error(), diagnosticLimit))
	}

	result, err := parseAnalysis(raw)
	if err != nil {
		log.Printf("[match] response parsing failed: %v", err)
		return degraded(err.Error())
	}
	return result
}

// buildMatchPrompt constructs the instruction prompt demanding a JSON-only
// reply with the exact keys the pipeline persists.
func buildMatchPrompt(cvText, jdText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following CV text and Job Description (JD) text carefully.\n")
	sb.WriteString("JD: \"\"\"" + jdText + "\"\"\"\n")
	sb.WriteString("CV: \"\"\"" + cvText + "\"\"\"\n")
	sb.WriteString("Your response MUST be ONLY a valid JSON object. Do not include any introductory text, explanations, markdown formatting, or closing remarks.\n")
	sb.WriteString("The JSON object must strictly contain these keys and value types:\n")
	sb.WriteString("1. \"matchingScore\": A number (integer between 0 and 100) assessing the CV's suitability for the provided JD.\n")
	sb.WriteString("2. \"aiSummary\": A string containing a 2-3 sentence summary of the candidate's profile and experience based ONLY on the CV text.\n")
	sb.WriteString("3. \"overview\": A string containing a 2-3 sentence overview explaining why the candidate is (or isn't) a good fit for this specific JD.\n")
	sb.WriteString("4. \"strengths\": An array of strings (max 5 items) listing the candidate's key strengths that are relevant to this JD.\n")
	sb.WriteString("5. \"potentialGaps\": An array of strings (max 3 items) listing important skills or qualifications required by the JD that seem missing or unclear in the CV text.\n")
	sb.WriteString("6. \"potentialPrediction\": A string containing a short prediction (1-2 sentences) about the candidate's growth potential in this role or company.\n")
	sb.WriteString("7. \"personalityInference\": A string containing a short inference (1-2 sentences) about the candidate's personality/work style based on the tone and content of the CV.\n")
	return sb.String()
}

// rawAnalysis mirrors the JSON keys requested from the model. matchingScore
// is declared as any because models return it as a number or a string.
type rawAnalysis struct {
	MatchingScore        any      `json:"matchingScore"`
	AISummary            string   `json:"aiSummary"`
	Overview             string   `json:"overview"`
	Strengths            []string `json:"strengths"`
	PotentialGaps        []string `json:"potentialGaps"`
	PotentialPrediction  string   `json:"potentialPrediction"`
	PersonalityInference string   `json:"personalityInference"`
}

// parseAnalysis strips markdown fences, validates the mandatory keys, and
// coerces the response into a Result.
func parseAnalysis(text string) (Result, error) {
	cleaned := llm.CleanJSONBlock(text)

	if err := schemas.ValidateMatchAnalysis(cleaned); err != nil {
		if _, ok := err.(*schemas.ValidationError); ok {
			return Result{}, fmt.Errorf("AI response JSON missing required keys")
		}
		return Result{}, fmt.Errorf("AI returned invalid JSON after cleaning attempt")
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return Result{}, fmt.Errorf("AI returned invalid JSON after cleaning attempt")
	}

	summary := raw.AISummary
	if summary == "" {
		summary = "No summary provided."
	}

	return Result{
		MatchingScore:        coerceScore(raw.MatchingScore),
		AISummary:            summary,
		Overview:             raw.Overview,
		Strengths:            capList(raw.Strengths, maxStrengths),
		PotentialGaps:        capList(raw.PotentialGaps, maxGaps),
		PotentialPrediction:  raw.PotentialPrediction,
		PersonalityInference: raw.PersonalityInference,
	}, nil
}

// coerceScore converts whatever the model returned into an integer clamped
// to [0, 100]. Unparseable values become 0.
func coerceScore(v any) int {
	var score int
	switch n := v.(type) {
	case float64:
		score = int(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		score = int(f)
	default:
		return 0
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// capList truncates a list to the length the prompt asked for.
func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// degraded builds the zero-score fallback Result carrying a diagnostic
// message so the failure stays visible in place of a blank record.
func degraded(message string) Result {
	return Result{MatchingScore: 0, AISummary: message}
}

// truncate shortens upstream error detail for embedding in summaries.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
