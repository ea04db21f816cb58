package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plenggn/TalentMatch/internal/llm"
)

// fakeLLM returns a canned response (or error) for every call.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func TestAnalyze_FullResult(t *testing.T) {
	client := &fakeLLM{response: `{
		"matchingScore": 85,
		"aiSummary": "Experienced backend engineer.",
		"overview": "Strong fit for the role.",
		"strengths": ["Go", "Postgres", "APIs"],
		"potentialGaps": ["Kubernetes"],
		"potentialPrediction": "Senior-ready within a year.",
		"personalityInference": "Structured and pragmatic."
	}`}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv text", "jd text")

	assert.Equal(t, 85, result.MatchingScore)
	assert.Equal(t, "Experienced backend engineer.", result.AISummary)
	assert.Equal(t, "Strong fit for the role.", result.Overview)
	assert.Equal(t, []string{"Go", "Postgres", "APIs"}, result.Strengths)
	assert.Equal(t, []string{"Kubernetes"}, result.PotentialGaps)
}

func TestAnalyze_PromptContainsBothTexts(t *testing.T) {
	client := &fakeLLM{response: `{"matchingScore": 1, "aiSummary": "x"}`}
	a := NewLLMAnalyzer(client)
	a.Analyze(context.Background(), "the cv body", "the jd body")

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "the cv body")
	assert.Contains(t, client.prompts[0], "the jd body")
	assert.Contains(t, client.prompts[0], "matchingScore")
}

func TestAnalyze_StripsMarkdownFence(t *testing.T) {
	// Fence stripping is required: models wrap JSON even when told not to
	client := &fakeLLM{response: "```json\n{\"matchingScore\": 42, \"aiSummary\": \"Fenced reply.\"}\n```"}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Equal(t, 42, result.MatchingScore)
	assert.Equal(t, "Fenced reply.", result.AISummary)
}

func TestAnalyze_ScoreAsStringIsCoerced(t *testing.T) {
	client := &fakeLLM{response: `{"matchingScore": "73", "aiSummary": "String score."}`}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Equal(t, 73, result.MatchingScore)
}

func TestAnalyze_ScoreClampedToRange(t *testing.T) {
	client := &fakeLLM{response: `{"matchingScore": 150, "aiSummary": "Overshoot."}`}
	a := NewLLMAnalyzer(client)
	assert.Equal(t, 100, a.Analyze(context.Background(), "cv", "jd").MatchingScore)

	client.response = `{"matchingScore": -20, "aiSummary": "Undershoot."}`
	assert.Equal(t, 0, a.Analyze(context.Background(), "cv", "jd").MatchingScore)
}

func TestAnalyze_ListsCappedAtRequestedSizes(t *testing.T) {
	client := &fakeLLM{response: `{
		"matchingScore": 50,
		"aiSummary": "ok",
		"strengths": ["a", "b", "c", "d", "e", "f", "g"],
		"potentialGaps": ["1", "2", "3", "4", "5"]
	}`}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Len(t, result.Strengths, 5)
	assert.Len(t, result.PotentialGaps, 3)
}

func TestAnalyze_ModelErrorDegrades(t *testing.T) {
	client := &fakeLLM{err: errors.New("permission denied")}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Equal(t, 0, result.MatchingScore)
	assert.Contains(t, result.AISummary, "AI analysis failed")
	assert.Contains(t, result.AISummary, "permission denied")
}

func TestAnalyze_InvalidJSONDegrades(t *testing.T) {
	client := &fakeLLM{response: "I cannot produce JSON today, sorry."}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Equal(t, 0, result.MatchingScore)
	assert.Contains(t, result.AISummary, "invalid JSON")
}

func TestAnalyze_MissingMandatoryKeysDegrades(t *testing.T) {
	client := &fakeLLM{response: `{"overview": "no score or summary here"}`}

	a := NewLLMAnalyzer(client)
	result := a.Analyze(context.Background(), "cv", "jd")

	assert.Equal(t, 0, result.MatchingScore)
	assert.Contains(t, result.AISummary, "missing required keys")
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
	}{
		{"float", float64(88), 88},
		{"numeric string", "64", 64},
		{"padded string", " 50 ", 50},
		{"float string", "77.4", 77},
		{"garbage string", "high", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceScore(tt.input))
		})
	}
}
