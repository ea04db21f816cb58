// Package extraction prefills applicant form fields from an uploaded CV.
//
// The pipeline mirrors the matching one up to text extraction, then asks a
// small model for a handful of identity fields. The raw CV text is the
// primary product: if the structured pass fails, the fields come back null
// and the text is still returned.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/plenggn/TalentMatch/internal/fetch"
	"github.com/plenggn/TalentMatch/internal/llm"
	"github.com/plenggn/TalentMatch/internal/vision"
)

// Profile is the structured view of a CV. Pointer fields stay nil when the
// model could not determine a value.
type Profile struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Position   *string  `json:"position"`
	Experience *float64 `json:"experience"`
	Text       string   `json:"text"`
}

// Extractor runs the CV download, OCR, and structured extraction pipeline.
type Extractor struct {
	downloader fetch.Downloader
	extractor  vision.Extractor
	client     llm.Client
	tier       llm.ModelTier
}

func NewExtractor(downloader fetch.Downloader, extractor vision.Extractor, client llm.Client) *Extractor {
	return &Extractor{
		downloader: downloader,
		extractor:  extractor,
		client:     client,
		tier:       llm.TierLite,
	}
}

// ExtractProfile downloads the document at fileURL and returns its text plus
// whatever structured fields the model could pull out. Download and OCR
// failures are fatal; a failed structured pass only leaves the fields null.
func (e *Extractor) ExtractProfile(ctx context.Context, fileURL string) (*Profile, error) {
	document, err := e.downloader.Bytes(ctx, fileURL)
	if err != nil {
		return nil, fmt.Errorf("downloading CV: %w", err)
	}

	cvText, err := e.extractor.ExtractText(ctx, document)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Text: cvText}

	prompt := llm.BuildExtractionPrompt(llm.CVProfileSchema(), cvText)
	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		log.Printf("CV profile extraction call failed: %v", err)
		return profile, nil
	}

	var fields struct {
		FirstName  *string  `json:"firstName"`
		LastName   *string  `json:"lastName"`
		Position   *string  `json:"position"`
		Experience *float64 `json:"experience"`
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Printf("CV profile extraction returned invalid JSON: %v", err)
		return profile, nil
	}

	profile.FirstName = fields.FirstName
	profile.LastName = fields.LastName
	profile.Position = fields.Position
	profile.Experience = fields.Experience
	return profile, nil
}
