package matching

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/plenggn/TalentMatch/internal/db"
	"github.com/plenggn/TalentMatch/internal/fetch"
	"github.com/plenggn/TalentMatch/internal/vision"
)

// Mode selects the direction of a matching request.
type Mode string

// Matching modes, as carried on the wire by POST /api/aiMatch.
const (
	ModeJobToApplicants Mode = "jobToApplicants"
	ModeApplicantToJobs Mode = "applicantToJobs"
)

// ParseMode converts a string to a Mode, reporting whether it is valid.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeJobToApplicants, ModeApplicantToJobs:
		return Mode(s), true
	}
	return "", false
}

// Store is the subset of persistence operations the orchestrator needs.
// *db.DB satisfies it; tests substitute fakes.
type Store interface {
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	GetApplicant(ctx context.Context, id uuid.UUID) (*db.Applicant, error)
	ListApplicantsForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]db.Applicant, error)
	ListOpenJobs(ctx context.Context, limit int) ([]db.Job, error)
	UpdateApplicantAnalysis(ctx context.Context, id uuid.UUID, u db.AnalysisUpdate) error
}

// Options bounds the work one matching request may perform. The caps limit
// external API cost per request; they are not correctness boundaries, so
// larger pools are truncated, not rejected.
type Options struct {
	MaxApplicants  int // applicant pool cap for jobToApplicants
	MaxJobs        int // job pool cap for applicantToJobs
	MaxReturned    int // result list cap for jobToApplicants
	MaxConcurrency int // simultaneous per-item pipelines
}

// DefaultOptions returns the production caps.
func DefaultOptions() Options {
	return Options{
		MaxApplicants:  10,
		MaxJobs:        20,
		MaxReturned:    10,
		MaxConcurrency: 10,
	}
}

// ApplicantMatch is one ranked entry from a jobToApplicants request.
type ApplicantMatch struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MatchingScore   int       `json:"matching_score"`
	AISummary       string    `json:"ai_summary"`
	CVURL           string    `json:"cvUrl"`
	MatchedJobID    uuid.UUID `json:"matched_job_id"`
	MatchedJobTitle string    `json:"matched_job_title"`
	IsLocked        bool      `json:"is_locked"`
}

// JobMatch is one ranked entry from an applicantToJobs request.
type JobMatch struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	MatchingScore int       `json:"matching_score"`
	AISummary     string    `json:"ai_summary"`
}

// Orchestrator drives the per-item pipeline (download, extract, analyze,
// persist) concurrently across a candidate pool and ranks the outcome.
type Orchestrator struct {
	store      Store
	downloader fetch.Downloader
	extractor  vision.Extractor
	analyzer   Analyzer
	opts       Options
}

// NewOrchestrator wires the pipeline dependencies.
func NewOrchestrator(store Store, downloader fetch.Downloader, extractor vision.Extractor, analyzer Analyzer, opts Options) *Orchestrator {
	if opts.MaxApplicants <= 0 {
		opts.MaxApplicants = DefaultOptions().MaxApplicants
	}
	if opts.MaxJobs <= 0 {
		opts.MaxJobs = DefaultOptions().MaxJobs
	}
	if opts.MaxReturned <= 0 {
		opts.MaxReturned = DefaultOptions().MaxReturned
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultOptions().MaxConcurrency
	}
	return &Orchestrator{
		store:      store,
		downloader: downloader,
		extractor:  extractor,
		analyzer:   analyzer,
		opts:       opts,
	}
}

// MatchJobToApplicants scores every eligible applicant of a job against its
// description and returns the ranked top results. Per-applicant failures
// degrade that applicant's entry; only an unresolvable job or an empty
// description aborts the request.
func (o *Orchestrator) MatchJobToApplicants(ctx context.Context, jobID uuid.UUID) ([]ApplicantMatch, error) {
	job, err := o.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{Kind: "job", ID: jobID}
	}
	if strings.TrimSpace(job.Description) == "" {
		return nil, &MissingInputError{Kind: "job", ID: jobID, Detail: "job description is empty"}
	}

	applicants, err := o.store.ListApplicantsForJob(ctx, jobID, o.opts.MaxApplicants)
	if err != nil {
		return nil, err
	}
	if len(applicants) == 0 {
		return []ApplicantMatch{}, nil
	}

	log.Printf("[match] ranking %d applicants for job %s", len(applicants), jobID)

	results := make([]ApplicantMatch, len(applicants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxConcurrency)

	for i, applicant := range applicants {
		g.Go(func() error {
			result := o.processApplicant(gctx, &applicant, job.Description)

			// Persist the latest attempt, degraded or not, so the UI
			// always reflects it. No history is kept.
			update := db.AnalysisUpdate{
				MatchingScore:        result.MatchingScore,
				AISummary:            result.AISummary,
				Overview:             result.Overview,
				Strengths:            result.Strengths,
				PotentialGaps:        result.PotentialGaps,
				PotentialPrediction:  result.PotentialPrediction,
				PersonalityInference: result.PersonalityInference,
			}
			if err := o.store.UpdateApplicantAnalysis(gctx, applicant.ID, update); err != nil {
				log.Printf("[match] failed to persist analysis for applicant %s: %v", applicant.ID, err)
			}

			cvURL := ""
			if applicant.CVURL != nil {
				cvURL = *applicant.CVURL
			}
			results[i] = ApplicantMatch{
				ID:              applicant.ID,
				Name:            applicant.Name(),
				MatchingScore:   result.MatchingScore,
				AISummary:       result.AISummary,
				CVURL:           cvURL,
				MatchedJobID:    jobID,
				MatchedJobTitle: job.Title,
				IsLocked:        true,
			}
			return nil
		})
	}
	_ = g.Wait() // workers degrade in place and never return errors

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchingScore > results[j].MatchingScore
	})
	if len(results) > o.opts.MaxReturned {
		results = results[:o.opts.MaxReturned]
	}
	return results, nil
}

// processApplicant runs the per-item pipeline for one applicant. It never
// fails: download and extraction errors degrade to a diagnostic Result.
func (o *Orchestrator) processApplicant(ctx context.Context, applicant *db.Applicant, jdText string) Result {
	if applicant.CVURL == nil || *applicant.CVURL == "" {
		return degraded("Processing failed: applicant has no CV")
	}

	document, err := o.downloader.Bytes(ctx, *applicant.CVURL)
	if err != nil {
		log.Printf("[match] CV download failed for applicant %s: %v", applicant.ID, err)
		return degraded("Processing failed: " + truncate(err.Error(), diagnosticLimit))
	}

	cvText, err := o.extractor.ExtractText(ctx, document)
	if err != nil {
		log.Printf("[match] text extraction failed for applicant %s: %v", applicant.ID, err)
		return degraded("Processing failed: " + truncate(err.Error(), diagnosticLimit))
	}

	return o.analyzer.Analyze(ctx, cvText, jdText)
}

// MatchApplicantToJobs scores one applicant's CV against the open job pool.
// The document is downloaded and extracted once; per-job analysis failures
// degrade only that job's entry. Nothing is written back to Job rows, and the
// applicant's own analysis fields are left untouched.
func (o *Orchestrator) MatchApplicantToJobs(ctx context.Context, applicantID uuid.UUID) ([]JobMatch, string, error) {
	applicant, err := o.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, "", err
	}
	if applicant == nil {
		return nil, "", &NotFoundError{Kind: "applicant", ID: applicantID}
	}
	if applicant.CVURL == nil || *applicant.CVURL == "" {
		return nil, "", &MissingInputError{Kind: "applicant", ID: applicantID, Detail: "applicant has no CV"}
	}

	document, err := o.downloader.Bytes(ctx, *applicant.CVURL)
	if err != nil {
		return nil, "", err
	}
	cvText, err := o.extractor.ExtractText(ctx, document)
	if err != nil {
		return nil, "", err
	}

	jobs, err := o.store.ListOpenJobs(ctx, o.opts.MaxJobs)
	if err != nil {
		return nil, "", err
	}
	if len(jobs) == 0 {
		return []JobMatch{}, applicant.Name(), nil
	}

	log.Printf("[match] scoring applicant %s against %d jobs", applicantID, len(jobs))

	results := make([]JobMatch, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxConcurrency)

	for i, job := range jobs {
		g.Go(func() error {
			result := o.analyzer.Analyze(gctx, cvText, job.Description)
			results[i] = JobMatch{
				ID:            job.ID,
				Title:         job.Title,
				MatchingScore: result.MatchingScore,
				AISummary:     result.AISummary,
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchingScore > results[j].MatchingScore
	})
	return results, applicant.Name(), nil
}
