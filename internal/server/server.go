// Package server provides the HTTP REST API for TalentMatch.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plenggn/TalentMatch/internal/chat"
	"github.com/plenggn/TalentMatch/internal/config"
	"github.com/plenggn/TalentMatch/internal/db"
	"github.com/plenggn/TalentMatch/internal/drafting"
	"github.com/plenggn/TalentMatch/internal/extraction"
	"github.com/plenggn/TalentMatch/internal/fetch"
	"github.com/plenggn/TalentMatch/internal/llm"
	"github.com/plenggn/TalentMatch/internal/matching"
	"github.com/plenggn/TalentMatch/internal/server/ratelimit"
	"github.com/plenggn/TalentMatch/internal/vision"
)

// Store is the persistence surface the HTTP handlers use.
type Store interface {
	CreateApplicant(ctx context.Context, a *db.Applicant) (*db.Applicant, error)
	GetApplicant(ctx context.Context, id uuid.UUID) (*db.Applicant, error)
	ListApplicants(ctx context.Context, opts db.ListApplicantsOptions) ([]db.Applicant, error)
	UpdateApplicant(ctx context.Context, id uuid.UUID, a *db.Applicant) (*db.Applicant, error)
	UpdateApplicantStatus(ctx context.Context, id uuid.UUID, status db.Status) error
	DeleteApplicant(ctx context.Context, id uuid.UUID) error

	CreateJob(ctx context.Context, j *db.Job) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, limit, offset int) ([]db.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, j *db.Job) (*db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
}

// MatchService runs the two matching pipelines.
type MatchService interface {
	MatchJobToApplicants(ctx context.Context, jobID uuid.UUID) ([]matching.ApplicantMatch, error)
	MatchApplicantToJobs(ctx context.Context, applicantID uuid.UUID) ([]matching.JobMatch, string, error)
}

// ChatService answers questions about an applicant's CV.
type ChatService interface {
	Answer(ctx context.Context, applicantID uuid.UUID, userQuery string) (string, error)
}

// DraftService generates offer and rejection emails.
type DraftService interface {
	Draft(ctx context.Context, applicantID uuid.UUID, emailType drafting.EmailType, hrName string) (*drafting.Result, error)
}

// ProfileService extracts structured fields from an uploaded CV.
type ProfileService interface {
	ExtractProfile(ctx context.Context, fileURL string) (*extraction.Profile, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       Store
	matcher     MatchService
	assistant   ChatService
	drafter     DraftService
	profiles    ProfileService
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
}

// New creates a server wired to real backends from the given configuration.
func New(cfg config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultGeminiConfig(), cfg.GoogleAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	downloader := fetch.NewClient(fetch.DefaultOptions())

	// Without a Vision key, OCR degrades to local PDF text extraction.
	var extractor vision.Extractor
	if cfg.GoogleVisionAPIKey != "" {
		extractor = vision.NewVisionExtractor(cfg.GoogleVisionAPIKey)
	} else {
		log.Println("GOOGLE_VISION_API_KEY not set, using local PDF text extraction")
		extractor = vision.NewLocalExtractor()
	}

	orchestrator := matching.NewOrchestrator(database, downloader, extractor, matching.NewLLMAnalyzer(client), matching.Options{
		MaxApplicants:  cfg.MaxApplicants,
		MaxJobs:        cfg.MaxJobs,
		MaxConcurrency: cfg.MatchMaxConcurrency,
	})

	s := newServer(deps{
		store:     database,
		matcher:   orchestrator,
		assistant: chat.NewAssistant(database, downloader, extractor, client),
		drafter:   drafting.NewDrafter(database, client),
		profiles:  extraction.NewExtractor(downloader, extractor, client),
	})
	s.db = database

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // aiMatch fan-out can take minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// deps groups the service dependencies so tests can inject fakes.
type deps struct {
	store     Store
	matcher   MatchService
	assistant ChatService
	drafter   DraftService
	profiles  ProfileService
}

func newServer(d deps) *Server {
	return &Server{
		store:       d.store,
		matcher:     d.matcher,
		assistant:   d.assistant,
		drafter:     d.drafter,
		profiles:    d.profiles,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}
}

// Handler builds the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// AI endpoints
	mux.HandleFunc("POST /api/aiMatch", s.handleAIMatch)
	mux.HandleFunc("POST /api/cvChat", s.handleCVChat)
	mux.HandleFunc("POST /api/draftEmail", s.handleDraftEmail)
	mux.HandleFunc("POST /api/extractCV", s.handleExtractCV)

	// Applicant endpoints
	mux.HandleFunc("GET /api/applicants", s.handleListApplicants)
	mux.HandleFunc("POST /api/applicants", s.handleCreateApplicant)
	mux.HandleFunc("GET /api/applicants/{id}", s.handleGetApplicant)
	mux.HandleFunc("PUT /api/applicants/{id}", s.handleUpdateApplicant)
	mux.HandleFunc("DELETE /api/applicants/{id}", s.handleDeleteApplicant)
	mux.HandleFunc("PATCH /api/applicants/{id}/status", s.handleUpdateApplicantStatus)

	// Job endpoints
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /api/jobs/{id}", s.handleUpdateJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client by IP address.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
