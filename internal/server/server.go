// Package server provides the HTTP API external collaborators use to
// exchange records with the job store.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jordan/jobtrack/internal/ingest"
	"github.com/jordan/jobtrack/internal/materials"
	"github.com/jordan/jobtrack/internal/scoring"
	"github.com/jordan/jobtrack/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      *store.Store
	runner     *ingest.Runner
	profile    *scoring.Profile
	docsDir    string
	baseResume string
	enforce    bool
}

// Config holds server configuration
type Config struct {
	Port        int
	DBPath      string
	DocsDir     string
	BaseResume  string
	ProfilePath string
	// EnforceTransitions rejects status updates that leave the
	// lifecycle chain unless the request opts out.
	EnforceTransitions bool
}

// New creates a new server instance and migrates the store.
func New(cfg Config) (*Server, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		_ = st.Close()
		return nil, err
	}

	s := &Server{
		store:      st,
		runner:     ingest.NewRunner(st),
		docsDir:    cfg.DocsDir,
		baseResume: cfg.BaseResume,
		enforce:    cfg.EnforceTransitions,
	}

	if cfg.ProfilePath != "" {
		profile, err := scoring.LoadProfile(cfg.ProfilePath)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		s.profile = profile
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Job endpoints
	mux.HandleFunc("PUT /jobs", s.handleUpsertJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id...}", s.handleGetJob)
	mux.HandleFunc("PATCH /jobs/{id...}", s.handleSetStatus)

	// Ingestion endpoints
	mux.HandleFunc("POST /ingest/{source}/{board}", s.handleIngest)

	// Application endpoints
	mux.HandleFunc("POST /applications", s.handleRecordApplication)
	mux.HandleFunc("GET /applications", s.handleGetApplication)
	mux.HandleFunc("POST /applications/notes", s.handleAppendNote)

	// Materials endpoint
	mux.HandleFunc("POST /materials", s.handleWriteMaterials)

	// Scoring endpoint
	mux.HandleFunc("POST /scores/recompute", s.handleRecomputeScores)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until shutdown.
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

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("store close failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
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
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "store unreachable: "+err.Error())
		return
	}
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

// writer builds the materials writer for one request.
func (s *Server) writer(provider materials.ContentProvider) *materials.Writer {
	return materials.NewWriter(s.store, provider, s.docsDir, s.baseResume)
}
