// Package api exposes the normalization engine over HTTP. This is a
// capability module that can be enabled via the CLI or used programmatically.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jangbu-dev/jangbu/engine"
	"github.com/jangbu-dev/jangbu/engine/common"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	LogPrefix string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
	}
}

// Server represents the HTTP API server
type Server struct {
	config Config
	mux    *http.ServeMux
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API endpoints
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server
// This allows the server to be used with custom http.Server configurations
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleParse accepts a statement upload and returns the classified rows.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form with 32MB max memory
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("%sError reading file bytes: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		log.Printf("%sError parsing options: %v", s.config.LogPrefix, err)
		http.Error(w, "Invalid options: "+err.Error(), http.StatusBadRequest)
		return
	}

	results, err := engine.Process(content, handler.Filename, opts.Rules)
	if err != nil {
		log.Printf("%sError processing %s: %v", s.config.LogPrefix, handler.Filename, err)
		http.Error(w, "Could not process file: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	results = engine.OverrideBranch(results, opts.Branch)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// ParseOptions holds the per-request knobs for /parse
type ParseOptions struct {
	Branch string
	Rules  []common.Rule
}

// parseOptions extracts options from the HTTP request. The branch comes from
// a form value or query param; the rules come as a JSON array in the "rules"
// form field, already sorted by priority.
func (s *Server) parseOptions(r *http.Request) (ParseOptions, error) {
	opts := ParseOptions{
		Branch: coalesce(r.FormValue("branch"), r.URL.Query().Get("branch")),
	}

	if raw := r.FormValue("rules"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Rules); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
