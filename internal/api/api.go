// Package api implements the HTTP API server for crev.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aezell/crev/internal/session"
)

// Server is the crev HTTP API server.
type Server struct {
	addr      string
	mux       *http.ServeMux
	server    *http.Server
	sess      *session.Session
	maxUpload int64
	log       *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sends server log lines to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxUpload caps the byte size of an uploaded file. Zero disables the cap.
func WithMaxUpload(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// New creates a new API server backed by sess.
func New(addr string, sess *session.Session, opts ...Option) *Server {
	s := &Server{
		addr: addr,
		sess: sess,
		log:  log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.New(io.Discard, "", 0)
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/reviews", s.handleCreateReview)
	s.mux.HandleFunc("GET /api/reviews", s.handleListReviews)
	s.mux.HandleFunc("GET /api/reviews/{id}", s.handleGetReview)
	s.mux.HandleFunc("GET /api/languages", s.handleLanguages)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Printf("crev API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
