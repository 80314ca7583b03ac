// Package session holds the presentation layer's transient review state: the
// request being prepared, the newest-first review history and the selected
// review. It drives each request through its status lifecycle around an
// analysis.Analyzer. Nothing is persisted.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/request"
	"github.com/aezell/crev/internal/source"
)

var (
	// ErrNoCurrent is returned by Start when no file has been loaded.
	ErrNoCurrent = errors.New("no file loaded")
	// ErrNotFound is returned for unknown review IDs.
	ErrNotFound = errors.New("review not found")
)

// Session is safe for concurrent use. Analyses started concurrently run
// independently; each updates only its own history entry.
type Session struct {
	analyzer analysis.Analyzer
	builder  request.Builder

	mu       sync.RWMutex
	current  *model.ReviewRequest
	reviews  []*model.Review // newest first
	selected string
}

// Option configures a Session.
type Option func(*Session)

// WithBuilder overrides the request builder (clock and ID source).
func WithBuilder(b request.Builder) Option {
	return func(s *Session) { s.builder = b }
}

// New returns an empty session analyzing with a.
func New(a analysis.Analyzer, opts ...Option) *Session {
	s := &Session{analyzer: a}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load builds a pending request for f and makes it current, replacing any
// request not yet started.
func (s *Session) Load(f source.File) model.ReviewRequest {
	req := s.builder.Build(f)
	s.mu.Lock()
	s.current = &req
	s.mu.Unlock()
	return req
}

// Current returns the loaded request awaiting analysis.
func (s *Session) Current() (model.ReviewRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.ReviewRequest{}, false
	}
	return *s.current, true
}

// Start analyzes the current request. The current request is cleared whether
// the analysis succeeds or fails.
func (s *Session) Start(ctx context.Context) (model.Review, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return model.Review{}, ErrNoCurrent
	}
	req := *s.current
	s.current = nil
	s.mu.Unlock()

	return s.Run(ctx, req)
}

// Submit builds a request for f and analyzes it without touching the current
// request.
func (s *Session) Submit(ctx context.Context, f source.File) (model.Review, error) {
	return s.Run(ctx, s.builder.Build(f))
}

// Retry analyzes the content of an earlier review as a fresh attempt with new
// identifiers. The earlier entry is left as it was.
func (s *Session) Retry(ctx context.Context, id string) (model.Review, error) {
	prev, ok := s.Get(id)
	if !ok {
		return model.Review{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	req := s.builder.Build(source.File{
		Name:      prev.Request.Filename,
		SizeBytes: prev.Request.SizeBytes,
		Content:   prev.Request.Content,
	})
	return s.Run(ctx, req)
}

// Run moves req from pending to analyzing, records it at the head of the
// history and invokes the analyzer. On success the review is completed and
// selected; on failure it is marked failed and the *analysis.AnalysisError is
// returned alongside the failed review.
func (s *Session) Run(ctx context.Context, req model.ReviewRequest) (model.Review, error) {
	if err := req.Transition(model.StatusAnalyzing); err != nil {
		return model.Review{}, err
	}

	entry := &model.Review{Request: req}
	s.mu.Lock()
	s.reviews = append([]*model.Review{entry}, s.reviews...)
	s.mu.Unlock()

	res, err := s.analyzer.Analyze(ctx, req)
	if err == nil && res == nil {
		err = errors.New("analyzer returned no result")
	}
	if err != nil {
		var aerr *analysis.AnalysisError
		if !errors.As(err, &aerr) {
			err = &analysis.AnalysisError{RequestID: req.ID, Err: err}
		}
		s.mu.Lock()
		_ = entry.Request.Transition(model.StatusFailed)
		out := clone(entry)
		s.mu.Unlock()
		return out, err
	}

	report := res.Report
	s.mu.Lock()
	_ = entry.Request.Transition(model.StatusCompleted)
	entry.Report = &report
	entry.Suggestions = analysis.Ordered(res.Suggestions)
	s.selected = req.ID
	out := clone(entry)
	s.mu.Unlock()
	return out, nil
}

// History returns every review, newest first.
func (s *Session) History() []model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Review, len(s.reviews))
	for i, r := range s.reviews {
		out[i] = clone(r)
	}
	return out
}

// Len returns the number of reviews in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

// Get returns the review for a request ID.
func (s *Session) Get(id string) (model.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r := s.find(id); r != nil {
		return clone(r), true
	}
	return model.Review{}, false
}

// Select marks the review with the given request ID as the one on display.
func (s *Session) Select(id string) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(id)
	if r == nil {
		return model.Review{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.selected = id
	return clone(r), nil
}

// Selected returns the review on display, if any.
func (s *Session) Selected() (model.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return model.Review{}, false
	}
	if r := s.find(s.selected); r != nil {
		return clone(r), true
	}
	return model.Review{}, false
}

// Reset drops the current request and the selection. History is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.current = nil
	s.selected = ""
	s.mu.Unlock()
}

func (s *Session) find(id string) *model.Review {
	for _, r := range s.reviews {
		if r.Request.ID == id {
			return r
		}
	}
	return nil
}

func clone(r *model.Review) model.Review {
	out := *r
	if r.Report != nil {
		report := *r.Report
		out.Report = &report
	}
	if r.Suggestions != nil {
		out.Suggestions = append([]model.Suggestion(nil), r.Suggestions...)
	}
	return out
}
