// Package model defines the core data types shared across crev.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Severity ranks a suggestion for display.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity in display order, most severe first.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the display position of s: critical sorts first (0), low last (3).
// Unknown severities sort after low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() < 4
}

func (s Severity) String() string {
	return string(s)
}

// Category classifies what a suggestion is about.
type Category string

const (
	CategoryReadability  Category = "readability"
	CategoryModularity   Category = "modularity"
	CategoryBug          Category = "bug"
	CategoryPerformance  Category = "performance"
	CategorySecurity     Category = "security"
	CategoryBestPractice Category = "best_practice"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryReadability,
	CategoryModularity,
	CategoryBug,
	CategoryPerformance,
	CategorySecurity,
	CategoryBestPractice,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name, e.g. "Best Practice".
func (c Category) Label() string {
	switch c {
	case CategoryReadability:
		return "Readability"
	case CategoryModularity:
		return "Modularity"
	case CategoryBug:
		return "Bug"
	case CategoryPerformance:
		return "Performance"
	case CategorySecurity:
		return "Security"
	case CategoryBestPractice:
		return "Best Practice"
	default:
		return string(c)
	}
}

// Status is the lifecycle state of a review request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a request may move from s to next.
//
//	pending -> analyzing -> completed
//	                     -> failed
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusAnalyzing
	case StatusAnalyzing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// ErrInvalidTransition is returned when a status change violates the lifecycle.
var ErrInvalidTransition = errors.New("invalid status transition")

// ReviewRequest is one uploaded source file awaiting or undergoing analysis.
type ReviewRequest struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	SizeBytes int64     `json:"size_bytes"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Transition moves the request to next, enforcing the lifecycle.
func (r *ReviewRequest) Transition(next Status) error {
	if !r.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

// ReviewReport holds the scores and narrative for one analyzed request.
// Scores are not clamped and may fall below zero.
type ReviewReport struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	Overall       int       `json:"overall"`
	Readability   int       `json:"readability"`
	Modularity    int       `json:"modularity"`
	BestPractices int       `json:"best_practices"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// Suggestion is one categorized, severity-ranked piece of feedback.
type Suggestion struct {
	ID           string   `json:"id"`
	ReportID     string   `json:"report_id"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	LineNumber   int      `json:"line_number,omitempty"` // 0 when not tied to a line
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CodeSnippet  string   `json:"code_snippet,omitempty"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
}

// ScoreBand buckets a score for colouring: good, moderate or poor.
type ScoreBand int

const (
	BandPoor ScoreBand = iota
	BandModerate
	BandGood
)

// BandFor returns the band a score falls in.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandModerate
	default:
		return BandPoor
	}
}

func (b ScoreBand) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandModerate:
		return "moderate"
	default:
		return "poor"
	}
}

// Review bundles a request with the outcome of its analysis, if any.
type Review struct {
	Request     ReviewRequest `json:"request"`
	Report      *ReviewReport `json:"report,omitempty"`
	Suggestions []Suggestion  `json:"suggestions,omitempty"`
}
