// Package analysis scores review requests and generates suggestions.
//
// The Analyzer interface is the capability the presentation layer depends on.
// Heuristic is the built-in implementation: a fixed set of substring and line
// length checks against a hardcoded rubric, preceded by an artificial delay that
// stands in for a remote model call.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/aezell/crev/internal/model"
)

// Result is the report and suggestion set produced by one analysis.
// Suggestions are in display order.
type Result struct {
	Report      model.ReviewReport
	Suggestions []model.Suggestion
}

// Analyzer turns a review request into a Result. Implementations must not
// mutate the request and must return *AnalysisError on failure.
type Analyzer interface {
	Analyze(ctx context.Context, req model.ReviewRequest) (*Result, error)
}

// Func adapts a function to the Analyzer interface.
type Func func(ctx context.Context, req model.ReviewRequest) (*Result, error)

// Analyze calls f.
func (f Func) Analyze(ctx context.Context, req model.ReviewRequest) (*Result, error) {
	return f(ctx, req)
}

// AnalysisError reports that scoring could not complete for a request.
// It is the only error kind an Analyzer returns.
type AnalysisError struct {
	RequestID string
	Err       error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("failed to analyze code (request %s): %v", e.RequestID, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Ordered returns a copy of suggestions sorted for display: critical first,
// low last, ties kept in generation order.
func Ordered(suggestions []model.Suggestion) []model.Suggestion {
	out := make([]model.Suggestion, len(suggestions))
	copy(out, suggestions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// Counts tallies suggestions by severity.
type Counts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Of returns the count for one severity.
func (c Counts) Of(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return c.Critical
	case model.SeverityHigh:
		return c.High
	case model.SeverityMedium:
		return c.Medium
	case model.SeverityLow:
		return c.Low
	default:
		return 0
	}
}

// CountBySeverity tallies suggestions by severity.
func CountBySeverity(suggestions []model.Suggestion) Counts {
	c := Counts{Total: len(suggestions)}
	for _, s := range suggestions {
		switch s.Severity {
		case model.SeverityCritical:
			c.Critical++
		case model.SeverityHigh:
			c.High++
		case model.SeverityMedium:
			c.Medium++
		case model.SeverityLow:
			c.Low++
		}
	}
	return c
}

// ByCategory groups suggestions by category, preserving order within a group.
func ByCategory(suggestions []model.Suggestion) map[model.Category][]model.Suggestion {
	m := make(map[model.Category][]model.Suggestion)
	for _, s := range suggestions {
		m[s.Category] = append(m[s.Category], s)
	}
	return m
}

// HighestSeverity returns the most severe level present. ok is false when
// suggestions is empty.
func HighestSeverity(suggestions []model.Suggestion) (sev model.Severity, ok bool) {
	for _, s := range suggestions {
		if !ok || s.Severity.Rank() < sev.Rank() {
			sev, ok = s.Severity, true
		}
	}
	return sev, ok
}
