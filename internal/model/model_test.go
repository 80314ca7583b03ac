package model

import (
	"errors"
	"testing"
)

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		sev  Severity
		want int
	}{
		{SeverityCritical, 0},
		{SeverityHigh, 1},
		{SeverityMedium, 2},
		{SeverityLow, 3},
		{Severity("bogus"), 4},
	}
	for _, tt := range tests {
		if got := tt.sev.Rank(); got != tt.want {
			t.Errorf("Severity(%q).Rank() = %d, want %d", tt.sev, got, tt.want)
		}
	}
}

func TestSeveritiesInDisplayOrder(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		if Severities[i-1].Rank() >= Severities[i].Rank() {
			t.Errorf("Severities out of order at %d: %s before %s", i, Severities[i-1], Severities[i])
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if Category("style").Valid() {
		t.Error("unexpected valid category 'style'")
	}
	if got := CategoryBestPractice.Label(); got != "Best Practice" {
		t.Errorf("Label() = %q", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAnalyzing, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusAnalyzing, StatusCompleted, true},
		{StatusAnalyzing, StatusFailed, true},
		{StatusAnalyzing, StatusPending, false},
		{StatusCompleted, StatusAnalyzing, false},
		{StatusFailed, StatusAnalyzing, false},
		{StatusFailed, StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestRequestTransition(t *testing.T) {
	r := ReviewRequest{Status: StatusPending}

	if err := r.Transition(StatusAnalyzing); err != nil {
		t.Fatalf("pending -> analyzing: %v", err)
	}
	if err := r.Transition(StatusCompleted); err != nil {
		t.Fatalf("analyzing -> completed: %v", err)
	}
	if !r.Status.Terminal() {
		t.Error("completed should be terminal")
	}

	err := r.Transition(StatusFailed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if r.Status != StatusCompleted {
		t.Errorf("status changed on rejected transition: %s", r.Status)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreBand
	}{
		{100, BandGood},
		{80, BandGood},
		{79, BandModerate},
		{60, BandModerate},
		{59, BandPoor},
		{-5, BandPoor},
	}
	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
