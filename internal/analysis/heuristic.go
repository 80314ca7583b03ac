package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aezell/crev/internal/model"
)

// DefaultDelay is the artificial latency before a heuristic result is returned.
const DefaultDelay = 2 * time.Second

// Content markers the rubric looks for.
const (
	markerLineComment  = "//"
	markerBlockComment = "/*"
	markerFunction     = "function"
	markerArrow        = "=>"
	markerUntyped      = "any"
	markerTypeDecl     = "type"
	markerTry          = "try"
	markerDebugPrint   = "console.log"
)

// Rubric thresholds. The large-file suggestion and the modularity deduction
// use different line counts.
const (
	longLineLength        = 100
	longLineRatio         = 0.3
	largeFileLines        = 200
	modularityDeductLines = 300
)

// Baseline scores before deductions.
const (
	baseOverall       = 75
	baseReadability   = 80
	baseModularity    = 70
	baseBestPractices = 75
)

// Features are the facts about a file's content the rubric scores.
type Features struct {
	HasComments  bool
	HasFunctions bool
	// WeakTyping is set when the content contains "any" or lacks "type".
	// Both are plain substring checks.
	WeakTyping bool
	HasTry     bool
	HasDebug   bool
	LongLines  int
	TotalLines int
}

// Extract computes Features over raw content. Lines are split on "\n" with no
// trimming, so empty content is one empty line and a trailing newline adds an
// empty final line.
func Extract(content string) Features {
	lines := strings.Split(content, "\n")

	long := 0
	for _, line := range lines {
		if utf8.RuneCountInString(line) > longLineLength {
			long++
		}
	}

	return Features{
		HasComments:  strings.Contains(content, markerLineComment) || strings.Contains(content, markerBlockComment),
		HasFunctions: strings.Contains(content, markerFunction) || strings.Contains(content, markerArrow),
		WeakTyping:   strings.Contains(content, markerUntyped) || !strings.Contains(content, markerTypeDecl),
		HasTry:       strings.Contains(content, markerTry),
		HasDebug:     strings.Contains(content, markerDebugPrint),
		LongLines:    long,
		TotalLines:   len(lines),
	}
}

func (f Features) tooManyLongLines() bool {
	return float64(f.LongLines) > longLineRatio*float64(f.TotalLines)
}

// Scores are the four report scores. Values are never clamped.
type Scores struct {
	Overall       int `json:"overall"`
	Readability   int `json:"readability"`
	Modularity    int `json:"modularity"`
	BestPractices int `json:"best_practices"`
}

// Score applies the rubric deductions to the baseline.
func Score(f Features, language string) Scores {
	s := Scores{
		Overall:       baseOverall,
		Readability:   baseReadability,
		Modularity:    baseModularity,
		BestPractices: baseBestPractices,
	}

	if !f.HasComments {
		s.Readability -= 15
	}
	if f.tooManyLongLines() {
		s.Readability -= 10
	}
	if f.TotalLines > modularityDeductLines {
		s.Modularity -= 20
	}
	if f.WeakTyping && language == "typescript" {
		s.BestPractices -= 15
	}

	s.Overall = OverallOf(s.Readability, s.Modularity, s.BestPractices)
	return s
}

// OverallOf averages the three component scores, rounding halves up.
func OverallOf(readability, modularity, bestPractices int) int {
	avg := float64(readability+modularity+bestPractices) / 3
	return int(math.Floor(avg + 0.5))
}

// Rule inspects Features and returns at most one suggestion.
type Rule struct {
	Name  string
	Check func(f Features, language string) *model.Suggestion
}

// DefaultRules returns the rubric's suggestion rules in generation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "no_comments", Check: checkComments},
		{Name: "long_lines", Check: checkLongLines},
		{Name: "large_file", Check: checkFileSize},
		{Name: "weak_typing", Check: checkTyping},
		{Name: "error_handling", Check: checkErrorHandling},
		{Name: "debug_statements", Check: checkDebugStatements},
	}
}

func checkComments(f Features, _ string) *model.Suggestion {
	if f.HasComments {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryReadability,
		Severity:     model.SeverityMedium,
		Title:        "Insufficient code documentation",
		Description:  "The code lacks comments explaining complex logic and function purposes. Adding descriptive comments will improve maintainability and help other developers understand the codebase.",
		SuggestedFix: "Add doc comments for functions and inline comments for complex logic blocks.",
	}
}

func checkLongLines(f Features, _ string) *model.Suggestion {
	if f.LongLines == 0 {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryReadability,
		Severity:     model.SeverityLow,
		Title:        "Long lines detected",
		Description:  fmt.Sprintf("Found %d lines exceeding %d characters. Long lines can be difficult to read and may cause horizontal scrolling.", f.LongLines, longLineLength),
		SuggestedFix: "Break long lines into multiple lines, especially for long strings, complex conditions, or chained method calls.",
	}
}

func checkFileSize(f Features, _ string) *model.Suggestion {
	if f.TotalLines <= largeFileLines {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryModularity,
		Severity:     model.SeverityHigh,
		Title:        "Large file size",
		Description:  fmt.Sprintf("This file contains %d lines of code. Large files are harder to maintain, test, and understand. Consider breaking it into smaller, focused modules.", f.TotalLines),
		SuggestedFix: "Extract related functionality into separate files. Group related components, utilities, or services into logical modules.",
	}
}

func checkTyping(f Features, language string) *model.Suggestion {
	if !f.WeakTyping || language != "typescript" {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryBestPractice,
		Severity:     model.SeverityHigh,
		Title:        "Weak typing detected",
		Description:  `Usage of "any" type or missing type annotations weakens TypeScript's type safety. This can lead to runtime errors and reduces code quality.`,
		SuggestedFix: `Replace "any" with specific types. Add explicit type annotations for function parameters and return values.`,
	}
}

func checkErrorHandling(f Features, _ string) *model.Suggestion {
	if f.HasTry || !f.HasFunctions {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryBug,
		Severity:     model.SeverityMedium,
		Title:        "Missing error handling",
		Description:  "No error handling mechanisms detected. Without proper error handling, unexpected issues can crash the application.",
		SuggestedFix: "Add try-catch blocks around operations that might fail. Implement proper error logging and user feedback.",
	}
}

func checkDebugStatements(f Features, _ string) *model.Suggestion {
	if !f.HasDebug {
		return nil
	}
	return &model.Suggestion{
		Category:     model.CategoryBestPractice,
		Severity:     model.SeverityLow,
		Title:        "Console statements in code",
		Description:  "Console.log statements found. These should be removed or replaced with proper logging in production code.",
		SuggestedFix: "Remove debug console statements or replace with a proper logging library.",
	}
}

// Summarize picks the summary template for an overall score.
func Summarize(overall, suggestionCount int) string {
	switch model.BandFor(overall) {
	case model.BandGood:
		return fmt.Sprintf("Good code quality with %d areas for improvement. The code demonstrates solid practices but could benefit from attention to documentation and structure.", suggestionCount)
	case model.BandModerate:
		return "Moderate code quality with several areas needing attention. Focus on improving readability, modularity, and following best practices."
	default:
		return "Code needs significant improvement. Multiple issues detected that impact maintainability, readability, and potential reliability."
	}
}

// Heuristic is the built-in Analyzer.
type Heuristic struct {
	// Delay before the result is produced. Cancelling the context during the
	// delay discards the analysis.
	Delay time.Duration
	// Rules override DefaultRules when non-nil.
	Rules []Rule
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// NewHeuristic returns a Heuristic with the given delay and default rules.
func NewHeuristic(delay time.Duration) *Heuristic {
	return &Heuristic{Delay: delay}
}

// Analyze waits for the configured delay, then scores req. A panic while
// scoring is reported as an *AnalysisError.
func (h *Heuristic) Analyze(ctx context.Context, req model.ReviewRequest) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &AnalysisError{RequestID: req.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := h.wait(ctx); err != nil {
		return nil, &AnalysisError{RequestID: req.ID, Err: err}
	}

	return h.evaluate(req), nil
}

func (h *Heuristic) wait(ctx context.Context) error {
	if h.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(h.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *Heuristic) evaluate(req model.ReviewRequest) *Result {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	newID := uuid.NewString
	if h.NewID != nil {
		newID = h.NewID
	}
	rules := h.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	f := Extract(req.Content)
	scores := Score(f, req.Language)

	reportID := newID()
	var suggestions []model.Suggestion
	for _, rule := range rules {
		s := rule.Check(f, req.Language)
		if s == nil {
			continue
		}
		s.ID = newID()
		s.ReportID = reportID
		suggestions = append(suggestions, *s)
	}

	return &Result{
		Report: model.ReviewReport{
			ID:            reportID,
			RequestID:     req.ID,
			Overall:       scores.Overall,
			Readability:   scores.Readability,
			Modularity:    scores.Modularity,
			BestPractices: scores.BestPractices,
			Summary:       Summarize(scores.Overall, len(suggestions)),
			CreatedAt:     now(),
		},
		Suggestions: Ordered(suggestions),
	}
}
