package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aezell/crev/internal/model"
)

func fixture() model.Review {
	return model.Review{
		Request: model.ReviewRequest{
			ID:        "req-1",
			Filename:  "app<1>.js",
			Content:   "const a = 1;\nconsole.log(a);\n",
			Language:  "javascript",
			SizeBytes: 1536,
			Status:    model.StatusCompleted,
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Report: &model.ReviewReport{
			ID:            "rep-1",
			RequestID:     "req-1",
			Overall:       68,
			Readability:   65,
			Modularity:    70,
			BestPractices: 75,
			Summary:       "Your code has moderate quality.",
		},
		Suggestions: []model.Suggestion{
			{
				ID: "s1", ReportID: "rep-1", Category: model.CategoryReadability,
				Severity: model.SeverityMedium, Title: "Add comments", Description: "No comments <found>.",
				SuggestedFix: "Add comments",
			},
			{
				ID: "s2", ReportID: "rep-1", Category: model.CategoryBestPractice,
				Severity: model.SeverityLow, LineNumber: 2, Title: "Remove debug statements",
				Description: "Debug output found.", CodeSnippet: "console.log(a);",
			},
		},
	}
}

func TestRenderRejectsReviewWithoutReport(t *testing.T) {
	rev := fixture()
	rev.Report = nil
	rev.Request.Status = model.StatusFailed
	err := Render(&bytes.Buffer{}, "text", rev, Options{})
	assert.ErrorContains(t, err, "no report")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "pdf", fixture(), Options{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "text", fixture(), Options{Preview: true}))
	out := buf.String()

	assert.Contains(t, out, "app<1>.js")
	assert.Contains(t, out, "1.5 KB")
	assert.Contains(t, out, "moderate")
	assert.Contains(t, out, "Suggestions (2): 1 medium, 1 low")
	assert.Contains(t, out, "[MEDIUM] Add comments")
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, "console.log(a);")
	assert.NotContains(t, out, "\x1b[", "no colour when disabled")

	assert.Less(t, strings.Index(out, "[MEDIUM]"), strings.Index(out, "[LOW]"))
}

func TestTextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, fixture(), Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTextNoSuggestions(t *testing.T) {
	rev := fixture()
	rev.Suggestions = nil
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, rev, Options{}))
	assert.Contains(t, buf.String(), "No suggestions.")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "json", fixture(), Options{}))

	var got struct {
		Request struct {
			Filename string `json:"filename"`
			Size     string `json:"size"`
			Content  string `json:"content"`
		} `json:"request"`
		Overall struct {
			Score int    `json:"score"`
			Band  string `json:"band"`
		} `json:"overall"`
		Scores map[string]struct {
			Score int `json:"score"`
		} `json:"scores"`
		Counts struct {
			Total  int `json:"total"`
			Medium int `json:"medium"`
		} `json:"counts"`
		Suggestions []model.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "app<1>.js", got.Request.Filename)
	assert.Equal(t, "1.5 KB", got.Request.Size)
	assert.Empty(t, got.Request.Content)
	assert.Equal(t, 68, got.Overall.Score)
	assert.Equal(t, "moderate", got.Overall.Band)
	assert.Equal(t, 75, got.Scores["best_practices"].Score)
	assert.Equal(t, 2, got.Counts.Total)
	assert.Equal(t, 1, got.Counts.Medium)
	require.Len(t, got.Suggestions, 2)
	assert.Equal(t, 2, got.Suggestions[1].LineNumber)
}

func TestJSONEmptySuggestionsIsArray(t *testing.T) {
	rev := fixture()
	rev.Suggestions = nil
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, rev))
	assert.Contains(t, buf.String(), `"suggestions": []`)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(fixture(), Options{Preview: true})
	assert.Contains(t, md, "## Code Review: `app<1>.js`")
	assert.Contains(t, md, "```javascript\nconst a = 1;")
	assert.Contains(t, md, "| Overall | 68 | moderate |")
	assert.Contains(t, md, "### Suggestions (2)")
	assert.Contains(t, md, "(line 2)")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "markdown", fixture(), Options{}))
	assert.Equal(t, Markdown(fixture(), Options{}), buf.String())
}

func TestMarkdownTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownTo(&buf, fixture(), Options{Color: true, Width: 60}))
	assert.Contains(t, buf.String(), "Add comments")
}

func TestHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "html", fixture(), Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "app&lt;1&gt;.js")
	assert.NotContains(t, out, "app<1>.js")
	assert.Contains(t, out, "No comments &lt;found&gt;.")
	assert.Contains(t, out, `class="n band-moderate">68<`)
	assert.Contains(t, out, `class="sev-medium"`)
	assert.Contains(t, out, "width: 100%;")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}
