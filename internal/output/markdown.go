package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

// Markdown returns the review as a Markdown document.
func Markdown(rev model.Review, opts Options) string {
	req, rep := rev.Request, rev.Report
	var b strings.Builder

	fmt.Fprintf(&b, "## Code Review: `%s`\n\n", req.Filename)
	fmt.Fprintf(&b, "**Language:** %s | **Size:** %s\n\n", req.Language, source.FormatSize(req.SizeBytes))

	if opts.Preview {
		p := preview(rev)
		fmt.Fprintf(&b, "```%s\n", req.Language)
		for _, l := range p.Lines {
			b.WriteString(l.Plain())
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
		if p.Remaining > 0 {
			fmt.Fprintf(&b, "_... %d more lines_\n\n", p.Remaining)
		}
	}

	b.WriteString("| Score | Value | Band |\n")
	b.WriteString("|-------|-------|------|\n")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"Overall", rep.Overall},
		{"Readability", rep.Readability},
		{"Modularity", rep.Modularity},
		{"Best Practices", rep.BestPractices},
	} {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", row.label, row.n, model.BandFor(row.n))
	}
	fmt.Fprintf(&b, "\n%s\n\n", rep.Summary)

	counts := analysis.CountBySeverity(rev.Suggestions)
	if counts.Total == 0 {
		b.WriteString("No suggestions.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "### Suggestions (%d)\n\n", counts.Total)
	for _, s := range rev.Suggestions {
		fmt.Fprintf(&b, "- **[%s] %s** _%s_", strings.ToUpper(string(s.Severity)), s.Title, s.Category.Label())
		if ref := lineRef(s); ref != "" {
			fmt.Fprintf(&b, " (%s)", ref)
		}
		fmt.Fprintf(&b, "\n  %s\n", s.Description)
		if s.CodeSnippet != "" {
			fmt.Fprintf(&b, "  `%s`\n", s.CodeSnippet)
		}
		if s.SuggestedFix != "" {
			fmt.Fprintf(&b, "  Fix: %s\n", s.SuggestedFix)
		}
	}
	return b.String()
}

// MarkdownTo writes the Markdown report to w. When opts.Color is set the
// document is rendered for the terminal with glamour.
func MarkdownTo(w io.Writer, rev model.Review, opts Options) error {
	md := Markdown(rev, opts)
	if !opts.Color {
		_, err := io.WriteString(w, md)
		return err
	}

	width := opts.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}
