package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

// Text writes a human-readable report.
func Text(w io.Writer, rev model.Review, opts Options) error {
	au := aurora.NewAurora(opts.Color)
	req, rep := rev.Request, rev.Report
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s (%s, %s)\n",
		au.Bold("Review:"), au.Cyan(req.Filename), req.Language, source.FormatSize(req.SizeBytes))

	if opts.Preview {
		p := preview(rev)
		b.WriteString("\n")
		for _, l := range p.Lines {
			fmt.Fprintf(&b, "%s  %s\n", au.Gray(12, fmt.Sprintf("%4d", l.Number)), l.Plain())
		}
		if p.Remaining > 0 {
			fmt.Fprintf(&b, "%s\n", au.Gray(12, fmt.Sprintf("      ... %d more lines", p.Remaining)))
		}
	}

	b.WriteString("\n")
	scoreLine(&b, au, "Overall", rep.Overall)
	scoreLine(&b, au, "Readability", rep.Readability)
	scoreLine(&b, au, "Modularity", rep.Modularity)
	scoreLine(&b, au, "Best practices", rep.BestPractices)
	fmt.Fprintf(&b, "\n%s\n", rep.Summary)

	counts := analysis.CountBySeverity(rev.Suggestions)
	if counts.Total == 0 {
		fmt.Fprintf(&b, "\n%s\n", au.Green("No suggestions."))
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "\n%s %s\n", au.Bold(fmt.Sprintf("Suggestions (%d):", counts.Total)), countLine(counts))
	for _, s := range rev.Suggestions {
		tag := severityColor(au, s.Severity, fmt.Sprintf("[%s]", strings.ToUpper(string(s.Severity))))
		fmt.Fprintf(&b, "\n  %s %s  %s", tag, au.Bold(s.Title), au.Magenta(s.Category.Label()))
		if ref := lineRef(s); ref != "" {
			fmt.Fprintf(&b, "  %s", au.Gray(12, ref))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "      %s\n", s.Description)
		if s.CodeSnippet != "" {
			fmt.Fprintf(&b, "      %s %s\n", au.Gray(12, "code:"), s.CodeSnippet)
		}
		if s.SuggestedFix != "" {
			fmt.Fprintf(&b, "      %s %s\n", au.Green("fix:"), s.SuggestedFix)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func scoreLine(b *strings.Builder, au aurora.Aurora, label string, score int) {
	band := model.BandFor(score)
	fmt.Fprintf(b, "  %-15s %s  %s\n", label, bandColor(au, band, fmt.Sprintf("%3d", score)), au.Gray(12, band.String()))
}

func countLine(c analysis.Counts) string {
	var parts []string
	for _, sev := range model.Severities {
		if n := c.Of(sev); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return strings.Join(parts, ", ")
}

func bandColor(au aurora.Aurora, band model.ScoreBand, s string) aurora.Value {
	switch band {
	case model.BandGood:
		return au.Green(s).Bold()
	case model.BandModerate:
		return au.Yellow(s).Bold()
	default:
		return au.Red(s).Bold()
	}
}

func severityColor(au aurora.Aurora, sev model.Severity, s string) aurora.Value {
	switch sev {
	case model.SeverityCritical:
		return au.Red(s).Bold()
	case model.SeverityHigh:
		return au.Red(s)
	case model.SeverityMedium:
		return au.Yellow(s)
	default:
		return au.Cyan(s)
	}
}
