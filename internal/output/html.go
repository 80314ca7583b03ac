package output

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>crev Review: %s</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  .summary { background: #343746; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
  .cards { display: flex; gap: 12px; margin-bottom: 24px; }
  .card { flex: 1; background: #343746; padding: 12px; border-radius: 8px; text-align: center; }
  .card .n { font-size: 1.8em; font-weight: bold; }
  .band-good { color: #50fa7b; }
  .band-moderate { color: #f1fa8c; }
  .band-poor { color: #ff5555; }
  .sev-critical { color: #ff5555; font-weight: bold; }
  .sev-high { color: #ffb86c; }
  .sev-medium { color: #f1fa8c; }
  .sev-low { color: #8be9fd; }
  table { width: 100%%; border-collapse: collapse; }
  th { text-align: left; padding: 8px 12px; background: #44475a; color: #f8f8f2; }
  td { padding: 8px 12px; border-bottom: 1px solid #44475a; vertical-align: top; }
  tr:hover { background: #343746; }
  .cat { color: #bd93f9; }
  pre { background: #343746; padding: 12px; border-radius: 8px; overflow-x: auto; }
  code { background: #343746; padding: 2px 6px; border-radius: 4px; font-size: 0.9em; }
  .fix { color: #50fa7b; }
  .clean { color: #50fa7b; font-size: 1.2em; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
`

// HTML writes a standalone HTML report.
func HTML(w io.Writer, rev model.Review) error {
	req, rep := rev.Request, rev.Report
	esc := html.EscapeString
	var b strings.Builder

	fmt.Fprintf(&b, htmlHead, esc(req.Filename))
	fmt.Fprintf(&b, "<h1>Code Review: <code>%s</code></h1>\n", esc(req.Filename))
	fmt.Fprintf(&b, "<div class=\"summary\">%s<br><small>%s &middot; %s</small></div>\n",
		esc(rep.Summary), esc(req.Language), source.FormatSize(req.SizeBytes))

	b.WriteString("<div class=\"cards\">\n")
	for _, c := range []struct {
		label string
		n     int
	}{
		{"Overall", rep.Overall},
		{"Readability", rep.Readability},
		{"Modularity", rep.Modularity},
		{"Best Practices", rep.BestPractices},
	} {
		fmt.Fprintf(&b, "  <div class=\"card\"><div class=\"n band-%s\">%d</div>%s</div>\n",
			model.BandFor(c.n), c.n, c.label)
	}
	b.WriteString("</div>\n")

	p := preview(rev)
	b.WriteString("<pre>")
	for _, l := range p.Lines {
		for _, t := range l.Tokens {
			if t.Color != "" {
				fmt.Fprintf(&b, "<span style=\"color:%s\">%s</span>", t.Color, esc(t.Text))
			} else {
				b.WriteString(esc(t.Text))
			}
		}
		b.WriteString("\n")
	}
	if p.Remaining > 0 {
		fmt.Fprintf(&b, "... %d more lines\n", p.Remaining)
	}
	b.WriteString("</pre>\n")

	if len(rev.Suggestions) == 0 {
		b.WriteString("<p class=\"clean\">No suggestions.</p>\n")
	} else {
		fmt.Fprintf(&b, "<h2>Suggestions (%d)</h2>\n", analysis.CountBySeverity(rev.Suggestions).Total)
		b.WriteString("<table>\n<thead><tr><th>Severity</th><th>Category</th><th>Suggestion</th></tr></thead>\n<tbody>\n")
		for _, s := range rev.Suggestions {
			fmt.Fprintf(&b, "<tr><td class=\"sev-%s\">%s</td><td class=\"cat\">%s</td><td><strong>%s</strong>",
				s.Severity, s.Severity, esc(s.Category.Label()), esc(s.Title))
			if ref := lineRef(s); ref != "" {
				fmt.Fprintf(&b, " <small>(%s)</small>", ref)
			}
			fmt.Fprintf(&b, "<br>%s", esc(s.Description))
			if s.CodeSnippet != "" {
				fmt.Fprintf(&b, "<br><code>%s</code>", esc(s.CodeSnippet))
			}
			if s.SuggestedFix != "" {
				fmt.Fprintf(&b, "<br><span class=\"fix\">Fix: %s</span>", esc(s.SuggestedFix))
			}
			b.WriteString("</td></tr>\n")
		}
		b.WriteString("</tbody></table>\n")
	}

	b.WriteString("<footer>Generated by <strong>crev</strong></footer>\n</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
