package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	width := m.mainWidth()
	var body string
	switch m.screen {
	case screenUpload:
		body = m.renderUpload(width)
	case screenPreview:
		body = m.renderPreview(width)
	case screenAnalyzing:
		body = m.renderAnalyzing(width)
	default:
		body = panelStyle.Width(width - 2).Render(m.viewport.View())
	}

	main := body
	if m.showHistoryPanel() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderHistory(m.height-2))
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderUpload(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("crev: code review"))
	b.WriteString("\n\n")
	b.WriteString("Enter the path of a source file (or a single-file .diff/.patch).\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.maxUpload > 0 {
		b.WriteString(dimStyle.Render("Limit: " + source.FormatSize(m.maxUpload)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	return m.panel(width).Render(b.String())
}

func (m Model) renderPreview(width int) string {
	req, p := m.current, m.preview

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(req.Filename))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s · %d lines",
		req.Language, source.FormatSize(req.SizeBytes), p.Total)))
	b.WriteString("\n\n")

	for _, l := range p.Lines {
		b.WriteString(lineNumberStyle.Render(fmt.Sprintf("%d", l.Number)))
		b.WriteString("  ")
		b.WriteString(renderTokens(l))
		b.WriteString("\n")
	}
	if p.Remaining > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("      ... %d more lines", p.Remaining)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("enter analyze · esc back"))
	return m.panel(width).Render(b.String())
}

func renderTokens(l source.HighlightedLine) string {
	var b strings.Builder
	for _, tok := range l.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(codeStyle.Render(tok.Text))
		}
	}
	return b.String()
}

func (m Model) renderAnalyzing(width int) string {
	msg := fmt.Sprintf("%s Analyzing %s...", m.spinner.View(), m.current.Filename)
	hint := helpBarStyle.Render("esc cancel")
	return m.panel(width).Render(msg + "\n\n" + hint)
}

// renderResults builds the scrollable results document for the review on
// display.
func (m Model) renderResults(width int) string {
	rev := m.review
	if rev.Report == nil {
		return ""
	}
	req, rep := rev.Request, rev.Report

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(req.Filename))
	b.WriteString("\n")

	banner := fmt.Sprintf("Overall %s  %s", bandStyle(rep.Overall).Render(fmt.Sprintf("%d", rep.Overall)), rep.Summary)
	b.WriteString(bannerStyle.Width(width).Render(banner))
	b.WriteString("\n\n")

	cards := make([]string, 0, 4)
	for _, c := range []struct {
		label string
		n     int
	}{
		{"Overall", rep.Overall},
		{"Readability", rep.Readability},
		{"Modularity", rep.Modularity},
		{"Best Practices", rep.BestPractices},
	} {
		cards = append(cards, cardStyle.Render(
			bandStyle(c.n).Render(fmt.Sprintf("%d", c.n))+"\n"+cardLabelStyle.Render(c.label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	counts := analysis.CountBySeverity(rev.Suggestions)
	parts := []string{fmt.Sprintf("%d suggestions", counts.Total)}
	for _, sev := range model.Severities {
		parts = append(parts, severityStyle(sev).Render(fmt.Sprintf("%d %s", counts.Of(sev), sev)))
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")

	wrap := lipgloss.NewStyle().Width(width - 4)
	for _, s := range rev.Suggestions {
		b.WriteString("\n")
		b.WriteString(severityStyle(s.Severity).Render(strings.ToUpper(string(s.Severity))))
		b.WriteString(" ")
		b.WriteString(suggestionTitleStyle.Render(s.Title))
		b.WriteString("  ")
		b.WriteString(categoryStyle.Render(s.Category.Label()))
		if s.LineNumber > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  line %d", s.LineNumber)))
		}
		b.WriteString("\n")
		b.WriteString(indent(wrap.Render(s.Description), "  "))
		b.WriteString("\n")
		if s.CodeSnippet != "" {
			b.WriteString(indent(codeStyle.Render(s.CodeSnippet), "  "))
			b.WriteString("\n")
		}
		if s.SuggestedFix != "" {
			b.WriteString(indent(wrap.Render(fixStyle.Render("Fix: "+s.SuggestedFix)), "  "))
			b.WriteString("\n")
		}
	}
	if counts.Total == 0 {
		b.WriteString("\n")
		b.WriteString(fixStyle.Render("No suggestions."))
		b.WriteString("\n")
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory(height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n")

	inner := historyWidth - 4
	for i, rev := range m.history {
		score := "  -"
		if rev.Report != nil {
			score = bandStyle(rev.Report.Overall).Render(fmt.Sprintf("%3d", rev.Report.Overall))
		}
		name := rev.Request.Filename
		maxName := inner - 6
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}
		dot := statusStyle(rev.Request.Status).Render("●")
		line := fmt.Sprintf("%s %-*s %s", dot, maxName, name, score)

		style := historyItemStyle
		if m.historyFocus && i == m.historyIndex {
			style = historySelectedStyle
		}
		b.WriteString(style.Width(inner).Render(line))
		if i < len(m.history)-1 {
			b.WriteByte('\n')
		}
	}

	ps := panelStyle
	if m.historyFocus {
		ps = focusedPanelStyle
	}
	return ps.Width(historyWidth - 2).Height(height - 2).Render(b.String())
}

func (m Model) panel(width int) lipgloss.Style {
	return panelStyle.Width(width - 2).Height(m.height - 4)
}

func (m Model) renderStatusBar() string {
	var left string
	switch m.screen {
	case screenUpload:
		left = " Upload"
	case screenPreview:
		left = " Preview"
	case screenAnalyzing:
		left = " Analyzing"
	default:
		left = fmt.Sprintf(" Results  %3.f%%", m.viewport.ScrollPercent()*100)
	}
	if m.historyFocus {
		left += "  [history]"
	}

	right := fmt.Sprintf("%d reviews  ? help ", len(m.history))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("crev: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, k := range keys.helpItems() {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(h.Key),
			h.Desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
