package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/session"
)

const testSource = `package main

func add(a, b int) int {
	return a + b
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setupModel(t *testing.T, a analysis.Analyzer) Model {
	t.Helper()
	if a == nil {
		a = analysis.NewHeuristic(0)
	}
	m := New(session.New(a), 0)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var newM tea.Model
		newM, cmd = m.Update(msg)
		m = newM.(Model)
	}
	return m, cmd
}

// finish runs the commands returned when analysis starts and feeds the
// outcome back into the model.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, msg := range msgs {
		if done, ok := msg.(analysisDoneMsg); ok {
			newM, _ := m.Update(done)
			return newM.(Model)
		}
	}
	t.Fatal("analysis command produced no result")
	return m
}

func analyze(t *testing.T, m Model, path string) Model {
	t.Helper()
	m = m.Open(path)
	m, cmd := press(m, "enter")
	if m.screen != screenAnalyzing {
		t.Fatalf("expected analyzing screen, got %d", m.screen)
	}
	return finish(t, m, cmd)
}

func TestViewBeforeSize(t *testing.T) {
	m := New(session.New(analysis.NewHeuristic(0)), 0)
	if m.View() != "Loading..." {
		t.Errorf("unexpected view %q", m.View())
	}
}

func TestTypePathAndPreview(t *testing.T) {
	m := setupModel(t, nil)
	path := writeFile(t, "add.go", testSource)

	m, _ = press(m, path, "enter")
	if m.screen != screenPreview {
		t.Fatalf("expected preview screen, err=%v", m.err)
	}
	if m.current.Filename != "add.go" || m.current.Language != "go" {
		t.Errorf("unexpected request %+v", m.current)
	}
	if m.current.Status != model.StatusPending {
		t.Errorf("status = %s", m.current.Status)
	}
	if m.preview.Total != 6 || m.preview.Remaining != 0 {
		t.Errorf("unexpected preview %d/%d", m.preview.Total, m.preview.Remaining)
	}

	view := m.View()
	if !strings.Contains(view, "add.go") || !strings.Contains(view, "return a + b") {
		t.Error("expected preview to show file name and content")
	}
}

func TestPreviewTruncates(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	m := setupModel(t, nil).Open(writeFile(t, "long.txt", b.String()))

	if len(m.preview.Lines) != 20 || m.preview.Remaining != 11 {
		t.Errorf("expected 20 shown and 11 remaining, got %d/%d", len(m.preview.Lines), m.preview.Remaining)
	}
	if !strings.Contains(m.View(), "... 11 more lines") {
		t.Error("expected truncation footer")
	}
}

func TestOpenErrors(t *testing.T) {
	m := setupModel(t, nil).Open(filepath.Join(t.TempDir(), "missing.go"))
	if m.err == nil || m.screen != screenUpload {
		t.Errorf("expected error on upload screen, got screen %d err %v", m.screen, m.err)
	}

	limited := New(session.New(analysis.NewHeuristic(0)), 8)
	limited = limited.Open(writeFile(t, "big.go", testSource))
	if limited.err == nil || !strings.Contains(limited.err.Error(), "limit") {
		t.Errorf("expected size limit error, got %v", limited.err)
	}

	m, _ = press(setupModel(t, nil), "enter")
	if m.err == nil {
		t.Error("expected error for empty path")
	}
}

func TestPreviewBack(t *testing.T) {
	m := setupModel(t, nil).Open(writeFile(t, "a.py", "x = 1"))
	m, _ = press(m, "esc")
	if m.screen != screenUpload {
		t.Errorf("expected upload screen, got %d", m.screen)
	}
	if _, ok := m.sess.Current(); ok {
		t.Error("expected current request cleared")
	}
}

func TestAnalyzeShowsResults(t *testing.T) {
	m := analyze(t, setupModel(t, nil), writeFile(t, "app.js", "console.log('hi')"))

	if m.screen != screenResults {
		t.Fatalf("expected results screen, err=%v", m.err)
	}
	if m.review.Report == nil || m.review.Request.Status != model.StatusCompleted {
		t.Fatalf("unexpected review %+v", m.review)
	}
	if len(m.history) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(m.history))
	}

	view := m.View()
	for _, want := range []string{"app.js", "Readability", "Best Practices", "Insufficient code documentation", "History"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected results view to contain %q", want)
		}
	}
	if strings.Index(view, "MEDIUM") > strings.Index(view, "LOW") {
		t.Error("expected suggestions ordered by severity")
	}
}

func TestAnalysisFailureReturnsToUpload(t *testing.T) {
	failing := analysis.Func(func(context.Context, model.ReviewRequest) (*analysis.Result, error) {
		return nil, errors.New("backend down")
	})
	m := analyze(t, setupModel(t, failing), writeFile(t, "a.go", "package a"))

	if m.screen != screenUpload {
		t.Errorf("expected upload screen, got %d", m.screen)
	}
	if m.err == nil || !strings.Contains(m.err.Error(), "failed to analyze code") {
		t.Errorf("unexpected error %v", m.err)
	}
	if len(m.history) != 1 || m.history[0].Request.Status != model.StatusFailed {
		t.Errorf("expected failed entry in history, got %+v", m.history)
	}
	if !strings.Contains(m.View(), "backend") {
		t.Error("expected error in view")
	}
}

func TestNewReviewFromResults(t *testing.T) {
	m := analyze(t, setupModel(t, nil), writeFile(t, "a.rb", "# ok"))
	m, _ = press(m, "n")
	if m.screen != screenUpload {
		t.Errorf("expected upload screen, got %d", m.screen)
	}
	if _, ok := m.sess.Selected(); ok {
		t.Error("expected selection cleared")
	}
	if len(m.history) != 1 {
		t.Error("history should survive a new review")
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := setupModel(t, nil)
	m = analyze(t, m, writeFile(t, "first.go", "// one"))
	m, _ = press(m, "n")
	m = analyze(t, m, writeFile(t, "second.go", "// two"))

	if m.history[0].Request.Filename != "second.go" {
		t.Fatalf("expected newest first, got %s", m.history[0].Request.Filename)
	}

	m, _ = press(m, "tab")
	if !m.historyFocus {
		t.Fatal("expected history focus")
	}
	m, _ = press(m, "j", "j")
	if m.historyIndex != 1 {
		t.Errorf("expected index clamped at 1, got %d", m.historyIndex)
	}
	m, _ = press(m, "enter")
	if m.historyFocus || m.review.Request.Filename != "first.go" {
		t.Errorf("expected first.go on display, got %s", m.review.Request.Filename)
	}
	sel, ok := m.sess.Selected()
	if !ok || sel.Request.Filename != "first.go" {
		t.Error("expected session selection to follow history")
	}

	m, _ = press(m, "tab", "k")
	if m.historyIndex != 0 {
		t.Errorf("expected index 0, got %d", m.historyIndex)
	}
}

func TestHelpToggle(t *testing.T) {
	m := analyze(t, setupModel(t, nil), writeFile(t, "a.go", "// x"))

	m, _ = press(m, "?")
	if !m.showHelp {
		t.Error("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help view to contain shortcuts")
	}
	m, _ = press(m, "?")
	if m.showHelp {
		t.Error("expected help hidden")
	}
}

func TestQuit(t *testing.T) {
	m := analyze(t, setupModel(t, nil), writeFile(t, "a.go", "// x"))
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	// q is typed into the path on the upload screen
	up, _ := press(setupModel(t, nil), "q")
	if up.input.Value() != "q" {
		t.Errorf("expected q in input, got %q", up.input.Value())
	}
}
