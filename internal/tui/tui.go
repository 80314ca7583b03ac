// Package tui implements the Bubble Tea terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/session"
	"github.com/aezell/crev/internal/source"
)

type screen int

const (
	screenUpload screen = iota
	screenPreview
	screenAnalyzing
	screenResults
)

const historyWidth = 34

// analysisDoneMsg carries the outcome of a background analysis.
type analysisDoneMsg struct {
	review model.Review
	err    error
}

// Model is the top-level Bubble Tea model for crev.
type Model struct {
	sess      *session.Session
	maxUpload int64

	screen   screen
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// Preview of the loaded file
	current model.ReviewRequest
	preview source.Preview

	// Review on display
	review model.Review

	// History panel
	history      []model.Review
	historyFocus bool
	historyIndex int

	cancel context.CancelFunc
	err    error

	width  int
	height int

	showHelp bool
}

// New creates a new TUI model backed by sess. Files larger than maxUpload bytes
// are refused; zero disables the limit.
func New(sess *session.Session, maxUpload int64) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/file.go"
	ti.Prompt = "File: "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPurple)

	vp := viewport.New(80, 20)

	m := Model{
		sess:      sess,
		maxUpload: maxUpload,
		input:     ti,
		spinner:   s,
		viewport:  vp,
	}
	m.history = sess.History()
	return m
}

// Open loads path straight into the preview screen.
func (m Model) Open(path string) Model {
	m.input.SetValue(path)
	return m.load(path)
}

func (m Model) load(path string) Model {
	path = strings.TrimSpace(path)
	if path == "" {
		m.err = errors.New("enter a file path")
		return m
	}

	f, err := source.Read(path)
	if err == nil && source.IsPatch(f.Name) {
		f, err = source.FromPatch(f.Content)
	}
	if err != nil {
		m.err = err
		return m
	}
	if m.maxUpload > 0 && f.SizeBytes > m.maxUpload {
		m.err = fmt.Errorf("%s is %s; the limit is %s",
			f.Name, source.FormatSize(f.SizeBytes), source.FormatSize(m.maxUpload))
		return m
	}

	m.err = nil
	m.current = m.sess.Load(f)
	m.preview = source.NewPreview(f, source.PreviewLines)
	m.screen = screenPreview
	m.input.Blur()
	return m
}

func (m Model) startAnalysis() (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.screen = screenAnalyzing
	m.err = nil
	sess := m.sess
	run := func() tea.Msg {
		rev, err := sess.Start(ctx)
		return analysisDoneMsg{review: rev, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) newReview() (Model, tea.Cmd) {
	m.sess.Reset()
	m.current = model.ReviewRequest{}
	m.review = model.Review{}
	m.historyFocus = false
	m.screen = screenUpload
	m.input.Reset()
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) show(rev model.Review) Model {
	m.review = rev
	m.screen = screenResults
	m.resize()
	m.viewport.GotoTop()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		m.cancel = nil
		m.history = m.sess.History()
		if msg.err != nil {
			m.err = msg.err
			m.screen = screenUpload
			m.input.Focus()
			return m, textinput.Blink
		}
		return m.show(msg.review), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == screenUpload {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, keys.Help, keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.screen {
	case screenUpload:
		return m.updateUpload(msg)
	case screenPreview:
		return m.updatePreview(msg)
	case screenAnalyzing:
		if key.Matches(msg, keys.Back) && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	default:
		return m.updateResults(msg)
	}
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyFocus {
		return m.updateHistory(msg)
	}
	switch {
	case key.Matches(msg, keys.Confirm):
		return m.load(m.input.Value()), nil
	case key.Matches(msg, keys.Focus):
		if len(m.history) > 0 {
			m.historyFocus = true
			m.input.Blur()
		}
		return m, nil
	case key.Matches(msg, keys.Back):
		m.err = nil
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		return m.startAnalysis()
	case key.Matches(msg, keys.Back):
		m.sess.Reset()
		m.screen = screenUpload
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyFocus {
		return m.updateHistory(msg)
	}
	switch {
	case key.Matches(msg, keys.New), key.Matches(msg, keys.Back):
		return m.newReview()
	case key.Matches(msg, keys.Focus):
		m.historyFocus = len(m.history) > 0
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, keys.Up):
		m.viewport.LineUp(1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Focus), key.Matches(msg, keys.Back):
		m.historyFocus = false
		if m.screen == screenUpload {
			m.input.Focus()
		}
	case key.Matches(msg, keys.Down):
		if m.historyIndex < len(m.history)-1 {
			m.historyIndex++
		}
	case key.Matches(msg, keys.Up):
		if m.historyIndex > 0 {
			m.historyIndex--
		}
	case key.Matches(msg, keys.Confirm):
		if m.historyIndex >= len(m.history) {
			return m, nil
		}
		rev, err := m.sess.Select(m.history[m.historyIndex].Request.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		if rev.Report == nil {
			m.err = fmt.Errorf("%s has no report (%s)", rev.Request.Filename, rev.Request.Status)
			return m, nil
		}
		m.err = nil
		m.historyFocus = false
		return m.show(rev), nil
	case key.Matches(msg, keys.New):
		return m.newReview()
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) resize() {
	w := m.mainWidth() - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	if m.screen == screenResults {
		m.viewport.SetContent(m.renderResults(w))
	}
}

func (m Model) mainWidth() int {
	if m.showHistoryPanel() {
		return m.width - historyWidth - 1
	}
	return m.width
}

func (m Model) showHistoryPanel() bool {
	return len(m.history) > 0 && m.width >= 2*historyWidth
}

// Run starts the TUI application. A non-empty path is opened immediately.
func Run(sess *session.Session, maxUpload int64, path string) error {
	m := New(sess, maxUpload)
	if path != "" {
		m = m.Open(path)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
