package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vzahanych/weathernow/internal/render"
	"github.com/vzahanych/weathernow/internal/session"
	"go.uber.org/zap"
)

// Model is the interactive search screen. All search state lives in
// session.State; the model only adds widgets and terminal size.
type Model struct {
	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model

	state   session.State
	pending *session.Request

	svc     Lookuper
	timeout time.Duration
	logger  *zap.Logger
}

// NewModel creates the model. A non-blank initialQuery is looked up as
// soon as the program starts.
func NewModel(svc Lookuper, initialQuery string, timeout time.Duration, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Search city..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.SetValue(initialQuery)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(render.ColorPrimary)

	m := Model{
		searchInput: ti,
		spinner:     s,
		svc:         svc,
		timeout:     timeout,
		logger:      logger,
	}

	if strings.TrimSpace(initialQuery) != "" {
		m.state, m.pending = m.state.Next(session.Submitted{Query: initialQuery})
	}
	return m
}

// Init starts the initial lookup, if any
func (m Model) Init() tea.Cmd {
	if m.pending == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick, runLookup(m.svc, m.pending, m.timeout))
}

// State exposes the current search state.
func (m Model) State() session.State {
	return m.state
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case lookupDoneMsg:
		if m.state.Stale(msg.token) {
			m.logger.Debug("Discarding stale lookup result", zap.Uint64("token", msg.token), zap.Uint64("current", m.state.Token))
			return m, nil
		}
		m.state, _ = m.state.Next(session.Completed{Token: msg.token, Report: msg.report, Err: msg.err})
		m.pending = nil
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase != session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		var req *session.Request
		m.state, req = m.state.Next(session.Submitted{Query: m.searchInput.Value()})
		m.pending = req
		if req == nil {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, runLookup(m.svc, req, m.timeout))
	}

	before := m.searchInput.Value()

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Emptying the box clears whatever is on screen
	if after := m.searchInput.Value(); after != before && strings.TrimSpace(after) == "" {
		m.state, _ = m.state.Next(session.InputCleared{})
		m.pending = nil
	}
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var sections []string

	sections = append(sections,
		titleStyle.Render("WeatherNow"),
		"",
		searchBoxStyle.Render(m.searchInput.View()),
		"",
	)

	switch m.state.Phase {
	case session.Idle:
		sections = append(sections, hintStyle.Render("Try searching for a city to see the weather."))
	case session.Loading:
		sections = append(sections, m.spinner.View()+" Loading…")
	case session.Failed:
		sections = append(sections, errorStyle.Render("✗ "+capitalize(m.state.Err.Error())))
	case session.Success:
		sections = append(sections, render.Card(m.state.Report))
	}

	sections = append(sections, helpStyle.Render("Enter: Search • Esc/Ctrl+C: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
