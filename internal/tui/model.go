// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal client: a query prompt, a
// rotating status line while the backend works, and the rendered report
// with its plan and reference cards.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/web-scout/internal/client"
	"github.com/pdiddy/web-scout/internal/report"
	"github.com/pdiddy/web-scout/internal/session"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Researcher runs one research request. *client.Client implements it.
type Researcher interface {
	Research(ctx context.Context, query string) (*types.ResearchResult, error)
}

// statusTickMsg advances the status line. Ticks from an earlier request
// carry a stale generation and are dropped.
type statusTickMsg struct{ gen int }

// resultMsg delivers the outcome of the request with generation gen.
type resultMsg struct {
	gen int
	res *types.ResearchResult
	err error
}

// Model is the bubbletea model.
type Model struct {
	researcher Researcher
	notice     *session.Notice
	styles     *Styles
	interval   time.Duration

	state    session.State
	gen      int
	cancel   context.CancelFunc
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	showNotice bool
	noticeErr  error
	width      int
	height     int
}

// Option configures a Model.
type Option func(*Model)

// WithNotice enables the cold-start notice gated by n.
func WithNotice(n *session.Notice) Option {
	return func(m *Model) { m.notice = n }
}

// WithInterval sets the status rotation period.
func WithInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithStyles overrides the default styles.
func WithStyles(s *Styles) Option {
	return func(m *Model) {
		if s != nil {
			m.styles = s
		}
	}
}

// New creates a Model that sends queries to r.
func New(r Researcher, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "What do you want to research?"
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		researcher: r,
		styles:     NewStyles(nil),
		interval:   session.StatusInterval,
		input:      ti,
		spinner:    sp,
		viewport:   viewport.New(80, 20),
		width:      80,
		height:     24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.showNotice = m.notice != nil && m.notice.ShouldShow()
	return m
}

// State returns the session state.
func (m Model) State() session.State { return m.state }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-8, 3)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusTickMsg:
		if msg.gen != m.gen || m.state.Phase != session.Loading {
			return m, nil
		}
		m.state = session.Reduce(m.state, session.Tick{})
		return m, m.tick()

	case resultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.finish()
		if msg.err != nil {
			m.state = session.Reduce(m.state, session.Failed{Message: client.MessageOf(msg.err)})
		} else {
			m.state = session.Reduce(m.state, session.Succeeded{Result: msg.res})
		}
		m.viewport.GotoTop()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase != session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.finish()
		return m, tea.Quit
	}

	// The notice is modal: the first key press dismisses it for good.
	if m.showNotice {
		m.showNotice = false
		m.noticeErr = m.notice.Dismiss()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyEsc:
		if m.state.Phase == session.Idle {
			return m, tea.Quit
		}
		m.finish()
		m.gen++
		m.state = session.Reduce(m.state, session.Reset{})
		m.refreshViewport()
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	next := session.Reduce(m.state, session.Submit{Query: m.input.Value()})
	if next.Phase != session.Loading || m.state.Phase == session.Loading {
		return m, nil
	}
	m.state = next
	m.gen++
	m.refreshViewport()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	gen, query, r := m.gen, next.Query, m.researcher
	research := func() tea.Msg {
		res, err := r.Research(ctx, query)
		return resultMsg{gen: gen, res: res, err: err}
	}
	return m, tea.Batch(research, m.tick(), m.spinner.Tick)
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return statusTickMsg{gen: gen} })
}

// finish cancels the in-flight request, if any.
func (m *Model) finish() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) refreshViewport() {
	switch m.state.Phase {
	case session.Success:
		m.viewport.SetContent(m.renderResult(m.state.Result))
	default:
		m.viewport.SetContent("")
	}
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("web-scout"))
	b.WriteString(m.styles.Muted.Render("  AI research assistant"))
	b.WriteString("\n\n")

	if m.showNotice {
		b.WriteString(m.styles.Notice.Width(max(m.width-4, 20)).Render(session.NoticeText + "\n\nPress any key to continue."))
		b.WriteString("\n")
		return b.String()
	}
	if m.noticeErr != nil {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("(could not save notice preference: %v)", m.noticeErr)))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state.Phase {
	case session.Loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.styles.Normal.Render(m.state.Status()))
		b.WriteString("\n")
	case session.Error:
		b.WriteString(m.styles.Error.Render("✗ " + m.state.Message))
		b.WriteString("\n")
	case session.Success:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch m.state.Phase {
	case session.Loading:
		return "esc cancel • ctrl+c quit"
	case session.Success:
		return "enter new search • ↑/↓ scroll • esc clear • ctrl+c quit"
	default:
		return "enter search • esc quit"
	}
}

func (m Model) renderResult(res *types.ResearchResult) string {
	if res == nil {
		return ""
	}
	width := max(m.width, 40)
	var b strings.Builder

	b.WriteString(m.styles.Subtitle.Render("Research plan"))
	b.WriteString("\n")
	for i, q := range res.Plan {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\n")

	parsed := report.Parse(res.Report)
	b.WriteString(lipgloss.NewStyle().Width(width).Render(parsed.Content))
	b.WriteString("\n")

	if len(parsed.References) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Subtitle.Render("References"))
		b.WriteString("\n")
		b.WriteString(m.renderCards(parsed.References, width))
	}
	return b.String()
}

// renderCards lays reference cards out in rows that fit width.
func (m Model) renderCards(refs []types.Reference, width int) string {
	cardWidth := 36
	perRow := max(width/(cardWidth+2), 1)

	var rows []string
	for start := 0; start < len(refs); start += perRow {
		end := min(start+perRow, len(refs))
		cards := make([]string, 0, end-start)
		for i, r := range refs[start:end] {
			title := fmt.Sprintf("%d. %s", start+i+1, r.Title)
			card := m.styles.Card.Width(cardWidth).Render(
				title + "\n" + m.styles.CardHost.Render(report.Hostname(r.URL)),
			)
			cards = append(cards, card)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
