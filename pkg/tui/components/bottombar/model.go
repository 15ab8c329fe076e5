// Package bottombar renders the footer: current mode, selected day, sync
// status and transient notices. It also hosts the search prompt.
package bottombar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/theme"
)

// SearchMsg reports the live search query and its terminal states.
type SearchMsg struct {
	Component events.ComponentID
	Query     string
	Done      bool
	Cancelled bool
}

// Model is the footer bar.
type Model struct {
	id    events.ComponentID
	theme theme.Theme
	width int

	mode     string
	dayLabel string
	pending  int

	notice    string
	noticeErr bool

	searching bool
	input     textinput.Model
}

// NewModel constructs the footer.
func NewModel(id events.ComponentID, th theme.Theme) *Model {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search"
	return &Model{id: id, theme: th, input: in, mode: "nav"}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetMode updates the mode indicator shown on the left.
func (m *Model) SetMode(mode string) { m.mode = mode }

// SetDayLabel updates the selected-day text.
func (m *Model) SetDayLabel(label string) { m.dayLabel = label }

// SetSize updates the bar width.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.input.SetWidth(width - 2)
}

// Searching reports whether the search prompt is active.
func (m *Model) Searching() bool { return m.searching }

// StartSearch opens the search prompt.
func (m *Model) StartSearch() tea.Cmd {
	m.searching = true
	m.input.SetValue("")
	return m.input.Focus()
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.SyncStateMsg:
		m.pending = msg.Pending
		return m, nil
	case events.NoticeMsg:
		m.notice = msg.Text
		m.noticeErr = msg.IsError
		return m, nil
	case events.DaySelectMsg:
		m.dayLabel = msg.Day.Label()
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		return m.searchCmd(m.input.Value(), true, false)
	case "esc":
		m.searching = false
		m.input.Blur()
		return m.searchCmd("", false, true)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	live := m.searchCmd(m.input.Value(), false, false)
	if cmd == nil {
		return live
	}
	return tea.Batch(cmd, live)
}

func (m *Model) searchCmd(query string, done, cancelled bool) tea.Cmd {
	return func() tea.Msg {
		return SearchMsg{Component: m.id, Query: query, Done: done, Cancelled: cancelled}
	}
}

// ClearNotice drops the transient notice text.
func (m *Model) ClearNotice() {
	m.notice = ""
	m.noticeErr = false
}

// View renders the bar.
func (m *Model) View() string {
	if m.searching {
		return m.input.View()
	}

	left := m.theme.Footer.Status.Render(fmt.Sprintf("[%s]", m.mode))
	if m.dayLabel != "" {
		left += " " + m.theme.Footer.Status.Render(m.dayLabel)
	}
	if m.notice != "" {
		style := m.theme.Footer.Notice
		if m.noticeErr {
			style = m.theme.Footer.Error
		}
		left += " " + style.Render(m.notice)
	}

	right := m.theme.Footer.Help.Render("saved")
	if m.pending > 0 {
		right = m.theme.Footer.Sync.Render(fmt.Sprintf("syncing (%d)", m.pending))
	}

	gap := m.width - ansi.PrintableRuneWidth(left) - ansi.PrintableRuneWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
