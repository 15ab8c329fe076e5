// Package daynav renders the program/day navigation pane. Programs expand
// into their training days; activating a day tells the rest of the UI to
// load its exercise grid.
package daynav

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/theme"
)

type entryKind int

const (
	entryProgram entryKind = iota
	entryDay
)

type entry struct {
	kind    entryKind
	program program.Program
	day     program.Day
}

// Model is the navigation pane.
type Model struct {
	id      events.ComponentID
	theme   theme.Theme
	focused bool

	programs  []program.Program
	days      map[string][]program.Day
	collapsed map[string]bool

	entries []entry
	cursor  int

	width  int
	height int
	scroll int
}

// NewModel constructs an empty navigation pane.
func NewModel(id events.ComponentID, th theme.Theme) *Model {
	return &Model{
		id:        id,
		theme:     th,
		days:      make(map[string][]program.Day),
		collapsed: make(map[string]bool),
	}
}

// SetData replaces the programs and their days.
func (m *Model) SetData(programs []program.Program, days map[string][]program.Day) {
	m.programs = programs
	m.days = days
	m.rebuild()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Focus marks the pane as keyboard target.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return events.FocusCmd(m.id)
}

// Blur releases the pane.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	return events.BlurCmd(m.id)
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// SelectDay moves the cursor onto the given day, expanding its program if
// needed. Used to restore the last session's position.
func (m *Model) SelectDay(dayID string) bool {
	for _, p := range m.programs {
		for _, d := range m.days[p.ID] {
			if d.ID == dayID {
				m.collapsed[p.ID] = false
				m.rebuild()
				for i, e := range m.entries {
					if e.kind == entryDay && e.day.ID == dayID {
						m.cursor = i
						m.ensureVisible()
						return true
					}
				}
			}
		}
	}
	return false
}

// Highlighted returns the day under the cursor, if the cursor is on one.
func (m *Model) Highlighted() (events.DayRef, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return events.DayRef{}, false
	}
	e := m.entries[m.cursor]
	if e.kind != entryDay {
		return events.DayRef{}, false
	}
	return m.refFor(e), true
}

func (m *Model) refFor(e entry) events.DayRef {
	name := ""
	for _, p := range m.programs {
		if p.ID == e.day.ProgramID {
			name = p.Name
		}
	}
	return events.DayRef{
		ProgramID:   e.day.ProgramID,
		ProgramName: name,
		DayID:       e.day.ID,
		Title:       e.day.Title,
	}
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focused {
			return m, m.handleKey(msg)
		}
	case events.FocusMsg:
		if msg.Component == m.id {
			m.focused = true
		}
	case events.BlurMsg:
		if msg.Component == m.id {
			m.focused = false
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.move(-1)
		return m.highlightCmd()
	case "down", "j":
		m.move(1)
		return m.highlightCmd()
	case "left", "h":
		return m.setCollapsed(true)
	case "right", "l":
		return m.setCollapsed(false)
	case "enter":
		if ref, ok := m.Highlighted(); ok {
			return events.DaySelectCmd(m.id, ref)
		}
		return m.setCollapsed(false)
	}
	return nil
}

func (m *Model) highlightCmd() tea.Cmd {
	ref, ok := m.Highlighted()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return events.DayHighlightMsg{Component: m.id, Day: ref}
	}
}

func (m *Model) move(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	m.ensureVisible()
}

// setCollapsed folds or unfolds the program under or above the cursor.
func (m *Model) setCollapsed(collapsed bool) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	e := m.entries[m.cursor]
	id := e.program.ID
	if e.kind == entryDay {
		id = e.day.ProgramID
	}
	m.collapsed[id] = collapsed
	m.rebuild()
	// keep the cursor on the program header after folding
	for i, cand := range m.entries {
		if cand.kind == entryProgram && cand.program.ID == id {
			if collapsed || e.kind == entryProgram {
				m.cursor = i
			}
			break
		}
	}
	m.ensureVisible()
	return nil
}

func (m *Model) rebuild() {
	m.entries = m.entries[:0]
	for _, p := range m.programs {
		m.entries = append(m.entries, entry{kind: entryProgram, program: p})
		if m.collapsed[p.ID] {
			continue
		}
		for _, d := range m.days[p.ID] {
			m.entries = append(m.entries, entry{kind: entryDay, program: p, day: d})
		}
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) visibleLines() int {
	if m.height <= 0 {
		return len(m.entries)
	}
	return m.height
}

func (m *Model) ensureVisible() {
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+m.visibleLines() {
		m.scroll = m.cursor - m.visibleLines() + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := len(m.entries) - m.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the pane.
func (m *Model) View() string {
	if len(m.entries) == 0 {
		return m.theme.Nav.Day.Render("(no programs)")
	}
	var lines []string
	end := m.scroll + m.visibleLines()
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.scroll; i < end; i++ {
		lines = append(lines, m.renderEntry(i))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderEntry(i int) string {
	e := m.entries[i]
	var text string
	switch e.kind {
	case entryProgram:
		fold := "▾"
		if m.collapsed[e.program.ID] {
			fold = "▸"
		}
		text = fmt.Sprintf("%s %s", fold, e.program.Name)
		if e.program.Client != "" {
			text += " · " + e.program.Client
		}
		if i == m.cursor && m.focused {
			return m.theme.Nav.Selected.Render(text)
		}
		return m.theme.Nav.Program.Render(text)
	default:
		text = "  " + e.day.Title
		if i == m.cursor && m.focused {
			return m.theme.Nav.Selected.Render("➤ " + e.day.Title)
		}
		return m.theme.Nav.Day.Render(text)
	}
}
