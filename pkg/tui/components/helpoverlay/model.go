// Package helpoverlay renders the key reference inside a bordered,
// scrollable viewport.
package helpoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/repbook/repbook/pkg/tui/theme"
)

type binding struct {
	keys string
	does string
}

type section struct {
	title    string
	bindings []binding
}

var sections = []section{
	{
		title: "Navigation",
		bindings: []binding{
			{"↑/↓, k/j", "move between programs and days"},
			{"←/→, h/l", "collapse or expand a program"},
			{"enter", "open the highlighted day"},
			{"tab", "switch between the day list and the grid"},
			{"q", "quit (from the day list)"},
		},
	},
	{
		title: "Grid",
		bindings: []binding{
			{"arrows, tab", "move between cells"},
			{"enter, F2, space", "edit the focused cell"},
			{"any letter", "start editing with that letter"},
			{"ctrl+n", "add an exercise row"},
			{"ctrl+d", "delete the focused row"},
			{"/", "search the day"},
			{"esc", "clear search / back to the day list"},
		},
	},
	{
		title: "While editing",
		bindings: []binding{
			{"enter", "save and move down"},
			{"tab / shift+tab", "save and move across"},
			{"esc", "discard the edit"},
			{"↑/↓", "pick from the option list"},
			{"space", "toggle a tag (multi-select cells)"},
		},
	},
}

// Model is the help overlay. It owns a viewport so long key lists scroll on
// short terminals.
type Model struct {
	viewport viewport.Model
	theme    theme.Theme
	width    int
	height   int
	frame    lipgloss.Style
}

func New(th theme.Theme) *Model {
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	vp.MouseWheelEnabled = true
	return &Model{
		viewport: vp,
		theme:    th,
		frame:    th.Modal.Frame,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport. Dismissal is the caller's
// concern.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

func (m *Model) View() string {
	return m.frame.Render(m.viewport.View())
}

// SetSize bounds the overlay and re-renders the key reference to fit.
func (m *Model) SetSize(width, height int) {
	minWidth, minHeight := 32, 8
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(innerHeight)

	m.viewport.SetContent(m.renderContent())
	m.viewport.SetYOffset(0)
}

func (m *Model) renderContent() string {
	keyWidth := 0
	for _, s := range sections {
		for _, b := range s.bindings {
			if w := lipgloss.Width(b.keys); w > keyWidth {
				keyWidth = w
			}
		}
	}

	titleStyle := m.theme.Modal.Title
	keyStyle := m.theme.Footer.Status
	doesStyle := m.theme.Footer.Help

	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(titleStyle.Render(s.title))
		sb.WriteString("\n")
		for _, b := range s.bindings {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(b.keys))
			sb.WriteString("  ")
			sb.WriteString(keyStyle.Render(b.keys))
			sb.WriteString(pad)
			sb.WriteString("  ")
			sb.WriteString(doesStyle.Render(b.does))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
