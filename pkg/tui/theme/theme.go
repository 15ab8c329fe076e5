package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Grid   GridTheme
	Nav    NavTheme
	Footer FooterTheme
	Modal  ModalTheme
}

// GridTheme styles the exercise grid: headers, cells, the focused cell, the
// active editor and search matches.
type GridTheme struct {
	Header      lipgloss.Style
	Cell        lipgloss.Style
	CellRO      lipgloss.Style
	Focused     lipgloss.Style
	Editing     lipgloss.Style
	Match       lipgloss.Style
	ActiveMatch lipgloss.Style
	Popup       lipgloss.Style
	PopupItem   lipgloss.Style
	PopupCursor lipgloss.Style
}

// NavTheme styles the program/day navigation pane.
type NavTheme struct {
	Frame    lipgloss.Style
	Program  lipgloss.Style
	Day      lipgloss.Style
	Selected lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Sync   lipgloss.Style
	Error  lipgloss.Style
	Notice lipgloss.Style
}

// ModalTheme styles centered confirmation overlays.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// blend mixes two hex colors in Luv space, which keeps the mid tones from
// going muddy the way naive RGB interpolation does.
func blend(from, to string, t float64) color.Color {
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil {
		return lipgloss.Color(from)
	}
	return lipgloss.Color(a.BlendLuv(b, t).Clamped().Hex())
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	focusBg := blend("#5f5fd7", "#1c1c1c", 0.35)
	matchBg := blend("#d7af00", "#1c1c1c", 0.55)

	return Theme{
		Grid: GridTheme{
			Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
			Cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			CellRO: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			Focused: lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(focusBg),
			Editing: lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("23")),
			Match: lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(matchBg),
			ActiveMatch: lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("214")),
			Popup: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			PopupItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			PopupCursor: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Nav: NavTheme{
			Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Program:  lipgloss.NewStyle().Bold(true),
			Day:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Sync:   lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
