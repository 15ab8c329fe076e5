package daynav

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/theme"
)

func seededNav() *Model {
	m := NewModel(events.ComponentID("nav"), theme.Default())
	programs := []program.Program{
		{ID: "p1", Name: "Strength Block", Client: "Alex"},
		{ID: "p2", Name: "Conditioning"},
	}
	days := map[string][]program.Day{
		"p1": {
			{ID: "d1", ProgramID: "p1", Title: "Day 1", Order: 0},
			{ID: "d2", ProgramID: "p1", Title: "Day 2", Order: 1},
		},
		"p2": {
			{ID: "d3", ProgramID: "p2", Title: "Intervals", Order: 0},
		},
	}
	m.SetData(programs, days)
	m.SetSize(30, 10)
	m.Focus()
	return m
}

func navKey(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	default:
		return tea.KeyPressMsg{Text: s, Code: []rune(s)[0]}
	}
}

func TestMoveHighlightsDays(t *testing.T) {
	m := seededNav()
	_, cmd := m.Update(navKey("down")) // onto Day 1
	if cmd == nil {
		t.Fatal("expected highlight command")
	}
	msg, ok := cmd().(events.DayHighlightMsg)
	if !ok {
		t.Fatalf("expected DayHighlightMsg, got %T", cmd())
	}
	if msg.Day.DayID != "d1" || msg.Day.ProgramName != "Strength Block" {
		t.Fatalf("unexpected highlight: %+v", msg.Day)
	}
}

func TestEnterSelectsHighlightedDay(t *testing.T) {
	m := seededNav()
	m.Update(navKey("down"))
	_, cmd := m.Update(navKey("enter"))
	if cmd == nil {
		t.Fatal("expected select command")
	}
	msg, ok := cmd().(events.DaySelectMsg)
	if !ok {
		t.Fatalf("expected DaySelectMsg, got %T", cmd())
	}
	if msg.Day.DayID != "d1" {
		t.Fatalf("wrong day selected: %+v", msg.Day)
	}
}

func TestCollapseHidesDays(t *testing.T) {
	m := seededNav()
	m.Update(navKey("left")) // collapse Strength Block
	// next entry is now the second program, not a day
	m.Update(navKey("down"))
	if _, ok := m.Highlighted(); ok {
		t.Fatal("collapsed program must hide its days")
	}
	m.Update(navKey("right")) // expand Conditioning
	m.Update(navKey("down"))
	ref, ok := m.Highlighted()
	if !ok || ref.DayID != "d3" {
		t.Fatalf("expected Intervals after expand, got %+v", ref)
	}
}

func TestSelectDayRestoresPosition(t *testing.T) {
	m := seededNav()
	if !m.SelectDay("d2") {
		t.Fatal("SelectDay should find d2")
	}
	ref, ok := m.Highlighted()
	if !ok || ref.DayID != "d2" {
		t.Fatalf("cursor not on d2: %+v", ref)
	}
	if m.SelectDay("missing") {
		t.Fatal("unknown day must not be selectable")
	}
}

func TestUnfocusedPaneIgnoresKeys(t *testing.T) {
	m := seededNav()
	m.Blur()
	_, cmd := m.Update(navKey("down"))
	if cmd != nil {
		t.Fatal("blurred pane must ignore keys")
	}
	if m.cursor != 0 {
		t.Fatal("cursor moved while blurred")
	}
}
