package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/program"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// DayRef captures the metadata required to identify a training day in
// cross-component events.
type DayRef struct {
	ProgramID   string
	ProgramName string
	DayID       string
	Title       string
}

// Label returns a human-friendly identifier for the day.
func (r DayRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.DayID
}

// DayHighlightMsg is emitted when a day is highlighted (cursor moved onto it)
// within the navigation pane.
type DayHighlightMsg struct {
	Component ComponentID
	Day       DayRef
}

// Describe renders the highlight in a human-friendly format for logs.
func (m DayHighlightMsg) Describe() string {
	return fmt.Sprintf(`program:%q day:%q`, m.Day.ProgramName, m.Day.Label())
}

// DaySelectMsg is emitted when the user activates a highlighted day.
type DaySelectMsg struct {
	Component ComponentID
	Day       DayRef
}

// Describe renders the selection in a human-friendly format for logs.
func (m DaySelectMsg) Describe() string {
	return fmt.Sprintf(`program:%q day:%q`, m.Day.ProgramName, m.Day.Label())
}

// DaySelectCmd wraps DaySelectMsg in a tea.Cmd.
func DaySelectCmd(component ComponentID, day DayRef) tea.Cmd {
	return func() tea.Msg {
		return DaySelectMsg{Component: component, Day: day}
	}
}

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a resource was removed.
	ChangeDelete ChangeType = "delete"
)

// ExerciseChangeMsg announces lifecycle changes to exercise rows so other
// components can refresh their state.
type ExerciseChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	DayID     string
	Exercise  program.Exercise
}

// Describe renders the change in a human-friendly format for logs.
func (m ExerciseChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q day:%q exercise:%q`, m.Action, m.DayID, m.Exercise.Name)
}

// SyncStateMsg reports the coordinator's in-flight write count so the status
// bar can show a syncing indicator.
type SyncStateMsg struct {
	Component ComponentID
	Pending   int
}

// Describe implements the logging helper.
func (m SyncStateMsg) Describe() string {
	return fmt.Sprintf(`component:%q pending:%d`, m.Component, m.Pending)
}

// SyncStateCmd wraps SyncStateMsg in a tea.Cmd.
func SyncStateCmd(component ComponentID, pending int) tea.Cmd {
	return func() tea.Msg {
		return SyncStateMsg{Component: component, Pending: pending}
	}
}

// NoticeMsg surfaces a recoverable, user-facing condition (validation
// failure, failed write, rejected URL).
type NoticeMsg struct {
	Component ComponentID
	Text      string
	IsError   bool
}

// Describe implements the logging helper.
func (m NoticeMsg) Describe() string {
	return fmt.Sprintf(`component:%q error:%v text:%q`, m.Component, m.IsError, m.Text)
}

// NoticeCmd wraps NoticeMsg in a tea.Cmd.
func NoticeCmd(component ComponentID, text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Component: component, Text: text, IsError: isError}
	}
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}
