package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/prefs"
	"github.com/repbook/repbook/pkg/store"
	teaui "github.com/repbook/repbook/pkg/tui/app"
)

// UI runs the interactive program editor.
type UI struct {
	Persistence store.Persistence
	Prefs       *prefs.Store
	ClientMode  bool
}

// Do starts the Bubble Tea program and blocks until it exits.
func (u *UI) Do(ctx context.Context) error {
	model := teaui.NewModel(teaui.Options{
		Persistence: u.Persistence,
		Prefs:       u.Prefs,
		ClientMode:  u.ClientMode,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
