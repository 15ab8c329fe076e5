// Package teaui hosts the Bubble Tea program for the repbook TUI: a
// program/day navigation pane on the left, the exercise grid on the right
// and a status bar underneath.
package teaui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/repbook/repbook/pkg/prefs"
	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/store"
	"github.com/repbook/repbook/pkg/tui/cache"
	"github.com/repbook/repbook/pkg/tui/components/bottombar"
	"github.com/repbook/repbook/pkg/tui/components/daynav"
	"github.com/repbook/repbook/pkg/tui/components/helpoverlay"
	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/grid"
	"github.com/repbook/repbook/pkg/tui/theme"
)

type mode int

const (
	modeNav mode = iota
	modeGrid
	modeSearch
	modeConfirmDelete
	modeHelp
)

const (
	prefLastProgram = "last-program"
	prefLastDay     = "last-day"
)

const navWidth = 30

// Options configure the root model.
type Options struct {
	Persistence store.Persistence
	Prefs       *prefs.Store
	// ClientMode renders the grid read-only: clients follow a program but
	// only trainers change it.
	ClientMode bool
}

type treeLoadedMsg struct {
	programs []program.Program
	days     map[string][]program.Day
	err      error
}

// Model is the root Bubble Tea model.
type Model struct {
	theme       theme.Theme
	persistence store.Persistence
	prefs       *prefs.Store
	clientMode  bool

	coordinator *cache.Coordinator
	nav         *daynav.Model
	grid        *grid.Model
	bar         *bottombar.Model
	help        *helpoverlay.Model

	mode     mode
	helpFrom mode
	day      events.DayRef

	confirm grid.RowDeleteRequestMsg

	width  int
	height int
}

// NewModel wires the root model and its components.
func NewModel(opts Options) *Model {
	th := theme.Default()
	m := &Model{
		theme:       th,
		persistence: opts.Persistence,
		prefs:       opts.Prefs,
		clientMode:  opts.ClientMode,
		coordinator: cache.NewCoordinator("coordinator", opts.Persistence),
		nav:         daynav.NewModel("daynav", th),
		bar:         bottombar.NewModel("bottombar", th),
		help:        helpoverlay.New(th),
	}
	m.grid = grid.NewModel("grid", th, exerciseColumns())
	if opts.ClientMode {
		m.grid.SetReadOnly(true)
		m.bar.SetMode("client")
	} else {
		m.bar.SetMode("nav")
	}
	return m
}

// exerciseColumns declares the grid schema for a training day. The target
// column is polymorphic on the exercise kind; changing the kind clears the
// target in the same commit.
func exerciseColumns() []grid.Column {
	kindOptions := []grid.Option{
		{Label: "Strength", Value: program.KindStrength},
		{Label: "Cardio", Value: program.KindCardio},
		{Label: "Mobility", Value: program.KindMobility},
	}
	categoryOptions := []grid.Option{
		{Label: "Squat", Value: "squat"},
		{Label: "Hinge", Value: "hinge"},
		{Label: "Push", Value: "push"},
		{Label: "Pull", Value: "pull"},
		{Label: "Carry", Value: "carry"},
		{Label: "Core", Value: "core"},
		{Label: "Conditioning", Value: "conditioning"},
	}
	tagOptions := []grid.Option{
		{Label: "Warmup", Value: "warmup"},
		{Label: "Superset", Value: "superset"},
		{Label: "Dropset", Value: "dropset"},
		{Label: "Tempo", Value: "tempo"},
		{Label: "PR attempt", Value: "pr"},
	}
	return []grid.Column{
		{ID: "name", Title: "Exercise", Accessor: "name", Width: 20,
			Opts: grid.CellOpts{Variant: grid.VariantShortText}},
		{ID: "kind", Title: "Kind", Accessor: "kind", Width: 10,
			Opts: grid.CellOpts{
				Variant: grid.VariantSelect,
				Options: kindOptions,
				OnDataUpdate: func(row grid.Row, value any) []grid.Update {
					// a new kind invalidates the kind-specific target
					return []grid.Update{{RowID: row.ID, Field: "target", Value: ""}}
				},
			}},
		{ID: "category", Title: "Category", Accessor: "category", Width: 13,
			Opts: grid.CellOpts{Variant: grid.VariantCombobox, Options: categoryOptions}},
		{ID: "sets", Title: "Sets", Accessor: "sets", Width: 5,
			Opts: grid.CellOpts{Variant: grid.VariantNumber}},
		{ID: "reps", Title: "Reps", Accessor: "reps", Width: 7,
			Opts: grid.CellOpts{Variant: grid.VariantShortText}},
		{ID: "rest", Title: "Rest(s)", Accessor: "rest", Width: 7,
			Opts: grid.CellOpts{Variant: grid.VariantNumber}},
		{ID: "target", Title: "Target", Accessor: "target", Width: 12,
			Opts: grid.CellOpts{
				Variant: grid.VariantPolymorphic,
				SubVariants: map[string]grid.CellOpts{
					program.KindStrength: {Variant: grid.VariantShortText}, // e.g. "80% 1RM"
					program.KindCardio:   {Variant: grid.VariantShortText}, // e.g. "150 bpm"
					program.KindMobility: {Variant: grid.VariantSelect, Options: []grid.Option{
						{Label: "Hold", Value: "hold"},
						{Label: "Flow", Value: "flow"},
						{Label: "PNF", Value: "pnf"},
					}},
				},
			}},
		{ID: "done", Title: "Done", Accessor: "done", Width: 5,
			Opts: grid.CellOpts{Variant: grid.VariantCheckbox}},
		{ID: "tags", Title: "Tags", Accessor: "tags", Width: 16,
			Opts: grid.CellOpts{Variant: grid.VariantMultiSelect, Options: tagOptions}},
		{ID: "scheduled", Title: "Scheduled", Accessor: "scheduled", Width: 11,
			Opts: grid.CellOpts{Variant: grid.VariantDate}},
		{ID: "video", Title: "Video", Accessor: "video", Width: 18,
			Opts: grid.CellOpts{Variant: grid.VariantURL}},
		{ID: "notes", Title: "Notes", Accessor: "notes", Width: 22,
			Opts: grid.CellOpts{Variant: grid.VariantLongText}},
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadTreeCmd(), m.nav.Focus())
}

func (m *Model) loadTreeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		programs, err := m.persistence.Programs(ctx)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		days := make(map[string][]program.Day, len(programs))
		for _, p := range programs {
			ds, err := m.persistence.Days(ctx, p.ID)
			if err != nil {
				return treeLoadedMsg{err: err}
			}
			days[p.ID] = ds
		}
		return treeLoadedMsg{programs: programs, days: days}
	}
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		if m.handleKeyPress(msg, &cmds) {
			return m, tea.Batch(cmds...)
		}

	case treeLoadedMsg:
		if msg.err != nil {
			return m, events.NoticeCmd("app", "load failed: "+msg.err.Error(), true)
		}
		m.nav.SetData(msg.programs, msg.days)
		if cmd := m.restoreLastDay(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case events.DaySelectMsg:
		cmds = append(cmds, m.openDay(msg.Day)...)

	case cache.LoadedMsg:
		if cmd := m.coordinator.HandleLoaded(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.grid.SetRows(m.coordinator.GridRows())

	case cache.WriteDoneMsg:
		if cmd := m.coordinator.HandleWriteDone(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.grid.SetRows(m.coordinator.GridRows())

	case grid.CommitMsg:
		if cmd := m.coordinator.Apply(msg.Updates); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, events.SyncStateCmd("coordinator", m.coordinator.Pending()))

	case grid.RowAddRequestMsg:
		if cmd := m.coordinator.InsertRow(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.grid.SetRows(m.coordinator.GridRows())
		m.grid.OnRowAdd()
		cmds = append(cmds,
			m.grid.OnCellEditingStart(),
			events.SyncStateCmd("coordinator", m.coordinator.Pending()))

	case grid.RowMoveRequestMsg:
		if cmd := m.coordinator.MoveRow(msg.From, msg.To); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.grid.SetRows(m.coordinator.GridRows())
		cmds = append(cmds, events.SyncStateCmd("coordinator", m.coordinator.Pending()))

	case grid.RowDeleteRequestMsg:
		m.confirm = msg
		m.mode = modeConfirmDelete

	case grid.SearchRequestMsg:
		m.mode = modeSearch
		m.bar.SetMode("search")
		cmds = append(cmds, m.bar.StartSearch())

	case bottombar.SearchMsg:
		switch {
		case msg.Cancelled:
			m.grid.ClearSearch()
			m.exitSearch()
		case msg.Done:
			m.grid.SetSearch(msg.Query)
			m.exitSearch()
		default:
			m.grid.SetSearch(msg.Query)
		}
	}

	m.forward(msg, &cmds)
	return m, tea.Batch(cmds...)
}

// handleKeyPress gives the app first claim on a key. Returning true stops
// the key from reaching the components.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		*cmds = append(*cmds, tea.Quit)
		return true
	}

	switch m.mode {
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.mode = m.helpFrom
			if m.clientMode {
				m.bar.SetMode("client")
			} else if m.mode == modeGrid {
				m.bar.SetMode("grid")
			} else {
				m.bar.SetMode("nav")
			}
		default:
			_, cmd := m.help.Update(msg)
			appendCmd(cmds, cmd)
		}
		return true

	case modeConfirmDelete:
		switch msg.String() {
		case "y", "enter":
			m.mode = modeGrid
			if cmd := m.coordinator.DeleteRows([]string{m.confirm.RowID}); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
			m.grid.SetRows(m.coordinator.GridRows())
			m.grid.OnRowsDelete()
			*cmds = append(*cmds, events.SyncStateCmd("coordinator", m.coordinator.Pending()))
		case "n", "esc":
			m.mode = modeGrid
		}
		return true

	case modeNav:
		switch msg.String() {
		case "q":
			*cmds = append(*cmds, tea.Quit)
			return true
		case "?":
			m.openHelp()
			return true
		case "tab":
			if m.day.DayID != "" {
				m.switchPane(modeGrid, cmds)
			}
			return true
		}

	case modeGrid:
		if m.grid.Editing() {
			break
		}
		switch msg.String() {
		case "esc":
			m.grid.ClearSearch()
			m.switchPane(modeNav, cmds)
			return true
		case "?":
			m.openHelp()
			return true
		}
	}
	return false
}

func (m *Model) switchPane(target mode, cmds *[]tea.Cmd) {
	m.mode = target
	if target == modeGrid {
		*cmds = append(*cmds, m.nav.Blur(), m.grid.Focus())
		if m.clientMode {
			m.bar.SetMode("client")
		} else {
			m.bar.SetMode("grid")
		}
		return
	}
	*cmds = append(*cmds, m.grid.Blur(), m.nav.Focus())
	if m.clientMode {
		m.bar.SetMode("client")
	} else {
		m.bar.SetMode("nav")
	}
}

func (m *Model) openHelp() {
	m.helpFrom = m.mode
	m.mode = modeHelp
	m.bar.SetMode("help")
}

func (m *Model) exitSearch() {
	m.mode = modeGrid
	if m.clientMode {
		m.bar.SetMode("client")
	} else {
		m.bar.SetMode("grid")
	}
}

// openDay loads a day's exercises and hands focus to the grid.
func (m *Model) openDay(ref events.DayRef) []tea.Cmd {
	m.day = ref
	m.bar.SetDayLabel(fmt.Sprintf("%s / %s", ref.ProgramName, ref.Label()))
	var cmds []tea.Cmd
	cmds = append(cmds, m.coordinator.Load(ref.DayID))
	m.mode = modeGrid
	cmds = append(cmds, m.nav.Blur(), m.grid.Focus())
	if m.clientMode {
		m.bar.SetMode("client")
	} else {
		m.bar.SetMode("grid")
	}
	if m.prefs != nil {
		_ = m.prefs.Set(prefLastProgram, ref.ProgramID)
		_ = m.prefs.Set(prefLastDay, ref.DayID)
	}
	return cmds
}

// restoreLastDay reopens the day from the previous session, if it still
// exists.
func (m *Model) restoreLastDay(tree treeLoadedMsg) tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	dayID, ok := m.prefs.Get(prefLastDay)
	if !ok || dayID == "" {
		return nil
	}
	if !m.nav.SelectDay(dayID) {
		return nil
	}
	ref, ok := m.nav.Highlighted()
	if !ok {
		return nil
	}
	return events.DaySelectCmd("daynav", ref)
}

// forward routes a message to every component; each decides for itself
// whether it cares.
func (m *Model) forward(msg tea.Msg, cmds *[]tea.Cmd) {
	if _, isKey := msg.(tea.KeyPressMsg); isKey {
		// keys go to the active pane only
		switch m.mode {
		case modeNav:
			_, cmd := m.nav.Update(msg)
			appendCmd(cmds, cmd)
		case modeGrid:
			_, cmd := m.grid.Update(msg)
			appendCmd(cmds, cmd)
		case modeSearch:
			_, cmd := m.bar.Update(msg)
			appendCmd(cmds, cmd)
		}
		return
	}
	_, cmd := m.nav.Update(msg)
	appendCmd(cmds, cmd)
	_, cmd = m.grid.Update(msg)
	appendCmd(cmds, cmd)
	_, cmd = m.bar.Update(msg)
	appendCmd(cmds, cmd)
}

func appendCmd(cmds *[]tea.Cmd, cmd tea.Cmd) {
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) layout(width, height int) {
	m.width = width
	m.height = height
	barHeight := 1
	body := height - barHeight
	if body < 3 {
		body = 3
	}
	m.nav.SetSize(navWidth, body-2)
	m.grid.SetSize(width-navWidth-3, body-2)
	m.help.SetSize(width-navWidth-3, body)
	m.bar.SetSize(width, barHeight)
}

// View renders the full screen.
func (m *Model) View() string {
	nav := m.theme.Nav.Frame.Render(m.nav.View())
	pane := m.grid.View()
	if m.mode == modeHelp {
		pane = m.help.View()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, nav, " ", pane)

	if m.mode == modeConfirmDelete {
		prompt := m.theme.Modal.Frame.Render(
			m.theme.Modal.Title.Render("Delete exercise?") + "\n\n" +
				m.theme.Modal.Body.Render("y: delete    n: keep"))
		body = lipgloss.JoinVertical(lipgloss.Left, body, prompt)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.bar.View())
}
