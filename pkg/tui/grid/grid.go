// Package grid implements the editable exercise grid: a spreadsheet-style
// component with per-column cell variants, a focus/editing state machine,
// and a key arbitration protocol that lets editors claim keys away from
// grid navigation.
package grid

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/theme"
)

// CommitMsg carries the updates from one committed edit. Fan-out updates
// derived by the column arrive in the same message so they apply atomically.
type CommitMsg struct {
	Component events.ComponentID
	Updates   []Update
}

// RowAddRequestMsg asks the host to create a new row after the current one.
type RowAddRequestMsg struct {
	Component events.ComponentID
}

// RowDeleteRequestMsg asks the host to delete the focused row.
type RowDeleteRequestMsg struct {
	Component events.ComponentID
	RowID     string
	RowIndex  int
}

// RowMoveRequestMsg asks the host to move a row to a new position.
type RowMoveRequestMsg struct {
	Component events.ComponentID
	RowID     string
	From      int
	To        int
}

// SearchRequestMsg asks the host to open the search prompt.
type SearchRequestMsg struct {
	Component events.ComponentID
}

// StopOptions control how a programmatic editing stop behaves.
type StopOptions struct {
	// Cancel discards the editor without committing.
	Cancel bool
	// MoveToNextRow advances focus one row down after a commit.
	MoveToNextRow bool
	// Direction moves focus horizontally after a commit: -1 left, 1 right.
	Direction int
}

// Model is the grid component. It owns focus, the active editor, search
// state and the viewport; row data arrives via SetRows and leaves as
// CommitMsg updates.
type Model struct {
	id      events.ComponentID
	theme   theme.Theme
	columns []Column
	rows    []Row

	state    State
	readOnly bool
	focused  bool

	editor CellEditor

	search     string
	matchIdx   int
	matchCache []CellAddress

	width  int
	height int
	scroll int

	displayCache map[string]string
}

// NewModel constructs a grid over a fixed column set.
func NewModel(id events.ComponentID, th theme.Theme, columns []Column) *Model {
	return &Model{
		id:           id,
		theme:        th,
		columns:      columns,
		displayCache: make(map[string]string),
	}
}

// SetReadOnly puts the whole grid in browse mode. Navigation and search stay
// available; every editing entry point is refused.
func (m *Model) SetReadOnly(v bool) { m.readOnly = v }

// ReadOnly reports whether the grid refuses edits.
func (m *Model) ReadOnly() bool { return m.readOnly }

// Rows returns the current row set.
func (m *Model) Rows() []Row { return m.rows }

// Cursor returns the focused cell address, if any cell is focused.
func (m *Model) Cursor() (CellAddress, bool) {
	if !m.state.Focused() {
		return CellAddress{}, false
	}
	return m.state.Cursor, true
}

// Editing reports whether an editor is open.
func (m *Model) Editing() bool { return m.state.Editing() }

// SetRows replaces the row set, typically after the coordinator adopts an
// authoritative response. Focus is preserved by position, which keeps the
// cursor on the same visual row when a temp identity is swapped for a real
// one. An open editor survives the swap for the same reason: the user is
// still typing into the same visual cell. It is cancelled only when that
// row no longer exists.
func (m *Model) SetRows(rows []Row) {
	if m.state.Editing() && m.state.Cursor.Row >= len(rows) {
		m.editor = nil
		m.state.StopEditing()
	}
	m.rows = rows
	m.state.ClampToRows(len(rows))
	m.clampScroll()
	m.displayCache = make(map[string]string)
	m.refreshMatches()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Focus marks the grid as the active pane.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	if !m.state.Focused() && len(m.rows) > 0 {
		m.state.Focus(CellAddress{Row: 0, Col: m.columns[0].ID})
	}
	return events.FocusCmd(m.id)
}

// Blur releases the grid as the active pane. An open editor is cancelled.
func (m *Model) Blur() tea.Cmd {
	if m.state.Editing() {
		m.editor = nil
		m.state.StopEditing()
	}
	m.focused = false
	return events.BlurCmd(m.id)
}

// SetSize configures the viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.displayCache = make(map[string]string)
	m.clampScroll()
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
	// while a search is live, n/N cycle matches instead of typing
	if m.search != "" && !m.state.Editing() {
		switch msg.String() {
		case "n":
			m.NextMatch()
			return nil
		case "N":
			m.PrevMatch()
			return nil
		}
	}

	switch arbitrate(msg, m.state.Editing(), m.editor) {
	case actMoveUp:
		m.moveCursor(-1, 0)
	case actMoveDown:
		m.moveCursor(1, 0)
	case actMoveLeft:
		m.moveCursor(0, -1)
	case actMoveRight:
		m.moveCursor(0, 1)
	case actActivate:
		return m.activate("")
	case actTypeToEdit:
		r, _ := printableRune(msg)
		return m.activate(string(r))
	case actCommitDown:
		return m.stopEditing(StopOptions{MoveToNextRow: true})
	case actCommitNext:
		return m.stopEditing(StopOptions{Direction: 1})
	case actCommitPrev:
		return m.stopEditing(StopOptions{Direction: -1})
	case actCancel:
		return m.stopEditing(StopOptions{Cancel: true})
	case actSearch:
		return func() tea.Msg { return SearchRequestMsg{Component: m.id} }
	case actClearSearch:
		m.ClearSearch()
	case actRowAdd:
		if m.readOnly {
			return nil
		}
		return func() tea.Msg { return RowAddRequestMsg{Component: m.id} }
	case actRowDelete:
		if m.readOnly || !m.state.Focused() || len(m.rows) == 0 {
			return nil
		}
		idx := m.state.Cursor.Row
		return func() tea.Msg {
			return RowDeleteRequestMsg{Component: m.id, RowID: m.rows[idx].ID, RowIndex: idx}
		}
	case actRowMoveUp:
		return m.requestRowMove(-1)
	case actRowMoveDown:
		return m.requestRowMove(1)
	case actForward:
		if m.state.Editing() && m.editor != nil {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return cmd
		}
	}
	return nil
}

// requestRowMove asks the host to move the focused row one step. The cursor
// follows to the target position so it stays on the same row once the
// reordered set arrives via SetRows.
func (m *Model) requestRowMove(delta int) tea.Cmd {
	if m.readOnly || !m.state.Focused() || len(m.rows) == 0 {
		return nil
	}
	from := m.state.Cursor.Row
	to := from + delta
	if to < 0 || to >= len(m.rows) {
		return nil
	}
	rowID := m.rows[from].ID
	m.state.Focus(CellAddress{Row: to, Col: m.state.Cursor.Col})
	m.ensureVisible()
	return func() tea.Msg {
		return RowMoveRequestMsg{Component: m.id, RowID: rowID, From: from, To: to}
	}
}

func (m *Model) moveCursor(dRow, dCol int) {
	if m.state.Editing() || len(m.rows) == 0 || len(m.columns) == 0 {
		return
	}
	if !m.state.Focused() {
		m.state.Focus(CellAddress{Row: 0, Col: m.columns[0].ID})
		m.ensureVisible()
		return
	}
	cur := m.state.Cursor
	row := clamp(cur.Row+dRow, len(m.rows))
	colIdx := clamp(m.colIndex(cur.Col)+dCol, len(m.columns))
	m.state.Focus(CellAddress{Row: row, Col: m.columns[colIdx].ID})
	m.ensureVisible()
}

// activate opens an editor on the focused cell, or toggles it when the cell
// is a checkbox. seed, when non-empty, is the type-to-edit rune that
// replaces the current value in the editor buffer.
func (m *Model) activate(seed string) tea.Cmd {
	if m.readOnly || !m.state.Focused() || m.state.Editing() || len(m.rows) == 0 {
		return nil
	}
	cur := m.state.Cursor
	col := m.columns[m.colIndex(cur.Col)]
	row := m.rows[cur.Row]
	opts := resolveOpts(col, row)
	if cellReadOnly(opts, row) {
		return nil
	}

	if opts.Variant == VariantCheckbox {
		if seed != "" {
			return nil
		}
		value := !truthy(row.Value(col.Accessor))
		updates := m.fanOut(row, col, opts, value)
		m.applyUpdates(updates)
		return m.commitCmd(updates)
	}
	if seed != "" && !typeToEditable(opts.Variant) {
		return nil
	}

	m.state.StartEditing()
	m.editor = newEditor(opts, row.Value(col.Accessor), seed)
	return nil
}

// OnDataUpdate applies externally produced updates to the local rows. This
// is the identity-addressed entry point for programmatic edits; it emits no
// commit, the caller already owns the write.
func (m *Model) OnDataUpdate(updates ...Update) {
	m.applyUpdates(updates)
}

// OnCellEditingStart is the programmatic entry to editing mode.
func (m *Model) OnCellEditingStart() tea.Cmd { return m.activate("") }

// OnCellEditingStop resolves an open editor: cancel restores the prior value
// by discarding the editor, commit validates and emits updates, then focus
// moves as requested.
func (m *Model) OnCellEditingStop(opts StopOptions) tea.Cmd {
	return m.stopEditing(opts)
}

func (m *Model) stopEditing(opts StopOptions) tea.Cmd {
	if !m.state.Editing() || m.editor == nil {
		return nil
	}
	ed := m.editor
	if opts.Cancel {
		m.editor = nil
		m.state.StopEditing()
		return nil
	}

	value, ok := ed.Value()
	if !ok {
		// invalid input blocks the commit and keeps the editor open
		return events.NoticeCmd(m.id, "invalid value", true)
	}
	m.editor = nil
	m.state.StopEditing()

	var cmd tea.Cmd
	if ed.Changed() {
		cur := m.state.Cursor
		col := m.columns[m.colIndex(cur.Col)]
		row := m.rows[cur.Row]
		updates := m.fanOut(row, col, resolveOpts(col, row), value)
		m.applyUpdates(updates)
		cmd = m.commitCmd(updates)
	}

	if opts.MoveToNextRow {
		m.moveCursor(1, 0)
	} else if opts.Direction != 0 {
		m.moveCursor(0, opts.Direction)
	}
	return cmd
}

// OnRowAdd focuses the freshly appended row and returns the address the
// caller should treat as the insertion point. Call it after SetRows has
// delivered the new row set.
func (m *Model) OnRowAdd() CellAddress {
	if len(m.rows) == 0 {
		return CellAddress{}
	}
	idx := len(m.rows) - 1
	row := m.rows[idx]
	col := m.columns[firstEditable(m.columns, row)]
	addr := CellAddress{Row: idx, Col: col.ID}
	m.state.Focus(addr)
	m.ensureVisible()
	return addr
}

// OnRowsDelete re-clamps focus after the caller removed rows via SetRows.
func (m *Model) OnRowsDelete() {
	m.state.ClampToRows(len(m.rows))
	m.clampScroll()
}

// SetSearch highlights cells whose display text contains query and jumps to
// the first match.
func (m *Model) SetSearch(query string) {
	m.search = strings.ToLower(strings.TrimSpace(query))
	m.matchIdx = 0
	m.refreshMatches()
	if len(m.matchCache) > 0 && !m.state.Editing() {
		m.state.Focus(m.matchCache[0])
		m.ensureVisible()
	}
}

// ClearSearch removes the highlight.
func (m *Model) ClearSearch() {
	m.search = ""
	m.matchCache = nil
	m.matchIdx = 0
}

// NextMatch cycles focus to the next search match.
func (m *Model) NextMatch() { m.cycleMatch(1) }

// PrevMatch cycles focus to the previous search match.
func (m *Model) PrevMatch() { m.cycleMatch(-1) }

func (m *Model) cycleMatch(delta int) {
	if len(m.matchCache) == 0 || m.state.Editing() {
		return
	}
	m.matchIdx = (m.matchIdx + delta + len(m.matchCache)) % len(m.matchCache)
	m.state.Focus(m.matchCache[m.matchIdx])
	m.ensureVisible()
}

func (m *Model) refreshMatches() {
	m.matchCache = nil
	if m.search == "" {
		return
	}
	for i, row := range m.rows {
		for _, col := range m.columns {
			text := DisplayValue(resolveOpts(col, row), row.Value(col.Accessor))
			if strings.Contains(strings.ToLower(text), m.search) {
				m.matchCache = append(m.matchCache, CellAddress{Row: i, Col: col.ID})
			}
		}
	}
	if m.matchIdx >= len(m.matchCache) {
		m.matchIdx = 0
	}
}

func (m *Model) fanOut(row Row, col Column, opts CellOpts, value any) []Update {
	updates := []Update{{RowID: row.ID, Field: col.Accessor, Value: value}}
	if opts.OnDataUpdate != nil {
		updates = append(updates, opts.OnDataUpdate(row, value)...)
	}
	return updates
}

// applyUpdates echoes committed values into the local row set so the cell
// shows the new value before the authoritative refresh lands.
func (m *Model) applyUpdates(updates []Update) {
	for _, u := range updates {
		for i := range m.rows {
			if m.rows[i].ID != u.RowID {
				continue
			}
			if m.rows[i].Data == nil {
				m.rows[i].Data = make(map[string]any)
			}
			m.rows[i].Data[u.Field] = u.Value
		}
	}
	m.displayCache = make(map[string]string)
	m.refreshMatches()
}

func (m *Model) commitCmd(updates []Update) tea.Cmd {
	return func() tea.Msg {
		return CommitMsg{Component: m.id, Updates: updates}
	}
}

func (m *Model) colIndex(id string) int {
	for i, col := range m.columns {
		if col.ID == id {
			return i
		}
	}
	return 0
}

func typeToEditable(v Variant) bool {
	switch v {
	case VariantShortText, VariantLongText, VariantNumber, VariantURL,
		VariantFile, VariantDate, VariantCombobox:
		return true
	}
	return false
}

func (m *Model) visibleRows() int {
	// header plus one separator line
	n := m.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) ensureVisible() {
	if !m.state.Focused() {
		return
	}
	row := m.state.Cursor.Row
	if row < m.scroll {
		m.scroll = row
	}
	if row >= m.scroll+m.visibleRows() {
		m.scroll = row - m.visibleRows() + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := len(m.rows) - m.visibleRows()
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

// View renders the grid table plus any editor popup.
func (m *Model) View() string {
	if len(m.columns) == 0 {
		return ""
	}
	var b strings.Builder

	header := make([]string, 0, len(m.columns))
	for _, col := range m.columns {
		header = append(header, m.theme.Grid.Header.Render(fitCell(col.Title, m.colWidth(col))))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", m.tableWidth()))
	b.WriteString("\n")

	end := m.scroll + m.visibleRows()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		cells := make([]string, 0, len(m.columns))
		for _, col := range m.columns {
			cells = append(cells, m.renderCell(i, col))
		}
		b.WriteString(strings.Join(cells, " "))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if m.state.Editing() && m.editor != nil {
		if popup := m.editor.Popup(); len(popup) > 0 {
			b.WriteString("\n")
			b.WriteString(m.theme.Grid.Popup.Render(strings.Join(popup, "\n")))
		}
	}
	return b.String()
}

func (m *Model) renderCell(rowIdx int, col Column) string {
	width := m.colWidth(col)
	row := m.rows[rowIdx]
	opts := resolveOpts(col, row)
	addr := CellAddress{Row: rowIdx, Col: col.ID}
	focused := m.state.Focused() && m.state.Cursor == addr

	if focused && m.state.Editing() && m.editor != nil {
		return m.theme.Grid.Editing.Render(fitCell(m.editor.View(), width))
	}

	text := m.displayText(row, col, opts, width)
	switch {
	case focused:
		return m.theme.Grid.Focused.Render(text)
	case m.isMatch(addr):
		if len(m.matchCache) > 0 && m.matchCache[m.matchIdx] == addr {
			return m.theme.Grid.ActiveMatch.Render(text)
		}
		return m.theme.Grid.Match.Render(text)
	case cellReadOnly(opts, row):
		return m.theme.Grid.CellRO.Render(text)
	default:
		return m.theme.Grid.Cell.Render(text)
	}
}

// displayText memoizes formatted cell text keyed by raw value and width;
// the cache is dropped whenever rows or layout change.
func (m *Model) displayText(row Row, col Column, opts CellOpts, width int) string {
	raw := row.Value(col.Accessor)
	key := col.ID + "\x00" + renderRaw(raw)
	if cached, ok := m.displayCache[key]; ok {
		return cached
	}
	text := fitCell(DisplayValue(opts, raw), width)
	m.displayCache[key] = text
	return text
}

func (m *Model) isMatch(addr CellAddress) bool {
	for _, match := range m.matchCache {
		if match == addr {
			return true
		}
	}
	return false
}

func (m *Model) colWidth(col Column) int {
	if col.Width > 0 {
		return col.Width
	}
	return 12
}

func (m *Model) tableWidth() int {
	w := 0
	for _, col := range m.columns {
		w += m.colWidth(col) + 1
	}
	if w > 0 {
		w--
	}
	if m.width > 0 && w > m.width {
		w = m.width
	}
	return w
}
