package grid

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/theme"
)

func testColumns() []Column {
	return []Column{
		{ID: "id", Title: "ID", Accessor: "id", Width: 8,
			Opts: CellOpts{Variant: VariantShortText, ReadOnly: true}},
		{ID: "name", Title: "Exercise", Accessor: "name", Width: 14,
			Opts: CellOpts{Variant: VariantShortText}},
		{ID: "sets", Title: "Sets", Accessor: "sets", Width: 5,
			Opts: CellOpts{Variant: VariantNumber}},
		{ID: "kind", Title: "Kind", Accessor: "kind", Width: 10,
			Opts: CellOpts{Variant: VariantSelect, Options: []Option{
				{Label: "Strength", Value: "strength"},
				{Label: "Cardio", Value: "cardio"},
			}}},
		{ID: "done", Title: "Done", Accessor: "done", Width: 5,
			Opts: CellOpts{Variant: VariantCheckbox}},
	}
}

func testRows() []Row {
	return []Row{
		{ID: "ex-1", Data: map[string]any{"id": "ex-1", "name": "Back Squat", "sets": 5, "kind": "strength", "done": false}},
		{ID: "ex-2", Data: map[string]any{"id": "ex-2", "name": "Rowing", "sets": 1, "kind": "cardio", "done": true}},
	}
}

func newTestGrid() *Model {
	m := NewModel(events.ComponentID("grid"), theme.Default(), testColumns())
	m.SetSize(80, 20)
	m.SetRows(testRows())
	m.Focus()
	return m
}

func press(t *testing.T, m *Model, keys ...string) tea.Msg {
	t.Helper()
	var last tea.Msg
	for _, k := range keys {
		_, cmd := m.Update(key(k))
		if cmd != nil {
			last = cmd()
		}
	}
	return last
}

func focusCell(t *testing.T, m *Model, addr CellAddress) {
	t.Helper()
	if !m.state.Focus(addr) {
		t.Fatalf("could not focus %+v", addr)
	}
}

func TestReadOnlyCellUnreachableForEditing(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "id"})

	press(t, m, "enter")
	if m.Editing() {
		t.Fatal("enter must not open an editor on a read-only cell")
	}
	press(t, m, "x")
	if m.Editing() {
		t.Fatal("type-to-edit must not open an editor on a read-only cell")
	}
	if got := m.rows[0].Data["id"]; got != "ex-1" {
		t.Fatalf("read-only cell mutated: %v", got)
	}
}

func TestGridReadOnlyModeBlocksAllEditing(t *testing.T) {
	m := newTestGrid()
	m.SetReadOnly(true)
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})

	press(t, m, "enter")
	if m.Editing() {
		t.Fatal("grid-level read-only must block editing")
	}
	if msg := press(t, m, "ctrl+n"); msg != nil {
		t.Fatalf("row add must be blocked in read-only mode, got %T", msg)
	}
	// navigation stays available
	press(t, m, "down")
	if cur, _ := m.Cursor(); cur.Row != 1 {
		t.Fatal("navigation should still work in read-only mode")
	}
}

func TestEnterCommitsAndMovesDown(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})

	press(t, m, "enter") // open editor with current value
	if !m.Editing() {
		t.Fatal("expected editing after enter")
	}
	press(t, m, "!")
	msg := press(t, m, "enter")

	commit, ok := msg.(CommitMsg)
	if !ok {
		t.Fatalf("expected CommitMsg, got %T", msg)
	}
	if len(commit.Updates) != 1 {
		t.Fatalf("expected one update, got %v", commit.Updates)
	}
	u := commit.Updates[0]
	if u.RowID != "ex-1" || u.Field != "name" || u.Value != "Back Squat!" {
		t.Fatalf("unexpected update: %+v", u)
	}
	if m.Editing() {
		t.Fatal("editor should be closed after commit")
	}
	if cur, _ := m.Cursor(); cur.Row != 1 || cur.Col != "name" {
		t.Fatalf("expected focus one row down, got %+v", cur)
	}
	if m.rows[0].Data["name"] != "Back Squat!" {
		t.Fatal("committed value not echoed locally")
	}
}

func TestEscapeRestoresOriginalValue(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})

	press(t, m, "enter", "z", "z")
	if msg := press(t, m, "esc"); msg != nil {
		t.Fatalf("cancel must not emit a commit, got %T", msg)
	}
	if m.Editing() {
		t.Fatal("escape should close the editor")
	}
	if m.rows[0].Data["name"] != "Back Squat" {
		t.Fatalf("escape must restore the original value, got %v", m.rows[0].Data["name"])
	}
	if cur, _ := m.Cursor(); cur != (CellAddress{Row: 0, Col: "name"}) {
		t.Fatalf("focus should stay on the cell, got %+v", cur)
	}
}

func TestUnchangedCommitEmitsNothing(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})
	press(t, m, "enter")
	if msg := press(t, m, "enter"); msg != nil {
		t.Fatalf("committing an unchanged value must be silent, got %T", msg)
	}
	if cur, _ := m.Cursor(); cur.Row != 1 {
		t.Fatal("focus should still advance")
	}
}

func TestTypeToEditSeedsBuffer(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})

	press(t, m, "F")
	if !m.Editing() {
		t.Fatal("printable rune should start editing")
	}
	msg := press(t, m, "enter")
	commit, ok := msg.(CommitMsg)
	if !ok {
		t.Fatalf("expected CommitMsg, got %T", msg)
	}
	if commit.Updates[0].Value != "F" {
		t.Fatalf("seed should replace the old value, got %v", commit.Updates[0].Value)
	}
}

func TestInvalidNumberKeepsEditing(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "sets"})

	press(t, m, "x")
	msg := press(t, m, "enter")
	notice, ok := msg.(events.NoticeMsg)
	if !ok || !notice.IsError {
		t.Fatalf("expected error notice, got %T", msg)
	}
	if !m.Editing() {
		t.Fatal("invalid value must keep the editor open")
	}
	if m.rows[0].Data["sets"] != 5 {
		t.Fatal("invalid value must not be committed")
	}
}

func TestClaimedKeyCausesNoGridTransition(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "kind"})

	press(t, m, "enter") // select editor claims up/down
	if !m.Editing() {
		t.Fatal("expected select editor")
	}
	before, _ := m.Cursor()
	press(t, m, "down")
	if !m.Editing() {
		t.Fatal("claimed key must not close the editor")
	}
	if cur, _ := m.Cursor(); cur != before {
		t.Fatalf("claimed key must not move grid focus: %+v", cur)
	}

	msg := press(t, m, "enter")
	commit, ok := msg.(CommitMsg)
	if !ok {
		t.Fatalf("expected CommitMsg, got %T", msg)
	}
	if commit.Updates[0].Value != "cardio" {
		t.Fatalf("expected popup choice committed, got %v", commit.Updates[0].Value)
	}
}

func TestCheckboxTogglesWithoutEditor(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "done"})

	msg := press(t, m, "enter")
	commit, ok := msg.(CommitMsg)
	if !ok {
		t.Fatalf("expected immediate CommitMsg, got %T", msg)
	}
	if commit.Updates[0].Value != true {
		t.Fatalf("expected toggle to true, got %v", commit.Updates[0].Value)
	}
	if m.Editing() {
		t.Fatal("checkbox must not open an editor")
	}
}

func TestSingleEditorInvariant(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})
	press(t, m, "enter")
	first := m.editor
	m.OnCellEditingStart()
	if m.editor != first {
		t.Fatal("second activation must not replace the live editor")
	}
}

func TestOnRowAddFocusesFirstEditableOfNewRow(t *testing.T) {
	m := newTestGrid()
	rows := append(testRows(), Row{ID: "temp_abc", Data: map[string]any{"id": "temp_abc", "name": ""}})
	m.SetRows(rows)

	addr := m.OnRowAdd()
	want := CellAddress{Row: 2, Col: "name"}
	if addr != want {
		t.Fatalf("expected %+v, got %+v", want, addr)
	}
	if cur, _ := m.Cursor(); cur != want {
		t.Fatalf("grid focus not on new row: %+v", cur)
	}
}

func TestSetRowsPreservesFocusByPosition(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 1, Col: "sets"})

	// identity of row 1 changes (temp adopted as real); position stays
	swapped := testRows()
	swapped[1].ID = "ex-2-real"
	swapped[1].Data["id"] = "ex-2-real"
	m.SetRows(swapped)

	if cur, ok := m.Cursor(); !ok || cur != (CellAddress{Row: 1, Col: "sets"}) {
		t.Fatalf("focus should survive identity change by position, got %+v", cur)
	}
}

func TestSetRowsClampsFocusAfterShrink(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 1, Col: "name"})
	m.SetRows(testRows()[:1])
	m.OnRowsDelete()
	if cur, _ := m.Cursor(); cur.Row != 0 {
		t.Fatalf("expected clamp to surviving row, got %+v", cur)
	}
	m.SetRows(nil)
	m.OnRowsDelete()
	if _, ok := m.Cursor(); ok {
		t.Fatal("empty grid should drop focus")
	}
}

func TestSetRowsKeepsEditorAcrossIdentitySwap(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 1, Col: "name"})
	press(t, m, "enter", "!")

	// the store confirms the row mid-edit: same position, new identity
	swapped := testRows()
	swapped[1].ID = "ex-2-real"
	swapped[1].Data["id"] = "ex-2-real"
	m.SetRows(swapped)

	if !m.Editing() {
		t.Fatal("a row refresh must not interrupt an edit on a surviving row")
	}
	msg := press(t, m, "enter")
	commit, ok := msg.(CommitMsg)
	if !ok {
		t.Fatalf("expected CommitMsg, got %T", msg)
	}
	u := commit.Updates[0]
	if u.RowID != "ex-2-real" || u.Value != "Rowing!" {
		t.Fatalf("commit should target the adopted row with the typed value: %+v", u)
	}
}

func TestSetRowsCancelsEditorWhenRowGone(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 1, Col: "name"})
	press(t, m, "enter", "x")
	m.SetRows(testRows()[:1])
	if m.Editing() {
		t.Fatal("losing the edited row must cancel the editor")
	}
	if m.rows[0].Data["name"] != "Back Squat" {
		t.Fatal("cancelled edit must not leak into surviving rows")
	}

	focusCell(t, m, CellAddress{Row: 0, Col: "name"})
	press(t, m, "enter", "x")
	m.SetRows(nil)
	if m.Editing() {
		t.Fatal("emptying the grid must cancel the editor")
	}
}

func TestSearchCyclesMatches(t *testing.T) {
	m := newTestGrid()
	m.SetSearch("row")
	cur, ok := m.Cursor()
	if !ok {
		t.Fatal("search should focus the first match")
	}
	if cur.Row != 1 {
		t.Fatalf("expected match on Rowing, got %+v", cur)
	}
	m.NextMatch()
	if next, _ := m.Cursor(); next != cur {
		// only one matching cell: Name column of row 1
		t.Fatalf("single match should cycle to itself, got %+v", next)
	}
	m.ClearSearch()
	if len(m.matchCache) != 0 {
		t.Fatal("clear should drop matches")
	}
}

func TestOnDataUpdateAddressesRowsByIdentity(t *testing.T) {
	m := newTestGrid()
	m.OnDataUpdate(
		Update{RowID: "ex-2", Field: "name", Value: "Erg"},
		Update{RowID: "missing", Field: "name", Value: "ignored"},
	)
	if got := m.rows[1].Data["name"]; got != "Erg" {
		t.Fatalf("update not applied: %v", got)
	}
	if !strings.Contains(stripANSI(m.View()), "Erg") {
		t.Fatal("view should show the updated value")
	}
}

func TestSearchMatchCycleKeys(t *testing.T) {
	m := newTestGrid()
	m.SetSearch("s") // Back Squat (name) and Strength (kind), both row 0
	first, _ := m.Cursor()
	if first != (CellAddress{Row: 0, Col: "name"}) {
		t.Fatalf("expected first match on the name cell, got %+v", first)
	}

	press(t, m, "n")
	if cur, _ := m.Cursor(); cur != (CellAddress{Row: 0, Col: "kind"}) {
		t.Fatalf("n should advance to the next match, got %+v", cur)
	}
	if m.Editing() {
		t.Fatal("n must cycle matches, not start typing")
	}
	press(t, m, "N")
	if cur, _ := m.Cursor(); cur != first {
		t.Fatalf("N should cycle back, got %+v", cur)
	}

	// without a live search, n is just a letter again
	m.ClearSearch()
	press(t, m, "n")
	if !m.Editing() {
		t.Fatal("expected type-to-edit once the search is cleared")
	}
	press(t, m, "esc")
}

func TestRowMoveFollowsCursorAndStopsAtBounds(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 0, Col: "name"})

	msg := press(t, m, "shift+down")
	req, ok := msg.(RowMoveRequestMsg)
	if !ok {
		t.Fatalf("expected RowMoveRequestMsg, got %T", msg)
	}
	if req.RowID != "ex-1" || req.From != 0 || req.To != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if cur, _ := m.Cursor(); cur.Row != 1 {
		t.Fatalf("cursor should follow the moved row, got %+v", cur)
	}

	if msg := press(t, m, "shift+down"); msg != nil {
		t.Fatalf("move past the last row must be a no-op, got %T", msg)
	}

	m.SetReadOnly(true)
	if msg := press(t, m, "shift+up"); msg != nil {
		t.Fatalf("read-only grid must not move rows, got %T", msg)
	}
}

func TestDeleteRequestCarriesRowIdentity(t *testing.T) {
	m := newTestGrid()
	focusCell(t, m, CellAddress{Row: 1, Col: "name"})
	msg := press(t, m, "ctrl+d")
	req, ok := msg.(RowDeleteRequestMsg)
	if !ok {
		t.Fatalf("expected RowDeleteRequestMsg, got %T", msg)
	}
	if req.RowID != "ex-2" || req.RowIndex != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestViewShowsHeadersAndValues(t *testing.T) {
	m := newTestGrid()
	view := stripANSI(m.View())
	for _, want := range []string{"Exercise", "Sets", "Back Squat", "Rowing", "[x]", "[ ]", "Strength"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
