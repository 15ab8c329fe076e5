package grid

import "testing"

func TestStateStartsIdle(t *testing.T) {
	var s State
	if s.Phase != PhaseIdle || s.Focused() || s.Editing() {
		t.Fatalf("zero state should be idle, got %v", s.Phase)
	}
}

func TestEditingRequiresFocus(t *testing.T) {
	var s State
	if s.StartEditing() {
		t.Fatal("editing must not start from idle")
	}
	s.Focus(CellAddress{Row: 1, Col: "name"})
	if !s.StartEditing() {
		t.Fatal("editing should start from focused")
	}
	if !s.Focused() {
		t.Fatal("editing cell must remain focused")
	}
}

func TestFocusRefusedWhileEditing(t *testing.T) {
	var s State
	s.Focus(CellAddress{Row: 0, Col: "name"})
	s.StartEditing()
	if s.Focus(CellAddress{Row: 2, Col: "sets"}) {
		t.Fatal("focus change must be refused while editing")
	}
	if s.Blur() {
		t.Fatal("blur must be refused while editing")
	}
	if s.Cursor != (CellAddress{Row: 0, Col: "name"}) {
		t.Fatalf("cursor moved during refused transition: %+v", s.Cursor)
	}
}

func TestStopEditingKeepsCursor(t *testing.T) {
	var s State
	s.Focus(CellAddress{Row: 3, Col: "reps"})
	s.StartEditing()
	if !s.StopEditing() {
		t.Fatal("stop editing should succeed")
	}
	if s.Phase != PhaseFocused {
		t.Fatalf("expected focused after stop, got %v", s.Phase)
	}
	if s.Cursor != (CellAddress{Row: 3, Col: "reps"}) {
		t.Fatalf("cursor lost: %+v", s.Cursor)
	}
}

func TestClampToRows(t *testing.T) {
	var s State
	s.Focus(CellAddress{Row: 5, Col: "name"})
	s.ClampToRows(3)
	if s.Cursor.Row != 2 {
		t.Fatalf("expected clamp to last row, got %d", s.Cursor.Row)
	}
	s.ClampToRows(0)
	if s.Phase != PhaseIdle {
		t.Fatal("empty row set should drop focus")
	}
}

func TestClampIgnoredWhileIdle(t *testing.T) {
	var s State
	s.ClampToRows(10)
	if s.Phase != PhaseIdle || s.Cursor != (CellAddress{}) {
		t.Fatalf("idle state should be untouched: %+v", s)
	}
}
