package grid

// Phase is the interaction phase of the grid. At most one cell is focused
// and editing only ever happens on the focused cell.
type Phase int

const (
	// PhaseIdle means no cell is focused.
	PhaseIdle Phase = iota
	// PhaseFocused means exactly one cell is focused and not editing.
	PhaseFocused
	// PhaseEditing means the focused cell has an active editor.
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseFocused:
		return "focused"
	case PhaseEditing:
		return "editing"
	default:
		return "idle"
	}
}

// State is the focus/editing state machine. It tracks positions only; the
// grid model owns the rows and the live editor.
type State struct {
	Phase  Phase
	Cursor CellAddress
}

// Focus moves the cursor to addr and enters the focused phase. Focusing
// while editing is rejected so the caller is forced to resolve the open
// editor (commit or cancel) first.
func (s *State) Focus(addr CellAddress) bool {
	if s.Phase == PhaseEditing {
		return false
	}
	s.Cursor = addr
	s.Phase = PhaseFocused
	return true
}

// Blur drops focus entirely. Like Focus it refuses while editing.
func (s *State) Blur() bool {
	if s.Phase == PhaseEditing {
		return false
	}
	s.Phase = PhaseIdle
	return true
}

// StartEditing transitions focused -> editing.
func (s *State) StartEditing() bool {
	if s.Phase != PhaseFocused {
		return false
	}
	s.Phase = PhaseEditing
	return true
}

// StopEditing transitions editing -> focused, leaving the cursor in place.
func (s *State) StopEditing() bool {
	if s.Phase != PhaseEditing {
		return false
	}
	s.Phase = PhaseFocused
	return true
}

// Editing reports whether an editor is active.
func (s *State) Editing() bool { return s.Phase == PhaseEditing }

// Focused reports whether any cell has focus (editing counts).
func (s *State) Focused() bool { return s.Phase != PhaseIdle }

// ClampToRows keeps the cursor inside a row set that shrank. An empty row
// set drops focus; editing state is never clamped away because callers stop
// the editor before replacing rows.
func (s *State) ClampToRows(n int) {
	if s.Phase == PhaseIdle {
		return
	}
	if n <= 0 {
		s.Phase = PhaseIdle
		s.Cursor = CellAddress{}
		return
	}
	if s.Cursor.Row >= n {
		s.Cursor.Row = n - 1
	}
	if s.Cursor.Row < 0 {
		s.Cursor.Row = 0
	}
}

// clamp bounds v to [0, n).
func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
