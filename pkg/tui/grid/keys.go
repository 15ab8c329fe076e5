package grid

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// keyAction is what a key press means to the grid after arbitration.
type keyAction int

const (
	// actForward: the grid takes no transition; the key belongs to the
	// active editor (or to nobody).
	actForward keyAction = iota
	actMoveUp
	actMoveDown
	actMoveLeft
	actMoveRight
	actActivate   // enter/F2 on a focused cell
	actTypeToEdit // printable rune starts editing with a seeded buffer
	actCommitDown // enter while editing
	actCommitNext // tab while editing
	actCommitPrev // shift+tab while editing
	actCancel     // esc while editing
	actSearch
	actClearSearch
	actRowAdd
	actRowDelete
	actRowMoveUp
	actRowMoveDown
)

// arbitrate decides whether a key press drives a grid transition or is
// forwarded untouched. While editing, the editor is consulted first: any key
// it claims is forwarded even if the grid would otherwise act on it. This is
// how popup editors keep arrow keys and how future editors opt out of
// enter/tab handling.
func arbitrate(msg tea.KeyMsg, editing bool, editor CellEditor) keyAction {
	if editing {
		if editor != nil && editor.ClaimsKey(msg) {
			return actForward
		}
		switch msg.String() {
		case "enter":
			return actCommitDown
		case "tab":
			return actCommitNext
		case "shift+tab":
			return actCommitPrev
		case "esc":
			return actCancel
		}
		return actForward
	}

	switch msg.String() {
	case "up":
		return actMoveUp
	case "down":
		return actMoveDown
	case "left":
		return actMoveLeft
	case "right":
		return actMoveRight
	case "tab":
		return actMoveRight
	case "shift+tab":
		return actMoveLeft
	case "enter", "f2", "space":
		return actActivate
	case "/":
		return actSearch
	case "esc":
		return actClearSearch
	case "ctrl+n":
		return actRowAdd
	case "ctrl+d":
		return actRowDelete
	case "shift+up":
		return actRowMoveUp
	case "shift+down":
		return actRowMoveDown
	}
	if r, ok := printableRune(msg); ok && r != '/' {
		return actTypeToEdit
	}
	return actForward
}

// printableRune extracts the single printable rune of a key press, if any.
func printableRune(msg tea.KeyMsg) (rune, bool) {
	s := msg.String()
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	if !unicode.IsPrint(runes[0]) || runes[0] == ' ' {
		return 0, false
	}
	return runes[0], true
}
