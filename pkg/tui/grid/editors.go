package grid

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// CellEditor is the contract every cell variant's editor fulfills. The grid
// owns the lifecycle: it creates an editor on activation, forwards keys the
// editor claims, and reads Value on commit.
type CellEditor interface {
	// Update processes a forwarded message.
	Update(msg tea.Msg) (CellEditor, tea.Cmd)
	// View renders the in-cell editing line.
	View() string
	// Popup renders lines shown below the grid while editing, or nil.
	Popup() []string
	// Value returns the value to commit and whether it is valid. An invalid
	// value blocks the commit and keeps the editor open.
	Value() (any, bool)
	// Changed reports whether committing would alter the cell.
	Changed() bool
	// ClaimsKey marks keys the grid must forward instead of acting on.
	ClaimsKey(msg tea.KeyMsg) bool
}

// newEditor builds the editor for a cell. Unknown variants fall back to a
// plain text editor so a misconfigured column never becomes a dead cell.
// seed, when non-empty, replaces the current value (type-to-edit).
func newEditor(opts CellOpts, current any, seed string) CellEditor {
	switch opts.Variant {
	case VariantNumber:
		return newTextEditor(textNumber, current, seed)
	case VariantURL:
		return newTextEditor(textURL, current, seed)
	case VariantDate:
		return newDateEditor(current, seed)
	case VariantLongText:
		return newTextEditor(textLong, current, seed)
	case VariantFile:
		return newTextEditor(textFile, current, seed)
	case VariantSelect:
		return newSelectEditor(opts, current)
	case VariantCombobox:
		return newComboboxEditor(opts, current, seed)
	case VariantMultiSelect:
		return newMultiSelectEditor(opts, current)
	default:
		return newTextEditor(textShort, current, seed)
	}
}

type textMode int

const (
	textShort textMode = iota
	textLong
	textNumber
	textURL
	textFile
)

// textEditor backs the free-form variants with a single text input. The
// mode only changes validation; the interaction is identical.
type textEditor struct {
	mode    textMode
	input   textinput.Model
	initial string
}

func newTextEditor(mode textMode, current any, seed string) *textEditor {
	initial := renderRaw(current)
	in := textinput.New()
	in.Prompt = ""
	if seed != "" {
		in.SetValue(seed)
	} else {
		in.SetValue(initial)
	}
	in.CursorEnd()
	in.Focus()
	return &textEditor{mode: mode, input: in, initial: initial}
}

func (e *textEditor) Update(msg tea.Msg) (CellEditor, tea.Cmd) {
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func (e *textEditor) View() string    { return e.input.View() }
func (e *textEditor) Popup() []string { return nil }

func (e *textEditor) Value() (any, bool) {
	text := e.input.Value()
	switch e.mode {
	case textNumber:
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return 0, true
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 0 {
			return nil, false
		}
		return n, true
	case textURL:
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return "", true
		}
		u, err := url.Parse(trimmed)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, false
		}
		return trimmed, true
	default:
		return text, true
	}
}

func (e *textEditor) Changed() bool { return e.input.Value() != e.initial }

func (e *textEditor) ClaimsKey(msg tea.KeyMsg) bool { return false }

// selectEditor picks one option from a closed list via a popup.
type selectEditor struct {
	options []Option
	cursor  int
	initial int
}

func newSelectEditor(opts CellOpts, current any) *selectEditor {
	options := opts.Options
	if opts.AllowClear {
		options = append([]Option{{Label: "(clear)", Value: ""}}, options...)
	}
	cursor := 0
	for i, opt := range options {
		if sameOptionValue(opt.Value, current) {
			cursor = i
			break
		}
	}
	return &selectEditor{options: options, cursor: cursor, initial: cursor}
}

func (e *selectEditor) Update(msg tea.Msg) (CellEditor, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch key.String() {
	case "up":
		e.cursor = clamp(e.cursor-1, len(e.options))
	case "down":
		e.cursor = clamp(e.cursor+1, len(e.options))
	}
	return e, nil
}

func (e *selectEditor) View() string {
	if len(e.options) == 0 {
		return "(no options)"
	}
	return e.options[e.cursor].Label
}

func (e *selectEditor) Popup() []string {
	lines := make([]string, 0, len(e.options))
	for i, opt := range e.options {
		marker := "  "
		if i == e.cursor {
			marker = "> "
		}
		lines = append(lines, marker+opt.Label)
	}
	return lines
}

func (e *selectEditor) Value() (any, bool) {
	if len(e.options) == 0 {
		return nil, false
	}
	return e.options[e.cursor].Value, true
}

func (e *selectEditor) Changed() bool { return e.cursor != e.initial }

func (e *selectEditor) ClaimsKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "down":
		return true
	}
	return false
}

// comboboxEditor is a text input with a filtered suggestion popup. Committing
// with suggestions visible takes the highlighted suggestion's value;
// committing with none takes the typed text as-is.
type comboboxEditor struct {
	options []Option
	input   textinput.Model
	cursor  int
	initial string
}

func newComboboxEditor(opts CellOpts, current any, seed string) *comboboxEditor {
	initial := renderRaw(current)
	in := textinput.New()
	in.Prompt = ""
	if seed != "" {
		in.SetValue(seed)
	} else {
		in.SetValue(initial)
	}
	in.CursorEnd()
	in.Focus()
	return &comboboxEditor{options: opts.Options, input: in, initial: initial}
}

func (e *comboboxEditor) matches() []Option {
	query := strings.ToLower(strings.TrimSpace(e.input.Value()))
	if query == "" {
		return e.options
	}
	var out []Option
	for _, opt := range e.options {
		if strings.Contains(strings.ToLower(opt.Label), query) {
			out = append(out, opt)
		}
	}
	return out
}

func (e *comboboxEditor) Update(msg tea.Msg) (CellEditor, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			e.cursor--
		case "down":
			e.cursor++
		default:
			var cmd tea.Cmd
			e.input, cmd = e.input.Update(msg)
			e.cursor = 0
			return e, cmd
		}
		e.cursor = clamp(e.cursor, len(e.matches()))
		return e, nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func (e *comboboxEditor) View() string { return e.input.View() }

func (e *comboboxEditor) Popup() []string {
	matches := e.matches()
	if len(matches) == 0 {
		return nil
	}
	cursor := clamp(e.cursor, len(matches))
	lines := make([]string, 0, len(matches))
	for i, opt := range matches {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		lines = append(lines, marker+opt.Label)
	}
	return lines
}

func (e *comboboxEditor) Value() (any, bool) {
	matches := e.matches()
	if len(matches) > 0 {
		return matches[clamp(e.cursor, len(matches))].Value, true
	}
	return e.input.Value(), true
}

func (e *comboboxEditor) Changed() bool {
	v, _ := e.Value()
	return renderRaw(v) != e.initial
}

func (e *comboboxEditor) ClaimsKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "down":
		return true
	}
	return false
}

// multiSelectEditor toggles membership in a set of options. Space flips the
// highlighted option; the commit value is the selected option values in
// option order.
type multiSelectEditor struct {
	options  []Option
	selected map[int]bool
	cursor   int
	initial  string
}

func newMultiSelectEditor(opts CellOpts, current any) *multiSelectEditor {
	selected := make(map[int]bool)
	for _, cur := range currentValues(current) {
		for i, opt := range opts.Options {
			if sameOptionValue(opt.Value, cur) {
				selected[i] = true
			}
		}
	}
	e := &multiSelectEditor{options: opts.Options, selected: selected}
	e.initial = renderRaw(e.values())
	return e
}

func currentValues(current any) []any {
	switch v := current.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return []any{v}
	}
}

func (e *multiSelectEditor) values() []string {
	idx := make([]int, 0, len(e.selected))
	for i, on := range e.selected {
		if on {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, fmt.Sprint(e.options[i].Value))
	}
	return out
}

func (e *multiSelectEditor) Update(msg tea.Msg) (CellEditor, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch key.String() {
	case "up":
		e.cursor = clamp(e.cursor-1, len(e.options))
	case "down":
		e.cursor = clamp(e.cursor+1, len(e.options))
	case "space":
		if len(e.options) > 0 {
			e.selected[e.cursor] = !e.selected[e.cursor]
		}
	}
	return e, nil
}

func (e *multiSelectEditor) View() string {
	return strings.Join(e.values(), ", ")
}

func (e *multiSelectEditor) Popup() []string {
	lines := make([]string, 0, len(e.options))
	for i, opt := range e.options {
		marker := "  "
		if i == e.cursor {
			marker = "> "
		}
		box := "[ ] "
		if e.selected[i] {
			box = "[x] "
		}
		lines = append(lines, marker+box+opt.Label)
	}
	return lines
}

func (e *multiSelectEditor) Value() (any, bool) { return e.values(), true }

func (e *multiSelectEditor) Changed() bool {
	return renderRaw(e.values()) != e.initial
}

func (e *multiSelectEditor) ClaimsKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "down", "space":
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// dateEditor edits an ISO date as text; up/down nudge the parsed date by a
// day, which is why those keys are claimed.
type dateEditor struct {
	input   textinput.Model
	initial string
}

func newDateEditor(current any, seed string) *dateEditor {
	initial := renderRaw(current)
	if t, ok := current.(time.Time); ok {
		initial = t.Format(dateLayout)
	}
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = dateLayout
	if seed != "" {
		in.SetValue(seed)
	} else {
		in.SetValue(initial)
	}
	in.CursorEnd()
	in.Focus()
	return &dateEditor{input: in, initial: initial}
}

func (e *dateEditor) Update(msg tea.Msg) (CellEditor, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "down":
			delta := 1
			if key.String() == "down" {
				delta = -1
			}
			base := time.Now()
			if t, err := time.Parse(dateLayout, strings.TrimSpace(e.input.Value())); err == nil {
				base = t
			}
			e.input.SetValue(base.AddDate(0, 0, delta).Format(dateLayout))
			e.input.CursorEnd()
			return e, nil
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func (e *dateEditor) View() string    { return e.input.View() }
func (e *dateEditor) Popup() []string { return nil }

func (e *dateEditor) Value() (any, bool) {
	text := strings.TrimSpace(e.input.Value())
	if text == "" {
		return "", true
	}
	if _, err := time.Parse(dateLayout, text); err != nil {
		return nil, false
	}
	return text, true
}

func (e *dateEditor) Changed() bool { return strings.TrimSpace(e.input.Value()) != e.initial }

func (e *dateEditor) ClaimsKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "down":
		return true
	}
	return false
}

// sameOptionValue compares a stored value with an option value, tolerating
// type drift between in-memory and round-tripped values.
func sameOptionValue(optValue, current any) bool {
	if optValue == current {
		return true
	}
	return fmt.Sprint(optValue) == fmt.Sprint(current)
}

// renderRaw renders a raw cell value as editable text.
func renderRaw(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case time.Time:
		return val.Format(dateLayout)
	default:
		return fmt.Sprint(val)
	}
}
