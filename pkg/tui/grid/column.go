package grid

import "fmt"

// Variant selects the editing behavior and rendering for a cell.
type Variant string

const (
	VariantShortText   Variant = "short-text"
	VariantLongText    Variant = "long-text"
	VariantNumber      Variant = "number"
	VariantCheckbox    Variant = "checkbox"
	VariantSelect      Variant = "select"
	VariantCombobox    Variant = "combobox"
	VariantMultiSelect Variant = "multi-select"
	VariantDate        Variant = "date"
	VariantURL         Variant = "url"
	VariantFile        Variant = "file"
	// VariantPolymorphic resolves the effective variant per row from a
	// discriminator field.
	VariantPolymorphic Variant = "polymorphic"
)

// DefaultDiscriminator is the row field a polymorphic column reads when the
// column does not name one.
const DefaultDiscriminator = "kind"

// Option is one selectable choice for select/combobox/multi-select cells.
// Value is the raw value stored on commit; Label is what the user sees.
type Option struct {
	Label string
	Value any
}

// CellOpts describes how cells in a column behave.
type CellOpts struct {
	Variant Variant
	Options []Option

	// ReadOnly disables editing for the whole column. ReadOnlyFn disables
	// editing per row; either being true wins.
	ReadOnly   bool
	ReadOnlyFn func(row Row) bool

	// DiscriminatorKey and SubVariants configure VariantPolymorphic.
	DiscriminatorKey string
	SubVariants      map[string]CellOpts

	// AllowClear adds an explicit empty choice to select popups.
	AllowClear bool

	// OnDataUpdate derives additional field updates from a committed value.
	// The derived updates land in the same commit as the edit itself.
	OnDataUpdate func(row Row, value any) []Update
}

// Column binds a header, a row accessor and cell behavior.
type Column struct {
	ID       string
	Title    string
	Accessor string
	Width    int
	Opts     CellOpts
}

// resolveOpts returns the effective cell options for a row. Polymorphic
// columns dispatch on the discriminator field; an unknown or missing
// discriminator degrades to a plain short-text cell so the row stays
// editable.
func resolveOpts(col Column, row Row) CellOpts {
	opts := col.Opts
	if opts.Variant != VariantPolymorphic {
		if opts.Variant == "" {
			opts.Variant = VariantShortText
		}
		return opts
	}

	key := opts.DiscriminatorKey
	if key == "" {
		key = DefaultDiscriminator
	}
	disc := fmt.Sprint(row.Value(key))
	sub, ok := opts.SubVariants[disc]
	if !ok || sub.Variant == VariantPolymorphic {
		return CellOpts{
			Variant:    VariantShortText,
			ReadOnly:   opts.ReadOnly,
			ReadOnlyFn: opts.ReadOnlyFn,
		}
	}
	// column-level read-only settings still apply to the resolved variant
	if opts.ReadOnly {
		sub.ReadOnly = true
	}
	if sub.ReadOnlyFn == nil {
		sub.ReadOnlyFn = opts.ReadOnlyFn
	}
	if sub.OnDataUpdate == nil {
		sub.OnDataUpdate = opts.OnDataUpdate
	}
	return sub
}

// cellReadOnly reports whether the cell at row is not editable.
func cellReadOnly(opts CellOpts, row Row) bool {
	if opts.ReadOnly {
		return true
	}
	return opts.ReadOnlyFn != nil && opts.ReadOnlyFn(row)
}

// optionLabel finds the display label for a stored value. Comparison is by
// typed equality first, then by string rendering so int/int64/float mixes
// coming back from storage still match.
func optionLabel(options []Option, value any) (string, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	want := fmt.Sprint(value)
	for _, opt := range options {
		if fmt.Sprint(opt.Value) == want {
			return opt.Label, true
		}
	}
	return "", false
}

// firstEditable returns the index of the first column whose cells can be
// edited for the given row, or 0 when every column is read only.
func firstEditable(columns []Column, row Row) int {
	for i, col := range columns {
		opts := resolveOpts(col, row)
		if !cellReadOnly(opts, row) {
			return i
		}
	}
	return 0
}
