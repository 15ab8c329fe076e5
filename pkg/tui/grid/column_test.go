package grid

import "testing"

func targetColumn() Column {
	return Column{
		ID:       "target",
		Accessor: "target",
		Opts: CellOpts{
			Variant: VariantPolymorphic,
			SubVariants: map[string]CellOpts{
				"strength": {Variant: VariantNumber},
				"cardio":   {Variant: VariantShortText},
				"mobility": {Variant: VariantSelect, Options: []Option{
					{Label: "Hold", Value: "hold"},
					{Label: "Flow", Value: "flow"},
				}},
			},
		},
	}
}

func TestPolymorphicResolvesByDiscriminator(t *testing.T) {
	col := targetColumn()
	cases := []struct {
		kind string
		want Variant
	}{
		{"strength", VariantNumber},
		{"cardio", VariantShortText},
		{"mobility", VariantSelect},
	}
	for _, tc := range cases {
		row := Row{ID: "r", Data: map[string]any{"kind": tc.kind}}
		if got := resolveOpts(col, row).Variant; got != tc.want {
			t.Errorf("kind %q: got variant %q want %q", tc.kind, got, tc.want)
		}
	}
}

func TestPolymorphicUnknownKindDegradesToText(t *testing.T) {
	col := targetColumn()
	for _, kind := range []string{"", "yoga", "<nil>"} {
		row := Row{ID: "r", Data: map[string]any{"kind": kind}}
		opts := resolveOpts(col, row)
		if opts.Variant != VariantShortText {
			t.Errorf("kind %q: expected short-text fallback, got %q", kind, opts.Variant)
		}
		if cellReadOnly(opts, row) {
			t.Errorf("kind %q: fallback cell must stay editable", kind)
		}
	}
}

func TestPolymorphicCustomDiscriminator(t *testing.T) {
	col := targetColumn()
	col.Opts.DiscriminatorKey = "mode"
	row := Row{ID: "r", Data: map[string]any{"mode": "cardio", "kind": "strength"}}
	if got := resolveOpts(col, row).Variant; got != VariantShortText {
		t.Fatalf("expected dispatch on custom key, got %q", got)
	}
}

func TestColumnReadOnlyPropagatesToSubVariant(t *testing.T) {
	col := targetColumn()
	col.Opts.ReadOnly = true
	row := Row{ID: "r", Data: map[string]any{"kind": "strength"}}
	if !cellReadOnly(resolveOpts(col, row), row) {
		t.Fatal("column read-only must apply to resolved sub-variant")
	}
}

func TestReadOnlyFnPerRow(t *testing.T) {
	opts := CellOpts{
		Variant:    VariantShortText,
		ReadOnlyFn: func(row Row) bool { return truthy(row.Value("locked")) },
	}
	locked := Row{ID: "a", Data: map[string]any{"locked": true}}
	open := Row{ID: "b", Data: map[string]any{"locked": false}}
	if !cellReadOnly(opts, locked) {
		t.Fatal("locked row should be read only")
	}
	if cellReadOnly(opts, open) {
		t.Fatal("open row should be editable")
	}
}

func TestOptionLabelMatchesAcrossTypes(t *testing.T) {
	options := []Option{
		{Label: "Three", Value: 3},
		{Label: "Strength", Value: "strength"},
	}
	if label, ok := optionLabel(options, 3); !ok || label != "Three" {
		t.Fatalf("typed match failed: %q %v", label, ok)
	}
	// storage round-trips ints as int64
	if label, ok := optionLabel(options, int64(3)); !ok || label != "Three" {
		t.Fatalf("string-rendered match failed: %q %v", label, ok)
	}
	if _, ok := optionLabel(options, "unknown"); ok {
		t.Fatal("unexpected match for unknown value")
	}
}

func TestFirstEditableSkipsReadOnlyColumns(t *testing.T) {
	columns := []Column{
		{ID: "id", Accessor: "id", Opts: CellOpts{Variant: VariantShortText, ReadOnly: true}},
		{ID: "name", Accessor: "name", Opts: CellOpts{Variant: VariantShortText}},
	}
	row := Row{ID: "r", Data: map[string]any{}}
	if got := firstEditable(columns, row); got != 1 {
		t.Fatalf("expected first editable column index 1, got %d", got)
	}
}
