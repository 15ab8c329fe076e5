package grid

// Row is one grid row: a stable identity plus a flat field map. Rows created
// optimistically carry a temporary identity until the backend assigns a real
// one; the grid itself never inspects the identity beyond equality.
type Row struct {
	ID   string
	Data map[string]any
}

// Value returns the raw field value for an accessor, or nil when absent.
func (r Row) Value(accessor string) any {
	if r.Data == nil {
		return nil
	}
	return r.Data[accessor]
}

// CellAddress names a cell by row position and column ID. Positions are what
// survive identity changes: when a temp row is adopted under its real ID the
// address stays valid.
type CellAddress struct {
	Row int
	Col string
}

// Update is one committed field change, addressed by row identity so it can
// be applied to a store that may have reordered since the edit started.
type Update struct {
	RowID string
	Field string
	Value any
}
