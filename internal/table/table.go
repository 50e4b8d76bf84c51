// Package table turns upstream payloads into a uniform column/row structure
// and prepares it for display: parsing (delimited text or an embedded JSON
// table), column projection, and ranking by a numeric column.
package table

// Row is an ordered sequence of cells. Positions line up with Table.Cols.
type Row []Value

// Table is a column set plus the rows under it.
type Table struct {
	Cols []string `json:"cols"`
	Rows []Row    `json:"rows"`
}

// Cell returns the value at position i, or Null when the row is shorter.
func (r Row) Cell(i int) Value {
	if i < 0 || i >= len(r) {
		return Null
	}
	return r[i]
}

// Strings renders every cell with Value.String.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}
