package models

// Cell is one raw value of a loaded dataset. Valid is false for null markers
// and for columns synthesized because the source did not provide them.
type Cell struct {
	Value string
	Valid bool
}

// Table is a dataset normalized to an expected column list
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell

	index map[string]int
}

// NewTable creates an empty table with the given columns, in order
func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, exists := index[c]; !exists {
			index[c] = i
		}
	}
	return &Table{
		Name:    name,
		Columns: cols,
		Rows:    make([][]Cell, 0),
		index:   index,
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Get returns the cell of a row for a column; unknown columns read as null.
func (t *Table) Get(row int, column string) Cell {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][i]
}
