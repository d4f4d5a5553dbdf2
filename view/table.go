package view

// Table reinterprets an object as a 2D array: rows of a fixed column
// count. Rows that would be incomplete are truncated away together with
// any trailing partial element, following the same floor rule as Array.
type Table[E Element] struct {
	arr  Array[E]
	cols int
}

// TableOf creates a table view over arr with the given column count.
// A column count below 1 is treated as 1.
func TableOf[E Element](arr Array[E], cols int) Table[E] {
	if cols < 1 {
		cols = 1
	}
	return Table[E]{arr: arr, cols: cols}
}

// Cols returns the column count.
func (t Table[E]) Cols() int {
	return t.cols
}

// Rows returns the number of complete rows.
func (t Table[E]) Rows() int {
	return t.arr.Len() / t.cols
}

// Cell returns the element at (row, col), or the zero value when either
// index is out of range.
func (t Table[E]) Cell(row, col int) E {
	var zero E
	if row < 0 || col < 0 || col >= t.cols || row >= t.Rows() {
		return zero
	}
	return t.arr.At(row*t.cols + col)
}

// Row copies one complete row, or returns nil when out of range.
func (t Table[E]) Row(row int) []E {
	if row < 0 || row >= t.Rows() {
		return nil
	}
	dst := make([]E, t.cols)
	t.arr.Read(row*t.cols, dst)
	return dst
}
