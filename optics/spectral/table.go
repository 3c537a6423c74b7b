package spectral

// IsStrictlyIncreasing reports whether the first column of table increases
// strictly from row to row.
func IsStrictlyIncreasing(table [][]float64) bool {
	for i := 1; i < len(table); i++ {
		if !(table[i][0] > table[i-1][0]) {
			return false
		}
	}
	return true
}

// RepairTable drops every row whose first column does not exceed that of the
// last kept row. The first row is always kept. Rows are shared with table.
func RepairTable(table [][]float64) [][]float64 {
	if len(table) == 0 {
		return nil
	}
	out := [][]float64{table[0]}
	last := table[0][0]
	for _, row := range table[1:] {
		if !(row[0] > last) {
			continue
		}
		out = append(out, row)
		last = row[0]
	}
	return out
}
