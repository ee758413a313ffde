package status

import "sort"

// Order returns a copy of rows sorted by status rank, most urgent first.
// Rows with the same status keep their relative order. rows is not
// modified.
func Order(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.Rank() < out[j].Status.Rank()
	})
	return out
}
