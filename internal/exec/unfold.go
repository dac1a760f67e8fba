package exec

import "github.com/rbql-go/rbql/internal/eval"

// applyUnfold is the last projection stage: a row whose unfold column holds
// a list value is expanded into one output row per list element, with
// every other column repeated unchanged.
func applyUnfold(rows []outRow, idx int) []outRow {
	if idx < 0 {
		return rows
	}
	out := make([]outRow, 0, len(rows))
	for _, r := range rows {
		if idx >= len(r.values) || r.values[idx].Kind != eval.KindList {
			out = append(out, r)
			continue
		}
		list := r.values[idx].List
		if len(list) == 0 {
			clone := append([]eval.Value(nil), r.values...)
			clone[idx] = eval.Nil()
			out = append(out, outRow{values: clone, sortKey: r.sortKey})
			continue
		}
		for _, elem := range list {
			clone := append([]eval.Value(nil), r.values...)
			clone[idx] = elem
			out = append(out, outRow{values: clone, sortKey: r.sortKey})
		}
	}
	return out
}
