package exec

import (
	"sort"

	"github.com/rbql-go/rbql/internal/eval"
)

func rowKey(vals []eval.Value) string {
	key := ""
	for i, v := range vals {
		if i > 0 {
			key += "\x1f"
		}
		key += v.String()
	}
	return key
}

// applyDistinct implements plain DISTINCT (dedupe on the full output tuple,
// first-seen order preserved) and DISTINCT COUNT (group identical tuples,
// prepend the occurrence count, sort by count descending then first-seen).
func applyDistinct(rows []outRow, distinct, distinctCount bool) []outRow {
	if !distinct && !distinctCount {
		return rows
	}

	type bucket struct {
		row   outRow
		count int64
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, r := range rows {
		key := rowKey(r.values)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{row: r}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
	}

	if distinctCount {
		out := make([]outRow, len(order))
		for i, key := range order {
			b := buckets[key]
			out[i] = outRow{
				values:  append([]eval.Value{eval.Int(b.count)}, b.row.values...),
				sortKey: b.row.sortKey,
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].values[0].I > out[j].values[0].I
		})
		return out
	}

	out := make([]outRow, len(order))
	for i, key := range order {
		out[i] = buckets[key].row
	}
	return out
}
