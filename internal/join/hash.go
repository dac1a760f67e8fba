// Package join implements the hash-join engine: a fully-materialized
// right-side table keyed by the stringified join key, dispatched across
// INNER / LEFT / STRICT LEFT modes (spec §4.4).
package join

import (
	"io"

	"github.com/rbql-go/rbql/internal/record"
	"github.com/rbql-go/rbql/internal/warn"
)

// Table is the fully-materialized right side of a JOIN: a key -> records
// index plus the maximum field count observed, to which every returned
// record is implicitly padded.
type Table struct {
	index    map[string][]Record
	maxWidth int
}

// Record is one right-side row padded to the table's max width.
type Record []string

// Load reads every line of r as a record under policy/delim, evaluates
// keyExpr against each to build the hash index, and pads every stored
// record to the maximum width observed. Defective CSV lines raise
// defective_csv_line_in_join instead of defective_csv_line_in_input.
func Load(r io.Reader, policy record.Policy, delim string, keyOf func(fields []string) (string, error), bus *warn.Bus) (*Table, error) {
	li := record.NewLineIterator(r, record.DefaultChunkSize, false, nil)
	t := &Table{index: make(map[string][]Record)}

	var raw [][]string
	for {
		line, ok, err := li.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		fields, defective := record.Split(line, policy, delim)
		if defective && bus != nil {
			bus.Add(warn.DefectiveCSVLineInJoin, line)
		}
		if len(fields) > t.maxWidth {
			t.maxWidth = len(fields)
		}
		raw = append(raw, fields)
	}

	for _, fields := range raw {
		padded := padTo(fields, t.maxWidth)
		key, err := keyOf(padded)
		if err != nil {
			return nil, err
		}
		t.index[key] = append(t.index[key], Record(padded))
	}
	return t, nil
}

func padTo(fields []string, width int) []string {
	if len(fields) >= width {
		return fields
	}
	out := make([]string, width)
	copy(out, fields)
	return out
}

// Lookup returns the right-side records matching key, in insertion order.
func (t *Table) Lookup(key string) []Record {
	return t.index[key]
}

// Width is the right table's fixed, padded field count.
func (t *Table) Width() int {
	return t.maxWidth
}
