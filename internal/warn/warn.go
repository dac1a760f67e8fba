// Package warn implements the recoverable-anomaly bus the executor
// accumulates into during a run and returns to the caller at the end.
package warn

import "github.com/rbql-go/rbql/internal/util"

// Stable external warning kind names (spec §6).
const (
	InputFieldsInfo         = "input_fields_info"
	NullValueInOutput       = "null_value_in_output"
	DelimInSimpleOutput     = "delim_in_simple_output"
	OutputSwitchToCSV       = "output_switch_to_csv"
	UTF8BOMRemoved          = "utf8_bom_removed"
	DefectiveCSVLineInInput = "defective_csv_line_in_input"
	DefectiveCSVLineInJoin  = "defective_csv_line_in_join"
)

// Entry is one accumulated warning kind: how many times it fired and one
// representative sample (e.g. the first defective line), if any.
type Entry struct {
	Kind   string
	Count  int
	Sample string
}

// Bus collects warnings during a single query execution. It is
// single-owner (the executor) and append-only; nothing ever removes an
// entry once raised.
type Bus struct {
	entries map[string]*Entry
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{entries: make(map[string]*Entry)}
}

// Add records one occurrence of kind, keeping the first non-empty sample seen.
func (b *Bus) Add(kind string, sample string) {
	e, ok := b.entries[kind]
	if !ok {
		e = &Entry{Kind: kind}
		b.entries[kind] = e
	}
	e.Count++
	if e.Sample == "" && sample != "" {
		e.Sample = sample
	}
}

// Has reports whether kind was raised at least once.
func (b *Bus) Has(kind string) bool {
	_, ok := b.entries[kind]
	return ok
}

// Kinds returns the raised warning kinds in a deterministic (sorted) order.
func (b *Bus) Kinds() []string {
	out := make([]string, 0, len(b.entries))
	for k := range util.CanonicalMapIter(b.entries) {
		out = append(out, k)
	}
	return out
}

// Entries returns all raised warnings in a deterministic (sorted by kind) order.
func (b *Bus) Entries() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for _, e := range util.CanonicalMapIter(b.entries) {
		out = append(out, *e)
	}
	return out
}

// Empty reports whether no warnings were ever raised.
func (b *Bus) Empty() bool {
	return len(b.entries) == 0
}
