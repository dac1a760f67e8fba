package query

import (
	"fmt"
	"strings"
)

// LiteralTable records every string literal found in a raw query, keyed by
// the position it was extracted from. Placeholders are resubstituted once
// clause separation and rewriting are finished, so keyword scanning and
// top-level comma splitting never have to special-case literal text.
type LiteralTable struct {
	literals []string
}

func placeholder(i int) string {
	return fmt.Sprintf("%%%%str_literal_%d%%%%", i)
}

// ExtractLiterals replaces every single-quoted, double-quoted, or
// backtick-delimited string literal in query with a positional placeholder
// and returns the literal-free skeleton alongside a table that can restore
// the originals verbatim, backslash escapes included.
func ExtractLiterals(src string) (skeleton string, table *LiteralTable) {
	table = &LiteralTable{}
	var out []byte
	n := len(src)
	i := 0
	for i < n {
		c := src[i]
		if c == '\'' || c == '"' || c == '`' {
			start := i
			quote := c
			i++
			for i < n {
				if src[i] == '\\' && quote != '`' && i+1 < n {
					i += 2
					continue
				}
				if src[i] == quote {
					i++
					break
				}
				i++
			}
			lit := src[start:i]
			idx := len(table.literals)
			table.literals = append(table.literals, lit)
			out = append(out, []byte(placeholder(idx))...)
			continue
		}
		out = append(out, c)
		i++
	}
	return string(out), table
}

// Restore resubstitutes every placeholder in s with its original literal text.
func (t *LiteralTable) Restore(s string) string {
	if t == nil || len(t.literals) == 0 {
		return s
	}
	out := s
	for i, lit := range t.literals {
		out = strings.ReplaceAll(out, placeholder(i), lit)
	}
	return out
}
