package record

import (
	"strings"

	"github.com/rbql-go/rbql/internal/warn"
)

// needsQuoting reports whether a field must be wrapped in quotes to survive
// a CSV round trip under delim.
func needsQuoting(field, delim string) bool {
	return strings.Contains(field, `"`) || strings.Contains(field, delim) ||
		strings.ContainsAny(field, "\r\n")
}

func quoteField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// JoinQuoted formats fields as a CSV line, quoting and doubling interior
// quotes wherever the delimiter, a quote, or a newline would otherwise
// corrupt the round trip.
func JoinQuoted(fields []string, delim string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if needsQuoting(f, delim) {
			parts[i] = quoteField(f)
		} else {
			parts[i] = f
		}
	}
	return strings.Join(parts, delim)
}

// JoinSimple concatenates fields with delim verbatim. If any field
// contains the delimiter the line is still emitted (undelimitable as-is)
// but a warning is raised since the output can no longer be split back
// into the same fields.
func JoinSimple(fields []string, delim string, bus *warn.Bus) string {
	if bus != nil {
		for _, f := range fields {
			if strings.Contains(f, delim) {
				bus.Add(warn.DelimInSimpleOutput, f)
				break
			}
		}
	}
	return strings.Join(fields, delim)
}

// JoinWhitespace concatenates fields with a single space.
func JoinWhitespace(fields []string) string {
	return strings.Join(fields, " ")
}

// JoinMonocolumn emits fields[0] verbatim for single-field records. A
// record with more than one field can't be represented under monocolumn
// output, so it falls back to quoted-CSV with a comma delimiter and raises
// OutputSwitchToCSV.
func JoinMonocolumn(fields []string, bus *warn.Bus) string {
	if len(fields) <= 1 {
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
	if bus != nil {
		bus.Add(warn.OutputSwitchToCSV, "")
	}
	return JoinQuoted(fields, ",")
}

// Join dispatches to the field joiner for policy.
func Join(fields []string, policy Policy, delim string, bus *warn.Bus) string {
	switch policy {
	case Monocolumn:
		return JoinMonocolumn(fields, bus)
	case Simple:
		return JoinSimple(fields, delim, bus)
	case Whitespace:
		return JoinWhitespace(fields)
	case Quoted:
		return JoinQuoted(fields, delim)
	default:
		return JoinSimple(fields, delim, bus)
	}
}
