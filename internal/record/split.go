package record

import "strings"

// Policy selects how a line of bytes maps to a Record and back.
type Policy int

const (
	Monocolumn Policy = iota
	Simple
	Whitespace
	Quoted
)

// ParsePolicy maps a CLI/config policy name onto a Policy value.
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "monocolumn":
		return Monocolumn, true
	case "simple":
		return Simple, true
	case "whitespace":
		return Whitespace, true
	case "quoted":
		return Quoted, true
	default:
		return 0, false
	}
}

// SplitMonocolumn returns the whole line as a single field.
func SplitMonocolumn(line string) []string {
	return []string{line}
}

// SplitSimple splits on the literal delimiter with no escaping.
func SplitSimple(line, delim string) []string {
	return strings.Split(line, delim)
}

// SplitWhitespace splits on runs of the space character. Leading and
// trailing runs are discarded. In preserved mode each field keeps the
// separator run that followed it in the original line, so that
// strings.Join(fields, "") reconstructs the (leading/trailing-trimmed) line.
func SplitWhitespace(line string, preserved bool) []string {
	var fields []string
	n := len(line)
	pos := 0
	for pos < n && line[pos] == ' ' {
		pos++
	}
	for pos < n {
		start := pos
		for pos < n && line[pos] != ' ' {
			pos++
		}
		token := line[start:pos]
		sepStart := pos
		for pos < n && line[pos] == ' ' {
			pos++
		}
		if preserved && pos < n {
			token += line[sepStart:pos]
		}
		fields = append(fields, token)
	}
	if fields == nil {
		fields = []string{}
	}
	return fields
}

// SplitQuotedPreserved splits line on delim following RFC-4180-ish quoting
// rules, returning substrings that, rejoined with delim, reproduce line
// exactly. defective is true when the line contains unbalanced quotes or a
// quoted field is followed by stray characters before the next delimiter;
// in that case the returned fields are a raw, non-quote-aware split so no
// bytes are ever dropped.
func SplitQuotedPreserved(line, delim string) (fields []string, defective bool) {
	n := len(line)
	pos := 0
	for {
		start := pos
		for pos < n && line[pos] == ' ' {
			pos++
		}
		if pos < n && line[pos] == '"' {
			pos++
			closed := false
			for pos < n {
				if line[pos] == '"' {
					if pos+1 < n && line[pos+1] == '"' {
						pos += 2
						continue
					}
					pos++
					closed = true
					break
				}
				pos++
			}
			if !closed {
				return rawSplit(line, delim), true
			}
			for pos < n && line[pos] == ' ' {
				pos++
			}
			if pos >= n {
				fields = append(fields, line[start:pos])
				return fields, false
			}
			if !strings.HasPrefix(line[pos:], delim) {
				return rawSplit(line, delim), true
			}
			fields = append(fields, line[start:pos])
			pos += len(delim)
			continue
		}

		idx := strings.Index(line[pos:], delim)
		if idx < 0 {
			fields = append(fields, line[start:])
			return fields, false
		}
		fields = append(fields, line[start:pos+idx])
		pos = pos + idx + len(delim)
	}
}

func rawSplit(line, delim string) []string {
	return strings.Split(line, delim)
}

// UnquoteField strips a single field's surrounding quotes (and collapses
// doubled interior quotes) if it looks quoted; fields that aren't quoted
// are returned unchanged.
func UnquoteField(f string) string {
	t := strings.TrimLeft(f, " ")
	if len(t) == 0 || t[0] != '"' {
		return f
	}
	t = strings.TrimRight(t, " ")
	if len(t) < 2 || t[len(t)-1] != '"' {
		return f
	}
	inner := t[1 : len(t)-1]
	return strings.ReplaceAll(inner, `""`, `"`)
}

// SplitQuotedUnquoted returns cleaned field values (quotes stripped,
// doubled quotes collapsed). defective has the same meaning as in
// SplitQuotedPreserved; on a defective line the raw pieces are returned
// verbatim, matching the Python-RBQL-derived "fail open" behavior.
func SplitQuotedUnquoted(line, delim string) (fields []string, defective bool) {
	preserved, defective := SplitQuotedPreserved(line, delim)
	if defective {
		return preserved, true
	}
	out := make([]string, len(preserved))
	for i, f := range preserved {
		out[i] = UnquoteField(f)
	}
	return out, false
}

// Split dispatches to the field splitter for policy. Quoted policy returns
// the unquoted variant; callers that need the preserved variant (line
// reconstruction) call SplitQuotedPreserved directly.
func Split(line string, policy Policy, delim string) (fields []string, defective bool) {
	switch policy {
	case Monocolumn:
		return SplitMonocolumn(line), false
	case Simple:
		return SplitSimple(line, delim), false
	case Whitespace:
		return SplitWhitespace(line, false), false
	case Quoted:
		return SplitQuotedUnquoted(line, delim)
	default:
		return SplitSimple(line, delim), false
	}
}
