package join

import "fmt"

// StrictViolation is returned by Match in STRICT LEFT mode when a primary
// key has zero or more than one right-side match.
type StrictViolation struct {
	Key     string
	Matches int
}

func (e *StrictViolation) Error() string {
	return fmt.Sprintf(`In "STRICT LEFT JOIN" each key in A must have exactly one match in B, key %q has %d`, e.Key, e.Matches)
}

// Match resolves the right-side records paired with one primary row's key
// under mode. matched is false when no right-side row has key (INNER or
// LEFT mode); for LEFT the caller must fabricate a nil B side (not an empty
// one) so field references evaluate to None rather than empty-string-with-warning.
func Match(mode Mode, key string, t *Table) (rows []Record, matched bool, err error) {
	rows = t.Lookup(key)
	switch mode {
	case Inner:
		return rows, len(rows) > 0, nil
	case Left:
		if len(rows) == 0 {
			return nil, false, nil
		}
		return rows, true, nil
	case StrictLeft:
		if len(rows) != 1 {
			return nil, false, &StrictViolation{Key: key, Matches: len(rows)}
		}
		return rows, true, nil
	default:
		return nil, false, fmt.Errorf("unknown join mode %d", mode)
	}
}

// Mode mirrors query.JoinMode without importing the query package, keeping
// join dependency-free of the query-string-rewriting layer.
type Mode int

const (
	Inner Mode = iota
	Left
	StrictLeft
)
