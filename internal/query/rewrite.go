package query

import (
	"regexp"
	"strconv"
	"strings"
)

// splitTopLevel splits s on sep, ignoring seps nested inside balanced
// (), [], or {} pairs.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

var reExceptKeyword = regexp.MustCompile(`(?i)\bEXCEPT\b`)
var reExceptItem = regexp.MustCompile(`(?i)^a\s*(\d+)$`)

// splitSelectAndExcept pulls a trailing "EXCEPT a2, a4" off a SELECT
// clause's text and parses it into a 0-based column index set.
func splitSelectAndExcept(text string) (selectText string, except map[int]bool, err error) {
	loc := reExceptKeyword.FindStringIndex(text)
	if loc == nil {
		return text, nil, nil
	}
	selectText = strings.TrimSpace(text[:loc[0]])
	exceptText := strings.TrimSpace(text[loc[1]:])
	exceptText = strings.TrimPrefix(exceptText, "(")
	exceptText = strings.TrimSuffix(exceptText, ")")

	except = make(map[int]bool)
	for _, tok := range splitTopLevel(exceptText, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m := reExceptItem.FindStringSubmatch(tok)
		if m == nil {
			return "", nil, parseErrorf(`Invalid EXCEPT column reference: %q`, tok)
		}
		n, _ := strconv.Atoi(m[1])
		except[n-1] = true
	}
	return selectText, except, nil
}

// rewriteSelectItems splits a SELECT list on top-level commas, turning bare
// `*` tokens into splice markers.
func rewriteSelectItems(text string) []SelectItem {
	var items []SelectItem
	for _, tok := range splitTopLevel(text, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if tok == "*" {
			items = append(items, SelectItem{Star: true})
			continue
		}
		items = append(items, SelectItem{Expr: tok})
	}
	return items
}

var reAssignment = regexp.MustCompile(`(?i)^a(\d+)\s*=(.*)$`)

// rewriteAssignments splits an UPDATE clause's text on top-level commas into
// `aN = expr` assignments.
func rewriteAssignments(text string) ([]Assignment, error) {
	var assignments []Assignment
	for _, tok := range splitTopLevel(text, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m := reAssignment.FindStringSubmatch(tok)
		if m == nil {
			return nil, parseErrorf(`Invalid UPDATE assignment: %q`, tok)
		}
		idx, _ := strconv.Atoi(m[1])
		assignments = append(assignments, Assignment{Index: idx, Expr: strings.TrimSpace(m[2])})
	}
	return assignments, nil
}

var reBareEquals = regexp.MustCompile(`[^=!<>]=(?:[^=]|$)`)

// checkNoAssignmentInWhere rejects a bare `=` (as opposed to `==`, `!=`,
// `<=`, `>=`) in a WHERE expression, which is almost always a typo'd
// assignment.
func checkNoAssignmentInWhere(text string) error {
	if reBareEquals.MatchString(text) {
		return parseErrorf(`Assignments "=" are not allowed in "WHERE" expressions`)
	}
	return nil
}

var reJoinKeyRef = regexp.MustCompile(`(?i)^([ab])(\d+)$`)

// rewriteJoinOn parses a `JOIN ... ON` condition of the form `aN == bM`
// (in either order) into a left-key expression over the primary record and
// a right-key expression over the joined record.
func rewriteJoinOn(onText string) (leftExpr, rightExpr string, err error) {
	parts := strings.SplitN(onText, "==", 2)
	if len(parts) != 2 {
		return "", "", parseErrorf(`Invalid join syntax`)
	}
	lhs := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[1])

	lm := reJoinKeyRef.FindStringSubmatch(lhs)
	rm := reJoinKeyRef.FindStringSubmatch(rhs)
	if lm == nil || rm == nil {
		return "", "", parseErrorf(`Invalid join syntax`)
	}
	sides := lm[1] + rm[1]
	switch strings.ToLower(sides) {
	case "ab":
		return lhs, rhs, nil
	case "ba":
		return rhs, lhs, nil
	default:
		return "", "", parseErrorf(`Invalid join syntax`)
	}
}

func parseJoinMode(raw string) (JoinMode, error) {
	switch strings.ToUpper(raw) {
	case "JOIN", "INNER JOIN":
		return JoinInner, nil
	case "LEFT JOIN":
		return JoinLeft, nil
	case "STRICT LEFT JOIN":
		return JoinStrictLeft, nil
	default:
		return 0, parseErrorf(`Unknown join mode: %q`, raw)
	}
}

// rewriteCommaKeys splits a GROUP BY or ORDER BY clause's text on top-level
// commas into its list of key expressions.
func rewriteCommaKeys(text string) []string {
	var out []string
	for _, tok := range splitTopLevel(text, ',') {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
