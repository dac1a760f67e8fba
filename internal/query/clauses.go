package query

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reLeadingAction   = regexp.MustCompile(`(?i)^\s*(SELECT|UPDATE)\b`)
	reLeadingTop      = regexp.MustCompile(`(?i)^\s*TOP\s+(\d+)\b`)
	reLeadingDistinct = regexp.MustCompile(`(?i)^\s*DISTINCT\b(\s+COUNT\b)?`)
	reLeadingJoin     = regexp.MustCompile(`(?i)^\s*(STRICT\s+LEFT\s+JOIN|LEFT\s+JOIN|INNER\s+JOIN|JOIN)\b`)
	reLeadingOn       = regexp.MustCompile(`(?i)^\s*ON\b`)
	reLeadingWhere    = regexp.MustCompile(`(?i)^\s*WHERE\b`)
	reLeadingGroupBy  = regexp.MustCompile(`(?i)^\s*GROUP\s+BY\b`)
	reLeadingOrderBy  = regexp.MustCompile(`(?i)^\s*ORDER\s+BY\b`)
	reLeadingLimit    = regexp.MustCompile(`(?i)^\s*LIMIT\s+(\d+)\b`)
	reTrailingAscDesc = regexp.MustCompile(`(?i)\b(ASC|DESC)\s*$`)

	// reNextAfterSelect finds where the SELECT/UPDATE list ends: the first
	// top-level clause keyword that may legally follow it.
	reNextAfterSelect = regexp.MustCompile(`(?i)\b(STRICT\s+LEFT\s+JOIN|LEFT\s+JOIN|INNER\s+JOIN|JOIN|WHERE|GROUP\s+BY|ORDER\s+BY|LIMIT\s+\d+)\b`)
	reNextAfterJoin   = regexp.MustCompile(`(?i)\b(ON)\b`)
	reNextAfterOn     = regexp.MustCompile(`(?i)\b(WHERE|GROUP\s+BY|ORDER\s+BY|LIMIT\s+\d+)\b`)
	reNextAfterWhere  = regexp.MustCompile(`(?i)\b(GROUP\s+BY|ORDER\s+BY|LIMIT\s+\d+)\b`)
	reNextAfterGroup  = regexp.MustCompile(`(?i)\b(ORDER\s+BY|LIMIT\s+\d+)\b`)
	reNextAfterOrder  = regexp.MustCompile(`(?i)\b(LIMIT\s+\d+)\b`)
)

// clauses is the literal-free intermediate form produced by separateClauses,
// one field per clause named in spec §4.2 step 2.
type clauses struct {
	action string // "SELECT" or "UPDATE"

	top      int // -1 if absent
	distinct bool
	distinctCount bool

	joinMode  string // "", "JOIN", "INNER JOIN", "LEFT JOIN", "STRICT LEFT JOIN"
	joinTable string
	onText    string

	selectText string
	whereText  string
	groupText  string
	orderText  string
	orderDesc  bool

	limit int // -1 if absent
}

func separateClauses(skeleton string) (*clauses, error) {
	m := reLeadingAction.FindStringSubmatchIndex(skeleton)
	if m == nil {
		return nil, parseErrorf(`Query must start with "SELECT" or "UPDATE"`)
	}
	action := strings.ToUpper(strings.TrimSpace(skeleton[m[2]:m[3]]))
	rest := skeleton[m[1]:]

	c := &clauses{action: action, top: -1, limit: -1}

	for {
		if sm := reLeadingTop.FindStringSubmatchIndex(rest); sm != nil {
			n, err := strconv.Atoi(rest[sm[2]:sm[3]])
			if err != nil {
				return nil, parseErrorf(`Invalid TOP value`)
			}
			c.top = n
			rest = rest[sm[1]:]
			continue
		}
		if sm := reLeadingDistinct.FindStringSubmatchIndex(rest); sm != nil {
			c.distinct = true
			c.distinctCount = sm[2] >= 0
			rest = rest[sm[1]:]
			continue
		}
		break
	}

	selEnd := reNextAfterSelect.FindStringIndex(rest)
	if selEnd == nil {
		c.selectText = strings.TrimSpace(rest)
		return c, nil
	}
	c.selectText = strings.TrimSpace(rest[:selEnd[0]])
	rest = rest[selEnd[0]:]

	if sm := reLeadingJoin.FindStringSubmatchIndex(rest); sm != nil {
		c.joinMode = strings.ToUpper(collapseSpaces(rest[sm[2]:sm[3]]))
		rest = rest[sm[1]:]
		onIdx := reNextAfterJoin.FindStringIndex(rest)
		if onIdx == nil {
			return nil, parseErrorf(`Invalid join syntax: missing "ON"`)
		}
		c.joinTable = strings.TrimSpace(rest[:onIdx[0]])
		rest = rest[onIdx[1]:]

		onEnd := reNextAfterOn.FindStringIndex(rest)
		if onEnd == nil {
			c.onText = strings.TrimSpace(rest)
			return c, nil
		}
		c.onText = strings.TrimSpace(rest[:onEnd[0]])
		rest = rest[onEnd[0]:]
	}

	if reLeadingWhere.MatchString(rest) {
		rest = reLeadingWhere.ReplaceAllString(rest, "")
		end := reNextAfterWhere.FindStringIndex(rest)
		if end == nil {
			c.whereText = strings.TrimSpace(rest)
			return c, nil
		}
		c.whereText = strings.TrimSpace(rest[:end[0]])
		rest = rest[end[0]:]
	}

	if reLeadingGroupBy.MatchString(rest) {
		rest = reLeadingGroupBy.ReplaceAllString(rest, "")
		end := reNextAfterGroup.FindStringIndex(rest)
		if end == nil {
			c.groupText = strings.TrimSpace(rest)
			return c, nil
		}
		c.groupText = strings.TrimSpace(rest[:end[0]])
		rest = rest[end[0]:]
	}

	if reLeadingOrderBy.MatchString(rest) {
		rest = reLeadingOrderBy.ReplaceAllString(rest, "")
		end := reNextAfterOrder.FindStringIndex(rest)
		var orderText string
		if end == nil {
			orderText = rest
			rest = ""
		} else {
			orderText = rest[:end[0]]
			rest = rest[end[0]:]
		}
		if am := reTrailingAscDesc.FindStringSubmatchIndex(orderText); am != nil {
			c.orderDesc = strings.EqualFold(orderText[am[2]:am[3]], "DESC")
			orderText = orderText[:am[0]]
		}
		c.orderText = strings.TrimSpace(orderText)
	}

	if sm := reLeadingLimit.FindStringSubmatchIndex(rest); sm != nil {
		n, err := strconv.Atoi(rest[sm[2]:sm[3]])
		if err != nil {
			return nil, parseErrorf(`Invalid LIMIT value`)
		}
		c.limit = n
		rest = rest[sm[1]:]
	}

	if strings.TrimSpace(rest) != "" {
		return nil, parseErrorf(`Unexpected trailing content: %q`, strings.TrimSpace(rest))
	}
	return c, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
