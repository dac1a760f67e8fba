// Package query turns a raw RBQL query string into an immutable Plan: a
// single-pass string rewriter, not a full grammar, exactly as the spec
// describes it.
package query

// Action is the top-level verb of a query.
type Action int

const (
	ActionSelect Action = iota
	ActionUpdate
)

// JoinMode selects how the join engine reconciles primary and right-side rows.
type JoinMode int

const (
	JoinInner JoinMode = iota
	JoinLeft
	JoinStrictLeft
)

// SelectItem is either a literal projected expression or a `*` splice marker.
type SelectItem struct {
	Star bool
	Expr string
}

// Assignment is one `aN = expr` clause of an UPDATE query.
type Assignment struct {
	Index int // 1-based column position
	Expr  string
}

// JoinClause describes an optional JOIN.
type JoinClause struct {
	Mode          JoinMode
	Table         string
	LeftKeyExpr   string // expression over the primary record
	RightKeyExpr  string // expression over the joined record
}

// OrderBy describes an optional ORDER BY. Keys holds one expression per
// comma-separated sort key, evaluated left to right, matching GroupBy's
// multi-key shape.
type OrderBy struct {
	Keys    []string
	Reverse bool
}

// Plan is the immutable, fully-rewritten form of a query, ready to be
// compiled by the expression evaluator and driven by the executor.
type Plan struct {
	Action Action

	Top int // -1 means unbounded

	Distinct      bool
	DistinctCount bool

	SelectItems []SelectItem // only set when Action == ActionSelect
	ExceptSet   map[int]bool // 0-based column indices, only with SELECT *

	Assignments []Assignment // only set when Action == ActionUpdate

	Where string // empty means no filter

	Join *JoinClause

	GroupBy []string

	OrderBy *OrderBy
}

// HasAggregates reports whether evaluating the plan requires buffering
// records into groups, which is implied by any aggregate function call
// even without an explicit GROUP BY.
func (p *Plan) HasAggregates(isAggregateCall func(expr string) bool) bool {
	if len(p.GroupBy) > 0 {
		return true
	}
	for _, item := range p.SelectItems {
		if !item.Star && isAggregateCall(item.Expr) {
			return true
		}
	}
	return false
}
