// Package exec drives the single-pass pull pipeline that ties record
// splitting, the compiled query plan, expression evaluation, and the join
// engine together into one executed query (spec §2 dataflow).
package exec

import (
	"github.com/rbql-go/rbql/internal/eval"
	"github.com/rbql-go/rbql/internal/query"
)

type selectItem struct {
	star bool
	expr eval.Node
}

type assignment struct {
	index int
	expr  eval.Node
}

// compiled is every expression string in a Plan compiled once up front.
type compiled struct {
	plan *query.Plan

	where eval.Node

	selectItems []selectItem
	assignments []assignment

	groupBy []eval.Node

	orderBy      []eval.Node
	orderReverse bool

	joinLeftKey  eval.Node
	joinRightKey eval.Node

	aggregating bool
	unfoldIdx   int // index into selectItems, -1 if none

	globals map[string]eval.Value
}

func compilePlan(plan *query.Plan, globals map[string]eval.Value) (*compiled, error) {
	c := &compiled{plan: plan, unfoldIdx: -1, globals: globals}

	if plan.Where != "" {
		n, err := eval.Compile(plan.Where)
		if err != nil {
			return nil, err
		}
		c.where = n
	}

	for _, item := range plan.SelectItems {
		if item.Star {
			c.selectItems = append(c.selectItems, selectItem{star: true})
			continue
		}
		n, err := eval.Compile(item.Expr)
		if err != nil {
			return nil, err
		}
		if _, ok := n.(eval.Unfold); ok && c.unfoldIdx < 0 {
			c.unfoldIdx = len(c.selectItems)
		}
		c.selectItems = append(c.selectItems, selectItem{expr: n})
	}

	for _, a := range plan.Assignments {
		n, err := eval.Compile(a.Expr)
		if err != nil {
			return nil, err
		}
		c.assignments = append(c.assignments, assignment{index: a.Index, expr: n})
	}

	for _, g := range plan.GroupBy {
		n, err := eval.Compile(g)
		if err != nil {
			return nil, err
		}
		c.groupBy = append(c.groupBy, n)
	}

	if plan.OrderBy != nil {
		for _, k := range plan.OrderBy.Keys {
			n, err := eval.Compile(k)
			if err != nil {
				return nil, err
			}
			c.orderBy = append(c.orderBy, n)
		}
		c.orderReverse = plan.OrderBy.Reverse
	}

	if plan.Join != nil {
		n, err := eval.Compile(plan.Join.LeftKeyExpr)
		if err != nil {
			return nil, err
		}
		c.joinLeftKey = n
		rn, err := eval.Compile(plan.Join.RightKeyExpr)
		if err != nil {
			return nil, err
		}
		c.joinRightKey = rn
	}

	c.aggregating = plan.HasAggregates(eval.IsAggregateExpr)
	return c, nil
}
