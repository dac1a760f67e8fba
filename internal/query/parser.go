package query

import "strings"

// Parse compiles a raw RBQL query string into an immutable Plan.
func Parse(raw string) (*Plan, error) {
	skeleton, literals := ExtractLiterals(raw)

	c, err := separateClauses(skeleton)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Top: -1}

	switch c.action {
	case "SELECT":
		plan.Action = ActionSelect
		selectText, except, err := splitSelectAndExcept(c.selectText)
		if err != nil {
			return nil, err
		}
		plan.SelectItems = rewriteSelectItems(selectText)
		plan.ExceptSet = except
	case "UPDATE":
		plan.Action = ActionUpdate
		assignments, err := rewriteAssignments(c.selectText)
		if err != nil {
			return nil, err
		}
		plan.Assignments = assignments
	}

	if c.top >= 0 {
		plan.Top = c.top
	}
	if c.limit >= 0 {
		plan.Top = c.limit
	}
	plan.Distinct = c.distinct
	plan.DistinctCount = c.distinctCount

	if c.joinMode != "" {
		mode, err := parseJoinMode(c.joinMode)
		if err != nil {
			return nil, err
		}
		leftExpr, rightExpr, err := rewriteJoinOn(c.onText)
		if err != nil {
			return nil, err
		}
		plan.Join = &JoinClause{
			Mode:         mode,
			Table:        strings.TrimSpace(c.joinTable),
			LeftKeyExpr:  leftExpr,
			RightKeyExpr: rightExpr,
		}
	}

	if c.whereText != "" {
		if err := checkNoAssignmentInWhere(c.whereText); err != nil {
			return nil, err
		}
		plan.Where = c.whereText
	}

	if c.groupText != "" {
		plan.GroupBy = rewriteCommaKeys(c.groupText)
	}

	if c.orderText != "" {
		plan.OrderBy = &OrderBy{Keys: rewriteCommaKeys(c.orderText), Reverse: c.orderDesc}
	}

	restorePlanLiterals(plan, literals)
	return plan, nil
}

// restorePlanLiterals resubstitutes every string-literal placeholder in the
// plan's expression text, the final step of spec §4.2.
func restorePlanLiterals(plan *Plan, literals *LiteralTable) {
	for i := range plan.SelectItems {
		if !plan.SelectItems[i].Star {
			plan.SelectItems[i].Expr = literals.Restore(plan.SelectItems[i].Expr)
		}
	}
	for i := range plan.Assignments {
		plan.Assignments[i].Expr = literals.Restore(plan.Assignments[i].Expr)
	}
	plan.Where = literals.Restore(plan.Where)
	for i := range plan.GroupBy {
		plan.GroupBy[i] = literals.Restore(plan.GroupBy[i])
	}
	if plan.OrderBy != nil {
		for i := range plan.OrderBy.Keys {
			plan.OrderBy.Keys[i] = literals.Restore(plan.OrderBy.Keys[i])
		}
	}
	if plan.Join != nil {
		plan.Join.Table = literals.Restore(plan.Join.Table)
		plan.Join.LeftKeyExpr = literals.Restore(plan.Join.LeftKeyExpr)
		plan.Join.RightKeyExpr = literals.Restore(plan.Join.RightKeyExpr)
	}
}
