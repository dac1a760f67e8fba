package exec

import "github.com/rbql-go/rbql/internal/eval"

// groupState accumulates one GROUP BY bucket (or the single implicit group
// of an aggregate query with no GROUP BY at all).
type groupState struct {
	accumulators map[int]eval.Accumulator
	foldLists    map[int][]eval.Value
	foldLambda   map[int]eval.Node
	lastValues   map[int]eval.Value
	lastStar     []eval.Value
	lastCtx      *eval.Context
}

func newGroupState() *groupState {
	return &groupState{
		accumulators: make(map[int]eval.Accumulator),
		foldLists:    make(map[int][]eval.Value),
		foldLambda:   make(map[int]eval.Node),
		lastValues:   make(map[int]eval.Value),
	}
}

// groupTable preserves first-seen group order, matching the spec's
// "GROUP BY emits groups in the order their key was first seen" rule.
type groupTable struct {
	order []string
	rows  map[string]*groupState
}

func newGroupTable() *groupTable {
	return &groupTable{rows: make(map[string]*groupState)}
}

func (t *groupTable) get(key string) *groupState {
	g, ok := t.rows[key]
	if !ok {
		g = newGroupState()
		t.rows[key] = g
		t.order = append(t.order, key)
	}
	return g
}

func groupKey(nodes []eval.Node, ctx *eval.Context) (string, error) {
	if len(nodes) == 0 {
		return "", nil
	}
	key := ""
	for i, n := range nodes {
		v, err := eval.Eval(n, ctx)
		if err != nil {
			return "", err
		}
		if i > 0 {
			key += "\x1f"
		}
		key += v.String()
	}
	return key, nil
}

func isStarArg(n eval.Node) bool {
	if n == nil {
		return true
	}
	id, ok := n.(eval.Ident)
	return ok && id.Name == "*"
}

// feed applies one candidate row to every SELECT item's group state: each
// aggregate gets its argument fed to its accumulator, each FOLD argument is
// appended to its collected list, and every non-aggregate scalar overwrites
// the group's "last value seen" for that item.
func feed(g *groupState, items []selectItem, starVals []eval.Value, ctx *eval.Context) error {
	g.lastCtx = ctx
	g.lastStar = starVals
	for i, item := range items {
		if item.star {
			continue
		}
		switch n := item.expr.(type) {
		case eval.Aggregate:
			acc, ok := g.accumulators[i]
			if !ok {
				acc = eval.NewAccumulator(n.Func)
				g.accumulators[i] = acc
			}
			if n.Func == "COUNT" && isStarArg(n.Arg) {
				acc.Feed(eval.Int(1))
				continue
			}
			v, err := eval.Eval(n.Arg, ctx)
			if err != nil {
				return err
			}
			acc.Feed(v)
		case eval.Fold:
			v, err := eval.Eval(n.Arg, ctx)
			if err != nil {
				return err
			}
			g.foldLists[i] = append(g.foldLists[i], v)
			g.foldLambda[i] = n.Lambda
		case eval.Unfold:
			v, err := eval.Eval(n.Arg, ctx)
			if err != nil {
				return err
			}
			g.lastValues[i] = v
		default:
			v, err := eval.Eval(item.expr, ctx)
			if err != nil {
				return err
			}
			g.lastValues[i] = v
		}
	}
	return nil
}

// finalize resolves one group into its final projected field values.
func finalize(g *groupState, items []selectItem, except map[int]bool) ([]eval.Value, error) {
	var out []eval.Value
	for i, item := range items {
		if item.star {
			out = append(out, spliceStar(g.lastStar, except)...)
			continue
		}
		switch n := item.expr.(type) {
		case eval.Aggregate:
			out = append(out, g.accumulators[i].Result())
		case eval.Fold:
			vals := g.foldLists[i]
			if n.Lambda != nil {
				lam := n.Lambda.(eval.Lambda)
				fv, err := eval.Eval(lam.Body, g.lastCtx.WithLocal(lam.Param, eval.List(vals)))
				if err != nil {
					return nil, err
				}
				out = append(out, fv)
				continue
			}
			out = append(out, eval.Str(joinValues(vals)))
		default:
			out = append(out, g.lastValues[i])
		}
	}
	return out, nil
}

func joinValues(vals []eval.Value) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += "|"
		}
		s += v.String()
	}
	return s
}

func spliceStar(vals []eval.Value, except map[int]bool) []eval.Value {
	out := make([]eval.Value, 0, len(vals))
	for i, v := range vals {
		if except != nil && except[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}
