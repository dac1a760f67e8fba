package exec

import (
	"context"
	"io"
	"sort"

	"github.com/rbql-go/rbql/internal/eval"
	"github.com/rbql-go/rbql/internal/join"
	"github.com/rbql-go/rbql/internal/query"
	"github.com/rbql-go/rbql/internal/record"
	"github.com/rbql-go/rbql/internal/warn"
)

// Options configures one query execution.
type Options struct {
	InputDelim   string
	InputPolicy  record.Policy
	OutputDelim  string
	OutputPolicy record.Policy
	ChunkSize    int

	// JoinSource supplies the right-side table's bytes. Required and
	// consumed exactly once when plan.Join != nil.
	JoinSource io.Reader

	// Globals holds the optional init-source snippet's bindings, visible
	// to every expression evaluated during this run.
	Globals map[string]eval.Value
}

// Run executes plan against in, writing delimited output to out, and
// returns the accumulated warning bus.
func Run(ctx context.Context, plan *query.Plan, in io.Reader, out io.Writer, opts Options) (*warn.Bus, error) {
	bus, err := runInner(ctx, plan, in, out, opts)
	return bus, wrapExec(err)
}

func runInner(ctx context.Context, plan *query.Plan, in io.Reader, out io.Writer, opts Options) (*warn.Bus, error) {
	bus := warn.New()
	c, err := compilePlan(plan, opts.Globals)
	if err != nil {
		return bus, err
	}

	var jt *join.Table
	var joinMode join.Mode
	if plan.Join != nil {
		switch plan.Join.Mode {
		case query.JoinInner:
			joinMode = join.Inner
		case query.JoinLeft:
			joinMode = join.Left
		case query.JoinStrictLeft:
			joinMode = join.StrictLeft
		}
		jt, err = join.Load(opts.JoinSource, opts.InputPolicy, opts.InputDelim, func(fields []string) (string, error) {
			rctx := &eval.Context{B: fields, Globals: opts.Globals}
			v, err := eval.Eval(c.joinRightKey, rctx)
			if err != nil {
				return "", err
			}
			return v.String(), nil
		}, bus)
		if err != nil {
			return bus, err
		}
	}

	li := record.NewLineIterator(in, opts.ChunkSize, true, bus)
	groups := newGroupTable()
	var rows []outRow
	nr := 0
	nu := 0

	for {
		select {
		case <-ctx.Done():
			return bus, ctx.Err()
		default:
		}

		line, ok, err := li.Next()
		if err != nil {
			return bus, err
		}
		if !ok {
			break
		}
		nr++

		fields, defective := record.Split(line, opts.InputPolicy, opts.InputDelim)
		if defective {
			bus.Add(warn.DefectiveCSVLineInInput, line)
		}

		if plan.Action == query.ActionUpdate {
			if err := runUpdateRow(c, fields, nr, &nu, bus, opts, out); err != nil {
				return bus, err
			}
			continue
		}

		pairs, err := joinPairs(jt, joinMode, c, fields)
		if err != nil {
			return bus, err
		}

		for _, p := range pairs {
			rowCtx := &eval.Context{
				A: fields, B: p.b, BIsNull: p.bIsNull,
				NR: nr, NU: nu,
				Globals:      opts.Globals,
				MissingField: func() { bus.Add(warn.InputFieldsInfo, "") },
			}

			if c.where != nil {
				wv, err := eval.Eval(c.where, rowCtx)
				if err != nil {
					return bus, err
				}
				if !wv.Truthy() {
					continue
				}
			}

			nu++
			rowCtx.NU = nu

			starVals := starValues(rowCtx, jt)

			if c.aggregating {
				key, err := groupKey(c.groupBy, rowCtx)
				if err != nil {
					return bus, err
				}
				g := groups.get(key)
				if err := feed(g, c.selectItems, starVals, rowCtx); err != nil {
					return bus, err
				}
				continue
			}

			vals, err := projectRow(c, starVals, rowCtx)
			if err != nil {
				return bus, err
			}
			sortKey, err := evalOrderKey(c.orderBy, rowCtx)
			if err != nil {
				return bus, err
			}
			rows = append(rows, outRow{values: vals, sortKey: sortKey})
		}
	}

	if plan.Action == query.ActionUpdate {
		return bus, nil
	}

	if c.aggregating {
		for _, key := range groups.order {
			g := groups.rows[key]
			vals, err := finalize(g, c.selectItems, plan.ExceptSet)
			if err != nil {
				return bus, err
			}
			sortKey, err := evalOrderKey(c.orderBy, g.lastCtx)
			if err != nil {
				return bus, err
			}
			rows = append(rows, outRow{values: vals, sortKey: sortKey})
		}
	}

	rows = applyDistinct(rows, plan.Distinct, plan.DistinctCount)

	if len(c.orderBy) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := eval.Compare(rows[i].sortKey, rows[j].sortKey)
			if c.orderReverse {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if plan.Top >= 0 && plan.Top < len(rows) {
		rows = rows[:plan.Top]
	}

	rows = applyUnfold(rows, c.unfoldIdx)

	return bus, writeRows(rows, opts, bus, out)
}

// evalOrderKey evaluates every ORDER BY key against ctx, returning a single
// comparable Value: a plain scalar for one key, or a list Value compared
// element by element for `order by k1, k2, ...`.
func evalOrderKey(keys []eval.Node, ctx *eval.Context) (eval.Value, error) {
	if len(keys) == 0 {
		return eval.Value{}, nil
	}
	if len(keys) == 1 {
		return eval.Eval(keys[0], ctx)
	}
	vals := make([]eval.Value, len(keys))
	for i, k := range keys {
		v, err := eval.Eval(k, ctx)
		if err != nil {
			return eval.Value{}, err
		}
		vals[i] = v
	}
	return eval.List(vals), nil
}

// projectRow evaluates every non-star SELECT item into an output value, and
// splices star_fields for `*` items.
func projectRow(c *compiled, starVals []eval.Value, ctx *eval.Context) ([]eval.Value, error) {
	var out []eval.Value
	for _, item := range c.selectItems {
		if item.star {
			out = append(out, spliceStar(starVals, c.plan.ExceptSet)...)
			continue
		}
		if uf, ok := item.expr.(eval.Unfold); ok {
			v, err := eval.Eval(uf.Arg, ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		v, err := eval.Eval(item.expr, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func starValues(ctx *eval.Context, jt *join.Table) []eval.Value {
	out := make([]eval.Value, 0, len(ctx.A))
	for _, f := range ctx.A {
		out = append(out, eval.Str(f))
	}
	if jt == nil {
		return out
	}
	if ctx.BIsNull {
		for i := 0; i < jt.Width(); i++ {
			out = append(out, eval.Nil())
		}
		return out
	}
	for _, f := range ctx.B {
		out = append(out, eval.Str(f))
	}
	return out
}

type outRow struct {
	values  []eval.Value
	sortKey eval.Value
}

type pair struct {
	b       []string
	bIsNull bool
}

func joinPairs(jt *join.Table, mode join.Mode, c *compiled, fields []string) ([]pair, error) {
	if jt == nil {
		return []pair{{}}, nil
	}
	lctx := &eval.Context{A: fields, Globals: c.globals}
	kv, err := eval.Eval(c.joinLeftKey, lctx)
	if err != nil {
		return nil, err
	}
	matches, matched, err := join.Match(mode, kv.String(), jt)
	if err != nil {
		return nil, err
	}
	if !matched {
		if mode == join.Inner {
			return nil, nil
		}
		return []pair{{bIsNull: true}}, nil
	}
	out := make([]pair, len(matches))
	for i, m := range matches {
		out[i] = pair{b: []string(m)}
	}
	return out, nil
}
