package eval

import (
	"regexp"
	"strconv"
)

var colRefRe = regexp.MustCompile(`^([ab])(\d+)$`)

// Eval evaluates a compiled expression against ctx. Aggregate, Fold, and
// Unfold nodes are handled by the executor at the SELECT-item level, not
// generically here, since they need cross-row group state; reaching one
// inside a nested expression is a compile-time scoping mistake.
func Eval(n Node, ctx *Context) (Value, error) {
	switch v := n.(type) {
	case NumberLit:
		if v.IsFloat {
			return Float(v.FVal), nil
		}
		return Int(v.IVal), nil
	case StringLit:
		return Str(v.Val), nil
	case Ident:
		return evalIdent(v, ctx)
	case Unary:
		return evalUnary(v, ctx)
	case Binary:
		return evalBinary(v, ctx)
	case Logical:
		return evalLogical(v, ctx)
	case Conditional:
		c, err := Eval(v.Cond, ctx)
		if err != nil {
			return Value{}, err
		}
		if c.Truthy() {
			return Eval(v.Then, ctx)
		}
		return Eval(v.Else, ctx)
	case Member:
		return evalMember(v, ctx)
	case Index:
		return evalIndex(v, ctx)
	case Call:
		return evalCall(v, ctx)
	case Aggregate, Fold, Unfold:
		return Value{}, runtimeErrorf("aggregate/FOLD/UNFOLD expressions are only allowed as a top-level SELECT item")
	default:
		return Value{}, runtimeErrorf("unhandled expression node %T", n)
	}
}

func evalIdent(v Ident, ctx *Context) (Value, error) {
	if local, ok := ctx.lookupLocal(v.Name); ok {
		return local, nil
	}
	switch v.Name {
	case "NR":
		return Int(int64(ctx.NR)), nil
	case "NF":
		return Int(int64(ctx.NF())), nil
	case "NU":
		return Int(int64(ctx.NU)), nil
	case "None":
		return Nil(), nil
	case "True":
		return Bool(true), nil
	case "False":
		return Bool(false), nil
	}
	if g, ok := ctx.Globals[v.Name]; ok {
		return g, nil
	}
	if m := colRefRe.FindStringSubmatch(v.Name); m != nil {
		if m[1] == "b" && ctx.BIsNull {
			return Nil(), nil
		}
		idx, _ := strconv.Atoi(m[2])
		side := ctx.A
		if m[1] == "b" {
			side = ctx.B
		}
		if idx < 1 || idx > len(side) {
			if ctx.MissingField != nil {
				ctx.MissingField()
			}
			return Str(""), nil
		}
		return Str(side[idx-1]), nil
	}
	return Value{}, runtimeErrorf("undefined identifier %q", v.Name)
}

func evalUnary(v Unary, ctx *Context) (Value, error) {
	x, err := Eval(v.X, ctx)
	if err != nil {
		return Value{}, err
	}
	switch v.Op {
	case "-":
		f, ok := x.AsFloat64()
		if !ok {
			return Value{}, runtimeErrorf("cannot negate non-numeric value %q", x.String())
		}
		if x.Kind == KindInt {
			return Int(-x.I), nil
		}
		return Float(-f), nil
	case "not":
		return Bool(!x.Truthy()), nil
	default:
		return Value{}, runtimeErrorf("unknown unary operator %q", v.Op)
	}
}

func evalLogical(v Logical, ctx *Context) (Value, error) {
	l, err := Eval(v.L, ctx)
	if err != nil {
		return Value{}, err
	}
	switch v.Op {
	case "and":
		if !l.Truthy() {
			return l, nil
		}
		return Eval(v.R, ctx)
	case "or":
		if l.Truthy() {
			return l, nil
		}
		return Eval(v.R, ctx)
	default:
		return Value{}, runtimeErrorf("unknown logical operator %q", v.Op)
	}
}

func evalBinary(v Binary, ctx *Context) (Value, error) {
	l, err := Eval(v.L, ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(v.R, ctx)
	if err != nil {
		return Value{}, err
	}

	switch v.Op {
	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil
	case "===":
		return Bool(l.Kind == r.Kind && Equal(l, r)), nil
	case "!==":
		return Bool(!(l.Kind == r.Kind && Equal(l, r))), nil
	case "<":
		return Bool(Compare(l, r) < 0), nil
	case "<=":
		return Bool(Compare(l, r) <= 0), nil
	case ">":
		return Bool(Compare(l, r) > 0), nil
	case ">=":
		return Bool(Compare(l, r) >= 0), nil
	case "+":
		if l.Kind == KindString || r.Kind == KindString {
			if l.Kind == KindString && r.Kind == KindString {
				return Str(l.S + r.S), nil
			}
			lf, lok := l.AsFloat64()
			rf, rok := r.AsFloat64()
			if !lok || !rok {
				return Str(l.String() + r.String()), nil
			}
			return Float(lf + rf), nil
		}
		return arith(l, r, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case "-":
		return arith(l, r, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case "*":
		return arith(l, r, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case "/":
		lf, lok := l.AsFloat64()
		rf, rok := r.AsFloat64()
		if !lok || !rok {
			return Value{}, runtimeErrorf("non-numeric operand in division")
		}
		if rf == 0 {
			return Value{}, runtimeErrorf("division by zero")
		}
		return Float(lf / rf), nil
	case "%":
		li, lok := asInt(l)
		ri, rok := asInt(r)
		if !lok || !rok {
			return Value{}, runtimeErrorf("non-integer operand in modulo")
		}
		if ri == 0 {
			return Value{}, runtimeErrorf("modulo by zero")
		}
		return Int(li % ri), nil
	default:
		return Value{}, runtimeErrorf("unknown binary operator %q", v.Op)
	}
}

func arith(l, r Value, iop func(a, b int64) int64, fop func(a, b float64) float64) (Value, error) {
	if l.Kind == KindInt && r.Kind == KindInt {
		return Int(iop(l.I, r.I)), nil
	}
	lf, lok := l.AsFloat64()
	rf, rok := r.AsFloat64()
	if !lok || !rok {
		return Value{}, runtimeErrorf("non-numeric operand in arithmetic expression")
	}
	return Float(fop(lf, rf)), nil
}

func asInt(v Value) (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.I, true
	case KindFloat:
		return int64(v.F), true
	case KindString:
		i, err := strconv.ParseInt(v.S, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func evalIndex(v Index, ctx *Context) (Value, error) {
	x, err := Eval(v.X, ctx)
	if err != nil {
		return Value{}, err
	}
	i, err := Eval(v.I, ctx)
	if err != nil {
		return Value{}, err
	}
	idx, ok := asInt(i)
	if !ok {
		return Value{}, runtimeErrorf("non-integer index")
	}
	switch x.Kind {
	case KindList:
		if idx < 0 || int(idx) >= len(x.List) {
			return Value{}, runtimeErrorf("list index out of range")
		}
		return x.List[idx], nil
	case KindString:
		r := []rune(x.S)
		if idx < 0 || int(idx) >= len(r) {
			return Value{}, runtimeErrorf("string index out of range")
		}
		return Str(string(r[idx])), nil
	default:
		return Value{}, runtimeErrorf("cannot index value of this type")
	}
}
