package eval

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

func evalArgs(args []Node, ctx *Context) ([]Value, error) {
	out := make([]Value, len(args))
	for i, a := range args {
		v, err := Eval(a, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalMember(m Member, ctx *Context) (Value, error) {
	if id, ok := m.X.(Ident); ok {
		switch id.Name {
		case "Math":
			return evalMathCall(m.Name, m.Args, ctx)
		case "re":
			return evalReCall(m.Name, m.Args, ctx)
		}
	}

	x, err := Eval(m.X, ctx)
	if err != nil {
		return Value{}, err
	}
	switch m.Name {
	case "length":
		return lengthOf(x)
	case "split":
		args, err := evalArgs(m.Args, ctx)
		if err != nil {
			return Value{}, err
		}
		sep := ","
		if len(args) > 0 {
			sep = args[0].String()
		}
		parts := strings.Split(x.String(), sep)
		vals := make([]Value, len(parts))
		for i, p := range parts {
			vals[i] = Str(p)
		}
		return List(vals), nil
	case "upper":
		return Str(strings.ToUpper(x.String())), nil
	case "lower":
		return Str(strings.ToLower(x.String())), nil
	case "strip":
		return Str(strings.TrimSpace(x.String())), nil
	default:
		return Value{}, runtimeErrorf("unknown member %q", m.Name)
	}
}

func lengthOf(x Value) (Value, error) {
	switch x.Kind {
	case KindList:
		return Int(int64(len(x.List))), nil
	case KindString:
		return Int(int64(len([]rune(x.S)))), nil
	default:
		return Int(int64(len(x.String()))), nil
	}
}

func evalMathCall(name string, args []Node, ctx *Context) (Value, error) {
	vals, err := evalArgs(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 0 {
		return Value{}, runtimeErrorf("Math.%s requires an argument", name)
	}
	f, ok := vals[0].AsFloat64()
	if !ok {
		return Value{}, runtimeErrorf("Math.%s: non-numeric argument", name)
	}
	switch name {
	case "floor":
		return Int(int64(math.Floor(f))), nil
	case "ceil":
		return Int(int64(math.Ceil(f))), nil
	case "sqrt":
		return Float(math.Sqrt(f)), nil
	case "abs":
		return Float(math.Abs(f)), nil
	case "round":
		return Int(int64(math.Round(f))), nil
	default:
		return Value{}, runtimeErrorf("unknown Math function %q", name)
	}
}

func evalReCall(name string, args []Node, ctx *Context) (Value, error) {
	if name != "search" && name != "match" && name != "sub" {
		return Value{}, runtimeErrorf("unknown re function %q", name)
	}
	vals, err := evalArgs(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) < 2 {
		return Value{}, runtimeErrorf("re.%s requires a pattern and a subject", name)
	}
	re, err := regexp.Compile(vals[0].String())
	if err != nil {
		return Value{}, runtimeErrorf("invalid regular expression %q: %v", vals[0].String(), err)
	}
	switch name {
	case "search", "match":
		loc := re.FindStringIndex(vals[1].String())
		return Bool(loc != nil), nil
	case "sub":
		if len(vals) < 3 {
			return Value{}, runtimeErrorf("re.sub requires pattern, replacement, subject")
		}
		return Str(re.ReplaceAllString(vals[2].String(), vals[1].String())), nil
	}
	return Value{}, runtimeErrorf("unreachable")
}

func evalCall(c Call, ctx *Context) (Value, error) {
	vals, err := evalArgs(c.Args, ctx)
	if err != nil {
		return Value{}, err
	}
	switch strings.ToLower(c.Name) {
	case "int":
		if len(vals) != 1 {
			return Value{}, runtimeErrorf("int() takes exactly one argument")
		}
		return intOf(vals[0])
	case "float":
		if len(vals) != 1 {
			return Value{}, runtimeErrorf("float() takes exactly one argument")
		}
		return floatOf(vals[0])
	case "str":
		if len(vals) != 1 {
			return Value{}, runtimeErrorf("str() takes exactly one argument")
		}
		return Str(vals[0].String()), nil
	case "len":
		if len(vals) != 1 {
			return Value{}, runtimeErrorf("len() takes exactly one argument")
		}
		return lengthOf(vals[0])
	case "parseint":
		if len(vals) != 1 {
			return Value{}, runtimeErrorf("parseInt() takes exactly one argument")
		}
		return parseIntLoose(vals[0]), nil
	default:
		return Value{}, runtimeErrorf("unknown function %q", c.Name)
	}
}

func intOf(v Value) (Value, error) {
	switch v.Kind {
	case KindInt:
		return v, nil
	case KindFloat:
		return Int(int64(v.F)), nil
	case KindBool:
		if v.B {
			return Int(1), nil
		}
		return Int(0), nil
	case KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.S), 10, 64)
		if err != nil {
			return Value{}, runtimeErrorf("int(): invalid literal %q", v.S)
		}
		return Int(i), nil
	default:
		return Value{}, runtimeErrorf("int(): cannot convert value")
	}
}

func floatOf(v Value) (Value, error) {
	f, ok := v.AsFloat64()
	if !ok {
		return Value{}, runtimeErrorf("float(): invalid literal %q", v.String())
	}
	return Float(f), nil
}

// parseIntLoose mimics JS-flavored parseInt: it reads a leading integer
// prefix and never errors, returning Nil when nothing parses.
func parseIntLoose(v Value) Value {
	s := strings.TrimSpace(v.String())
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return Nil()
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return Nil()
	}
	return Int(n)
}
