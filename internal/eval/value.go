package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the dynamic type a Value currently holds.
type Kind int

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
)

// Value is the dynamic value produced by evaluating an expression.
// Missing-field references and expressions that legitimately produce "no
// value" use KindNil, which prints as the empty string on output.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	B    bool
	List []Value
}

func Nil() Value           { return Value{Kind: KindNil} }
func Int(i int64) Value    { return Value{Kind: KindInt, I: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, F: f} }
func Str(s string) Value   { return Value{Kind: KindString, S: s} }
func Bool(b bool) Value    { return Value{Kind: KindBool, B: b} }
func List(vs []Value) Value { return Value{Kind: KindList, List: vs} }

// IsNil reports whether v represents RBQL's "None"/nil.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// AsFloat64 coerces v to a float64, the spec's "coerce to numeric" rule for
// SUM/AVG/VARIANCE. A string that doesn't parse, or KindNil, yields ok=false.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	case KindBool:
		if v.B {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(v.S, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Truthy implements RBQL's WHERE truthiness: nil and "missing" are falsy,
// otherwise the usual zero-value-is-false rule applies.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.B
	case KindInt:
		return v.I != 0
	case KindFloat:
		return v.F != 0
	case KindString:
		return v.S != ""
	case KindList:
		return len(v.List) > 0
	default:
		return false
	}
}

// String renders v the way it's written to an output field: nil becomes
// empty string, numbers print without a host-language type suffix.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return ""
	case KindString:
		return v.S
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindFloat:
		return formatFloat(v.F)
	case KindBool:
		if v.B {
			return "True"
		}
		return "False"
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return fmt.Sprint(parts)
	default:
		return ""
	}
}

// formatFloat mimics Python's float repr: every float prints with at least
// one digit after the decimal point (3.0, not 3), matching the AVG/
// VARIANCE examples in the test oracle.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Compare implements the spec's "value-natural" ORDER BY comparator:
// numerics compare numerically, everything else falls back to lexicographic
// string comparison.
func Compare(a, b Value) int {
	if a.Kind == KindList || b.Kind == KindList {
		return compareLists(a, b)
	}
	af, aok := a.AsFloat64()
	bf, bok := b.AsFloat64()
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// compareLists implements tuple-style lexicographic comparison for multi-key
// ORDER BY: the first differing element decides, a shorter prefix sorts
// first when one is an ancestor of the other.
func compareLists(a, b Value) int {
	al, bl := a.List, b.List
	for i := 0; i < len(al) && i < len(bl); i++ {
		if cmp := Compare(al[i], bl[i]); cmp != 0 {
			return cmp
		}
	}
	switch {
	case len(al) < len(bl):
		return -1
	case len(al) > len(bl):
		return 1
	default:
		return 0
	}
}

func numericKind(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	default:
		return 0, false
	}
}

// Equal implements `==`/`!=`: numeric-aware, otherwise value equality.
func Equal(a, b Value) bool {
	af, aok := numericKind(a)
	bf, bok := numericKind(b)
	if aok && bok {
		return af == bf
	}
	if a.Kind != b.Kind {
		// Allow string/number equality by stringifying, matching a loosely
		// typed embedded-scripting-language dialect.
		return a.String() == b.String()
	}
	switch a.Kind {
	case KindString:
		return a.S == b.S
	case KindBool:
		return a.B == b.B
	case KindNil:
		return true
	default:
		return a.String() == b.String()
	}
}
