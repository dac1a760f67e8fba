package eval

import "sort"

// Accumulator is the per-group running state for one aggregate call site.
type Accumulator interface {
	// Feed consumes one row's evaluated argument. For COUNT(*) the caller
	// feeds a non-nil sentinel instead of evaluating an argument.
	Feed(v Value)
	Result() Value
}

// NewAccumulator returns the accumulator for an aggregate function name
// (already upper-cased, as produced by the parser).
func NewAccumulator(fn string) Accumulator {
	switch fn {
	case "MIN":
		return &minMaxAcc{wantMax: false}
	case "MAX":
		return &minMaxAcc{wantMax: true}
	case "COUNT":
		return &countAcc{}
	case "SUM":
		return &sumAcc{}
	case "AVG":
		return &avgAcc{}
	case "VARIANCE":
		return &varianceAcc{}
	case "MEDIAN":
		return &medianAcc{}
	default:
		return &countAcc{}
	}
}

type minMaxAcc struct {
	wantMax bool
	has     bool
	best    Value
}

func (a *minMaxAcc) Feed(v Value) {
	if v.IsNil() {
		return
	}
	if !a.has {
		a.best = v
		a.has = true
		return
	}
	c := Compare(v, a.best)
	if (a.wantMax && c > 0) || (!a.wantMax && c < 0) {
		a.best = v
	}
}

func (a *minMaxAcc) Result() Value {
	if !a.has {
		return Nil()
	}
	return a.best
}

// countAcc counts rows: for COUNT(*)/COUNT(1) every Feed call counts; for
// COUNT(expr) only non-nil evaluations count. The caller decides which
// behavior applies by always passing a non-nil sentinel for the star form.
type countAcc struct {
	n int64
}

func (a *countAcc) Feed(v Value) {
	if !v.IsNil() {
		a.n++
	}
}
func (a *countAcc) Result() Value { return Int(a.n) }

type sumAcc struct {
	sum float64
}

func (a *sumAcc) Feed(v Value) {
	if f, ok := v.AsFloat64(); ok {
		a.sum += f
	}
}
func (a *sumAcc) Result() Value { return Float(a.sum) }

type avgAcc struct {
	sum float64
	n   int
}

func (a *avgAcc) Feed(v Value) {
	if f, ok := v.AsFloat64(); ok {
		a.sum += f
		a.n++
	}
}
func (a *avgAcc) Result() Value {
	if a.n == 0 {
		return Nil()
	}
	return Float(a.sum / float64(a.n))
}

type varianceAcc struct {
	vals []float64
}

func (a *varianceAcc) Feed(v Value) {
	if f, ok := v.AsFloat64(); ok {
		a.vals = append(a.vals, f)
	}
}
func (a *varianceAcc) Result() Value {
	if len(a.vals) == 0 {
		return Nil()
	}
	mean := 0.0
	for _, f := range a.vals {
		mean += f
	}
	mean /= float64(len(a.vals))
	var acc float64
	for _, f := range a.vals {
		d := f - mean
		acc += d * d
	}
	return Float(acc / float64(len(a.vals)))
}

// medianAcc preserves each fed value's original type (so a median over
// integer-looking strings prints as a plain integer, not "2.0"); only the
// sort key is coerced to a float.
type medianAcc struct {
	vals []Value
}

func (a *medianAcc) Feed(v Value) {
	if _, ok := v.AsFloat64(); ok {
		a.vals = append(a.vals, v)
	}
}
func (a *medianAcc) Result() Value {
	if len(a.vals) == 0 {
		return Nil()
	}
	sorted := append([]Value(nil), a.vals...)
	sort.SliceStable(sorted, func(i, j int) bool { return Compare(sorted[i], sorted[j]) < 0 })
	lowerMid := (len(sorted) - 1) / 2
	return sorted[lowerMid]
}
