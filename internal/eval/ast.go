package eval

// Node is one node of a compiled expression.
type Node interface {
	node()
}

type NumberLit struct {
	IsFloat bool
	IVal    int64
	FVal    float64
}

type StringLit struct{ Val string }

type Ident struct{ Name string }

type Unary struct {
	Op string
	X  Node
}

type Binary struct {
	Op   string
	L, R Node
}

type Logical struct {
	Op   string // "and" / "or"
	L, R Node
}

type Conditional struct {
	Cond, Then, Else Node
}

// Member is `.length` (Args == nil) or `.split(sep)` (a method call).
type Member struct {
	X    Node
	Name string
	Args []Node
}

// Index is `x[i]`.
type Index struct {
	X, I Node
}

// Call is a free function call: int(...), float(...), str(...), len(...),
// or parseInt(...). Math.floor(...), re.search(...) and the like parse as
// Member nodes on the Math / re identifiers; there is no regex literal.
type Call struct {
	Name string
	Args []Node
}

// Aggregate is MIN/MAX/COUNT/SUM/AVG/VARIANCE/MEDIAN applied within a
// grouped query.
type Aggregate struct {
	Func string
	Arg  Node // nil for COUNT(*)
}

// Fold concatenates the per-group values of Arg with "|", optionally
// post-processing the collected list with Lambda first.
type Fold struct {
	Arg    Node
	Lambda Node
}

// Unfold marks a SELECT item whose list value should be cross-producted
// into one output row per element.
type Unfold struct {
	Arg Node
}

// Lambda is `lambda v: expr`, used only as FOLD's optional second argument.
type Lambda struct {
	Param string
	Body  Node
}

func (NumberLit) node()   {}
func (StringLit) node()   {}
func (Ident) node()       {}
func (Unary) node()       {}
func (Binary) node()      {}
func (Logical) node()     {}
func (Conditional) node() {}
func (Member) node()      {}
func (Index) node()       {}
func (Call) node()        {}
func (Aggregate) node()   {}
func (Fold) node()        {}
func (Unfold) node()      {}
func (Lambda) node()      {}

var aggregateFuncs = map[string]bool{
	"MIN": true, "MAX": true, "COUNT": true, "SUM": true,
	"AVG": true, "VARIANCE": true, "MEDIAN": true,
}

// IsAggregateExpr reports whether the raw (uncompiled) expression text
// contains an aggregate function call or FOLD at any depth, which makes the owning
// SELECT an aggregating query even with no explicit GROUP BY (spec §4.3).
func IsAggregateExpr(raw string) bool {
	n, err := Compile(raw)
	if err != nil {
		return false
	}
	return containsAggregate(n)
}

func containsAggregate(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case Aggregate:
		return true
	case Fold:
		return true
	case Unary:
		return containsAggregate(v.X)
	case Binary:
		return containsAggregate(v.L) || containsAggregate(v.R)
	case Logical:
		return containsAggregate(v.L) || containsAggregate(v.R)
	case Conditional:
		return containsAggregate(v.Cond) || containsAggregate(v.Then) || containsAggregate(v.Else)
	case Member:
		if containsAggregate(v.X) {
			return true
		}
		for _, a := range v.Args {
			if containsAggregate(a) {
				return true
			}
		}
		return false
	case Index:
		return containsAggregate(v.X) || containsAggregate(v.I)
	case Call:
		for _, a := range v.Args {
			if containsAggregate(a) {
				return true
			}
		}
		return false
	case Unfold:
		return containsAggregate(v.Arg)
	default:
		return false
	}
}
