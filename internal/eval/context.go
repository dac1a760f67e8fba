package eval

// Context is the per-record-pair evaluation environment: {a-fields,
// b-fields, NR, NF, NU, star_fields} from spec §4.3, plus bound lambda
// locals used only while evaluating a FOLD lambda.
type Context struct {
	A  []string
	B  []string
	NR int
	NU int

	// BIsNull is set for an unmatched LEFT JOIN row: B is conceptually
	// absent rather than short, so bN references evaluate to None instead
	// of the usual missing-field empty string.
	BIsNull bool

	// Globals holds the optional init-source snippet's top-level bindings,
	// visible to every expression alongside NR/NF/NU and column refs.
	Globals map[string]Value

	// MissingField is invoked whenever a positional reference falls past
	// the end of its record; it exists so the executor can raise
	// input_fields_info exactly once per occurrence.
	MissingField func()

	locals map[string]Value
}

// NF is the primary record's field count.
func (c *Context) NF() int { return len(c.A) }

// WithLocal returns a copy of c with name bound to v, used to evaluate a
// FOLD lambda's body once against the whole collected list.
func (c *Context) WithLocal(name string, v Value) *Context {
	next := *c
	next.locals = map[string]Value{name: v}
	return &next
}

func (c *Context) lookupLocal(name string) (Value, bool) {
	if c.locals == nil {
		return Value{}, false
	}
	v, ok := c.locals[name]
	return v, ok
}
