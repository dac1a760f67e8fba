package exec

import (
	"io"

	"github.com/rbql-go/rbql/internal/eval"
	"github.com/rbql-go/rbql/internal/record"
	"github.com/rbql-go/rbql/internal/warn"
)

// runUpdateRow applies an UPDATE's assignments to one primary record and
// writes it immediately: UPDATE streams every input row through unchanged
// except where WHERE matches, it never reorders, dedupes, or drops rows.
// nu is the caller's running output-row counter, shared across calls and
// advanced only for rows WHERE selects, per NU's one-based definition.
func runUpdateRow(c *compiled, fields []string, nr int, nu *int, bus *warn.Bus, opts Options, out io.Writer) error {
	ctx := &eval.Context{
		A: fields, NR: nr, NU: *nu,
		Globals:      opts.Globals,
		MissingField: func() { bus.Add(warn.InputFieldsInfo, "") },
	}

	match := true
	if c.where != nil {
		wv, err := eval.Eval(c.where, ctx)
		if err != nil {
			return err
		}
		match = wv.Truthy()
	}

	result := fields
	if match {
		*nu = *nu + 1
		ctx.NU = *nu
		width := len(fields)
		for _, a := range c.assignments {
			if a.index > width {
				width = a.index
			}
		}
		padded := make([]string, width)
		copy(padded, fields)
		for _, a := range c.assignments {
			v, err := eval.Eval(a.expr, ctx)
			if err != nil {
				return err
			}
			if v.IsNil() {
				bus.Add(warn.NullValueInOutput, "")
				padded[a.index-1] = ""
				continue
			}
			padded[a.index-1] = v.String()
		}
		result = padded
	}

	line := record.Join(result, opts.OutputPolicy, opts.OutputDelim, bus)
	_, err := out.Write([]byte(line + "\n"))
	return err
}
