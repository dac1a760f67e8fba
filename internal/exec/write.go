package exec

import (
	"bufio"
	"io"

	"github.com/rbql-go/rbql/internal/record"
	"github.com/rbql-go/rbql/internal/warn"
)

func writeRows(rows []outRow, opts Options, bus *warn.Bus, out io.Writer) error {
	w := bufio.NewWriterSize(out, 64*1024)
	fields := make([]string, 0, 8)
	for _, r := range rows {
		fields = fields[:0]
		for _, v := range r.values {
			if v.IsNil() {
				bus.Add(warn.NullValueInOutput, "")
				fields = append(fields, "")
				continue
			}
			fields = append(fields, v.String())
		}
		line := record.Join(fields, opts.OutputPolicy, opts.OutputDelim, bus)
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
