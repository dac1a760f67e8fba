// Package rbql is the top-level entry point: it parses a query, compiles
// it, and drives the executor over an input/output stream pair — the
// repository's analogue of sqldef's top-level sqldef.Run(mode, db, options).
package rbql

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/rbql-go/rbql/internal/eval"
	"github.com/rbql-go/rbql/internal/exec"
	"github.com/rbql-go/rbql/internal/query"
	"github.com/rbql-go/rbql/internal/recenttables"
	"github.com/rbql-go/rbql/internal/record"
	"github.com/rbql-go/rbql/internal/warn"
)

// Options configures one query run. Fields left at their zero value fall
// back to rbconfig.Defaults() values when driven through the CLI; library
// callers must set the ones they care about explicitly.
type Options struct {
	InputDelim   string
	InputPolicy  string
	OutputDelim  string
	OutputPolicy string
	Encoding     string

	// JoinSource, if non-nil, supplies the right-side table for a JOIN
	// clause directly. If nil and the query has a JOIN, JoinTableOpen is
	// used to resolve Join.Table (a path or a recent-tables lookup key).
	JoinSource    io.Reader
	RecentTables  *recenttables.Index
	JoinTableOpen func(locator string) (io.ReadCloser, error)

	// InitSource, if set, is evaluated once before the query runs and its
	// top-level name=value assignments become additional identifiers
	// visible to every expression (the single optional host-init hook).
	InitSource string
}

// Run parses queryText, compiles it, and executes it against in, writing
// delimited output to out. The returned bus enumerates every recoverable
// anomaly observed (missing fields, null-to-empty coercions, BOM strips,
// defective CSV lines); a non-nil error means the run didn't complete.
func Run(ctx context.Context, queryText string, in io.Reader, out io.Writer, opts Options) (*warn.Bus, error) {
	plan, err := query.Parse(queryText)
	if err != nil {
		return warn.New(), err
	}

	globals, err := parseInitSource(opts.InitSource)
	if err != nil {
		return warn.New(), err
	}

	inPolicy, ok := record.ParsePolicy(opts.InputPolicy)
	if !ok {
		return warn.New(), fmt.Errorf("unknown input policy %q", opts.InputPolicy)
	}
	outPolicy, ok := record.ParsePolicy(opts.OutputPolicy)
	if !ok {
		return warn.New(), fmt.Errorf("unknown output policy %q", opts.OutputPolicy)
	}

	decodedIn, err := decode(in, opts.Encoding)
	if err != nil {
		return warn.New(), err
	}

	execOpts := exec.Options{
		InputDelim:   opts.InputDelim,
		InputPolicy:  inPolicy,
		OutputDelim:  opts.OutputDelim,
		OutputPolicy: outPolicy,
		Globals:      globals,
	}

	if plan.Join != nil {
		src, closer, err := resolveJoinSource(opts, plan.Join.Table)
		if err != nil {
			return warn.New(), err
		}
		if closer != nil {
			defer closer.Close()
		}
		decodedJoin, err := decode(src, opts.Encoding)
		if err != nil {
			return warn.New(), err
		}
		execOpts.JoinSource = decodedJoin
	}

	return exec.Run(ctx, plan, decodedIn, out, execOpts)
}

// resolveJoinSource decides what bytes back a JOIN clause's table token:
// an explicitly injected reader, a recent-tables lookup, or a direct path.
func resolveJoinSource(opts Options, locator string) (io.Reader, io.Closer, error) {
	if opts.JoinSource != nil {
		return opts.JoinSource, nil, nil
	}

	path := locator
	if opts.RecentTables != nil {
		if entry, ok := opts.RecentTables.Resolve(locator); ok {
			path = entry.Path
		}
	}

	if opts.JoinTableOpen != nil {
		rc, err := opts.JoinTableOpen(path)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open join table %q: %w", locator, err)
	}
	if opts.RecentTables != nil {
		_ = opts.RecentTables.Touch(recenttables.Entry{Path: path, Delim: opts.InputDelim, Policy: opts.InputPolicy, Encoding: opts.Encoding})
	}
	return f, f, nil
}

// decode wraps r in a transform reader for any non-UTF-8 encoding name
// resolvable via IANA's registry; "utf-8"/"" pass through unchanged.
func decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" || isUTF8(name) {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return encodingReader(r, enc), nil
}

func isUTF8(name string) bool {
	switch name {
	case "utf-8", "UTF-8", "utf8", "UTF8":
		return true
	default:
		return false
	}
}

func encodingReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return enc.NewDecoder().Reader(r)
}

// parseInitSource evaluates the optional init snippet's "name = expr" lines
// in order, each seeing the bindings established by the ones before it, and
// returns the resulting identifier table.
func parseInitSource(src string) (map[string]eval.Value, error) {
	if src == "" {
		return nil, nil
	}
	globals := make(map[string]eval.Value)
	ctx := &eval.Context{Globals: globals}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid init-source line: %q", line)
		}
		name := strings.TrimSpace(parts[0])
		node, err := eval.Compile(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid init-source expression for %q: %w", name, err)
		}
		v, err := eval.Eval(node, ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot evaluate init-source expression for %q: %w", name, err)
		}
		globals[name] = v
	}
	return globals, nil
}
