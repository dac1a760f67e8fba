package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/uuid"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	rbql "github.com/rbql-go/rbql"
	"github.com/rbql-go/rbql/internal/query"
	"github.com/rbql-go/rbql/internal/rbconfig"
	"github.com/rbql-go/rbql/internal/rbqllog"
	"github.com/rbql-go/rbql/internal/recenttables"
	"github.com/rbql-go/rbql/internal/warn"
)

// errorReport is the stderr JSON document shape from the original spec's
// --error-format json contract.
type errorReport struct {
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func main() {
	rbqllog.InitSlog()
	opts := parseOptions(os.Args[1:])
	os.Exit(run(opts))
}

func run(opts *cliOptions) int {
	logger := rbqllog.Logger(rbqllog.StdoutLogger{})
	if opts.Output == "-" {
		// The primary output stream already owns stdout; don't interleave it.
		logger = rbqllog.NullLogger{}
	}

	cfg, err := rbconfig.Load(opts.Config)
	if err != nil {
		return fail(opts, fmt.Sprintf("cannot load config: %s", err), nil)
	}
	cfg = rbconfig.Override(cfg, rbconfig.Config{
		InputDelim: opts.Delim, InputPolicy: opts.Policy,
		OutputDelim: opts.OutDelim, OutputPolicy: opts.OutPolicy,
		Encoding: opts.Encoding,
	})
	if opts.RecentTables != "" {
		cfg.RecentTablesPath = opts.RecentTables
	}
	slog.Debug("resolved config", "input_delim", cfg.InputDelim, "input_policy", cfg.InputPolicy)

	if opts.Explain {
		plan, err := query.Parse(opts.Query)
		if err != nil {
			return fail(opts, err.Error(), nil)
		}
		logger.Println("compiled plan:")
		pp.Println(plan)
		return 0
	}

	in, closeIn, err := openInput(opts.Input)
	if err != nil {
		return fail(opts, err.Error(), nil)
	}
	defer closeIn()

	if opts.Input == "-" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Reading query input from an interactive terminal; pipe data in or pass --input.")
	}

	initSource := ""
	if opts.InitSourceFile != "" {
		data, err := os.ReadFile(opts.InitSourceFile)
		if err != nil {
			return fail(opts, fmt.Sprintf("cannot read init-source file: %s", err), nil)
		}
		initSource = string(data)
	}

	idx, err := recenttables.Open(cfg.RecentTablesPath, cfg.RecentTablesMaxSize)
	if err != nil {
		return fail(opts, fmt.Sprintf("cannot open recent-tables index: %s", err), nil)
	}

	runOpts := rbql.Options{
		InputDelim:   cfg.InputDelim,
		InputPolicy:  cfg.InputPolicy,
		OutputDelim:  cfg.OutputDelim,
		OutputPolicy: cfg.OutputPolicy,
		Encoding:     cfg.Encoding,
		RecentTables: idx,
		InitSource:   initSource,
	}
	if opts.JoinTable != "" {
		runOpts.JoinTableOpen = func(string) (io.ReadCloser, error) {
			return os.Open(opts.JoinTable)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outPath := opts.Output
	var out *os.File
	var tmpPath string
	if outPath == "-" {
		out = os.Stdout
	} else {
		tmpPath, err = tempOutputPath(outPath)
		if err != nil {
			return fail(opts, err.Error(), nil)
		}
		out, err = os.Create(tmpPath)
		if err != nil {
			return fail(opts, err.Error(), nil)
		}
	}

	bus, runErr := rbql.Run(ctx, opts.Query, in, out, runOpts)

	if outPath != "-" {
		out.Close()
		if runErr != nil {
			os.Remove(tmpPath)
		} else if err := os.Rename(tmpPath, outPath); err != nil {
			return fail(opts, fmt.Sprintf("cannot commit output: %s", err), bus)
		}
	}

	if runErr != nil {
		return fail(opts, runErr.Error(), bus)
	}
	slog.Debug("run complete", "warnings", len(warningKinds(bus)))
	return succeed(opts, bus)
}

func openInput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

// tempOutputPath names a staging file in the destination directory with a
// gofrs/uuid suffix, so a crash mid-write never clobbers outPath directly.
func tempOutputPath(outPath string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(outPath)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(outPath), id.String())), nil
}

func fail(opts *cliOptions, message string, bus *warn.Bus) int {
	if opts.ErrorFormat == "json" {
		report := errorReport{Error: message, Warnings: warningKinds(bus)}
		data, _ := json.Marshal(report)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintln(os.Stderr, message)
	}
	return 1
}

func succeed(opts *cliOptions, bus *warn.Bus) int {
	kinds := warningKinds(bus)
	if len(kinds) == 0 {
		return 0
	}
	if opts.ErrorFormat == "json" {
		data, _ := json.Marshal(errorReport{Warnings: kinds})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Warnings: %v\n", kinds)
	}
	return 0
}

func warningKinds(bus *warn.Bus) []string {
	if bus == nil || bus.Empty() {
		return nil
	}
	return bus.Kinds()
}
