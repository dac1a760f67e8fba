package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

// cliOptions is the flag struct go-flags populates, mirroring the way
// cmd/psqldef/psqldef.go keeps its option struct local to parseOptions.
type cliOptions struct {
	Delim          string `long:"delim" description:"Input field delimiter" default:","`
	Policy         string `long:"policy" description:"Input policy: simple, quoted, whitespace, monocolumn" default:"quoted"`
	Input          string `long:"input" description:"Input file path, or - for stdin" value-name:"PATH" default:"-"`
	Output         string `long:"output" description:"Output file path, or - for stdout" value-name:"PATH" default:"-"`
	Encoding       string `long:"encoding" description:"Input encoding" default:"utf-8"`
	Query          string `long:"query" description:"RBQL query string" required:"true"`
	OutDelim       string `long:"out-delim" description:"Output field delimiter, defaults to --delim"`
	OutPolicy      string `long:"out-policy" description:"Output policy, defaults to --policy"`
	OutFormat      string `long:"out-format" description:"Named output format shorthand (csv, tsv)"`
	ErrorFormat    string `long:"error-format" description:"Error/warning reporting format" choice:"text" choice:"json" default:"text"`
	InitSourceFile string `long:"init-source-file" description:"Path to a file of name=value bindings visible to every expression" value-name:"PATH"`
	Explain        bool   `long:"explain" description:"Print the compiled query plan and exit without running it"`
	Config         string `long:"config" description:"Path to a YAML config file, defaults to $RBQL_CONFIG or ~/.rbql/config.yml" value-name:"PATH"`
	RecentTables   string `long:"recent-tables" description:"Path to the recent-tables TSV sidecar" value-name:"PATH"`
	JoinTable      string `long:"join-table" description:"Path backing an unqualified JOIN table locator" value-name:"PATH"`
	Help           bool   `long:"help" description:"Show this help"`
}

func parseOptions(args []string) *cliOptions {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if opts.Help {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %v\n\n", rest)
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	switch opts.OutFormat {
	case "csv":
		opts.OutDelim, opts.OutPolicy = ",", "quoted"
	case "tsv":
		opts.OutDelim, opts.OutPolicy = "\t", "simple"
	}
	if opts.OutDelim == "" {
		opts.OutDelim = opts.Delim
	}
	if opts.OutPolicy == "" {
		opts.OutPolicy = opts.Policy
	}

	return &opts
}
