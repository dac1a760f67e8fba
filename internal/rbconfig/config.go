// Package rbconfig loads the delimiter/policy/encoding defaults a query run
// falls back on when a CLI flag doesn't override them, the same precedence
// sqldef threads from its Options struct through to each adapter.
package rbconfig

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config holds every default a run can pick up from the YAML file or the
// environment before CLI flags take final precedence.
type Config struct {
	InputDelim          string `yaml:"input_delim"`
	InputPolicy         string `yaml:"input_policy"`
	OutputDelim         string `yaml:"output_delim"`
	OutputPolicy        string `yaml:"output_policy"`
	Encoding            string `yaml:"encoding"`
	RecentTablesPath    string `yaml:"recent_tables_path"`
	RecentTablesMaxSize int    `yaml:"recent_tables_max_size"`
}

// Defaults returns the compiled-in baseline, the lowest-precedence layer.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		InputDelim:          ",",
		InputPolicy:         "quoted",
		OutputDelim:         ",",
		OutputPolicy:        "quoted",
		Encoding:            "utf-8",
		RecentTablesPath:    filepath.Join(home, ".rbql", "recent_tables.tsv"),
		RecentTablesMaxSize: 10,
	}
}

// Load merges, in increasing precedence: compiled-in defaults, the YAML
// file at path (or $RBQL_CONFIG, or ~/.rbql/config.yml if path is empty and
// neither exists it's skipped, not an error), then environment variables.
// CLI flags are merged on top by the caller via Override.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("RBQL_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".rbql", "config.yml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("RBQL_INPUT_DELIM"); ok && v != "" {
		cfg.InputDelim = v
	}
	if v, ok := os.LookupEnv("RBQL_INPUT_POLICY"); ok && v != "" {
		cfg.InputPolicy = v
	}
	if v, ok := os.LookupEnv("RBQL_OUTPUT_DELIM"); ok && v != "" {
		cfg.OutputDelim = v
	}
	if v, ok := os.LookupEnv("RBQL_OUTPUT_POLICY"); ok && v != "" {
		cfg.OutputPolicy = v
	}
	if v, ok := os.LookupEnv("RBQL_ENCODING"); ok && v != "" {
		cfg.Encoding = v
	}
	if v, ok := os.LookupEnv("RBQL_RECENT_TABLES_PATH"); ok && v != "" {
		cfg.RecentTablesPath = v
	}
	if v, ok := os.LookupEnv("RBQL_RECENT_TABLES_MAX_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RecentTablesMaxSize = n
		}
	}
}

// Override merges any non-zero field of flags on top of cfg, the CLI
// layer's higher precedence over file/env defaults.
func Override(cfg Config, flags Config) Config {
	if flags.InputDelim != "" {
		cfg.InputDelim = flags.InputDelim
	}
	if flags.InputPolicy != "" {
		cfg.InputPolicy = flags.InputPolicy
	}
	if flags.OutputDelim != "" {
		cfg.OutputDelim = flags.OutputDelim
	}
	if flags.OutputPolicy != "" {
		cfg.OutputPolicy = flags.OutputPolicy
	}
	if flags.Encoding != "" {
		cfg.Encoding = flags.Encoding
	}
	if flags.RecentTablesPath != "" {
		cfg.RecentTablesPath = flags.RecentTablesPath
	}
	if flags.RecentTablesMaxSize != 0 {
		cfg.RecentTablesMaxSize = flags.RecentTablesMaxSize
	}
	return cfg
}
