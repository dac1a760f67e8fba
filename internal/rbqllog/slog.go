package rbqllog

import (
	"log/slog"
	"os"
)

// InitSlog configures the default slog handler from the RBQL_LOG_LEVEL
// environment variable. Accepts anything slog.Level.UnmarshalText does
// ("debug", "WARN", "error+4", ...); unset or unparseable falls back to
// slog's own Info default rather than a hand-rolled table.
func InitSlog() {
	raw, ok := os.LookupEnv("RBQL_LOG_LEVEL")
	if !ok {
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
