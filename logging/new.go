package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses "text" (or empty) and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %q", s)
	}
}

// Options configures New.
type Options struct {
	// CLISpec is the --log flag or READAHEAD_LOG; it wins over ConfigSpec.
	CLISpec string
	// ConfigSpec comes from the built-in defaults.
	ConfigSpec string
	// Verbose raises VerboseComponents to debug.
	Verbose bool
	Format  Format
	// Output defaults to os.Stderr; stdout carries the report.
	Output io.Writer
}

// New creates a logger with component-level filtering.
func New(opts Options) (*slog.Logger, error) {
	specStr := opts.ConfigSpec
	if opts.CLISpec != "" {
		specStr = opts.CLISpec
	}

	spec, err := ParseSpec(specStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log spec: %w", err)
	}
	if opts.Verbose {
		spec.Raise(LevelDebug, VerboseComponents...)
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	// The inner handler accepts everything; filtering happens above it.
	handlerOpts := &slog.HandlerOptions{Level: LevelTrace.ToSlog()}

	var inner slog.Handler
	switch opts.Format {
	case FormatJSON:
		inner = slog.NewJSONHandler(output, handlerOpts)
	default:
		inner = slog.NewTextHandler(output, handlerOpts)
	}

	return slog.New(NewFilteringHandler(inner, &spec)), nil
}
