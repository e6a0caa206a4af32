// Package cli defines the readahead command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/alecthomas/kong"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/config"
	"github.com/frobware/go-readahead/interpreter/ebpf"
	"github.com/frobware/go-readahead/kernel"
	"github.com/frobware/go-readahead/logging"
	"github.com/frobware/go-readahead/manager"
)

// Version is printed by --version.
const Version = "readahead 0.1"

// CLI is the root command structure for readahead.
type CLI struct {
	Duration DurationSeconds `name:"duration" short:"d" help:"Total duration of trace in seconds (default: until Ctrl-C)." placeholder:"SECONDS"`
	Verbose  bool            `name:"verbose" short:"v" help:"Verbose debug output, including BPF verifier logs."`
	Object   string          `name:"object" help:"Compiled BPF object." default:"${default_object}" env:"READAHEAD_OBJECT" type:"path"`
	Symbols  string          `name:"symbols" help:"Kernel symbol source (${enum})." enum:"kallsyms,btf" default:"${default_symbols}" env:"READAHEAD_SYMBOLS"`
	Log      string          `name:"log" help:"Log spec (e.g., 'warn,attach=debug')." env:"READAHEAD_LOG"`

	Version kong.VersionFlag `name:"version" help:"Print version and exit."`

	// Stdout receives the banner and report; nil means os.Stdout.
	Stdout io.Writer `kong:"-"`
	// Defaults supplies values flags do not cover.
	Defaults config.Config `kong:"-"`
}

// KongOptions returns the Kong configuration options for the CLI.
func KongOptions(defaults config.Config) []kong.Option {
	return []kong.Option{
		kong.Name("readahead"),
		kong.Description("Show fs automatic read-ahead usage."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.TypeMapper(reflect.TypeOf(DurationSeconds(0)), durationSecondsMapper()),
		kong.Vars{
			"version":         Version,
			"default_object":  defaults.BPF.Object,
			"default_symbols": defaults.Symbols.Source,
		},
	}
}

// TraceConfig returns the run configuration the flags describe.
func (c *CLI) TraceConfig() readahead.TraceConfig {
	return readahead.TraceConfig{
		Duration: time.Duration(c.Duration),
		Verbose:  c.Verbose,
	}
}

// Logger creates the logger for a run. Diagnostics go to stderr so
// stdout carries only the report.
func (c *CLI) Logger(cfg config.Config) (*slog.Logger, error) {
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		CLISpec:    c.Log,
		ConfigSpec: cfg.Logging.ToSpec(),
		Verbose:    c.Verbose,
		Format:     format,
		Output:     os.Stderr,
	})
}

// Run traces read-ahead until the duration elapses or ctx is
// cancelled, then prints the report.
func (c *CLI) Run(ctx context.Context) error {
	cfg := c.Defaults
	if cfg.BPF.Object == "" {
		cfg = config.Default()
	}

	logger, err := c.Logger(cfg)
	if err != nil {
		return err
	}
	logger = manager.WithSessionHandler(logger)

	source, err := kernel.ParseSymbolSource(c.Symbols)
	if err != nil {
		return err
	}
	resolver, err := kernel.NewResolver(source, cfg.Symbols.KallsymsPath)
	if err != nil {
		return err
	}

	if err := ebpf.RemoveMemlock(); err != nil {
		return err
	}

	loader := ebpf.New(
		ebpf.WithLogger(logging.For(logger, logging.ComponentLoader)),
		ebpf.WithVerifierLogs(c.Verbose),
	)

	var opts []manager.Option
	if c.Stdout != nil {
		opts = append(opts, manager.WithOutput(c.Stdout))
	}
	mgr := manager.New(resolver, loader, logger, opts...)

	return mgr.Trace(ctx, c.Object, c.TraceConfig())
}
