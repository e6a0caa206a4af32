// Package manager runs a read-ahead trace: it selects the variant for
// the running kernel, loads and attaches the BPF programs, waits out
// the observation window and reports the snapshot.
//
// # Teardown
//
// Every point attached during a run is registered on an undo stack as
// it is created. A failed attach unwinds the stack immediately; a
// completed run unwinds it when Trace returns. Either way each point
// is detached once, in reverse order, and the BPF collection is closed
// only after all of its links are gone.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/compute"
	"github.com/frobware/go-readahead/interpreter"
	"github.com/frobware/go-readahead/kernel"
	"github.com/frobware/go-readahead/logging"
	"github.com/frobware/go-readahead/report"
	"github.com/frobware/go-readahead/window"
)

// Banner is printed once all points are attached.
const Banner = "Tracing fs read-ahead ... Hit Ctrl-C to end."

// Manager orchestrates a trace run.
type Manager struct {
	resolver kernel.SymbolResolver
	loader   interpreter.ObjectLoader
	variants []readahead.VariantSpec
	clock    clock.Clock
	out      io.Writer
	logger   *slog.Logger
	release  func() (string, error)
	newID    func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock the observation window runs on.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) {
		m.clock = clk
	}
}

// WithOutput sets where the banner and report are written.
func WithOutput(w io.Writer) Option {
	return func(m *Manager) {
		m.out = w
	}
}

// WithVariants replaces the variant table.
func WithVariants(variants []readahead.VariantSpec) Option {
	return func(m *Manager) {
		m.variants = variants
	}
}

// WithRelease sets the function reporting the kernel release in
// unsupported-kernel errors.
func WithRelease(fn func() (string, error)) Option {
	return func(m *Manager) {
		m.release = fn
	}
}

// New creates a new Manager.
func New(resolver kernel.SymbolResolver, loader interpreter.ObjectLoader, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		resolver: resolver,
		loader:   loader,
		variants: readahead.Variants,
		clock:    clock.New(),
		out:      os.Stdout,
		logger:   WithSessionHandler(logger),
		release:  kernel.Release,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Select picks the variant for the running kernel. An unsupported
// kernel error carries the kernel release when it can be read.
func (m *Manager) Select(ctx context.Context) (readahead.VariantSpec, error) {
	logger := logging.For(m.logger, logging.ComponentSelect)

	spec, err := compute.SelectVariant(m.variants, m.resolver)
	if err != nil {
		var unsupported readahead.ErrUnsupportedKernel
		if errors.As(err, &unsupported) {
			if rel, relErr := m.release(); relErr == nil {
				unsupported.Release = rel
			} else {
				logger.DebugContext(ctx, "kernel release unavailable", "error", relErr)
			}
			return readahead.VariantSpec{}, unsupported
		}
		return readahead.VariantSpec{}, err
	}

	logger.DebugContext(ctx, "selected variant",
		"variant", spec.Variant,
		"symbol", spec.Symbol,
		"points", len(spec.AllPoints()))
	return spec, nil
}

// Trace runs one session against the BPF object at objectPath. It
// returns once the window closes (cfg.Duration elapsed or ctx
// cancelled) and the report is written. Cancellation during the
// window is a normal end of the run, not an error.
func (m *Manager) Trace(ctx context.Context, objectPath string, cfg readahead.TraceConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx = ContextWithSession(ctx, m.newID())
	m.logger.DebugContext(ctx, "starting trace",
		"object", objectPath,
		"duration", cfg.Duration,
		"verbose", cfg.Verbose)

	spec, err := m.Select(ctx)
	if err != nil {
		return err
	}

	k, err := m.loader.Load(ctx, objectPath, spec)
	if err != nil {
		return err
	}
	defer func() {
		if err := k.Close(); err != nil {
			logging.For(m.logger, logging.ComponentLoader).ErrorContext(ctx, "close BPF object", "error", err)
		}
	}()

	sess, err := m.AttachAll(ctx, k, spec)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := fmt.Fprintln(m.out, Banner); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}

	res := window.Wait(ctx, m.clock, cfg.Duration)
	logging.For(m.logger, logging.ComponentWindow).DebugContext(ctx, "window closed",
		"elapsed", res.Elapsed,
		"cancelled", res.Cancelled)

	if _, err := fmt.Fprintln(m.out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// The window may have ended because ctx was cancelled; the
	// snapshot must still be read.
	snap, err := k.ReadSnapshot(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	return report.Write(m.out, snap, logging.For(m.logger, logging.ComponentReport))
}
