// Package ebpf loads and attaches the read-ahead BPF object using
// cilium/ebpf.
package ebpf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cilium/ebpf"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/interpreter"
)

// Loader implements interpreter.ObjectLoader.
type Loader struct {
	logger  *slog.Logger
	verbose bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for load and attach operations.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithVerifierLogs asks the kernel for instruction-level verifier logs
// and logs them at debug level when a program fails to load.
func WithVerifierLogs(enabled bool) Option {
	return func(l *Loader) {
		l.verbose = enabled
	}
}

// New creates a new Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ interpreter.ObjectLoader = (*Loader)(nil)

// Load parses objectPath, drops every program spec does not use and
// loads the rest into the kernel.
//
// The unselected variant's programs name a kernel function that does
// not exist on this kernel, so loading them would fail verification.
func (l *Loader) Load(ctx context.Context, objectPath string, spec readahead.VariantSpec) (interpreter.Kernel, error) {
	collSpec, err := ebpf.LoadCollectionSpec(objectPath)
	if err != nil {
		return nil, readahead.ErrLoad{Object: objectPath, Err: err}
	}

	if err := selectPrograms(collSpec, spec.AllPoints()); err != nil {
		return nil, readahead.ErrLoad{Object: objectPath, Err: err}
	}
	if _, ok := collSpec.Variables[readahead.SnapshotVariable]; !ok {
		return nil, readahead.ErrLoad{
			Object: objectPath,
			Err:    fmt.Errorf("global %q not found in object", readahead.SnapshotVariable),
		}
	}

	opts := ebpf.CollectionOptions{}
	if l.verbose {
		opts.Programs.LogLevel = ebpf.LogLevelInstruction | ebpf.LogLevelStats
	}

	coll, err := ebpf.NewCollectionWithOptions(collSpec, opts)
	if err != nil {
		var ve *ebpf.VerifierError
		if errors.As(err, &ve) {
			l.logger.DebugContext(ctx, "verifier rejected program", "log", fmt.Sprintf("%+v", ve))
		}
		return nil, readahead.ErrLoad{Object: objectPath, Err: err}
	}

	l.logger.DebugContext(ctx, "loaded BPF object",
		"object", objectPath,
		"variant", spec.Variant,
		"programs", len(coll.Programs))

	return &object{coll: coll, logger: l.logger}, nil
}

// selectPrograms removes programs not named by points and checks that
// each remaining program's type matches its point's kind. Tracing
// programs are retargeted to the point's function so the variant table,
// not the ELF section name, decides the hook.
func selectPrograms(collSpec *ebpf.CollectionSpec, points []readahead.Point) error {
	keep := make(map[string]bool, len(points))
	for _, p := range points {
		ps, ok := collSpec.Programs[p.Program]
		if !ok {
			return fmt.Errorf("program %q not found in object", p.Program)
		}
		if err := checkProgramKind(ps, p); err != nil {
			return err
		}
		if p.Kind.IsTracing() {
			ps.AttachTo = p.Target
		}
		keep[p.Program] = true
	}

	for name := range collSpec.Programs {
		if !keep[name] {
			delete(collSpec.Programs, name)
		}
	}
	return nil
}

func checkProgramKind(ps *ebpf.ProgramSpec, p readahead.Point) error {
	var ok bool
	switch p.Kind {
	case readahead.PointKindFentry:
		ok = ps.Type == ebpf.Tracing && ps.AttachType == ebpf.AttachTraceFEntry
	case readahead.PointKindFexit:
		ok = ps.Type == ebpf.Tracing && ps.AttachType == ebpf.AttachTraceFExit
	case readahead.PointKindKprobe, readahead.PointKindKretprobe:
		ok = ps.Type == ebpf.Kprobe
	default:
		return fmt.Errorf("program %q: unknown point kind %q", p.Program, p.Kind)
	}
	if !ok {
		return fmt.Errorf("program %q (section %q) cannot attach as %s", p.Program, ps.SectionName, p.Kind)
	}
	return nil
}
