package manager_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/interpreter"
)

// testLogger returns a logger for tests. By default it discards all output.
// Set READAHEAD_TEST_VERBOSE=1 to enable logging.
func testLogger() *slog.Logger {
	if os.Getenv("READAHEAD_TEST_VERBOSE") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeResolver answers presence queries from a fixed symbol set and
// records what it was asked.
type fakeResolver struct {
	present map[string]bool
	err     error
	queries []string
}

func newFakeResolver(symbols ...string) *fakeResolver {
	r := &fakeResolver{present: make(map[string]bool)}
	for _, s := range symbols {
		r.present[s] = true
	}
	return r
}

func (r *fakeResolver) Resolve(name string) (bool, error) {
	r.queries = append(r.queries, name)
	if r.err != nil {
		return false, r.err
	}
	return r.present[name], nil
}

// fakeKernel records attach and detach calls in order. It implements
// interpreter.Kernel.
type fakeKernel struct {
	mu sync.Mutex

	// ops is the combined, ordered log of "attach:<prog>",
	// "detach:<prog>" and "close" entries.
	ops []string

	failAttach map[string]error
	failDetach map[string]error
	detached   map[string]int

	snapshot readahead.Snapshot
	readErr  error
	readCtx  context.Context

	nextID uint32
	closed int
}

var _ interpreter.Kernel = (*fakeKernel)(nil)

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		failAttach: make(map[string]error),
		failDetach: make(map[string]error),
		detached:   make(map[string]int),
		nextID:     100,
	}
}

func (k *fakeKernel) Attach(_ context.Context, p readahead.Point) (interpreter.Link, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err, ok := k.failAttach[p.Program]; ok {
		return nil, err
	}
	k.ops = append(k.ops, "attach:"+p.Program)
	k.nextID++
	return &fakeLink{kernel: k, program: p.Program, id: k.nextID}, nil
}

func (k *fakeKernel) ReadSnapshot(ctx context.Context) (readahead.Snapshot, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.readCtx = ctx
	k.ops = append(k.ops, "read")
	return k.snapshot, k.readErr
}

func (k *fakeKernel) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ops = append(k.ops, "close")
	k.closed++
	return nil
}

func (k *fakeKernel) Ops() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]string, len(k.ops))
	copy(out, k.ops)
	return out
}

// Live returns the programs attached and not yet detached.
func (k *fakeKernel) Live() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	var live []string
	for _, op := range k.ops {
		if prog, ok := strings.CutPrefix(op, "attach:"); ok && k.detached[prog] == 0 {
			live = append(live, prog)
		}
	}
	return live
}

type fakeLink struct {
	kernel  *fakeKernel
	program string
	id      uint32
}

func (l *fakeLink) ID() uint32 { return l.id }

func (l *fakeLink) Detach() error {
	k := l.kernel
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ops = append(k.ops, "detach:"+l.program)
	k.detached[l.program]++
	return k.failDetach[l.program]
}

// fakeLoader hands out a fakeKernel and records the variant it was
// asked to load.
type fakeLoader struct {
	kernel *fakeKernel
	err    error

	loads  int
	object string
	spec   readahead.VariantSpec
}

func (l *fakeLoader) Load(_ context.Context, objectPath string, spec readahead.VariantSpec) (interpreter.Kernel, error) {
	l.loads++
	l.object = objectPath
	l.spec = spec
	if l.err != nil {
		return nil, readahead.ErrLoad{Object: objectPath, Err: l.err}
	}
	return l.kernel, nil
}

var errInjected = errors.New("injected failure")
