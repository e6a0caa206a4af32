package ebpf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/interpreter"
)

// object is a loaded collection. It implements interpreter.Kernel.
type object struct {
	coll   *ebpf.Collection
	logger *slog.Logger
}

// Attach attaches the program named by point. fentry/fexit programs
// carry their target from load time; kprobes take it from the point.
func (o *object) Attach(ctx context.Context, point readahead.Point) (interpreter.Link, error) {
	prog, ok := o.coll.Programs[point.Program]
	if !ok {
		return nil, fmt.Errorf("program %q not loaded", point.Program)
	}

	var (
		lnk link.Link
		err error
	)
	switch point.Kind {
	case readahead.PointKindFentry, readahead.PointKindFexit:
		lnk, err = link.AttachTracing(link.TracingOptions{
			Program: prog,
		})
	case readahead.PointKindKprobe:
		lnk, err = link.Kprobe(point.Target, prog, nil)
	case readahead.PointKindKretprobe:
		lnk, err = link.Kretprobe(point.Target, prog, nil)
	default:
		return nil, fmt.Errorf("unknown point kind %q", point.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("attach %s to %s: %w", point.Kind, point.Target, err)
	}

	// The link ID is only used for diagnostics; older kernels cannot
	// report it.
	var id uint32
	if info, err := lnk.Info(); err == nil {
		id = uint32(info.ID)
	} else {
		o.logger.DebugContext(ctx, "link info unavailable", "program", point.Program, "error", err)
	}

	return &attachedLink{lnk: lnk, id: id}, nil
}

// ReadSnapshot copies the hist global out of the object's .bss.
func (o *object) ReadSnapshot(ctx context.Context) (readahead.Snapshot, error) {
	v, ok := o.coll.Variables[readahead.SnapshotVariable]
	if !ok {
		return readahead.Snapshot{}, fmt.Errorf("global %q not found", readahead.SnapshotVariable)
	}

	var s readahead.Snapshot
	if err := v.Get(&s); err != nil {
		return readahead.Snapshot{}, fmt.Errorf("read %s: %w", readahead.SnapshotVariable, err)
	}
	return s, nil
}

// Close releases the collection. Links must be detached first.
func (o *object) Close() error {
	o.coll.Close()
	return nil
}

// attachedLink implements interpreter.Link.
type attachedLink struct {
	lnk link.Link
	id  uint32
}

func (l *attachedLink) ID() uint32 { return l.id }

func (l *attachedLink) Detach() error {
	return l.lnk.Close()
}
