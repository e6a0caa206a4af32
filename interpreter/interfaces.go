// Package interpreter defines the boundary between the tracer's
// decision logic and the kernel. Implementations in subpackages perform
// the actual I/O; tests substitute recording fakes.
package interpreter

import (
	"context"
	"io"

	"github.com/frobware/go-readahead"
)

// Link is one attached instrumentation point.
type Link interface {
	// ID returns the kernel link ID, or 0 if the kernel did not report one.
	ID() uint32
	// Detach releases the attachment.
	Detach() error
}

// ProgramAttacher attaches loaded programs to their kernel hooks.
type ProgramAttacher interface {
	Attach(ctx context.Context, point readahead.Point) (Link, error)
}

// SnapshotReader reads the histogram the kernel-side programs
// accumulate. Reading before the observation window closes returns a
// partial but well-formed snapshot.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context) (readahead.Snapshot, error)
}

// Kernel is a loaded BPF object for one variant.
type Kernel interface {
	ProgramAttacher
	SnapshotReader
	io.Closer
}

// ObjectLoader loads the BPF object, keeping only the programs the
// selected variant needs.
type ObjectLoader interface {
	Load(ctx context.Context, objectPath string, spec readahead.VariantSpec) (Kernel, error)
}
