package readahead

import (
	"fmt"
	"strings"
)

// ErrResourceLimit is returned when the process cannot lift the memlock
// limit the BPF loader requires.
type ErrResourceLimit struct {
	Err error
}

func (e ErrResourceLimit) Error() string {
	return fmt.Sprintf("failed to increase rlimit: %v", e.Err)
}

func (e ErrResourceLimit) Unwrap() error { return e.Err }

// ErrLoad is returned when the BPF object cannot be parsed, loaded or
// verified.
type ErrLoad struct {
	Object string
	Err    error
}

func (e ErrLoad) Error() string {
	return fmt.Sprintf("failed to open and/or load BPF object %s: %v", e.Object, e.Err)
}

func (e ErrLoad) Unwrap() error { return e.Err }

// ErrUnsupportedKernel is returned when none of the variant symbols
// exist in the running kernel.
type ErrUnsupportedKernel struct {
	Symbols []string
	Release string
}

func (e ErrUnsupportedKernel) Error() string {
	msg := fmt.Sprintf("failed to find symbol: %s, unsupported kernel version", strings.Join(e.Symbols, "/"))
	if e.Release != "" {
		msg += " " + e.Release
	}
	return msg
}

// ErrAttach is returned when an instrumentation point fails to attach.
// Points attached before it have already been detached.
type ErrAttach struct {
	Point Point
	Err   error
}

func (e ErrAttach) Error() string {
	return fmt.Sprintf("failed to attach %s: %v", e.Point.Program, e.Err)
}

func (e ErrAttach) Unwrap() error { return e.Err }

// ErrInvalidSnapshot reports a snapshot with more unused than total
// pages.
type ErrInvalidSnapshot struct {
	Unused uint32
	Total  uint32
}

func (e ErrInvalidSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot: unused %d exceeds total %d", e.Unused, e.Total)
}
