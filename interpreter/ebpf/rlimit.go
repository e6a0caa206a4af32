package ebpf

import (
	"github.com/cilium/ebpf/rlimit"

	"github.com/frobware/go-readahead"
)

// RemoveMemlock lifts RLIMIT_MEMLOCK on kernels that still charge BPF
// memory against it. It is a no-op on kernels using memcg accounting.
func RemoveMemlock() error {
	if err := rlimit.RemoveMemlock(); err != nil {
		return readahead.ErrResourceLimit{Err: err}
	}
	return nil
}
