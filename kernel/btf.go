package kernel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cilium/ebpf/btf"
)

// BTF resolves symbols by looking up a function of the same name in the
// running kernel's BTF. fentry/fexit can only attach to functions that
// have BTF, so this is the stricter of the two sources.
type BTF struct {
	load func() (*btf.Spec, error)

	once sync.Once
	spec *btf.Spec
	err  error
}

// NewBTF returns a resolver backed by btf.LoadKernelSpec.
func NewBTF() *BTF {
	return &BTF{load: btf.LoadKernelSpec}
}

// Resolve reports whether the kernel BTF contains a function named name.
func (b *BTF) Resolve(name string) (bool, error) {
	b.once.Do(func() {
		b.spec, b.err = b.load()
	})
	if b.err != nil {
		return false, fmt.Errorf("load kernel BTF: %w", b.err)
	}

	var fn *btf.Func
	err := b.spec.TypeByName(name, &fn)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, btf.ErrNotFound):
		return false, nil
	case errors.Is(err, btf.ErrMultipleMatches):
		return true, nil
	default:
		return false, fmt.Errorf("lookup %s in kernel BTF: %w", name, err)
	}
}
