// Package kernel answers questions about the running kernel: which
// internal symbols exist and which release it is.
package kernel

import "fmt"

// SymbolResolver reports whether a kernel symbol exists in the running
// kernel. An error means the question could not be answered, which is
// distinct from the symbol being absent.
type SymbolResolver interface {
	Resolve(name string) (bool, error)
}

// SymbolSource selects a SymbolResolver implementation.
type SymbolSource string

const (
	// SymbolSourceKallsyms reads /proc/kallsyms.
	SymbolSourceKallsyms SymbolSource = "kallsyms"
	// SymbolSourceBTF queries the kernel's BTF for a function of the
	// given name.
	SymbolSourceBTF SymbolSource = "btf"
)

// ParseSymbolSource parses a string into a SymbolSource.
func ParseSymbolSource(s string) (SymbolSource, error) {
	switch SymbolSource(s) {
	case SymbolSourceKallsyms, "":
		return SymbolSourceKallsyms, nil
	case SymbolSourceBTF:
		return SymbolSourceBTF, nil
	default:
		return "", fmt.Errorf("unknown symbol source %q (want kallsyms or btf)", s)
	}
}

// NewResolver returns the resolver for source. kallsymsPath is only
// used by the kallsyms source.
func NewResolver(source SymbolSource, kallsymsPath string) (SymbolResolver, error) {
	switch source {
	case SymbolSourceKallsyms, "":
		return NewKallsyms(kallsymsPath), nil
	case SymbolSourceBTF:
		return NewBTF(), nil
	default:
		return nil, fmt.Errorf("unknown symbol source %q", source)
	}
}
