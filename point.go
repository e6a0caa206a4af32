package readahead

import "fmt"

// PointKind is the kind of kernel hook a point attaches to.
type PointKind string

const (
	PointKindFentry    PointKind = "fentry"
	PointKindFexit     PointKind = "fexit"
	PointKindKprobe    PointKind = "kprobe"
	PointKindKretprobe PointKind = "kretprobe"
)

// ParsePointKind parses a string into a PointKind.
// Returns the PointKind and true if valid, or empty string and false if invalid.
func ParsePointKind(s string) (PointKind, bool) {
	switch s {
	case "fentry":
		return PointKindFentry, true
	case "fexit":
		return PointKindFexit, true
	case "kprobe":
		return PointKindKprobe, true
	case "kretprobe":
		return PointKindKretprobe, true
	default:
		return "", false
	}
}

// IsTracing reports whether the kind is a BTF-based trampoline
// (fentry/fexit) rather than a kprobe.
func (k PointKind) IsTracing() bool {
	return k == PointKindFentry || k == PointKindFexit
}

// Point describes one instrumentation point: the program in the BPF
// object and the kernel function it hooks.
type Point struct {
	// Program is the program name in the BPF object.
	Program string
	// Target is the kernel function the program attaches to.
	Target string
	// Kind selects the attach mechanism.
	Kind PointKind
}

// String returns "kind:target (program)".
func (p Point) String() string {
	return fmt.Sprintf("%s:%s (%s)", p.Kind, p.Target, p.Program)
}
