//go:build e2e

package e2e

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// ObjectEnvVar names the compiled BPF object the e2e tests load.
const ObjectEnvVar = "READAHEAD_OBJECT"

// testLogger discards output unless READAHEAD_TEST_VERBOSE is set.
func testLogger() *slog.Logger {
	if os.Getenv("READAHEAD_TEST_VERBOSE") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RequireRoot fails the test if not running as root.
func RequireRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Fatal("test requires root privileges")
	}
}

// RequireBTF fails the test if kernel BTF is not available.
// BTF is required for fentry/fexit program types.
func RequireBTF(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/sys/kernel/btf/vmlinux"); os.IsNotExist(err) {
		t.Fatal("test requires kernel BTF support (/sys/kernel/btf/vmlinux)")
	}
}

// RequireObject returns the BPF object path from the environment,
// falling back to bpf/readahead.bpf.o in the source tree.
func RequireObject(t *testing.T) string {
	t.Helper()
	path := os.Getenv(ObjectEnvVar)
	if path == "" {
		path = filepath.Join("..", "bpf", "readahead.bpf.o")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("BPF object not found (build bpf/ or set %s): %v", ObjectEnvVar, err)
	}
	return path
}

// generateReadahead reads a freshly written file sequentially so the
// kernel has a reason to read ahead.
func generateReadahead(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	buf := make([]byte, 1<<20)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	for i := 0; i < 16; i++ {
		if _, err := f.Write(buf); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	_, _ = io.Copy(io.Discard, f)
}
