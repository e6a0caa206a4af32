package kernel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// DefaultKallsymsPath is the kernel symbol table exposed by procfs.
const DefaultKallsymsPath = "/proc/kallsyms"

// Kallsyms resolves symbols against a kallsyms-format file. The file is
// read once, on the first Resolve.
type Kallsyms struct {
	path string

	once    sync.Once
	symbols map[string]struct{}
	err     error
}

// NewKallsyms returns a resolver reading path. An empty path means
// DefaultKallsymsPath.
func NewKallsyms(path string) *Kallsyms {
	if path == "" {
		path = DefaultKallsymsPath
	}
	return &Kallsyms{path: path}
}

// Resolve reports whether name is present in the symbol table.
func (k *Kallsyms) Resolve(name string) (bool, error) {
	k.once.Do(func() {
		k.symbols, k.err = k.load()
	})
	if k.err != nil {
		return false, k.err
	}
	_, ok := k.symbols[name]
	return ok, nil
}

func (k *Kallsyms) load() (map[string]struct{}, error) {
	f, err := os.Open(k.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load kallsyms: %w", err)
	}
	defer f.Close()

	symbols, err := ParseKallsyms(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", k.path, err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no kernel symbols found in %s", k.path)
	}
	return symbols, nil
}

// ParseKallsyms reads "address type name [module]" lines and returns
// the set of names. Malformed lines are skipped. Module symbols are
// keyed by bare name.
func ParseKallsyms(r io.Reader) (map[string]struct{}, error) {
	symbols := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		symbols[fields[2]] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return symbols, nil
}
