package compute

import (
	"fmt"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/kernel"
)

// SelectVariant returns the first entry of variants whose symbol the
// resolver reports present. Kernel internals get renamed across
// releases, so only one of the names exists in any running kernel and
// the table order encodes preference.
//
// Returns readahead.ErrUnsupportedKernel when no symbol is present. A
// resolver error stops the walk and is returned as is; it is never
// read as absence.
func SelectVariant(variants []readahead.VariantSpec, r kernel.SymbolResolver) (readahead.VariantSpec, error) {
	symbols := make([]string, 0, len(variants))
	for _, v := range variants {
		ok, err := r.Resolve(v.Symbol)
		if err != nil {
			return readahead.VariantSpec{}, fmt.Errorf("resolve %s: %w", v.Symbol, err)
		}
		if ok {
			return v, nil
		}
		symbols = append(symbols, v.Symbol)
	}
	return readahead.VariantSpec{}, readahead.ErrUnsupportedKernel{Symbols: symbols}
}
