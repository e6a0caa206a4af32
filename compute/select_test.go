package compute_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/compute"
)

// fakeResolver answers from a fixed symbol set and records queries.
type fakeResolver struct {
	present map[string]bool
	err     error
	queries []string
}

func newFakeResolver(symbols ...string) *fakeResolver {
	r := &fakeResolver{present: make(map[string]bool)}
	for _, s := range symbols {
		r.present[s] = true
	}
	return r
}

func (r *fakeResolver) Resolve(name string) (bool, error) {
	r.queries = append(r.queries, name)
	if r.err != nil {
		return false, r.err
	}
	return r.present[name], nil
}

func TestSelectVariant(t *testing.T) {
	tests := []struct {
		name        string
		symbols     []string
		want        readahead.Variant
		wantQueries []string
	}{
		{
			name:        "current kernel",
			symbols:     []string{"do_page_cache_ra", "mark_page_accessed"},
			want:        readahead.VariantPageCacheRA,
			wantQueries: []string{"do_page_cache_ra"},
		},
		{
			name:        "legacy kernel",
			symbols:     []string{"__do_page_cache_readahead"},
			want:        readahead.VariantDoPageCacheReadahead,
			wantQueries: []string{"do_page_cache_ra", "__do_page_cache_readahead"},
		},
		{
			name:        "both present prefers current",
			symbols:     []string{"do_page_cache_ra", "__do_page_cache_readahead"},
			want:        readahead.VariantPageCacheRA,
			wantQueries: []string{"do_page_cache_ra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeResolver(tt.symbols...)
			spec, err := compute.SelectVariant(readahead.Variants, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Variant)
			assert.Equal(t, tt.wantQueries, r.queries)
		})
	}
}

func TestSelectVariant_Unsupported(t *testing.T) {
	r := newFakeResolver("mark_page_accessed")

	_, err := compute.SelectVariant(readahead.Variants, r)
	require.Error(t, err)

	var unsupported readahead.ErrUnsupportedKernel
	require.True(t, errors.As(err, &unsupported), "expected ErrUnsupportedKernel, got %T", err)
	assert.Equal(t, []string{"do_page_cache_ra", "__do_page_cache_readahead"}, unsupported.Symbols)
	assert.Len(t, r.queries, 2, "at most one query per variant")
}

func TestSelectVariant_ResolverErrorIsNotAbsence(t *testing.T) {
	cause := errors.New("permission denied")
	r := &fakeResolver{err: cause}

	_, err := compute.SelectVariant(readahead.Variants, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var unsupported readahead.ErrUnsupportedKernel
	assert.False(t, errors.As(err, &unsupported))
	assert.Len(t, r.queries, 1)
}

func TestSelectVariant_ThirdVariantIsData(t *testing.T) {
	variants := append([]readahead.VariantSpec{}, readahead.Variants...)
	variants = append(variants, readahead.VariantSpec{
		Variant: readahead.Variant(99),
		Symbol:  "page_cache_ra_order",
		Points: []readahead.Point{
			{Program: "ra_order", Target: "page_cache_ra_order", Kind: readahead.PointKindKprobe},
		},
	})

	spec, err := compute.SelectVariant(variants, newFakeResolver("page_cache_ra_order"))
	require.NoError(t, err)
	assert.Equal(t, readahead.Variant(99), spec.Variant)
	assert.Equal(t, "page_cache_alloc_ret", spec.AllPoints()[1].Program)
}
