package readahead

// Variant identifies one of the mutually exclusive sets of
// instrumentation points. Exactly one is selected per run.
type Variant int

const (
	// VariantPageCacheRA hooks do_page_cache_ra, the name used since
	// v5.10-rc1 (commit 8238287).
	VariantPageCacheRA Variant = iota + 1
	// VariantDoPageCacheReadahead hooks __do_page_cache_readahead on
	// older kernels.
	VariantDoPageCacheReadahead
)

// String returns the string representation of the variant.
func (v Variant) String() string {
	switch v {
	case VariantPageCacheRA:
		return "do_page_cache_ra"
	case VariantDoPageCacheReadahead:
		return "__do_page_cache_readahead"
	default:
		return "unknown"
	}
}

// VariantSpec maps a variant to the kernel symbol that must exist for
// it to be usable and to its ordered entry/return points.
type VariantSpec struct {
	Variant Variant
	Symbol  string
	Points  []Point
}

// AllPoints returns the variant's own points followed by
// CommonPoints, in attach order.
func (s VariantSpec) AllPoints() []Point {
	points := make([]Point, 0, len(s.Points)+len(CommonPoints))
	points = append(points, s.Points...)
	return append(points, CommonPoints...)
}

// Variants is probed in order; the first entry whose symbol is present
// in the running kernel wins.
var Variants = []VariantSpec{
	{
		Variant: VariantPageCacheRA,
		Symbol:  "do_page_cache_ra",
		Points: []Point{
			{Program: "do_page_cache_ra", Target: "do_page_cache_ra", Kind: PointKindFentry},
			{Program: "do_page_cache_ra_ret", Target: "do_page_cache_ra", Kind: PointKindFexit},
		},
	},
	{
		Variant: VariantDoPageCacheReadahead,
		Symbol:  "__do_page_cache_readahead",
		Points: []Point{
			{Program: "do_page_cache_readahead", Target: "__do_page_cache_readahead", Kind: PointKindFentry},
			{Program: "do_page_cache_readahead_ret", Target: "__do_page_cache_readahead", Kind: PointKindFexit},
		},
	},
}

// CommonPoints are attached after the variant's points regardless of
// which variant was selected.
var CommonPoints = []Point{
	{Program: "page_cache_alloc_ret", Target: "__page_cache_alloc", Kind: PointKindFexit},
	{Program: "mark_page_accessed", Target: "mark_page_accessed", Kind: PointKindFentry},
}

// Symbols returns the probe symbol of every variant, in probe order.
func Symbols() []string {
	names := make([]string, 0, len(Variants))
	for _, v := range Variants {
		names = append(names, v.Symbol)
	}
	return names
}
