package readahead

// MaxSlots is the number of log2 latency buckets in the kernel-side
// histogram. Must match MAX_SLOTS in bpf/readahead.h.
const MaxSlots = 20

// SnapshotVariable is the name of the global in the BPF object that
// holds the histogram.
const SnapshotVariable = "hist"

// Snapshot mirrors struct hist in bpf/readahead.h. The layout is fixed;
// do not add fields.
type Snapshot struct {
	// Unused counts read-ahead pages reclaimed without ever being accessed.
	Unused uint32
	// Total counts read-ahead pages submitted during the window.
	Total uint32
	// Slots[i] counts first-access latencies whose floor(log2(ms)) is i.
	// Slot 0 also holds a latency of zero.
	Slots [MaxSlots]uint32
}

// Validate checks the producer's invariants. Slots are unsigned, so
// only the unused/total relation can be violated.
func (s Snapshot) Validate() error {
	if s.Unused > s.Total {
		return ErrInvalidSnapshot{Unused: s.Unused, Total: s.Total}
	}
	return nil
}

// HighestSlot returns the index of the highest non-empty slot, or -1
// if every slot is zero.
func (s Snapshot) HighestSlot() int {
	for i := len(s.Slots) - 1; i >= 0; i-- {
		if s.Slots[i] > 0 {
			return i
		}
	}
	return -1
}

// Accessed returns the number of read-ahead pages that were used.
func (s Snapshot) Accessed() uint32 {
	if s.Unused > s.Total {
		return 0
	}
	return s.Total - s.Unused
}
