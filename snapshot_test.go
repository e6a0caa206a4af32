package readahead_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/go-readahead"
)

func TestSnapshot_LayoutMatchesKernelStruct(t *testing.T) {
	// struct hist { __u32 unused; __u32 total; __u32 slots[MAX_SLOTS]; }
	assert.Equal(t, 4+4+4*readahead.MaxSlots, binary.Size(readahead.Snapshot{}))
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name   string
		unused uint32
		total  uint32
		valid  bool
	}{
		{"empty", 0, 0, true},
		{"some unused", 37, 100, true},
		{"all unused", 100, 100, true},
		{"unused exceeds total", 101, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := readahead.Snapshot{Unused: tt.unused, Total: tt.total}
			err := s.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			var invalid readahead.ErrInvalidSnapshot
			require.True(t, errors.As(err, &invalid), "expected ErrInvalidSnapshot, got %T", err)
			assert.Equal(t, tt.unused, invalid.Unused)
			assert.Equal(t, tt.total, invalid.Total)
		})
	}
}

func TestSnapshot_HighestSlot(t *testing.T) {
	var s readahead.Snapshot
	assert.Equal(t, -1, s.HighestSlot())

	s.Slots[0] = 5
	assert.Equal(t, 0, s.HighestSlot())

	s.Slots[7] = 1
	assert.Equal(t, 7, s.HighestSlot())

	s.Slots[readahead.MaxSlots-1] = 2
	assert.Equal(t, readahead.MaxSlots-1, s.HighestSlot())
}

func TestSnapshot_Accessed(t *testing.T) {
	assert.Equal(t, uint32(63), readahead.Snapshot{Unused: 37, Total: 100}.Accessed())
	assert.Equal(t, uint32(0), readahead.Snapshot{Unused: 5, Total: 1}.Accessed())
}
