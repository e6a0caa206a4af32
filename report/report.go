// Package report renders a read-ahead snapshot as text.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frobware/go-readahead"
)

// LatencyUnit labels the histogram's value column.
const LatencyUnit = "msecs"

// Write renders snap to w: the unused/total summary line followed by
// the access-latency histogram. A snapshot that fails validation is
// logged as a warning and rendered anyway.
func Write(w io.Writer, snap readahead.Snapshot, logger *slog.Logger) error {
	if err := snap.Validate(); err != nil {
		var invalid readahead.ErrInvalidSnapshot
		if errors.As(err, &invalid) {
			logger.LogAttrs(context.Background(), slog.LevelWarn, "inconsistent snapshot",
				slog.Uint64("unused", uint64(invalid.Unused)),
				slog.Uint64("total", uint64(invalid.Total)))
		} else {
			logger.Warn("inconsistent snapshot", "error", err)
		}
	}

	if _, err := fmt.Fprintf(w, "Readahead unused/total pages: %d/%d\n", snap.Unused, snap.Total); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := WriteLog2Hist(w, snap.Slots[:], LatencyUnit); err != nil {
		return fmt.Errorf("write histogram: %w", err)
	}
	return nil
}

// WriteLog2Hist writes a power-of-two histogram. Slot i covers values
// v with floor(log2(v)) == i, slot 0 also holding zero. Rows run from
// slot 0 to the highest non-empty slot; nothing is written when every
// slot is empty.
func WriteLog2Hist(w io.Writer, vals []uint32, valType string) error {
	idxMax := -1
	var valMax uint32
	for i, v := range vals {
		if v > 0 {
			idxMax = i
		}
		valMax = max(valMax, v)
	}
	if idxMax < 0 {
		return nil
	}

	// Wide layout once the bounds outgrow 32 bits.
	padWidth, typeWidth, boundWidth, starWidth := 5, 19, 10, 40
	if idxMax > 32 {
		padWidth, typeWidth, boundWidth, starWidth = 15, 29, 20, 20
	}

	if _, err := fmt.Fprintf(w, "%*s%-*s : count    distribution\n", padWidth, "", typeWidth, valType); err != nil {
		return err
	}

	for i := 0; i <= idxMax; i++ {
		low := (uint64(1) << (i + 1)) >> 1
		high := (uint64(1) << (i + 1)) - 1
		if low == high {
			low--
		}
		if _, err := fmt.Fprintf(w, "%*d -> %-*d : %-8d |%s|\n",
			boundWidth, low, boundWidth, high, vals[i], stars(vals[i], valMax, starWidth)); err != nil {
			return err
		}
	}
	return nil
}

// stars returns a bar of width columns with val scaled against valMax.
func stars(val, valMax uint32, width int) string {
	if valMax == 0 {
		return strings.Repeat(" ", width)
	}
	n := int(uint64(min(val, valMax)) * uint64(width) / uint64(valMax))
	bar := strings.Repeat("*", n) + strings.Repeat(" ", width-n)
	if val > valMax {
		bar += "+"
	}
	return bar
}
