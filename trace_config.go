// Package readahead holds the domain types shared by the read-ahead
// tracer: the variant table, instrumentation points, the kernel
// histogram snapshot and the typed errors.
package readahead

import (
	"fmt"
	"time"
)

// TraceConfig is fixed for the lifetime of a run.
type TraceConfig struct {
	// Duration bounds the observation window. Zero means trace until
	// cancelled.
	Duration time.Duration
	// Verbose enables loader and attach diagnostics.
	Verbose bool
}

// Validate rejects negative or sub-second durations.
func (c TraceConfig) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("invalid duration: %s", c.Duration)
	}
	if c.Duration%time.Second != 0 {
		return fmt.Errorf("invalid duration: %s is not a whole number of seconds", c.Duration)
	}
	return nil
}
