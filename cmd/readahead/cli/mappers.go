package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
)

// DurationSeconds is a trace duration given on the command line as a
// positive number of whole seconds.
type DurationSeconds time.Duration

// ParseDurationSeconds parses a positive integer number of seconds.
func ParseDurationSeconds(s string) (DurationSeconds, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be a positive number of seconds", s)
	}
	if n > int64(time.Duration(1<<63-1)/time.Second) {
		return 0, fmt.Errorf("invalid duration %q: too large", s)
	}
	return DurationSeconds(time.Duration(n) * time.Second), nil
}

// durationSecondsMapper creates a Kong mapper for DurationSeconds.
func durationSecondsMapper() kong.MapperFunc {
	return func(ctx *kong.DecodeContext, target reflect.Value) error {
		var s string
		if err := ctx.Scan.PopValueInto("seconds", &s); err != nil {
			return err
		}
		d, err := ParseDurationSeconds(s)
		if err != nil {
			return err
		}
		target.Set(reflect.ValueOf(d))
		return nil
	}
}
