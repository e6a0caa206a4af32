package manager

import (
	"errors"
	"log/slog"
)

// undoStep releases one kernel-side effect.
type undoStep struct {
	name string
	fn   func() error
}

// undoStack accumulates rollback closures that are executed in reverse
// order, either when an attach sequence fails partway through or when
// a session ends normally.
type undoStack []undoStep

// push appends a named rollback closure to the stack.
func (u *undoStack) push(name string, fn func() error) {
	*u = append(*u, undoStep{name: name, fn: fn})
}

// rollback executes all closures in reverse order, logging and
// collecting any errors. Every closure runs even if an earlier one
// fails. Returns nil if every closure succeeds.
func (u undoStack) rollback(logger *slog.Logger) error {
	var errs []error
	for i := len(u) - 1; i >= 0; i-- {
		if err := u[i].fn(); err != nil {
			logger.Error("rollback step failed", "step", u[i].name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
