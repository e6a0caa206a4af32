package logging

import "log/slog"

// Components used by the tracer. Each maps to one stage of a run.
const (
	ComponentSelect = "select"
	ComponentLoader = "loader"
	ComponentAttach = "attach"
	ComponentWindow = "window"
	ComponentReport = "report"
)

// componentKey is the attribute key the filtering handler inspects.
const componentKey = "component"

// VerboseComponents are raised to debug by --verbose.
var VerboseComponents = []string{ComponentLoader, ComponentAttach}

// For returns logger scoped to component.
func For(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(componentKey, component)
}
