package logging

import (
	"fmt"
	"sort"
	"strings"
)

// Spec is a base level with optional per-component overrides, written
// as "<base>[,<component>=<level>]...", e.g. "warn,attach=debug".
type Spec struct {
	BaseLevel  Level
	Components map[string]Level
}

// ParseSpec parses a log spec. The base level, if given, must come
// first. An empty string means info with no overrides.
func ParseSpec(s string) (Spec, error) {
	spec := Spec{
		BaseLevel:  LevelInfo,
		Components: make(map[string]Level),
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return spec, nil
	}

	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		component, levelStr, ok := strings.Cut(part, "=")
		if !ok {
			if i != 0 {
				return spec, fmt.Errorf("base level %q must be first in spec", part)
			}
			level, err := ParseLevel(part)
			if err != nil {
				return spec, err
			}
			spec.BaseLevel = level
			continue
		}

		component = strings.TrimSpace(component)
		if component == "" {
			return spec, fmt.Errorf("empty component name in %q", part)
		}
		level, err := ParseLevel(levelStr)
		if err != nil {
			return spec, fmt.Errorf("invalid level for component %q: %w", component, err)
		}
		spec.Components[component] = level
	}

	return spec, nil
}

// LevelFor returns the effective level for component.
func (s *Spec) LevelFor(component string) Level {
	if level, ok := s.Components[component]; ok {
		return level
	}
	return s.BaseLevel
}

// Raise lowers the threshold of each component to at most level. An
// explicit override that is already more verbose is kept.
func (s *Spec) Raise(level Level, components ...string) {
	if s.Components == nil {
		s.Components = make(map[string]Level)
	}
	for _, c := range components {
		if s.LevelFor(c) > level {
			s.Components[c] = level
		}
	}
}

// String returns the spec in parseable form, components sorted.
func (s *Spec) String() string {
	parts := []string{s.BaseLevel.String()}

	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, s.Components[name]))
	}

	return strings.Join(parts, ",")
}
