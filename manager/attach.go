package manager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/interpreter"
	"github.com/frobware/go-readahead/logging"
)

// Handle is one attached instrumentation point.
type Handle struct {
	Point readahead.Point
	Link  interpreter.Link
}

// Session owns the handles of one trace run. Close detaches them in
// reverse creation order, exactly once.
type Session struct {
	handles []Handle
	undo    undoStack
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Handles returns the attached handles in creation order.
func (s *Session) Handles() []Handle {
	out := make([]Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Close detaches every handle, last attached first. Detach failures
// are logged; the joined error is returned for callers that want it.
// Calling Close again is a no-op returning the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.undo.rollback(s.logger)
		if s.closeErr == nil && len(s.handles) > 0 {
			s.logger.Debug("detached all points", "count", len(s.handles))
		}
	})
	return s.closeErr
}

func (s *Session) add(p readahead.Point, lnk interpreter.Link) {
	s.handles = append(s.handles, Handle{Point: p, Link: lnk})
	s.undo.push(p.Program, lnk.Detach)
}

// AttachAll attaches spec's points, then the common points, in order.
// The first failure stops the sequence: every point attached so far is
// detached in reverse and readahead.ErrAttach is returned. Detach
// failures during that rollback are logged and do not replace the
// attach error.
func (m *Manager) AttachAll(ctx context.Context, attacher interpreter.ProgramAttacher, spec readahead.VariantSpec) (*Session, error) {
	logger := logging.For(m.logger, logging.ComponentAttach)
	s := &Session{logger: logger}

	for _, p := range spec.AllPoints() {
		lnk, err := attacher.Attach(ctx, p)
		if err != nil {
			logger.DebugContext(ctx, "attach failed, rolling back",
				"point", p,
				"attached", len(s.handles),
				"error", err)
			_ = s.Close()
			return nil, readahead.ErrAttach{Point: p, Err: err}
		}
		logger.DebugContext(ctx, "attached point",
			"program", p.Program,
			"target", p.Target,
			"kind", p.Kind,
			"link_id", lnk.ID())
		s.add(p, lnk)
	}

	return s, nil
}
