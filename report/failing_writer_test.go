package report_test

import "errors"

var errWriteFailed = errors.New("write failed")

// failingWriter accepts limit bytes and then fails every write.
type failingWriter struct {
	limit   int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		return 0, errWriteFailed
	}
	w.written += len(p)
	return len(p), nil
}
