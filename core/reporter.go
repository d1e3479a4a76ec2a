package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// maxMessages bounds the retained message history.
const maxMessages = 64

// Reporter is the sink for human-readable failure descriptions. Every
// message goes to the display writer (the on-screen error box stand-in) and
// to the diagnostic log. Reporting never halts execution; deciding whether a
// failure is fatal is up to the caller.
//
// Only the last maxMessages distinct messages are kept. A message equal to
// the previous one is counted but neither displayed nor logged again.
type Reporter struct {
	mu       sync.Mutex
	display  io.Writer
	log      *slog.Logger
	messages []string
	total    int
	repeats  int
	seen     map[*Error]struct{}
}

// NewReporter creates a reporter. A nil display discards display output, a
// nil logger uses slog.Default().
func NewReporter(display io.Writer, logger *slog.Logger) *Reporter {
	if display == nil {
		display = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		display: display,
		log:     logger,
		seen:    make(map[*Error]struct{}),
	}
}

// Attach adds a display writer, e.g. a window created after the reporter.
func (r *Reporter) Attach(display io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display = io.MultiWriter(r.display, display)
}

// Report records err. A classified error that was already reported is
// ignored, so it can travel up the Setup chain without being shown twice.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := KindOf(err)
	// Draw errors are raised per frame and never travel up a call chain,
	// so only the other kinds are remembered for de-duplication.
	var classified *Error
	if errors.As(err, &classified) && classified.Kind.Fatal() {
		if _, ok := r.seen[classified]; ok {
			return
		}
		r.seen[classified] = struct{}{}
	}

	r.total++
	msg := err.Error()
	if n := len(r.messages); n > 0 && r.messages[n-1] == msg {
		r.repeats++
		return
	}
	if r.repeats > 0 {
		r.log.Warn("render error repeated", "error", r.messages[len(r.messages)-1], "times", r.repeats)
		r.repeats = 0
	}
	if len(r.messages) == maxMessages {
		copy(r.messages, r.messages[1:])
		r.messages = r.messages[:maxMessages-1]
	}
	r.messages = append(r.messages, msg)
	fmt.Fprintln(r.display, msg)

	if kind != 0 && !kind.Fatal() {
		r.log.Warn("render error", "kind", kind.String(), "error", msg)
		return
	}
	r.log.Error("render error", "kind", kind.String(), "error", msg)
}

// Reportf records a plain formatted message.
func (r *Reporter) Reportf(format string, args ...any) {
	r.Report(fmt.Errorf(format, args...))
}

// Reported reports whether err carries a classified error that already went
// through Report.
func (r *Reporter) Reported(err error) bool {
	var classified *Error
	if !errors.As(err, &classified) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[classified]
	return ok
}

// Messages returns a copy of the retained messages, oldest first. Repeats
// of the same message are collapsed into one entry.
func (r *Reporter) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Count returns the number of reports accepted, repeats included.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
