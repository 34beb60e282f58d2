package noteservice

import (
	"fmt"
	"io"
	"sync"
)

// Notice levels.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Notifier shows a short transient message to the user. It is
// fire-and-forget: implementations must not block for long or fail loudly.
type Notifier interface {
	Notify(level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level, message string)

// Notify calls f(level, message).
func (f NotifierFunc) Notify(level, message string) { f(level, message) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(string, string) {})

// WriterNotifier prints notices as single lines to w.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier returns a notifier printing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes "message" for info notices and "error: message" otherwise.
func (n *WriterNotifier) Notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if level == LevelInfo {
		_, _ = fmt.Fprintln(n.w, message)
		return
	}
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", level, message)
}

// Multi fans a notice out to every notifier.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(level, message string) {
		for _, n := range notifiers {
			n.Notify(level, message)
		}
	})
}
