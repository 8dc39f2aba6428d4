package cvforge

import (
	"fmt"
	"io"
	"sync"
)

// Severity classifies a Notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Notice is a user-facing message.
type Notice struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier receives notices. Notify must not block for long; pipelines do
// not wait on it and ignore what it does with the notice.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NopNotifier discards every notice.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(Notice) {}

// WriterNotifier prints notices, one per line. In quiet mode only errors
// are written. Safe for concurrent use.
type WriterNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

// NewWriterNotifier returns a WriterNotifier writing to w.
func NewWriterNotifier(w io.Writer, quiet bool) *WriterNotifier {
	return &WriterNotifier{w: w, quiet: quiet}
}

// Notify writes "title: description" prefixed by the severity.
func (n *WriterNotifier) Notify(notice Notice) {
	if n.quiet && notice.Severity != SeverityError {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := map[Severity]string{
		SeverityInfo:    "..",
		SeveritySuccess: "ok",
		SeverityError:   "error",
	}[notice.Severity]

	if notice.Description == "" {
		fmt.Fprintf(n.w, "%s %s\n", prefix, notice.Title)
		return
	}
	fmt.Fprintf(n.w, "%s %s: %s\n", prefix, notice.Title, notice.Description)
}

// Compile-time interface checks.
var (
	_ Notifier = NotifierFunc(nil)
	_ Notifier = NopNotifier{}
	_ Notifier = (*WriterNotifier)(nil)
)

// notify sends to n when it is set.
func notify(n Notifier, title, description string, severity Severity) {
	if n == nil {
		return
	}
	n.Notify(Notice{Title: title, Description: description, Severity: severity})
}
