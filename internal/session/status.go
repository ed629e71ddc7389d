package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Status is a user-facing message about what the session is doing.
type Status struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Time     time.Time `json:"time"`
}

// StatusSink receives status messages. Reports are fire-and-forget:
// implementations must not block.
type StatusSink interface {
	Report(st Status)
}

// LogSink writes status messages to a logger, dropping a message that
// repeats the previous one.
type LogSink struct {
	log *logrus.Entry

	mu   sync.Mutex
	last Status
	seen bool
}

// NewLogSink returns a sink writing to log.
func NewLogSink(log *logrus.Entry) *LogSink {
	return &LogSink{log: log}
}

// Report logs st unless it repeats the previous message.
func (l *LogSink) Report(st Status) {
	l.mu.Lock()
	if l.seen && l.last.Message == st.Message && l.last.Severity == st.Severity {
		l.mu.Unlock()
		return
	}
	l.last, l.seen = st, true
	l.mu.Unlock()

	entry := l.log.WithField("severity", string(st.Severity))
	if st.Severity == SeverityError {
		entry.Warn(st.Message)
		return
	}
	entry.Info(st.Message)
}

// Recorder keeps the most recent status messages in memory.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	history []Status
}

// NewRecorder returns a recorder keeping up to limit messages. A limit below
// 1 keeps only the latest.
func NewRecorder(limit int) *Recorder {
	if limit < 1 {
		limit = 1
	}
	return &Recorder{limit: limit}
}

// Report records st, evicting the oldest message when full.
func (r *Recorder) Report(st Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == r.limit {
		copy(r.history, r.history[1:])
		r.history = r.history[:r.limit-1]
	}
	r.history = append(r.history, st)
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Status{}, false
	}
	return r.history[len(r.history)-1], true
}

// History returns the recorded messages, oldest first.
func (r *Recorder) History() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, len(r.history))
	copy(out, r.history)
	return out
}

// MultiSink fans a report out to every sink in order.
type MultiSink []StatusSink

// Report forwards st to every non-nil sink.
func (m MultiSink) Report(st Status) {
	for _, s := range m {
		if s != nil {
			s.Report(st)
		}
	}
}
