package query

import (
	"fmt"

	logger "github.com/please-build/xcodegen/src/cli/logging"
)

var log = logger.Log

// A Severity classifies a message.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// A Message is one structured diagnostic event. Key is stable across releases
// so tooling can match on it; Template plus Values render the human form.
type Message struct {
	Key      string
	Template string
	Values   []interface{}
	Severity Severity
}

func (m Message) String() string {
	return fmt.Sprintf(m.Template, m.Values...)
}

// A SpanToken identifies one started profiling span.
type SpanToken int

// A Notifier receives diagnostics and profiling spans from the pipeline.
// It exists for observability only and must not alter control flow.
type Notifier interface {
	Emit(m Message)
	StartSpan(name string) SpanToken
	EndSpan(token SpanToken)
}

// LogNotifier is the default Notifier; it writes everything through the
// process logger and times spans at debug level.
type LogNotifier struct {
	spans []string
}

// NewLogNotifier returns a Notifier writing to the process logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Emit implements the Notifier interface.
func (n *LogNotifier) Emit(m Message) {
	switch m.Severity {
	case Debug:
		log.Debug("%s", m)
	case Info:
		log.Info("%s", m)
	case Warning:
		log.Warning("%s", m)
	default:
		log.Error("%s", m)
	}
}

// StartSpan implements the Notifier interface.
func (n *LogNotifier) StartSpan(name string) SpanToken {
	n.spans = append(n.spans, name)
	log.Debug("Starting %s", name)
	return SpanToken(len(n.spans) - 1)
}

// EndSpan implements the Notifier interface.
func (n *LogNotifier) EndSpan(token SpanToken) {
	if int(token) < len(n.spans) {
		log.Debug("Finished %s", n.spans[token])
	}
}
