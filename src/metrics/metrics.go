// Package metrics contains support for reporting generation metrics to an
// external server, currently a Prometheus pushgateway. Because the generator
// runs as a transient process we can't wait around for Prometheus to call
// us, we've got to push to them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	logger "github.com/please-build/xcodegen/src/cli/logging"
	"github.com/please-build/xcodegen/src/query"
)

var log = logger.Log

// maxErrors is the number of push failures after which we stop trying.
const maxErrors = 3

type metrics struct {
	url            string
	errors         int
	registry       *prometheus.Registry
	phaseHistogram *prometheus.HistogramVec
	warningCounter *prometheus.CounterVec
}

// m is the singleton metrics instance; nil until InitFromConfig.
var m *metrics

// InitFromConfig sets up metrics from the configuration. Without a push
// gateway URL everything in this package stays a no-op.
func InitFromConfig(url string) {
	if url == "" {
		return
	}
	registry := prometheus.NewRegistry()
	m = &metrics{
		url:      url,
		registry: registry,
		phaseHistogram: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xcodegen_phase_duration_seconds",
			Help:    "Time taken by each generation phase",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"phase"}),
		warningCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xcodegen_warnings_total",
			Help: "Warnings emitted during generation",
		}, []string{"key"}),
	}
	registry.MustRegister(m.phaseHistogram, m.warningCounter)
}

// Push sends accumulated metrics to the gateway, if one is configured.
func Push() {
	if m == nil || m.errors >= maxErrors {
		return
	}
	if err := push.New(m.url, "xcodegen").Gatherer(m.registry).Push(); err != nil {
		m.errors++
		log.Warning("Can't push metrics: %s", err)
	}
}

func observePhase(phase string, duration time.Duration) {
	if m != nil {
		m.phaseHistogram.WithLabelValues(phase).Observe(duration.Seconds())
	}
}

func countWarning(key string) {
	if m != nil {
		m.warningCounter.WithLabelValues(key).Inc()
	}
}

// A Notifier logs pipeline diagnostics and records span timings.
// It satisfies the query.Notifier interface.
type Notifier struct {
	delegate *query.LogNotifier
	spans    []span
}

type span struct {
	name  string
	start time.Time
}

// NewNotifier returns a Notifier writing through the process logger.
func NewNotifier() *Notifier {
	return &Notifier{delegate: query.NewLogNotifier()}
}

// Emit implements the query.Notifier interface.
func (n *Notifier) Emit(msg query.Message) {
	if msg.Severity >= query.Warning {
		countWarning(msg.Key)
	}
	n.delegate.Emit(msg)
}

// StartSpan implements the query.Notifier interface.
func (n *Notifier) StartSpan(name string) query.SpanToken {
	n.spans = append(n.spans, span{name: name, start: time.Now()})
	return query.SpanToken(len(n.spans) - 1)
}

// EndSpan implements the query.Notifier interface.
func (n *Notifier) EndSpan(token query.SpanToken) {
	if int(token) >= len(n.spans) {
		return
	}
	s := n.spans[token]
	duration := time.Since(s.start)
	observePhase(s.name, duration)
	log.Debug("%s took %s", s.name, duration)
}
