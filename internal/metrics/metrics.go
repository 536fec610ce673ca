// Package metrics records scheduler activity as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduler's Prometheus collectors. It satisfies
// session.Recorder.
type Metrics struct {
	SessionPasses   prometheus.Counter
	PromptsVisited  *prometheus.CounterVec
	ShallowSearches *prometheus.CounterVec
	FrameChunks     prometheus.Gauge
	MasteryChanges  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionPasses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "zhongchar_session_passes_total",
				Help: "Completed passes over a learning frame",
			},
		),
		PromptsVisited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zhongchar_prompts_visited_total",
				Help: "Prompts read during frame passes, by understanding level",
			},
			[]string{"level"},
		),
		ShallowSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zhongchar_shallow_searches_total",
				Help: "Next-prompt selections, by result",
			},
			[]string{"result"},
		),
		FrameChunks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "zhongchar_frame_chunks",
				Help: "Number of chunks the current overall frame splits into",
			},
		),
		MasteryChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zhongchar_mastery_changes_total",
				Help: "Understanding changes, by trigger",
			},
			[]string{"trigger"},
		),
	}
}

// ObservePass records one completed frame pass.
func (m *Metrics) ObservePass(dontKnow, know, instantRecall int) {
	m.SessionPasses.Inc()
	m.PromptsVisited.WithLabelValues("dontknow").Add(float64(dontKnow))
	m.PromptsVisited.WithLabelValues("know").Add(float64(know))
	m.PromptsVisited.WithLabelValues("instant-recall").Add(float64(instantRecall))
}

// ObserveSearch records the outcome of one next-prompt selection.
func (m *Metrics) ObserveSearch(result string) {
	m.ShallowSearches.WithLabelValues(result).Inc()
}

// SetFrameChunks records the chunk count of the overall frame.
func (m *Metrics) SetFrameChunks(n int) {
	m.FrameChunks.Set(float64(n))
}

// ObserveMasteryChange records one understanding change.
func (m *Metrics) ObserveMasteryChange(trigger string) {
	m.MasteryChanges.WithLabelValues(trigger).Inc()
}

// WriteFile writes every metric gathered by g to path in the Prometheus
// text format, for pickup by a node exporter textfile collector.
func WriteFile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
