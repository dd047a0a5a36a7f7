package fxmanager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// Metrics holds the manager's counters. Every labelled series is resolved at
// construction, so the audio thread only performs atomic increments.
type Metrics struct {
	requests  prometheus.Counter
	responses [fxproto.NumRequestTypes][fxproto.NumStatuses]prometheus.Counter
	dropped   prometheus.Counter
}

// NewMetrics creates the manager counters and registers them with reg.
// A nil reg creates unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		requests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fxengine",
			Subsystem: "manager",
			Name:      "requests_total",
			Help:      "Total number of effects requests drained from the pipe",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fxengine",
			Subsystem: "manager",
			Name:      "responses_dropped_total",
			Help:      "Number of responses lost because the response pipe was full",
		}),
	}

	responses := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fxengine",
		Subsystem: "manager",
		Name:      "responses_total",
		Help:      "Responses sent to the control thread by request type and status",
	}, []string{"type", "status"})

	for t := range fxproto.NumRequestTypes {
		name := "unknown"
		if rt := fxproto.RequestType(t); rt.IsValid() {
			name = rt.String()
		}

		for s := range fxproto.NumStatuses {
			m.responses[t][s] = responses.WithLabelValues(name, fxproto.Status(s).String())
		}
	}

	return m
}

func (m *Metrics) observeRequest() {
	if m == nil {
		return
	}

	m.requests.Inc()
}

func (m *Metrics) observeResponse(resp fxproto.Response) {
	if m == nil {
		return
	}

	t := int(resp.Type)
	if !resp.Type.IsValid() {
		t = 0
	}

	s := int(resp.Status)
	if s < 0 || s >= fxproto.NumStatuses {
		return
	}

	m.responses[t][s].Inc()
}

func (m *Metrics) observeDropped() {
	if m == nil {
		return
	}

	m.dropped.Inc()
}
