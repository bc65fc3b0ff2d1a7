package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sellwise/funnel/pkg/domain"
)

// Metrics holds the Prometheus collectors for one engine.
type Metrics struct {
	BlockVisits      *prometheus.CounterVec
	Messages         *prometheus.CounterVec
	TimerResolutions *prometheus.CounterVec
	Handoffs         prometheus.Counter
}

// NewMetrics creates and registers the funnel collectors. Pass
// prometheus.DefaultRegisterer for the common case, or a private registry
// in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BlockVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_block_visits_total",
				Help: "Total number of block visits",
			},
			[]string{"block_id", "stage"},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_messages_total",
				Help: "Total transcript entries produced, by author type",
			},
			[]string{"type"},
		),
		TimerResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_timer_resolutions_total",
				Help: "Offer timer resolutions, by outcome",
			},
			[]string{"outcome"},
		),
		Handoffs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "funnel_live_handoffs_total",
				Help: "Conversations handed off to live chat",
			},
		),
	}
	reg.MustRegister(m.BlockVisits, m.Messages, m.TimerResolutions, m.Handoffs)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Compose them with
// your own hooks if you also want logging.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBlockEnter: func(_ context.Context, e *domain.BlockEvent) {
			m.BlockVisits.WithLabelValues(e.BlockID, e.StageName).Inc()
		},
		OnMessage: func(_ context.Context, e *domain.MessageEvent) {
			m.Messages.WithLabelValues(string(e.Message.Type)).Inc()
			if e.Message.IsLiveChatHandoff() {
				m.Handoffs.Inc()
			}
		},
		OnTimerResolve: func(_ context.Context, e *domain.TimerEvent) {
			m.TimerResolutions.WithLabelValues(e.Outcome).Inc()
		},
	}
}
