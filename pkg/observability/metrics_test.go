package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sellwise/funnel/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnBlockEnter(ctx, &domain.BlockEvent{BlockID: "welcome", StageName: "intro"})
	hooks.OnBlockEnter(ctx, &domain.BlockEvent{BlockID: "welcome", StageName: "intro"})
	hooks.OnMessage(ctx, &domain.MessageEvent{Message: domain.Message{Type: domain.MessageBot, Text: "Hi"}})
	hooks.OnMessage(ctx, &domain.MessageEvent{Message: domain.Message{
		Type: domain.MessageSystem, Text: domain.RedirectToLiveChat,
	}})
	hooks.OnTimerResolve(ctx, &domain.TimerEvent{BlockID: "offer_1", Outcome: "bought"})

	if got := testutil.ToFloat64(m.BlockVisits.WithLabelValues("welcome", "intro")); got != 2 {
		t.Errorf("block visits = %v", got)
	}
	if got := testutil.ToFloat64(m.Messages.WithLabelValues("bot")); got != 1 {
		t.Errorf("bot messages = %v", got)
	}
	if got := testutil.ToFloat64(m.Handoffs); got != 1 {
		t.Errorf("handoffs = %v", got)
	}
	if got := testutil.ToFloat64(m.TimerResolutions.WithLabelValues("bought")); got != 1 {
		t.Errorf("timer resolutions = %v", got)
	}
}
