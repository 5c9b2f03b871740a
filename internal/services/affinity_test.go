package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

func TestPeerAffinityEstimate(t *testing.T) {
	g := newMemGraph()
	g.outcomes["full"] = graph.PeerOutcome{Peers: 15, Passed: 12}
	g.outcomes["few"] = graph.PeerOutcome{Peers: 3, Passed: 3}
	g.outcomeErr["broken"] = errors.New("syntax error")
	m := observability.NewMetrics()
	est := NewPeerAffinityEstimator(logger.Nop(), relationRepo{g}, testStrategy(t), m)
	ctx := context.Background()

	a := est.Estimate(ctx, "ana", "full")
	require.InDelta(t, 0.8, a.Ratio, 1e-9)
	require.Equal(t, 1.0, a.Confidence)
	require.False(t, a.Degraded)

	a = est.Estimate(ctx, "ana", "few")
	require.Equal(t, 1.0, a.Ratio)
	require.InDelta(t, 0.2, a.Confidence, 1e-9)

	a = est.Estimate(ctx, "ana", "nobody")
	require.Equal(t, 0.5, a.Ratio)
	require.Equal(t, 0.0, a.Confidence)
	require.False(t, a.Degraded)

	a = est.Estimate(ctx, "ana", "broken")
	require.True(t, a.Degraded)
	require.Equal(t, 0.5, a.Ratio)

	require.Equal(t, 1.0, counterWithLabel(t, m, "query_error"))
}

// counterWithLabel reads a single fallback series back out of the registry.
func counterWithLabel(t *testing.T, m *observability.Metrics, reason string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "tutormatch_affinity_fallbacks_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "reason" && lp.GetValue() == reason {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
