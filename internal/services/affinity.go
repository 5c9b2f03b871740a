package services

import (
	"context"
	"errors"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

// PeerAffinityEstimator never fails: any graph problem yields the neutral
// affinity with Degraded set.
type PeerAffinityEstimator interface {
	Estimate(ctx context.Context, student, instructor string) scoring.Affinity
}

type peerAffinityEstimator struct {
	log       *logger.Logger
	relations graph.RelationRepo
	strategy  scoring.Strategy
	metrics   *observability.Metrics
}

func NewPeerAffinityEstimator(
	log *logger.Logger,
	relations graph.RelationRepo,
	strategy scoring.Strategy,
	metrics *observability.Metrics,
) PeerAffinityEstimator {
	return &peerAffinityEstimator{
		log:       log.With("service", "PeerAffinityEstimator"),
		relations: relations,
		strategy:  strategy,
		metrics:   metrics,
	}
}

func (e *peerAffinityEstimator) Estimate(ctx context.Context, student, instructor string) scoring.Affinity {
	gpaTol, repeatTol := e.strategy.PeerTolerances()
	out, err := e.relations.PeerOutcome(ctx, student, instructor, gpaTol, repeatTol)
	if err != nil {
		reason := "query_error"
		if errors.Is(err, apperr.ErrStoreUnavailable) {
			reason = "store_unavailable"
		}
		e.metrics.IncAffinityFallback(reason)
		e.log.Ctx(ctx).Warn("peer affinity degraded to neutral default",
			"student", student, "instructor", instructor, "reason", reason, "error", err)
		a := e.strategy.NeutralAffinity()
		a.Degraded = true
		return a
	}
	return e.strategy.Affinity(out.Peers, out.Passed)
}
