package services

import (
	"context"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

// RankingCache stores ranked lists per student and course filter.
type RankingCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, student, course string) ([]domain.Recommendation, bool, error)
	Set(ctx context.Context, gen int64, student, course string, recs []domain.Recommendation) error
	Invalidate(ctx context.Context) error
}

// invalidate drops cached rankings after a graph write. Failures only log;
// entries still expire with their TTL.
func invalidate(ctx context.Context, cache RankingCache, log *logger.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn("ranking cache invalidation failed", "error", err)
	}
}
