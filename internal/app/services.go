package app

import (
	"github.com/yungbote/tutormatch-backend/internal/config"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
	"github.com/yungbote/tutormatch-backend/internal/services"
)

type Services struct {
	Strategy       scoring.Strategy
	Affinity       services.PeerAffinityEstimator
	Students       services.StudentService
	Instructors    services.InstructorService
	Courses        services.CourseService
	Recommendation services.RecommendationService
}

func wireServices(cfg *config.Config, log *logger.Logger, clients Clients, r Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	// A nil *cache.RankingCache must not become a non-nil interface.
	var rankCache services.RankingCache
	if clients.Cache != nil {
		rankCache = clients.Cache
	}

	strategy := scoring.NewWeighted(cfg.Scoring)
	affinity := services.NewPeerAffinityEstimator(log, r.Relations, strategy, metrics)

	return Services{
		Strategy:    strategy,
		Affinity:    affinity,
		Students:    services.NewStudentService(log, r.Students, strategy, rankCache),
		Instructors: services.NewInstructorService(log, r.Instructors, r.Relations, strategy, rankCache),
		Courses:     services.NewCourseService(log, r.Courses, rankCache),
		Recommendation: services.NewRecommendationService(log, services.RecommendationDeps{
			Students:  r.Students,
			Courses:   r.Courses,
			Relations: r.Relations,
			Affinity:  affinity,
			Strategy:  strategy,
			Cache:     rankCache,
			Runs:      r.Runs,
			Metrics:   metrics,
			Tracer:    observability.Tracer(),
		}),
	}
}
