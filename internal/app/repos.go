package app

import (
	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/data/repos"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type Repos struct {
	Students    graph.StudentRepo
	Instructors graph.InstructorRepo
	Courses     graph.CourseRepo
	Relations   graph.RelationRepo
	// Nil when Postgres is not configured.
	Runs repos.RecommendationRunRepo
}

func wireRepos(clients Clients, log *logger.Logger, metrics *observability.Metrics) Repos {
	log.Info("Wiring repos...")
	quality := observability.NewDataQualityReporter(log, metrics)
	out := Repos{
		Students:    graph.NewStudentRepo(clients.Graph, quality, log),
		Instructors: graph.NewInstructorRepo(clients.Graph, quality, log),
		Courses:     graph.NewCourseRepo(clients.Graph, log),
		Relations:   graph.NewRelationRepo(clients.Graph, quality, log),
	}
	if clients.Postgres != nil {
		out.Runs = repos.NewRecommendationRunRepo(clients.Postgres.DB(), log)
	}
	return out
}
