package app

import (
	"github.com/yungbote/tutormatch-backend/internal/config"
	httpx "github.com/yungbote/tutormatch-backend/internal/http"
	httpH "github.com/yungbote/tutormatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tutormatch-backend/internal/http/middleware"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type HTTPMiddleware struct {
	RateLimiter *httpMW.RateLimiter
}

type Handlers struct {
	Health         *httpH.HealthHandler
	Student        *httpH.StudentHandler
	Instructor     *httpH.InstructorHandler
	Course         *httpH.CourseHandler
	Recommendation *httpH.RecommendationHandler
}

func wireHandlers(cfg *config.Config, log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(log, clients.Graph.Ping),
		Student:        httpH.NewStudentHandler(log, services.Students),
		Instructor:     httpH.NewInstructorHandler(log, services.Instructors),
		Course:         httpH.NewCourseHandler(log, services.Courses),
		Recommendation: httpH.NewRecommendationHandler(log, services.Recommendation, cfg.Server.DefaultLimit),
	}
}

func wireMiddleware(cfg *config.Config) HTTPMiddleware {
	return HTTPMiddleware{
		RateLimiter: httpMW.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}
}

func wireServer(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics, h Handlers, mw HTTPMiddleware) *httpx.Server {
	otelName := ""
	if cfg.Observability.OtelEnabled {
		otelName = serviceName
	}
	return httpx.NewServer(httpx.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpx.RouterConfig{
		Log:                   log,
		Metrics:               metrics,
		ServiceName:           otelName,
		CORSOrigins:           cfg.Server.CORSOrigins,
		RateLimiter:           mw.RateLimiter,
		HealthHandler:         h.Health,
		StudentHandler:        h.Student,
		InstructorHandler:     h.Instructor,
		CourseHandler:         h.Course,
		RecommendationHandler: h.Recommendation,
	})
}
