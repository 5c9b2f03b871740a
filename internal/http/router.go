package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/tutormatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tutormatch-backend/internal/http/middleware"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	RateLimiter *httpMW.RateLimiter

	StudentHandler        *httpH.StudentHandler
	InstructorHandler     *httpH.InstructorHandler
	CourseHandler         *httpH.CourseHandler
	RecommendationHandler *httpH.RecommendationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(httpMW.RateLimit(cfg.RateLimiter, cfg.Metrics))
	{
		// Students
		if cfg.StudentHandler != nil {
			api.POST("/students", cfg.StudentHandler.Create)
			api.GET("/students", cfg.StudentHandler.List)
			api.GET("/students/:name", cfg.StudentHandler.Get)
			api.PATCH("/students/:name", cfg.StudentHandler.Update)
			api.DELETE("/students/:name", cfg.StudentHandler.Delete)
			api.GET("/students/:name/similar", cfg.StudentHandler.Similar)
		}

		// Instructors
		if cfg.InstructorHandler != nil {
			api.POST("/instructors", cfg.InstructorHandler.Create)
			api.GET("/instructors", cfg.InstructorHandler.List)
			api.GET("/instructors/:name", cfg.InstructorHandler.Get)
			api.PATCH("/instructors/:name", cfg.InstructorHandler.Update)
			api.DELETE("/instructors/:name", cfg.InstructorHandler.Delete)
			api.GET("/instructors/:name/courses", cfg.InstructorHandler.Courses)
			api.PUT("/instructors/:name/courses/:code", cfg.InstructorHandler.AssignCourse)
			api.DELETE("/instructors/:name/courses/:code", cfg.InstructorHandler.UnassignCourse)
		}

		// Courses
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.Create)
			api.GET("/courses", cfg.CourseHandler.List)
			api.GET("/courses/:code", cfg.CourseHandler.Get)
			api.PATCH("/courses/:code", cfg.CourseHandler.Update)
			api.DELETE("/courses/:code", cfg.CourseHandler.Delete)
		}

		// Recommendations
		if cfg.RecommendationHandler != nil {
			api.GET("/recommendations/:student", cfg.RecommendationHandler.Recommend)
			api.GET("/recommendations/:student/history", cfg.RecommendationHandler.History)
			api.POST("/passes", cfg.RecommendationHandler.RecordPass)
		}
	}

	return r
}
